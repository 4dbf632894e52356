package help

import (
	"strings"
	"testing"

	"github.com/lifers/kalkucilik/pkg/decimal"
)

func TestQUICKREFNonEmpty(t *testing.T) {
	if len(QUICKREF) == 0 {
		t.Fatal("QUICKREF is empty")
	}
}

func TestQUICKREFContainsVersion(t *testing.T) {
	if !strings.Contains(QUICKREF, "v"+Version) {
		t.Errorf("QUICKREF does not contain version string v%s", Version)
	}
}

func TestQUICKREFListsTopics(t *testing.T) {
	for _, topic := range TopicList {
		if !strings.Contains(QUICKREF, topic) {
			t.Errorf("QUICKREF does not mention topic %q", topic)
		}
	}
}

func TestTopicListMatchesTopics(t *testing.T) {
	for _, name := range TopicList {
		if _, ok := Topics[name]; !ok {
			t.Errorf("TopicList entry %q not in Topics map", name)
		}
	}
	if len(Topics) != len(TopicList) {
		t.Errorf("expected %d topics, got %d", len(TopicList), len(Topics))
	}
}

func TestTopicsNonEmpty(t *testing.T) {
	for name, content := range Topics {
		if len(content) == 0 {
			t.Errorf("topic %q has empty content", name)
		}
	}
}

func TestAbout(t *testing.T) {
	for _, want := range []string{Name, Version, Codename} {
		if !strings.Contains(About, want) {
			t.Errorf("About missing %q", want)
		}
	}
}

func TestMatchTopicExact(t *testing.T) {
	name, content, err := MatchTopic("operators")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "operators" {
		t.Errorf("expected name 'operators', got %q", name)
	}
	if content == "" {
		t.Error("expected non-empty content")
	}
}

func TestMatchTopicPrefix(t *testing.T) {
	name, _, err := MatchTopic("diag")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "diagnostics" {
		t.Errorf("expected 'diagnostics', got %q", name)
	}
}

func TestMatchTopicCaseAndSpace(t *testing.T) {
	name, _, err := MatchTopic("  Func ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "functions" {
		t.Errorf("expected 'functions', got %q", name)
	}
}

func TestMatchTopicAmbiguous(t *testing.T) {
	_, _, err := MatchTopic("co")
	if err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("expected ambiguity error, got %v", err)
	}
}

func TestMatchTopicUnknown(t *testing.T) {
	for _, q := range []string{"nonexistent", ""} {
		if _, _, err := MatchTopic(q); err == nil {
			t.Errorf("expected error for %q", q)
		}
	}
}

func TestFunctionIndex(t *testing.T) {
	idx := FunctionIndex()
	if !strings.Contains(idx, "Total: 7 functions") {
		t.Errorf("FunctionIndex should report 7 functions, got:\n%s", idx)
	}
	for _, fn := range []string{"sqrt(x)", "cbrt(x)", "ln(x)", "sin(x)", "cos(x)", "tan(x)", "abs(x)"} {
		if !strings.Contains(idx, fn) {
			t.Errorf("FunctionIndex missing %s", fn)
		}
	}
}

func TestConstantsShowFullPrecision(t *testing.T) {
	c := Topics["constants"]
	for _, v := range []decimal.Decimal{decimal.Pi, decimal.E} {
		if !strings.Contains(c, v.String()) {
			t.Errorf("constants topic missing %s", v)
		}
	}
}

func TestMatchTopicAllExact(t *testing.T) {
	for _, topic := range TopicList {
		name, content, err := MatchTopic(topic)
		if err != nil {
			t.Errorf("MatchTopic(%q) error: %v", topic, err)
			continue
		}
		if name != topic {
			t.Errorf("MatchTopic(%q) returned name %q", topic, name)
		}
		if content == "" {
			t.Errorf("MatchTopic(%q) returned empty content", topic)
		}
	}
}

func TestVariablesListsReservedWords(t *testing.T) {
	v := Topics["variables"]
	if !strings.Contains(v, "Reserved words: let, pi, e, sqrt, cbrt, ln, sin, cos, tan, abs.") {
		t.Errorf("variables topic missing reserved words:\n%s", v)
	}
}

func TestMatchTopicBuiltin(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"sqrt", "sqrt(x)  square root"},
		{"COS", "cos(x)  cosine"},
		{"pi", "= " + decimal.Pi.String()},
		{"e", "base of the natural logarithm"},
	}
	for _, tt := range tests {
		name, content, err := MatchTopic(tt.query)
		if err != nil {
			t.Errorf("MatchTopic(%q) error: %v", tt.query, err)
			continue
		}
		if name != strings.ToLower(tt.query) || !strings.Contains(content, tt.want) {
			t.Errorf("MatchTopic(%q) = %q, %q; want content containing %q", tt.query, name, content, tt.want)
		}
	}
}
