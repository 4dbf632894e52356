package stdlib_test

import (
	"errors"
	"testing"

	"github.com/lifers/kalkucilik/pkg/decimal"
	"github.com/lifers/kalkucilik/pkg/stdlib"
)

func TestDefaultOrder(t *testing.T) {
	r := stdlib.Default()

	var fns []string
	for _, fn := range r.Functions() {
		fns = append(fns, fn.Name)
	}
	want := []string{"sqrt", "cbrt", "ln", "sin", "cos", "tan", "abs"}
	if len(fns) != len(want) {
		t.Fatalf("Functions() = %v, want %v", fns, want)
	}
	for i := range want {
		if fns[i] != want[i] {
			t.Errorf("function %d = %q, want %q", i, fns[i], want[i])
		}
	}

	consts := r.Constants()
	if len(consts) != 2 || consts[0].Name != "pi" || consts[1].Name != "e" {
		t.Errorf("Constants() = %v, want [pi e]", consts)
	}
}

func TestDefaultIsShared(t *testing.T) {
	if stdlib.Default() != stdlib.Default() {
		t.Error("Default() should return the same registry")
	}
}

func TestKeywords(t *testing.T) {
	kw := stdlib.Default().Keywords()
	if len(kw) != 10 || kw[0] != "let" {
		t.Errorf("Keywords() = %v", kw)
	}
}

func TestExecute(t *testing.T) {
	r := stdlib.Default()
	tests := []struct {
		fn   string
		in   string
		want string
	}{
		{"sqrt", "16", "4"},
		{"abs", "-2.5", "2.5"},
		{"sin", "0", "0"},
		{"cos", "0", "1"},
		{"tan", "0", "0"},
	}
	for _, tt := range tests {
		fn := r.Get(tt.fn)
		if fn == nil {
			t.Fatalf("missing function %q", tt.fn)
		}
		got, err := fn.Execute(decimal.MustParse(tt.in))
		if err != nil {
			t.Errorf("%s(%s): unexpected error %v", tt.fn, tt.in, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("%s(%s) = %s, want %s", tt.fn, tt.in, got, tt.want)
		}
	}
}

func TestExecuteDomain(t *testing.T) {
	r := stdlib.Default()
	for _, tc := range []struct{ fn, in string }{{"sqrt", "-1"}, {"ln", "0"}, {"ln", "-3"}} {
		_, err := r.Get(tc.fn).Execute(decimal.MustParse(tc.in))
		if !errors.Is(err, decimal.ErrDomain) {
			t.Errorf("%s(%s) error = %v, want ErrDomain", tc.fn, tc.in, err)
		}
	}
}

func TestRegisterReplaceKeepsPosition(t *testing.T) {
	r := stdlib.NewRegistry()
	r.Register(stdlib.Fn{Name: "a", Execute: func(x decimal.Decimal) (decimal.Decimal, error) { return x, nil }})
	r.Register(stdlib.Fn{Name: "b", Execute: func(x decimal.Decimal) (decimal.Decimal, error) { return x, nil }})
	r.Register(stdlib.Fn{Name: "a", Doc: "replaced", Execute: func(x decimal.Decimal) (decimal.Decimal, error) { return x.Neg(), nil }})

	fns := r.Functions()
	if len(fns) != 2 || fns[0].Name != "a" || fns[0].Doc != "replaced" {
		t.Errorf("Functions() = %+v", fns)
	}
	if r.Get("missing") != nil || r.Constant("missing") != nil {
		t.Error("lookup of missing names should return nil")
	}
}
