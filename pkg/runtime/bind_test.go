package runtime

import (
	"testing"

	"github.com/lifers/kalkucilik/pkg/diagnostics"
	"github.com/lifers/kalkucilik/pkg/env"
)

func TestBindDiag(t *testing.T) {
	e := env.New()
	tests := []struct {
		name, value string
		code        string
	}{
		{"x1", "1", diagnostics.EName},
		{"my_var", "1", diagnostics.EName},
		{"x", "one", diagnostics.EMalformedLiteral},
	}
	for _, tt := range tests {
		err := e.Set(tt.name, tt.value)
		if err == nil {
			t.Fatalf("Set(%q, %q) succeeded", tt.name, tt.value)
		}
		if d := bindDiag(err); d.Code != tt.code {
			t.Errorf("bindDiag(%v).Code = %s, want %s", err, d.Code, tt.code)
		}
	}
}
