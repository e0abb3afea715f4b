package repl

import (
	"slices"
	"strings"
	"testing"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{"no call", "greeting", 8, "", 0, false},
		{"open paren", "size(", 5, "size", 0, true},
		{"first arg", "size(xs", 7, "size", 0, true},
		{"closed call", "size(xs)", 8, "", 0, false},
		{"nested inner", "println(size(", 13, "size", 0, true},
		{"nested after inner closes", "println(size(x) + ", 18, "println", 0, true},
		{"comma in map literal", "println([a: 1, b: ", 18, "println", 0, true},
		{"comma at call level", "f(1, ", 5, "f", 1, true},
		{"paren in text ignored", `read("(x, `, 10, "read", 0, true},
		{"escaped quote in text", `read("\")`, 9, "read", 0, true},
		{"grouping paren", "x = (1 + ", 9, "", 0, false},
		{"member call name", "a.b(", 4, "a.b", 0, true},
		{"cursor mid input", "size(xs) + keys(m)", 3, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)

			if got.inCall != tt.wantInCall {
				t.Fatalf("inCall = %v, want %v (%+v)", got.inCall, tt.wantInCall, got)
			}

			if !got.inCall {
				return
			}

			if got.name != tt.wantName || got.argIndex != tt.wantIndex {
				t.Errorf("got (%q, %d), want (%q, %d)",
					got.name, got.argIndex, tt.wantName, tt.wantIndex)
			}
		})
	}
}

func TestSignature(t *testing.T) {
	for name := range builtins {
		sig, params := signature(name)
		if !strings.HasPrefix(sig, name+"(") || len(params) != 1 {
			t.Errorf("signature(%q) = (%q, %v)", name, sig, params)
		}
	}

	if sig, params := signature("keys"); sig != "keys(map)" || !slices.Equal(params, []string{"map"}) {
		t.Errorf("signature(keys) = (%q, %v)", sig, params)
	}

	if sig, _ := signature("nope"); sig != "" {
		t.Errorf("signature(nope) = %q, want empty", sig)
	}
}

func TestRenderSignatureHint(t *testing.T) {
	got := renderSignatureHint("size", []string{"value"}, 0)

	for _, part := range []string{"size", "(", "value", ")"} {
		if !strings.Contains(got, part) {
			t.Errorf("hint %q missing %q", got, part)
		}
	}
}
