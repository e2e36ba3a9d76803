package version

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "1.20.3", "1.20.3"},
		{"wildcard", "*", "*"},
		{"empty is wildcard", "", "*"},
		{"plus separators", "1.20.2+forge+0.1", "1.20.2-0.1"},
		{"underscore separators", "1.20.3_forge_0.3.5a", "1.20.3-0.3.5.1"},
		{"loader name dropped", "1.20.3-neoforge-0.3.5c", "1.20.3-0.3.5.3"},
		{"trailing letter folds to ordinal", "1.20.4-neoforge-1.0.0a", "1.20.4-1.0.0.1"},
		{"alpha qualifier", "1.0-alpha", "1.0-0"},
		{"beta qualifier", "1.0-beta2", "1.0-1.2"},
		{"rc qualifier", "1.0-rc1", "1.0-2.1"},
		{"snapshot qualifier", "1.0-SNAPSHOT", "1.0-2"},
		{"release qualifier", "1.0-release", "1.0-3"},
		{"pre-release qualifier", "1.0-pre-release", "1.0-2"},
		{"commit hash dropped", "1.2.3-a94f2e1", "1.2.3"},
		{"letter run before dot dropped", "1.2.mc.3", "1.2.3"},
		{"colon separator", "1.0:2", "1.0-2"},
		{"case folded", "1.0-RC1", "1.0-2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if got := v.String(); got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"text only", "forge"},
		{"commit ref only", "a94f2e1"},
		{"qualifier-free letters", "neoforge"},
		{"punctuation", "???"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) expected error", tt.input)
			}
			if !errors.Is(err, ErrBadVersion) {
				t.Errorf("Parse(%q) error = %v, want ErrBadVersion", tt.input, err)
			}
		})
	}
}

func TestParsePure(t *testing.T) {
	inputs := []string{"1.20.3", "1.0-rc1", "1.20.2+forge+0.1", "*"}

	for _, input := range inputs {
		a := MustParse(input)
		b := MustParse(input)
		if !a.Equal(b) {
			t.Errorf("Parse(%q) twice: versions not equal", input)
		}
		if a.Less(b) || b.Less(a) {
			t.Errorf("Parse(%q) twice: one compares lesser", input)
		}
	}
}

func TestPartString(t *testing.T) {
	p := Part{Components: []int{1, 20, 3}}
	if got := p.String(); got != "1.20.3" {
		t.Errorf("Part.String() = %q, want 1.20.3", got)
	}
}
