package version

import (
	"errors"
	"testing"
)

func TestParseRanges(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		count   int
		wantErr bool
	}{
		{"inclusive both", "[1.0,2.0]", 1, false},
		{"exclusive both", "(1.0,2.0)", 1, false},
		{"mixed", "[1.0,2.0)", 1, false},
		{"open upper", "[1.0,)", 1, false},
		{"open lower", "(,2.0]", 1, false},
		{"single bound", "[1.0]", 1, false},
		{"wildcard", "*", 1, false},
		{"empty", "", 1, false},
		{"bare comma", ",", 1, false},
		{"bare version", "1.0.0", 1, false},
		{"multiple brackets", "[1.0,2.0],[3.0,4.0]", 2, false},
		{"unclosed bracket", "<<1.0;2.0>>", 0, true},
		{"bare garbage token", "!!!", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranges, err := ParseRanges(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRanges(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrBadVersion) {
					t.Errorf("ParseRanges(%q) error = %v, want ErrBadVersion", tt.input, err)
				}
				return
			}
			if len(ranges) != tt.count {
				t.Errorf("ParseRanges(%q) = %d ranges, want %d", tt.input, len(ranges), tt.count)
			}
		})
	}
}

func TestRangeContains(t *testing.T) {
	tests := []struct {
		name     string
		rng      string
		version  string
		expected bool
	}{
		{"inclusive lower edge", "[1.0,2.0]", "1.0", true},
		{"inclusive upper edge", "[1.0,2.0]", "2.0", true},
		{"exclusive lower edge", "(1.0,2.0)", "1.0", false},
		{"exclusive upper edge", "(1.0,2.0)", "2.0", false},
		{"inside inclusive", "[1.0,2.0]", "1.5", true},
		{"inside exclusive", "(1.0,2.0)", "1.5", true},
		{"below", "[1.0,2.0]", "0.9", false},
		{"above", "[1.0,2.0]", "2.1", false},
		{"open upper", "[1.0,)", "999.0", true},
		{"open lower", "(,2.0]", "0.0.1", true},
		{"exact match range", "1.5", "1.5", true},
		{"exact match range miss", "1.5", "1.6", false},
		{"zero padded edge", "[1.2.0,2.0]", "1.2", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranges := MustParseRanges(tt.rng)
			v := MustParse(tt.version)
			if got := AnyContains(ranges, v); got != tt.expected {
				t.Errorf("%s contains %s = %v, want %v", tt.rng, tt.version, got, tt.expected)
			}
		})
	}
}

func TestWildcardRangeContainsEverything(t *testing.T) {
	ranges := MustParseRanges("*")

	for _, raw := range []string{"0.0.1", "1.0", "1.0-alpha", "999.999.999", "1.20.3-neoforge-0.3.5c"} {
		if !AnyContains(ranges, MustParse(raw)) {
			t.Errorf("wildcard range should contain %s", raw)
		}
	}
}

func TestMultipleRangesOrSemantics(t *testing.T) {
	ranges := MustParseRanges("[1.0,1.5],[2.0,2.5]")

	tests := []struct {
		version  string
		expected bool
	}{
		{"1.2", true},
		{"2.2", true},
		{"1.7", false},
		{"3.0", false},
	}

	for _, tt := range tests {
		if got := AnyContains(ranges, MustParse(tt.version)); got != tt.expected {
			t.Errorf("contains %s = %v, want %v", tt.version, got, tt.expected)
		}
	}
}

func TestRangeString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"[1.0,2.0]", "[1.0,2.0]"},
		{"(1.0,2.0)", "(1.0,2.0)"},
		{"*", "*"},
		{"[1.0,)", "[1.0,*)"},
	}

	for _, tt := range tests {
		ranges := MustParseRanges(tt.input)
		if got := ranges[0].String(); got != tt.want {
			t.Errorf("ParseRanges(%q).String() = %q, want %q", tt.input, got, tt.want)
		}
	}
}
