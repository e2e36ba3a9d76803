package version

import (
	"fmt"
	"regexp"
	"strings"
)

// Bound is one end of a Range: a version plus an inclusivity flag.
// A wildcard version means the range is unbounded on that side.
type Bound struct {
	Version   *Version
	Inclusive bool
}

// Range represents a range of acceptable versions.
//
// Syntax:
//
//	[1.0,2.0]   - 1.0 ≤ x ≤ 2.0 (inclusive)
//	(1.0,2.0)   - 1.0 < x < 2.0 (exclusive)
//	[1.0,2.0)   - 1.0 ≤ x < 2.0 (mixed)
//	[1.0,)      - x ≥ 1.0 (open upper)
//	(,2.0]      - x ≤ 2.0 (open lower)
//	1.0         - exactly 1.0
//	*           - any version
//
// A dependency constraint may carry several bracket expressions in one
// string; they parse to multiple Ranges combined with OR semantics.
type Range struct {
	Lower Bound
	Upper Bound
}

var (
	bareTokenPattern = regexp.MustCompile(`^[a-zA-Z0-9+:_.-]+$`)
	bracketPattern   = regexp.MustCompile(`[\[(][^\])]*[\])]`)
)

// Any returns the range that contains every version.
func Any() Range {
	return Range{
		Lower: Bound{Version: Wild(), Inclusive: true},
		Upper: Bound{Version: Wild(), Inclusive: true},
	}
}

// ParseRanges parses a version-constraint string into one or more Ranges.
//
// "*", "," and the empty string mean unbounded. A bare version token is an
// exact-match range. Otherwise every bracket expression in the string yields
// one Range; a missing bound inside a bracket means unbounded on that side.
// Input with no bracket expression fails with ErrBadVersion.
func ParseRanges(raw string) ([]Range, error) {
	if raw == "" || raw == "*" || raw == "," {
		return []Range{Any()}, nil
	}

	if bareTokenPattern.MatchString(raw) {
		v, err := Parse(raw)
		if err != nil {
			return nil, err
		}
		b := Bound{Version: v, Inclusive: true}
		return []Range{{Lower: b, Upper: b}}, nil
	}

	var ranges []Range
	for _, expr := range bracketPattern.FindAllString(raw, -1) {
		lowerInclusive := expr[0] == '['
		upperInclusive := expr[len(expr)-1] == ']'

		inner := expr[1 : len(expr)-1]
		parts := strings.SplitN(inner, ",", 2)
		lowerTok := strings.TrimSpace(parts[0])
		upperTok := lowerTok
		if len(parts) == 2 {
			upperTok = strings.TrimSpace(parts[1])
		}

		lower, err := Parse(lowerTok)
		if err != nil {
			return nil, fmt.Errorf("lower bound of %q: %w", expr, err)
		}
		upper, err := Parse(upperTok)
		if err != nil {
			return nil, fmt.Errorf("upper bound of %q: %w", expr, err)
		}

		ranges = append(ranges, Range{
			Lower: Bound{Version: lower, Inclusive: lowerInclusive},
			Upper: Bound{Version: upper, Inclusive: upperInclusive},
		})
	}

	if len(ranges) == 0 {
		return nil, fmt.Errorf("%w: no range expression in %q", ErrBadVersion, raw)
	}
	return ranges, nil
}

// MustParseRanges parses a range string and panics on error.
// Use this only when you know the range string is valid.
func MustParseRanges(raw string) []Range {
	ranges, err := ParseRanges(raw)
	if err != nil {
		panic(err)
	}
	return ranges
}

// Contains reports whether v satisfies both bounds of the range.
// A wildcard bound is always satisfied.
func (r Range) Contains(v *Version) bool {
	if !r.Lower.Version.Wildcard {
		if r.Lower.Inclusive {
			if !r.Lower.Version.LessOrEqual(v) {
				return false
			}
		} else if !r.Lower.Version.Less(v) {
			return false
		}
	}

	if !r.Upper.Version.Wildcard {
		if r.Upper.Inclusive {
			if !r.Upper.Version.GreaterOrEqual(v) {
				return false
			}
		} else if !r.Upper.Version.Greater(v) {
			return false
		}
	}

	return true
}

// AnyContains reports whether v is contained in at least one of the ranges.
func AnyContains(ranges []Range, v *Version) bool {
	for _, r := range ranges {
		if r.Contains(v) {
			return true
		}
	}
	return false
}

// String returns the bracket form of the range, or "*" when unbounded on
// both sides.
func (r Range) String() string {
	if r.Lower.Version.Wildcard && r.Upper.Version.Wildcard {
		return "*"
	}

	open, closed := "(", ")"
	if r.Lower.Inclusive {
		open = "["
	}
	if r.Upper.Inclusive {
		closed = "]"
	}
	return fmt.Sprintf("%s%s,%s%s", open, r.Lower.Version, r.Upper.Version, closed)
}

// FormatRanges joins multiple ranges for display.
func FormatRanges(ranges []Range) string {
	strs := make([]string, len(ranges))
	for i, r := range ranges {
		strs[i] = r.String()
	}
	return strings.Join(strs, ",")
}
