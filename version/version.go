// Package version parses and compares mod version strings.
//
// Mod versions do not follow SemVer. A version is one or more dash-separated
// parts, each part an ordered run of numeric components, produced by
// normalizing the raw string: textual qualifiers (alpha, beta, rc, ...) fold
// to digits, stray letters fold to their alphabet position, and candidates
// that look like commit hashes or pure qualifiers are discarded.
//
// Example:
//
//	v, err := version.Parse("1.20.3-neoforge-0.3.5c")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(v) // 1.20.3-0.3.5.3
package version

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrBadVersion indicates a version or range string that cannot be parsed.
var ErrBadVersion = errors.New("bad version string")

// qualifier replacements, applied in this exact order. "pre-release" must be
// rewritten before "pre" and "release" get their turn. Each qualifier folds
// to its digit plus a component separator, so "rc1" orders as 2.1 below
// "release" (3) rather than fusing into 21; a trailing separator is dropped
// when the parts split.
var qualifiers = []struct {
	text  string
	digit string
}{
	{"alpha", "0."},
	{"beta", "1."},
	{"pre-release", "2."},
	{"pre", "2."},
	{"rc", "2."},
	{"snapshot", "2."},
	{"release", "3."},
}

// separators treated as equivalent to '-'.
var separators = []string{"+", "_", ":"}

var (
	// textOnlyPattern matches candidates with a letter body and no usable
	// numeric component: qualifiers, loader names, commit refs.
	textOnlyPattern = regexp.MustCompile(`^[0-9]*[a-z]+[0-9a-z]*$`)

	// alnumPattern matches candidates that can be cleaned into components.
	alnumPattern = regexp.MustCompile(`^[a-z0-9.]+$`)

	// letterRunPattern matches letter runs immediately followed by a dot,
	// e.g. the "abc." in "1.2.abc.3".
	letterRunPattern = regexp.MustCompile(`[a-z]+\.+`)

	// digitLetterPattern captures a letter directly following a digit.
	digitLetterPattern = regexp.MustCompile(`[0-9]([a-z])`)

	letterPattern = regexp.MustCompile(`[a-z]`)
)

// Part is one dash-separated segment of a version: an ordered sequence of
// non-negative integers. Comparison is component-wise with implicit
// zero-padding, so [1,2] and [1,2,0] are equal.
type Part struct {
	Components []int
}

// Compare returns -1, 0, or 1 if p is less than, equal to, or greater
// than other.
func (p Part) Compare(other Part) int {
	n := len(p.Components)
	if len(other.Components) > n {
		n = len(other.Components)
	}
	for i := 0; i < n; i++ {
		a, b := 0, 0
		if i < len(p.Components) {
			a = p.Components[i]
		}
		if i < len(other.Components) {
			b = other.Components[i]
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
	}
	return 0
}

// String returns the dot-joined component form.
func (p Part) String() string {
	strs := make([]string, len(p.Components))
	for i, c := range p.Components {
		strs[i] = strconv.Itoa(c)
	}
	return strings.Join(strs, ".")
}

// Version is a parsed mod version: either the wildcard "*" or one or more
// Parts. Versions are immutable once parsed.
type Version struct {
	// Wildcard is true for the "*" version, which matches everything and
	// compares equal to zero.
	Wildcard bool

	Parts []Part
}

// Wild returns the wildcard version.
func Wild() *Version {
	return &Version{Wildcard: true}
}

// Parse normalizes a raw version string into a Version.
//
// An empty string or "*" yields the wildcard version. If no usable part
// survives normalization, Parse fails with ErrBadVersion.
func Parse(raw string) (*Version, error) {
	if raw == "" || raw == "*" {
		return Wild(), nil
	}

	text := strings.ToLower(raw)
	for _, q := range qualifiers {
		text = strings.ReplaceAll(text, q.text, q.digit)
	}
	for _, sep := range separators {
		text = strings.ReplaceAll(text, sep, "-")
	}

	var parts []Part
	for _, candidate := range strings.Split(text, "-") {
		if candidate == "" {
			continue
		}
		if textOnlyPattern.MatchString(candidate) {
			continue
		}
		if !alnumPattern.MatchString(candidate) {
			continue
		}

		candidate = cleanCandidate(candidate)

		var components []int
		ok := true
		for _, field := range strings.Split(candidate, ".") {
			if field == "" {
				continue
			}
			n, err := strconv.Atoi(field)
			if err != nil {
				ok = false
				break
			}
			components = append(components, n)
		}
		if ok {
			parts = append(parts, Part{Components: components})
		}
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: no usable parts in %q", ErrBadVersion, raw)
	}
	return &Version{Parts: parts}, nil
}

// MustParse parses a version string and panics on error.
// Use this only when you know the version string is valid.
func MustParse(raw string) *Version {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// cleanCandidate folds leftover letters in an alphanumeric candidate into
// numeric components: letter runs before a dot are dropped, a letter
// following a digit becomes ".<alphabet position>", and any remaining letter
// becomes its alphabet position in place.
func cleanCandidate(candidate string) string {
	candidate = letterRunPattern.ReplaceAllString(candidate, "")

	for _, m := range digitLetterPattern.FindAllStringSubmatch(candidate, -1) {
		letter := m[1]
		ord := int(letter[0]-'a') + 1
		candidate = strings.ReplaceAll(candidate, letter, "."+strconv.Itoa(ord))
	}
	for _, letter := range letterPattern.FindAllString(candidate, -1) {
		ord := int(letter[0]-'a') + 1
		candidate = strings.ReplaceAll(candidate, letter, strconv.Itoa(ord))
	}
	return candidate
}

var zeroPart = Part{Components: []int{0}}

// Compare returns -1, 0, or 1 if v is less than, equal to, or greater
// than other. Parts are compared pairwise by position; a missing part on
// the shorter side compares as [0]. Equality means neither side is less.
func (v *Version) Compare(other *Version) int {
	n := len(v.Parts)
	if len(other.Parts) > n {
		n = len(other.Parts)
	}
	for i := 0; i < n; i++ {
		a, b := zeroPart, zeroPart
		if i < len(v.Parts) {
			a = v.Parts[i]
		}
		if i < len(other.Parts) {
			b = other.Parts[i]
		}
		if c := a.Compare(b); c != 0 {
			return c
		}
	}
	return 0
}

// Equal reports whether v and other compare equal.
func (v *Version) Equal(other *Version) bool { return v.Compare(other) == 0 }

// Less reports whether v compares strictly less than other.
func (v *Version) Less(other *Version) bool { return v.Compare(other) < 0 }

// LessOrEqual reports whether v compares less than or equal to other.
func (v *Version) LessOrEqual(other *Version) bool { return v.Compare(other) <= 0 }

// Greater reports whether v compares strictly greater than other.
func (v *Version) Greater(other *Version) bool { return v.Compare(other) > 0 }

// GreaterOrEqual reports whether v compares greater than or equal to other.
func (v *Version) GreaterOrEqual(other *Version) bool { return v.Compare(other) >= 0 }

// String returns the normalized form: parts joined with '-', or "*".
func (v *Version) String() string {
	if v.Wildcard {
		return "*"
	}
	strs := make([]string, len(v.Parts))
	for i, p := range v.Parts {
		strs[i] = p.String()
	}
	return strings.Join(strs, "-")
}
