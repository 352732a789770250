// Package caption segments raw text into caption units and divides a clip's
// total duration evenly across them.
package caption

import "strings"

// Unit is one segmented clause of the input text, displayed as a block of
// on-screen text for its allocated time slice.
type Unit struct {
	Text     string
	Index    int
	Duration float64 // seconds
}

// Split breaks text into caption units. A unit ends immediately after any of
// '.', '!', '?' or ','; the delimiter stays with the preceding unit.
// Surrounding whitespace is stripped and whitespace-only segments are
// dropped, so consecutive delimiters or trailing spaces never produce empty
// units. Empty input yields an empty slice.
func Split(text string) []string {
	var units []string
	var cur strings.Builder

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			units = append(units, s)
		}
		cur.Reset()
	}

	for _, r := range strings.TrimSpace(text) {
		cur.WriteRune(r)
		switch r {
		case '.', '!', '?', ',':
			flush()
		}
	}
	flush()

	return units
}

// Allocate assigns each sentence an equal share of total seconds, preserving
// order. An empty sentence list yields an empty slice; the caller is expected
// to treat that as "no clips to produce" rather than an error.
func Allocate(sentences []string, total float64) []Unit {
	if len(sentences) == 0 {
		return nil
	}

	per := total / float64(len(sentences))
	units := make([]Unit, len(sentences))
	for i, s := range sentences {
		units[i] = Unit{Text: s, Index: i, Duration: per}
	}
	return units
}
