package caption

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"unicode"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"exact segmentation", "A. B! C, D", []string{"A.", "B!", "C,", "D"}},
		{"two sentences", "Hello world. Goodbye!", []string{"Hello world.", "Goodbye!"}},
		{"empty", "", nil},
		{"whitespace only", "   \t\n ", nil},
		{"no delimiters", "just one unit", []string{"just one unit"}},
		{"trailing whitespace", "Done.   ", []string{"Done."}},
		{"consecutive delimiters", "Wait... What?!", []string{"Wait.", ".", ".", "What?", "!"}},
		{"delimiter without space", "A.B", []string{"A.", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitUnitsNeverEmpty(t *testing.T) {
	inputs := []string{
		"A. B! C, D",
		"...",
		"  ,  ,  ",
		"one! two? three, four.",
		"tail text with no delimiter",
	}
	for _, in := range inputs {
		for i, unit := range Split(in) {
			if strings.TrimSpace(unit) == "" {
				t.Errorf("Split(%q) unit %d is empty or whitespace-only", in, i)
			}
		}
	}
}

// Splitting then rejoining must reconstruct the original text up to
// whitespace differences.
func TestSplitRejoin(t *testing.T) {
	inputs := []string{
		"A Man Who is Master in Patience, is Master in Everything. Here is another sentence! What about this one?",
		"A. B! C, D",
		"  leading and trailing  ",
		"crammed.together,like!this?",
	}
	for _, in := range inputs {
		rejoined := stripSpace(strings.Join(Split(in), " "))
		original := stripSpace(in)
		if rejoined != original {
			t.Errorf("rejoined %q != original %q (input %q)", rejoined, original, in)
		}
	}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func TestAllocate(t *testing.T) {
	units := Allocate([]string{"Hello world.", "Goodbye!"}, 10)
	if len(units) != 2 {
		t.Fatalf("got %d units, want 2", len(units))
	}
	for i, u := range units {
		if u.Index != i {
			t.Errorf("unit %d has index %d", i, u.Index)
		}
		if u.Duration != 5.0 {
			t.Errorf("unit %d duration = %v, want 5.0", i, u.Duration)
		}
	}
}

func TestAllocateSumsToTotal(t *testing.T) {
	tests := []struct {
		n     int
		total float64
	}{
		{1, 15}, {3, 10}, {7, 12.5}, {24, 1},
	}
	for _, tt := range tests {
		sentences := make([]string, tt.n)
		for i := range sentences {
			sentences[i] = "s."
		}
		units := Allocate(sentences, tt.total)

		var sum float64
		for _, u := range units {
			if u.Duration != tt.total/float64(tt.n) {
				t.Errorf("n=%d: duration %v, want %v", tt.n, u.Duration, tt.total/float64(tt.n))
			}
			sum += u.Duration
		}
		if math.Abs(sum-tt.total) > 1e-9 {
			t.Errorf("n=%d: durations sum to %v, want %v", tt.n, sum, tt.total)
		}
	}
}

func TestAllocateEmpty(t *testing.T) {
	if units := Allocate(nil, 10); units != nil {
		t.Errorf("Allocate(nil) = %v, want nil", units)
	}
	if units := Allocate([]string{}, 10); units != nil {
		t.Errorf("Allocate(empty) = %v, want nil", units)
	}
}
