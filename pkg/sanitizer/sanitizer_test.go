package sanitizer

import (
	"reflect"
	"testing"
)

func TestSanitizeTitle(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  Planning session  ", "Planning session"},
		{"collapses runs", "Planning    session", "Planning session"},
		{"preserves case", "Q3 Budget REVIEW", "Q3 Budget REVIEW"},
		{"newlines become spaces", "line one\nline two", "line one line two"},
		{"strips control characters", "title\x00with\x07noise", "titlewithnoise"},
		{"tabs become spaces", "a\tb", "a b"},
		{"empty stays empty", "", ""},
		{"whitespace only collapses to empty", "   \n\t ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeTitle(tc.input); got != tc.want {
				t.Errorf("SanitizeTitle(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSanitizeLabel(t *testing.T) {
	if got := SanitizeLabel("  WhiteBoard "); got != "whiteboard" {
		t.Errorf("expected lowercased label, got %q", got)
	}
}

func TestSanitizeSlice(t *testing.T) {
	got := SanitizeSlice([]string{"TV", "tv", "", "  ", "Projector", "projector"}, SanitizeLabel)
	want := []string{"tv", "projector"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SanitizeSlice = %v, want %v", got, want)
	}
}

func TestPipelineOrder(t *testing.T) {
	upper := func(s string) string { return s + "!" }
	double := func(s string) string { return s + s }

	p := Pipeline{upper, double}
	if got := p.Apply("a"); got != "a!a!" {
		t.Errorf("pipeline must apply strategies in order, got %q", got)
	}
}
