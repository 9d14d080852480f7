package textutil

import "testing"

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"  Maya Chen  ":    "maya-chen",
		"___":              "",
		"INT. KITCHEN (2)": "int-kitchen-2",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := Slug(in); got != want {
				t.Fatalf("Slug(%q) = %q, want %q", in, got, want)
			}
		})
	}
}

func TestFirstSentence(t *testing.T) {
	got := FirstSentence("A dim kitchen. Rain drums on the window.")
	if got != "A dim kitchen." {
		t.Fatalf("unexpected first sentence: %q", got)
	}
	if got := FirstSentence("no terminator here"); got != "no terminator here" {
		t.Fatalf("unexpected passthrough: %q", got)
	}
	if got := FirstSentence("Dr. Ross enters."); got != "Dr." {
		t.Fatalf("abbreviations are not special-cased, got %q", got)
	}
}

func TestSentenceAround(t *testing.T) {
	s := "Maya enters. Blood runs down her arm. She sits."
	pos := len("Maya enters. Blood")
	if got := SentenceAround(s, pos); got != "Blood runs down her arm." {
		t.Fatalf("unexpected sentence: %q", got)
	}
	if got := SentenceAround(s, 0); got != "Maya enters." {
		t.Fatalf("unexpected first sentence: %q", got)
	}
}

func TestDisplay(t *testing.T) {
	if got := Display("MAYA CHEN"); got != "Maya Chen" {
		t.Fatalf("Display = %q", got)
	}
	if got := Display("McKay"); got != "McKay" {
		t.Fatalf("mixed case should pass through, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo world", 5); got != "héllo" {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("short", 0); got != "short" {
		t.Fatalf("non-positive cap should pass through, got %q", got)
	}
}
