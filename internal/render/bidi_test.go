package render

import (
	"testing"
	"unicode"
)

func TestReverseGraphemes(t *testing.T) {
	cases := map[string]string{
		"abc":  "cba",
		"":     "",
		"سلام": "مالس",
		// Vocalized text: each haraka stays behind its base consonant.
		"بِسْمِ": "مِسْبِ",
	}
	for in, want := range cases {
		if got := reverseGraphemes(in); got != want {
			t.Errorf("reverseGraphemes(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReverseGraphemesNeverLeadsWithCombiningMark(t *testing.T) {
	got := []rune(reverseGraphemes("بِسْمِ اللَّهِ الرَّحْمَنِ"))
	if len(got) == 0 {
		t.Fatal("empty result")
	}
	if unicode.Is(unicode.Mn, got[0]) {
		t.Errorf("result starts with combining mark %U", got[0])
	}
}

func TestDisplayArabicNotEmpty(t *testing.T) {
	got := DisplayArabic("بسم الله الرحمن الرحيم")
	if got == "" {
		t.Fatal("shaped output is empty")
	}
}

func TestDisplayArabicKeepsCombiningMarksAttached(t *testing.T) {
	got := []rune(DisplayArabic("بِسْمِ اللَّهِ"))
	if len(got) == 0 {
		t.Fatal("empty result")
	}
	if unicode.Is(unicode.Mn, got[0]) {
		t.Errorf("display form starts with combining mark %U", got[0])
	}
}

func TestDisplayArabicLatinPassthroughOrder(t *testing.T) {
	// A purely LTR string must keep its character order.
	if got := DisplayArabic("hello"); got != "hello" {
		t.Errorf("DisplayArabic(latin) = %q, want unchanged", got)
	}
}

func TestWrapArabicKeepsFirstWordsOnTopLine(t *testing.T) {
	text := "واحد اثنان ثلاثة"
	// Width fits one word per line, so the wrap must yield the three
	// words in logical order, each in display form.
	lines := wrapArabic(text, 60, measureRunes)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), lines)
	}
	want := []string{
		DisplayArabic("واحد"),
		DisplayArabic("اثنان"),
		DisplayArabic("ثلاثة"),
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want display form of logical word %d", i, lines[i], i+1)
		}
	}
}
