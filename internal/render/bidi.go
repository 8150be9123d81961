package render

import (
	"unicode"

	"github.com/abdullahdiaa/garabic"
	"golang.org/x/text/unicode/bidi"
)

// DisplayArabic shapes Arabic text into its joined presentation forms and
// reorders it into visual order, so a left-to-right renderer draws it
// correctly right-to-left. Apply it per drawn line, never to text that
// still needs wrapping: reordering is only valid for a single visual row.
func DisplayArabic(text string) string {
	shaped := garabic.Shape(text)

	var p bidi.Paragraph
	p.SetString(shaped, bidi.DefaultDirection(bidi.RightToLeft))
	order, err := p.Order()
	if err != nil {
		return reverseGraphemes(shaped)
	}

	out := make([]rune, 0, len(shaped))
	for i := 0; i < order.NumRuns(); i++ {
		run := order.Run(i)
		s := run.String()
		if run.Direction() == bidi.RightToLeft {
			out = append(out, []rune(reverseGraphemes(s))...)
		} else {
			out = append(out, []rune(s)...)
		}
	}
	return string(out)
}

// wrapArabic word-wraps logical Arabic text, measuring every candidate
// line in its display form, and returns the display form of each line.
// Wrapping before reordering keeps the first logical words on the top
// line.
func wrapArabic(text string, maxWidth float64, measure func(string) float64) []string {
	lines := wrapWords(text, maxWidth, func(s string) float64 {
		return measure(DisplayArabic(s))
	})
	for i, line := range lines {
		lines[i] = DisplayArabic(line)
	}
	return lines
}

// reverseGraphemes reverses cluster order, keeping combining marks (the
// harakat of vocalized text) attached behind their base rune.
func reverseGraphemes(s string) string {
	runes := []rune(s)
	var clusters [][]rune
	for _, r := range runes {
		if unicode.Is(unicode.Mn, r) && len(clusters) > 0 {
			last := len(clusters) - 1
			clusters[last] = append(clusters[last], r)
			continue
		}
		clusters = append(clusters, []rune{r})
	}

	out := make([]rune, 0, len(runes))
	for i := len(clusters) - 1; i >= 0; i-- {
		out = append(out, clusters[i]...)
	}
	return string(out)
}
