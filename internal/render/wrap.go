package render

import "strings"

// wrapWords greedily packs words into lines whose measured width stays
// under maxWidth. A single word wider than maxWidth gets its own line.
func wrapWords(text string, maxWidth float64, measure func(string) float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if measure(candidate) < maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = w
	}
	return append(lines, current)
}
