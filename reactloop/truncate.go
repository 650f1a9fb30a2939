package reactloop

import "fmt"

// TruncateObservation applies head/tail character truncation to an
// observation before it enters the history. Long operation output
// (a rendered table, a statistics dump) would otherwise crowd every
// subsequent prompt.
func TruncateObservation(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	half := maxChars / 2
	removed := len(text) - maxChars
	return text[:half] +
		fmt.Sprintf("\n[... %d characters omitted ...]\n", removed) +
		text[len(text)-half:]
}
