package usecase

const (
	summaryThreshold = 50
	ellipsis         = "..."
)

// PlaceholderSummary stands in for model inference on the request path: texts longer than
// summaryThreshold characters are cut to maxSize characters and marked with an ellipsis.
func PlaceholderSummary(text string, maxSize int) string {
	runes := []rune(text)
	if len(runes) <= summaryThreshold {
		return text
	}
	if maxSize > len(runes) {
		maxSize = len(runes)
	}
	if maxSize < 0 {
		maxSize = 0
	}
	return string(runes[:maxSize]) + ellipsis
}
