package utils

// Truncate shortens s to at most maxLen bytes, appending an ellipsis
// when anything was cut.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
