package drive

// Helpers that expose package-internal functions to the external drive_test package.

func EscapeQuery(s string) string {
	return escapeQuery(s)
}

func ValidateAndSplitPath(path string) ([]string, error) {
	return validateAndSplitPath(path)
}
