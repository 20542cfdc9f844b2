// Package docname derives stable display and tool names from uploaded
// document filenames. All transformations here are idempotent: applying
// them twice yields the same result as applying them once.
package docname

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Date tokens like 2023-01-05, 2023_01_05 or 20230105 embedded in a filename
// stem, together with the separator that attaches them to the rest of the name.
var datePattern = regexp.MustCompile(`[-_ ]?\d{4}[-_]?\d{2}[-_]?\d{2}[-_ ]?`)

// Anything outside the character set tool-calling runtimes accept for
// function names.
var unsafeToolChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// StripDate removes date-like tokens wherever they occur in a name.
func StripDate(name string) string {
	return datePattern.ReplaceAllString(name, "")
}

// DisplayName derives the human-facing name of a document: the filename
// without directories, extension, or embedded date tokens.
func DisplayName(fileName string) string {
	base := filepath.Base(fileName)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return StripDate(stem)
}

// SanitizeToolName folds every character a tool name may not contain to "-".
func SanitizeToolName(rawToolName string) string {
	return unsafeToolChars.ReplaceAllString(rawToolName, "-")
}
