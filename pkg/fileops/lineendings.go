package fileops

import (
	"bytes"
	"strings"
)

// DetectLineEndings returns the dominant line ending sequence in content,
// either "\r\n" or "\n". Content without any CRLF sequence is treated as
// LF-terminated, matching how new files are written.
func DetectLineEndings(content []byte) string {
	if bytes.Contains(content, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}

// NormalizeLineEndings rewrites content to use the given line ending
// sequence. All CRLF sequences are first collapsed to LF so mixed input
// comes out uniform.
//
// Parameters:
//   - content: The text to normalize
//   - eol: The desired line ending ("\n" or "\r\n")
//
// Returns:
//   - string: Content with uniform line endings
func NormalizeLineEndings(content, eol string) string {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if eol != "\n" {
		normalized = strings.ReplaceAll(normalized, "\n", eol)
	}
	return normalized
}
