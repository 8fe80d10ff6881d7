// Package redact provides helpers for keeping sensitive material out of log
// output.
//
// # Threat model
//
// Two kinds of values must never appear in full in Tomo's logs:
//   - Credentials (LLM API keys, the Matrix access token).
//   - User message text.  Tomo is a companion service; what people write to
//     it is intimate by nature and log files travel further than databases.
//
// Redaction is best-effort: it operates on string representations and relies
// on callers to pass the right values.  It is NOT a substitute for keeping
// secrets out of log call-sites in the first place.
package redact

import (
	"strings"
	"unicode/utf8"
)

const placeholder = "[REDACTED]"

// String replaces every occurrence of each sensitive value in s with
// [REDACTED].  Values shorter than 4 characters are skipped to avoid
// spurious redaction of common substrings.
//
// Example:
//
//	safe := redact.String(logLine, apiKey, matrixToken)
func String(s string, sensitiveValues ...string) string {
	for _, v := range sensitiveValues {
		if len(v) < 4 {
			continue
		}
		s = strings.ReplaceAll(s, v, placeholder)
	}
	return s
}

// Snippet returns a log-safe preview of user text: whitespace collapsed and
// truncated to maxRunes with an ellipsis.  Log lines carry the snippet for
// debuggability; the full text lives only in the diary table.
func Snippet(text string, maxRunes int) string {
	s := strings.Join(strings.Fields(text), " ")
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes]) + "…"
}
