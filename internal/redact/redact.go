// Package redact keeps user utterances and identifiers out of log output.
// Log lines carry hashed session identifiers and bounded excerpts only;
// raw message text never reaches a sink.
package redact

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// sessionHashLen is the number of hex characters retained from the
	// SHA-256 digest of a session identifier.
	sessionHashLen = 16

	// maxExcerptRunes bounds any quoted message text that callers pass
	// through Excerpt before logging.
	maxExcerptRunes = 100
)

var (
	bearerRe      = regexp.MustCompile(`(?i)(bearer\s+)([A-Za-z0-9._\-+/=]+)`)
	apiKeyRe      = regexp.MustCompile(`(?i)(api[_-]?key(?:s)?\s*[:=]\s*)([A-Za-z0-9._\-+/=]+)`)
	tokenishKeyRe = regexp.MustCompile(`(?i)(key|token)\s*[:=]\s*([A-Za-z0-9._\-+/=]{6,})`)
	textFieldRe   = regexp.MustCompile(`(?i)(text\s*[:=]\s*")([^"]*)(")`)
	sessionIDRe   = regexp.MustCompile(`(?i)(session[_-]?id\s*[:=]\s*)([A-Za-z0-9._\-]+)`)
)

// SessionHash returns a short stable hash of a session identifier,
// suitable for correlating log lines and audit events without exposing
// the identifier itself.
func SessionHash(sessionID string) string {
	if sessionID == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(sessionID))
	return hex.EncodeToString(sum[:])[:sessionHashLen]
}

// Excerpt truncates message text to a bounded prefix. The bound matches
// what audit events are allowed to carry at the "full" audit level.
func Excerpt(text string) string {
	if utf8.RuneCountInString(text) <= maxExcerptRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxExcerptRunes])
}

// String redacts raw session identifiers, quoted message text, and
// credential-shaped values from free-form strings.
func String(s string) string {
	if s == "" {
		return s
	}

	out := s
	out = bearerRe.ReplaceAllString(out, "${1}[REDACTED]")
	out = apiKeyRe.ReplaceAllString(out, "${1}[REDACTED]")
	out = tokenishKeyRe.ReplaceAllStringFunc(out, func(m string) string {
		if strings.Contains(m, "[REDACTED]") {
			return m
		}
		matches := tokenishKeyRe.FindStringSubmatch(m)
		if len(matches) < 3 {
			return m
		}
		return matches[1] + "=[REDACTED]"
	})
	out = textFieldRe.ReplaceAllString(out, `${1}[SCRUBBED]${3}`)
	out = sessionIDRe.ReplaceAllStringFunc(out, func(m string) string {
		matches := sessionIDRe.FindStringSubmatch(m)
		if len(matches) < 3 || strings.HasPrefix(matches[2], "sh_") {
			return m
		}
		return matches[1] + "sh_" + SessionHash(matches[2])
	})
	for strings.Contains(out, "[REDACTED][REDACTED]") {
		out = strings.ReplaceAll(out, "[REDACTED][REDACTED]", "[REDACTED]")
	}
	return out
}

// Sprintf formats like fmt.Sprintf and redacts the result.
func Sprintf(format string, args ...interface{}) string {
	return String(fmt.Sprintf(format, args...))
}

// Logf prints a redacted log line.
func Logf(format string, args ...interface{}) {
	log.Print(Sprintf(format, args...))
}

// Fatalf prints a redacted fatal log line.
func Fatalf(format string, args ...interface{}) {
	log.Fatal(Sprintf(format, args...))
}
