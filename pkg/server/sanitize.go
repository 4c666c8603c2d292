package server

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxLineSize bounds a single client line, terminator excluded.
const DefaultMaxLineSize = 4096

var (
	// ErrLineTooLong is returned when a client line exceeds the size limit.
	ErrLineTooLong = errors.New("line exceeds maximum allowed size")
	// ErrInvalidUTF8 is returned when a client line is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("line contains invalid UTF-8 sequences")
)

// CheckLine rejects a received line that is oversize or not valid UTF-8.
// The line itself is never rewritten, so the engine sees exactly what the
// client sent. A limit of zero or less disables the size check.
func CheckLine(line string, limit int) error {
	if limit > 0 && len(line) > limit {
		return fmt.Errorf("%w: size=%d limit=%d", ErrLineTooLong, len(line), limit)
	}
	if !utf8.ValidString(line) {
		return ErrInvalidUTF8
	}
	return nil
}

// SanitizeLine returns a copy of line without control characters other than
// tab, for logging. ANSI escapes and NULs never reach the logs.
func SanitizeLine(line string) string {
	clean := true
	for _, r := range line {
		if isUnsafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return line
	}

	var b strings.Builder
	b.Grow(len(line))
	for _, r := range line {
		if !isUnsafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isUnsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\t'
}
