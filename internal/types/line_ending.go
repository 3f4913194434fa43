package types

import (
	"fmt"
	"strings"
)

// LineEnding identifies the newline convention of a file.
type LineEnding int

const (
	LineEndingUnix    LineEnding = iota // "\n"
	LineEndingWindows                   // "\r\n"
	LineEndingMac                       // "\r"
)

// Sequence returns the literal newline sequence.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingWindows:
		return "\r\n"
	case LineEndingMac:
		return "\r"
	default:
		return "\n"
	}
}

func (le LineEnding) String() string {
	switch le {
	case LineEndingWindows:
		return "windows"
	case LineEndingMac:
		return "mac"
	default:
		return "unix"
	}
}

// ParseLineEnding accepts "unix"/"lf", "windows"/"crlf" and "mac"/"cr".
func ParseLineEnding(name string) (LineEnding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "unix", "lf", "\n":
		return LineEndingUnix, nil
	case "windows", "crlf", "dos", "\r\n":
		return LineEndingWindows, nil
	case "mac", "cr", "\r":
		return LineEndingMac, nil
	}
	return LineEndingUnix, fmt.Errorf("unknown line ending %q: %w", name, ErrOperationFailed)
}

// DetectLineEnding picks the dominant newline convention of text. CRLF wins
// ties against the others and a bare CR wins ties against LF. Text without
// newlines is reported as Unix.
func DetectLineEnding(text string) LineEnding {
	crlf, lf, cr := 0, 0, 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				crlf++
				i++
			} else {
				cr++
			}
		case '\n':
			lf++
		}
	}
	switch {
	case crlf == 0 && lf == 0 && cr == 0:
		return LineEndingUnix
	case crlf >= lf && crlf >= cr:
		return LineEndingWindows
	case cr >= lf:
		return LineEndingMac
	}
	return LineEndingUnix
}

// NormalizeNewlines converts every CRLF and bare CR to LF. It is idempotent.
func NormalizeNewlines(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// ConvertLineEndings rewrites all newlines in text to the target convention.
func ConvertLineEndings(text string, target LineEnding) string {
	text = NormalizeNewlines(text)
	if target == LineEndingUnix {
		return text
	}
	return strings.ReplaceAll(text, "\n", target.Sequence())
}
