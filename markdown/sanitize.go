package markdown

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Sanitize removes terminal escape sequences and control characters from
// answer text so a remote answer cannot drive the terminal. Tabs and
// newlines are kept; CRLF becomes LF and any other CR is dropped.
//
// It is safe on fragments: an escape sequence split across fragments loses
// its ESC byte and is left as inert text.
func Sanitize(s string) string {
	if !needsSanitize(s) {
		return s
	}
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || (r > 0x1F && r != 0x7F) {
			return r
		}
		return -1
	}, s)
}

func needsSanitize(s string) bool {
	for i := 0; i < len(s); i++ {
		if b := s[i]; (b < 0x20 && b != '\t' && b != '\n') || b == 0x7F {
			return true
		}
	}
	return false
}
