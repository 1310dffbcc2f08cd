// Package markdown renders answer text to ANSI-styled terminal output
// using goldmark for parsing and lipgloss for styling.
//
// Answers are rendered while they are still streaming, so the source may
// end in the middle of any construct. Unterminated constructs render as
// whatever goldmark parses them as.
package markdown

import "github.com/fwojciec/brief"

// defaultWidth is used when the caller has no terminal width yet.
const defaultWidth = 80

// Render parses markdown source and returns ANSI-styled terminal output.
// The source is sanitized first. Prose is word-wrapped to width. Code
// blocks are not reflowed.
func Render(source string, width int, theme brief.Theme) string {
	source = Sanitize(source)
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	return newRenderer(theme, width).render([]byte(source))
}
