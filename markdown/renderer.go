package markdown

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/brief"
	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	bullet      = "• "
	codeGutter  = "│ "
	quoteGutter = "▌ "
	minWidth    = 10
)

type renderer struct {
	width int

	heading lipgloss.Style
	code    lipgloss.Style
	gutter  lipgloss.Style
	muted   lipgloss.Style
	strong  lipgloss.Style
	em      lipgloss.Style
	link    lipgloss.Style
}

func newRenderer(theme brief.Theme, width int) *renderer {
	return &renderer{
		width:   width,
		heading: lipgloss.NewStyle().Foreground(color(theme.Accent)).Bold(true),
		code:    lipgloss.NewStyle().Foreground(color(theme.Accent)),
		gutter:  lipgloss.NewStyle().Foreground(color(theme.Muted)),
		muted:   lipgloss.NewStyle().Foreground(color(theme.Muted)).Faint(true),
		strong:  lipgloss.NewStyle().Bold(true),
		em:      lipgloss.NewStyle().Italic(true),
		link:    lipgloss.NewStyle().Underline(true),
	}
}

func color(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *renderer) render(source []byte) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))
	blocks := r.blocks(doc, source, r.width)
	return strings.Join(blocks, "\n\n")
}

// blocks renders each block child of parent, wrapped to width.
func (r *renderer) blocks(parent ast.Node, source []byte, width int) []string {
	var out []string
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if s := r.block(n, source, width); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (r *renderer) block(n ast.Node, source []byte, width int) string {
	switch n := n.(type) {
	case *ast.Heading:
		return wrap(r.heading.Render(r.inline(n, source)), width)
	case *ast.Paragraph, *ast.TextBlock:
		return wrap(r.inline(n, source), width)
	case *ast.FencedCodeBlock:
		body := r.codeLines(n, source)
		if lang := n.Language(source); len(lang) > 0 {
			return r.muted.Render(string(lang)) + "\n" + body
		}
		return body
	case *ast.CodeBlock:
		return r.codeLines(n, source)
	case *ast.Blockquote:
		inner := strings.Join(r.blocks(n, source, max(width-runewidth.StringWidth(quoteGutter), minWidth)), "\n\n")
		return prefixLines(inner, r.gutter.Render(quoteGutter), r.gutter.Render(quoteGutter))
	case *ast.List:
		return r.list(n, source, width)
	case *ast.ThematicBreak:
		return r.muted.Render(strings.Repeat("─", min(width, 40)))
	case *ast.HTMLBlock:
		var buf bytes.Buffer
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(source))
		}
		return strings.TrimRight(buf.String(), "\n")
	default:
		return strings.Join(r.blocks(n, source, width), "\n\n")
	}
}

func (r *renderer) codeLines(n ast.Node, source []byte) string {
	gutter := r.gutter.Render(codeGutter)
	lines := n.Lines()
	out := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(source)), "\n")
		out = append(out, gutter+line)
	}
	return strings.Join(out, "\n")
}

// list renders items tight, one per line, with nested content indented
// under the marker.
func (r *renderer) list(n *ast.List, source []byte, width int) string {
	var items []string
	num := n.Start
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		marker := bullet
		if n.IsOrdered() {
			marker = strconv.Itoa(num) + ". "
			num++
		}
		indent := strings.Repeat(" ", runewidth.StringWidth(marker))
		inner := max(width-runewidth.StringWidth(marker), minWidth)
		body := strings.Join(r.blocks(c, source, inner), "\n")
		items = append(items, prefixLines(body, marker, indent))
	}
	return strings.Join(items, "\n")
}

func (r *renderer) inline(parent ast.Node, source []byte) string {
	var buf strings.Builder
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		r.inlineNode(n, source, &buf)
	}
	return buf.String()
}

func (r *renderer) inlineNode(n ast.Node, source []byte, buf *strings.Builder) {
	switch n := n.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		switch {
		case n.HardLineBreak():
			buf.WriteByte('\n')
		case n.SoftLineBreak():
			buf.WriteByte(' ')
		}
	case *ast.String:
		buf.Write(n.Value)
	case *ast.Emphasis:
		if n.Level >= 2 {
			buf.WriteString(r.strong.Render(r.inline(n, source)))
		} else {
			buf.WriteString(r.em.Render(r.inline(n, source)))
		}
	case *ast.CodeSpan:
		buf.WriteString(r.code.Render(r.inline(n, source)))
	case *ast.Link:
		buf.WriteString(r.link.Render(r.inline(n, source)))
		buf.WriteString(" " + r.muted.Render("("+string(n.Destination)+")"))
	case *ast.AutoLink:
		buf.WriteString(r.link.Render(string(n.URL(source))))
	case *ast.Image:
		buf.WriteString(r.link.Render(r.inline(n, source)))
		buf.WriteString(" " + r.muted.Render("("+string(n.Destination)+")"))
	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(source))
		}
	default:
		buf.WriteString(r.inline(n, source))
	}
}

func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}

// prefixLines prepends first to the first line of s and rest to every
// following line.
func prefixLines(s, first, rest string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if i == 0 {
			lines[i] = first + l
		} else {
			lines[i] = rest + l
		}
	}
	return strings.Join(lines, "\n")
}
