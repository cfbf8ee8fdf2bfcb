// ABOUTME: Renders article markup as styled terminal text
// ABOUTME: Sanitizes first, then walks the document tree applying lipgloss

package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C9472F"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
	italicStyle  = lipgloss.NewStyle().Italic(true)
	underStyle   = lipgloss.NewStyle().Underline(true)
	strikeStyle  = lipgloss.NewStyle().Strikethrough(true)
	markStyle    = lipgloss.NewStyle().Background(lipgloss.Color("#FEF08A")).Foreground(lipgloss.Color("#1F2937"))
	codeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CDD6F4")).Background(lipgloss.Color("#1E1E2E"))
	linkStyle    = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("#3B82F6"))
	quoteStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#6B7280"))
	ruleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// policy strips anything the editor could not have produced before the
// document reaches the terminal.
var policy = bluemonday.UGCPolicy()

// Document renders article markup for a terminal pane of the given width.
func Document(markup string, width int) string {
	if width < 20 {
		width = 20
	}
	clean := policy.Sanitize(markup)
	doc, err := html.Parse(strings.NewReader(clean))
	if err != nil {
		return clean
	}

	r := &renderer{width: width}
	r.walkBlocks(findBody(doc))
	return strings.TrimRight(strings.Join(r.blocks, "\n\n"), "\n")
}

type renderer struct {
	width  int
	blocks []string
}

func (r *renderer) walkBlocks(n *html.Node) {
	if n == nil {
		return
	}
	ordinal := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			if t := strings.TrimSpace(c.Data); t != "" {
				r.emit(t)
			}
		case c.DataAtom == atom.P:
			r.emit(inlineText(c))
		case c.DataAtom == atom.H1:
			r.emit(headingStyle.Render("# " + plainInline(c)))
		case c.DataAtom == atom.H2:
			r.emit(headingStyle.Render("## " + plainInline(c)))
		case c.DataAtom == atom.H3:
			r.emit(headingStyle.Render("### " + plainInline(c)))
		case c.DataAtom == atom.Ul:
			r.emit(r.list(c, false))
		case c.DataAtom == atom.Ol:
			r.emit(r.list(c, true))
		case c.DataAtom == atom.Blockquote:
			r.emit(prefixLines(quoteStyle.Render(inlineText(c)), "│ "))
		case c.DataAtom == atom.Pre:
			r.emit(codeStyle.Render(prefixLines(rawText(c), "  ")))
		case c.DataAtom == atom.Hr:
			r.emit(ruleStyle.Render(strings.Repeat("─", r.width)))
		case c.Type == html.ElementNode:
			// Unknown container: recurse so nothing inside is lost.
			r.walkBlocks(c)
		}
		_ = ordinal
	}
}

func (r *renderer) emit(block string) {
	if block == "" {
		return
	}
	r.blocks = append(r.blocks, lipgloss.NewStyle().Width(r.width).Render(block))
}

func (r *renderer) list(n *html.Node, ordered bool) string {
	var items []string
	i := 0
	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.DataAtom != atom.Li {
			continue
		}
		i++
		marker := "• "
		if ordered {
			marker = fmt.Sprintf("%d. ", i)
		}
		items = append(items, "  "+marker+inlineText(li))
	}
	return strings.Join(items, "\n")
}

// inlineText flattens an element's children applying inline mark styles.
func inlineText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(inlineNode(c))
	}
	return sb.String()
}

func inlineNode(n *html.Node) string {
	switch {
	case n.Type == html.TextNode:
		return n.Data
	case n.DataAtom == atom.Br:
		return "\n"
	case n.DataAtom == atom.Strong || n.DataAtom == atom.B:
		return boldStyle.Render(inlineText(n))
	case n.DataAtom == atom.Em || n.DataAtom == atom.I:
		return italicStyle.Render(inlineText(n))
	case n.DataAtom == atom.U:
		return underStyle.Render(inlineText(n))
	case n.DataAtom == atom.S || n.DataAtom == atom.Del:
		return strikeStyle.Render(inlineText(n))
	case n.DataAtom == atom.Mark:
		return markStyle.Render(inlineText(n))
	case n.DataAtom == atom.Code:
		return codeStyle.Render(inlineText(n))
	case n.DataAtom == atom.A:
		text := linkStyle.Render(inlineText(n))
		if href := attr(n, "href"); href != "" {
			return text + ruleStyle.Render(" ("+href+")")
		}
		return text
	default:
		return inlineText(n)
	}
}

// plainInline flattens children without styling, for headings that carry
// their own style.
func plainInline(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func rawText(n *html.Node) string {
	return strings.TrimRight(plainInline(n), "\n")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func findBody(doc *html.Node) *html.Node {
	var body *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if body != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			body = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return body
}
