// ABOUTME: Conversions between rich-text markup and plain text
// ABOUTME: Used when handing editor content to the AI endpoints and back

package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// EmptyDocument is the markup an editor produces when it holds no content.
const EmptyDocument = "<p></p>"

// blockAtoms are elements whose boundary introduces a line break when
// flattening markup to plain text.
var blockAtoms = map[atom.Atom]bool{
	atom.P:          true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Li:         true,
	atom.Blockquote: true,
	atom.Pre:        true,
	atom.Div:        true,
	atom.Ul:         true,
	atom.Ol:         true,
	atom.Hr:         true,
	atom.Tr:         true,
}

// IsEmpty reports whether markup contains no user content. Both the empty
// string and the empty-document sentinel count as empty, as does markup whose
// text collapses to whitespace.
func IsEmpty(m string) bool {
	trimmed := strings.TrimSpace(m)
	if trimmed == "" || trimmed == EmptyDocument {
		return true
	}
	return strings.TrimSpace(PlainText(m)) == ""
}

// PlainText strips all tags from markup, keeping block boundaries as
// newlines so no words run together. The result is what gets sent to the
// AI endpoints.
func PlainText(m string) string {
	var sb strings.Builder
	tok := html.NewTokenizer(strings.NewReader(m))
	for {
		tt := tok.Next()
		switch tt {
		case html.ErrorToken:
			return collapseBlankRuns(sb.String())
		case html.TextToken:
			sb.Write(tok.Text())
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := tok.TagName()
			a := atom.Lookup(name)
			if a == atom.Br && tt != html.EndTagToken {
				sb.WriteByte('\n')
				continue
			}
			// A closing block tag (or self-closing hr) ends the line.
			if blockAtoms[a] && tt != html.StartTagToken {
				sb.WriteByte('\n')
			}
		}
	}
}

// collapseBlankRuns trims the text and squeezes runs of three or more
// newlines down to a paragraph break.
func collapseBlankRuns(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(s)
}

// FromPlainText rebuilds block markup from plain text: a blank line starts a
// new paragraph, a single newline becomes an in-paragraph line break. This is
// the exact inverse used when applying an AI "improve" result to the draft.
func FromPlainText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return EmptyDocument
	}
	text = html.EscapeString(text)
	text = strings.ReplaceAll(text, "\n\n", "</p><p>")
	text = strings.ReplaceAll(text, "\n", "<br/>")
	return "<p>" + text + "</p>"
}
