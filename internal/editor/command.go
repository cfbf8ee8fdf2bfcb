// ABOUTME: Formatting commands and the pure line-rewriting logic behind them
// ABOUTME: Every command is a toggle where the underlying mark supports it

package editor

import (
	"fmt"
	"regexp"
	"strings"
)

// Command is a formatting action applied to the current block.
type Command int

const (
	CmdBold Command = iota
	CmdItalic
	CmdUnderline
	CmdStrike
	CmdHighlight
	CmdCode
	CmdHeading1
	CmdHeading2
	CmdHeading3
	CmdBulletList
	CmdOrderedList
	CmdBlockquote
	CmdCodeBlock
	CmdLink
	CmdHorizontalRule
	CmdUndo
	CmdRedo
)

// inlineTag maps inline mark commands to their markup tag.
var inlineTag = map[Command]string{
	CmdBold:      "strong",
	CmdItalic:    "em",
	CmdUnderline: "u",
	CmdStrike:    "s",
	CmdHighlight: "mark",
	CmdCode:      "code",
}

// blockTag maps block commands to their wrapper tag.
var blockTag = map[Command]string{
	CmdHeading1:   "h1",
	CmdHeading2:   "h2",
	CmdHeading3:   "h3",
	CmdBlockquote: "blockquote",
}

var (
	blockRe    = regexp.MustCompile(`^<(h1|h2|h3|blockquote)>(.*)</(h1|h2|h3|blockquote)>$`)
	listRe     = regexp.MustCompile(`^<(ul|ol)><li>(.*)</li></(ul|ol)>$`)
	preRe      = regexp.MustCompile(`^<pre><code>(.*)</code></pre>$`)
	linkRe     = regexp.MustCompile(`^<a href="[^"]*">(.*)</a>$`)
	linkAnyRe  = regexp.MustCompile(`<a href="[^"]*">(.*?)</a>`)
	escapeHref = strings.NewReplacer(`"`, "%22", "<", "%3C", ">", "%3E")
)

// splitBlock separates a source line into its block wrapper (if any) and
// inner content. wrap rebuilds the same wrapper around new inner content.
func splitBlock(line string) (inner string, wrap func(string) string) {
	if m := blockRe.FindStringSubmatch(line); m != nil && m[1] == m[3] {
		tag := m[1]
		return m[2], func(s string) string { return fmt.Sprintf("<%s>%s</%s>", tag, s, tag) }
	}
	if m := listRe.FindStringSubmatch(line); m != nil && m[1] == m[3] {
		tag := m[1]
		return m[2], func(s string) string { return fmt.Sprintf("<%s><li>%s</li></%s>", tag, s, tag) }
	}
	if m := preRe.FindStringSubmatch(line); m != nil {
		return m[1], func(s string) string { return "<pre><code>" + s + "</code></pre>" }
	}
	return line, func(s string) string { return s }
}

// toggleInline wraps the line's inner content in tag, or unwraps it when
// already wrapped, leaving any block wrapper intact.
func toggleInline(line, tag string) string {
	inner, wrap := splitBlock(line)
	open, closing := "<"+tag+">", "</"+tag+">"
	if strings.HasPrefix(inner, open) && strings.HasSuffix(inner, closing) && len(inner) >= len(open)+len(closing) {
		return wrap(inner[len(open) : len(inner)-len(closing)])
	}
	if inner == "" {
		return line
	}
	return wrap(open + inner + closing)
}

// toggleBlockWrap toggles a block wrapper (heading or blockquote) on the
// line. Applying the same wrapper twice restores the bare paragraph;
// applying a different one replaces the existing wrapper.
func toggleBlockWrap(line, tag string) string {
	inner, _ := splitBlock(line)
	if m := blockRe.FindStringSubmatch(line); m != nil && m[1] == tag {
		return inner
	}
	return fmt.Sprintf("<%s>%s</%s>", tag, inner, tag)
}

// toggleListItem toggles the line as an item of the given list type
// ("ul" or "ol"). Adjacent items of the same type are merged when the
// document is serialized.
func toggleListItem(line, listType string) string {
	inner, _ := splitBlock(line)
	if m := listRe.FindStringSubmatch(line); m != nil && m[1] == listType {
		return inner
	}
	return fmt.Sprintf("<%s><li>%s</li></%s>", listType, inner, listType)
}

// toggleCodeBlock toggles the line as a fenced code block.
func toggleCodeBlock(line string) string {
	if m := preRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	inner, _ := splitBlock(line)
	return "<pre><code>" + inner + "</code></pre>"
}

// setLink wraps the line's inner content in a link to url. An empty url
// clears an existing link; clearing a line that has no link is a no-op.
func setLink(line, url string) string {
	inner, wrap := splitBlock(line)
	if url == "" {
		if m := linkRe.FindStringSubmatch(inner); m != nil {
			return wrap(m[1])
		}
		if linkAnyRe.MatchString(inner) {
			return wrap(linkAnyRe.ReplaceAllString(inner, "$1"))
		}
		return line
	}
	if inner == "" {
		return line
	}
	// Replacing an existing link keeps only the newest target.
	if m := linkRe.FindStringSubmatch(inner); m != nil {
		inner = m[1]
	}
	return wrap(fmt.Sprintf(`<a href="%s">%s</a>`, escapeHref.Replace(url), inner))
}
