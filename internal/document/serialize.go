package document

import (
	"fmt"
	"strings"

	"github.com/quillmd/quill/internal/wikilink"
)

// Serialize renders a document to its canonical markdown form. The result
// is a fixed point: parsing and re-serializing it yields the same string.
func Serialize(d *Document) string {
	if d == nil {
		return ""
	}
	parts := make([]string, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		parts = append(parts, SerializeBlock(b))
	}
	return strings.Join(parts, "\n\n")
}

// SerializeBlock renders one block to markdown.
func SerializeBlock(b Block) string {
	switch b.Kind {
	case Paragraph:
		return SerializeInlines(b.Inlines)
	case Heading:
		level := b.Level
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		return strings.Repeat("#", level) + " " + SerializeInlines(b.Inlines)
	case BulletList:
		lines := make([]string, 0, len(b.Items))
		for _, item := range b.Items {
			lines = append(lines, serializeItem(item, "- "))
		}
		return strings.Join(lines, "\n")
	case OrderedList:
		start := b.Start
		if start < 1 {
			start = 1
		}
		lines := make([]string, 0, len(b.Items))
		for i, item := range b.Items {
			lines = append(lines, serializeItem(item, fmt.Sprintf("%d. ", start+i)))
		}
		return strings.Join(lines, "\n")
	case Blockquote:
		inner := Serialize(&Document{Blocks: b.Children})
		quoted := make([]string, 0)
		for _, line := range strings.Split(inner, "\n") {
			if line == "" {
				quoted = append(quoted, ">")
			} else {
				quoted = append(quoted, "> "+line)
			}
		}
		return strings.Join(quoted, "\n")
	case CodeBlock:
		fence := "```" + b.Language
		if b.Literal == "" {
			return fence + "\n```"
		}
		return fence + "\n" + b.Literal + "\n```"
	case Rule:
		return "---"
	case Image:
		return "![" + b.Alt + "](" + b.Src + ")"
	default:
		return SerializeInlines(b.Inlines)
	}
}

func serializeItem(item ListItem, marker string) string {
	if item.Task {
		box := "[ ] "
		if item.Checked {
			box = "[x] "
		}
		return "- " + box + SerializeInlines(item.Inlines)
	}
	return marker + SerializeInlines(item.Inlines)
}

// SerializeInlines renders an inline run. The wiki-link rule takes
// precedence over generic link serialization: a link whose destination
// carries the reserved scheme is always emitted as a wiki-link token.
func SerializeInlines(inlines []Inline) string {
	var b strings.Builder
	for _, in := range inlines {
		switch in.Kind {
		case Text:
			b.WriteString(in.Content)
		case Bold:
			b.WriteString("**" + SerializeInlines(in.Children) + "**")
		case Italic:
			b.WriteString("*" + SerializeInlines(in.Children) + "*")
		case Underline:
			b.WriteString("<u>" + SerializeInlines(in.Children) + "</u>")
		case Strike:
			b.WriteString("~~" + SerializeInlines(in.Children) + "~~")
		case Code:
			b.WriteString("`" + in.Content + "`")
		case WikiLink:
			b.WriteString(wikilink.Link{Target: in.Target, Label: in.Label}.Markdown())
		case Link:
			if wl, ok := wikilink.FromHref(in.Href); ok {
				b.WriteString(wl.Markdown())
				continue
			}
			b.WriteString("[" + SerializeInlines(in.Children) + "](" + in.Href + ")")
		}
	}
	return b.String()
}
