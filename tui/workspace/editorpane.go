package workspace

import (
	"strings"

	"github.com/quillmd/quill/internal/document"
	"github.com/quillmd/quill/internal/editor"
)

// renderEditor draws the structured document block by block, marking the
// cursor position inside the active block.
func renderEditor(s *editor.Session, focused bool) string {
	doc := s.Document()
	cur := s.Cursor()

	var sb strings.Builder
	for i, b := range doc.Blocks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(renderBlock(b, focused && i == cur.Block, cur.Offset))
	}
	return sb.String()
}

func renderBlock(b document.Block, active bool, offset int) string {
	switch b.Kind {
	case document.Heading:
		text := document.PlainText(b.Inlines)
		if active {
			text = withCursor(text, offset)
		}
		return headingStyle.Render(strings.Repeat("#", b.Level) + " " + text)
	case document.CodeBlock:
		literal := b.Literal
		if active {
			literal = withCursor(literal, offset)
		}
		lang := b.Language
		if lang == "" {
			lang = "code"
		}
		return codeStyle.Render(faintStyle.Render("["+lang+"]") + "\n" + literal)
	case document.Paragraph:
		if len(b.Inlines) == 1 && b.Inlines[0].Kind == document.Text || len(b.Inlines) == 0 {
			text := document.PlainText(b.Inlines)
			if active {
				text = withCursor(text, offset)
			}
			return text
		}
		rendered := renderInlines(b.Inlines)
		if active {
			rendered += cursorStyle.Render(" ")
		}
		return rendered
	default:
		rendered := document.SerializeBlock(b)
		if active {
			rendered += cursorStyle.Render(" ")
		}
		return rendered
	}
}

func renderInlines(inlines []document.Inline) string {
	var sb strings.Builder
	for _, in := range inlines {
		switch in.Kind {
		case document.Text:
			sb.WriteString(in.Content)
		case document.Code:
			sb.WriteString(codeStyle.Render(in.Content))
		case document.WikiLink:
			label := in.Label
			if label == "" {
				label = in.Target
			}
			sb.WriteString(wikiLinkStyle.Render("[[" + label + "]]"))
		case document.Bold:
			sb.WriteString(headingStyle.Render(document.PlainText(in.Children)))
		default:
			sb.WriteString(document.SerializeInlines([]document.Inline{in}))
		}
	}
	return sb.String()
}

// withCursor splices a visible cursor cell into text at a byte offset.
func withCursor(text string, offset int) string {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(text) {
		return text + cursorStyle.Render(" ")
	}
	return text[:offset] + cursorStyle.Render(string(text[offset])) + text[offset+1:]
}
