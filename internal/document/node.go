// Package document defines the structured document model for note content
// and the bidirectional conversion between that model and markdown text.
//
// The model is a closed set of block and inline kinds. Parsing and
// serialization switch exhaustively over the kinds, so adding a new kind is
// a compile-visible change rather than a registration side effect.
package document

import "strings"

// BlockKind enumerates every block node the model supports.
type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading
	BulletList
	OrderedList
	Blockquote
	CodeBlock
	Rule
	Image
)

// InlineKind enumerates every inline run the model supports.
type InlineKind int

const (
	Text InlineKind = iota
	Bold
	Italic
	Underline
	Strike
	Code
	WikiLink
	Link
)

// Inline is one run of inline content. Which fields are meaningful depends
// on Kind: Content for Text and Code, Children for the mark wrappers, Href
// plus Children for Link, Target/Label for WikiLink.
type Inline struct {
	Kind     InlineKind
	Content  string
	Children []Inline
	Href     string
	Target   string
	Label    string
}

// ListItem is one entry of a bullet or ordered list. Task items carry a
// checkbox state.
type ListItem struct {
	Inlines []Inline
	Task    bool
	Checked bool
}

// Block is one block node. Level applies to headings, Items to lists,
// Language and Literal to code blocks, Src and Alt to images, Children to
// blockquotes, Inlines to paragraphs and headings.
type Block struct {
	Kind     BlockKind
	Level    int
	Inlines  []Inline
	Items    []ListItem
	Children []Block
	Language string
	Literal  string
	Src      string
	Alt      string
	Start    int
}

// Document is the ephemeral, editable representation of one note's content.
// It is derived from markdown and discarded when the note closes; only its
// serialized form persists.
type Document struct {
	Blocks []Block
}

// PlainText flattens an inline run to its visible text.
func PlainText(inlines []Inline) string {
	var b strings.Builder
	for _, in := range inlines {
		switch in.Kind {
		case Text, Code:
			b.WriteString(in.Content)
		case Bold, Italic, Underline, Strike, Link:
			b.WriteString(PlainText(in.Children))
		case WikiLink:
			if in.Label != "" {
				b.WriteString(in.Label)
			} else {
				b.WriteString(in.Target)
			}
		}
	}
	return b.String()
}

// IsEmpty reports whether the document contains no content at all.
func (d *Document) IsEmpty() bool {
	if d == nil || len(d.Blocks) == 0 {
		return true
	}
	for _, b := range d.Blocks {
		if b.Kind != Paragraph || len(b.Inlines) > 0 {
			return false
		}
	}
	return true
}

// appendText appends a text run, merging into a preceding text run so the
// representation stays canonical regardless of how the parser split its
// segments.
func appendText(inlines []Inline, s string) []Inline {
	if s == "" {
		return inlines
	}
	if n := len(inlines); n > 0 && inlines[n-1].Kind == Text {
		inlines[n-1].Content += s
		return inlines
	}
	return append(inlines, Inline{Kind: Text, Content: s})
}
