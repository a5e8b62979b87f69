// Package editor owns the editing session for one open note: the structured
// document, the cursor, the live-formatting rules applied on Enter, and the
// drift heuristic that keeps the document consistent with the authoritative
// markdown.
package editor

import (
	"errors"

	"github.com/quillmd/quill/internal/document"
)

// ErrNotEditable is returned when a text command lands on a block that does
// not accept direct typing (lists, headings and quotes are edited through
// their own commands).
var ErrNotEditable = errors.New("editor: block does not accept direct text input")

// Cursor addresses a position inside the session's document: a block index
// and a byte offset into that block's plain text (or code literal).
type Cursor struct {
	Block  int
	Offset int
}

// Session is the explicit document-session object. Commands receive it by
// reference through Apply; there is no ambient editor singleton.
type Session struct {
	doc    *document.Document
	cursor Cursor
}

// NewSession builds a session from authoritative markdown. The cursor lands
// at the end of the document.
func NewSession(markdown string) *Session {
	s := &Session{}
	s.reset(markdown)
	return s
}

func (s *Session) reset(markdown string) {
	s.doc = document.Parse(markdown)
	if len(s.doc.Blocks) == 0 {
		s.doc.Blocks = []document.Block{{Kind: document.Paragraph}}
	}
	s.cursor = endCursor(s.doc)
}

func endCursor(doc *document.Document) Cursor {
	last := len(doc.Blocks) - 1
	return Cursor{Block: last, Offset: blockLen(doc.Blocks[last])}
}

func blockLen(b document.Block) int {
	if b.Kind == document.CodeBlock {
		return len(b.Literal)
	}
	return len(document.PlainText(b.Inlines))
}

// Document exposes the structured document. It is a derived, disposable
// view; callers must not hold it across a Reconcile.
func (s *Session) Document() *document.Document {
	return s.doc
}

// Markdown serializes the session's document to canonical markdown.
func (s *Session) Markdown() string {
	return document.Serialize(s.doc)
}

// Cursor returns the current cursor position.
func (s *Session) Cursor() Cursor {
	return s.cursor
}

// SetCursor moves the cursor, clamping both coordinates into range.
func (s *Session) SetCursor(c Cursor) {
	c.Block = clamp(c.Block, len(s.doc.Blocks)-1)
	c.Offset = clamp(c.Offset, blockLen(s.doc.Blocks[c.Block]))
	s.cursor = c
}

func (s *Session) currentBlock() *document.Block {
	if s.cursor.Block < 0 || s.cursor.Block >= len(s.doc.Blocks) {
		s.cursor = endCursor(s.doc)
	}
	return &s.doc.Blocks[s.cursor.Block]
}

// isPlainParagraph reports whether a block is an ordinary paragraph holding
// at most a single unformatted text run. Only those take part in
// live-formatting; structured blocks keep their own Enter behavior.
func isPlainParagraph(b *document.Block) bool {
	if b.Kind != document.Paragraph {
		return false
	}
	if len(b.Inlines) == 0 {
		return true
	}
	return len(b.Inlines) == 1 && b.Inlines[0].Kind == document.Text
}

// insertParagraphAfter commits the line break that follows every Enter: a
// fresh empty paragraph after the cursor block, with the cursor inside it.
func (s *Session) insertParagraphAfter() {
	at := s.cursor.Block + 1
	blocks := make([]document.Block, 0, len(s.doc.Blocks)+1)
	blocks = append(blocks, s.doc.Blocks[:at]...)
	blocks = append(blocks, document.Block{Kind: document.Paragraph})
	blocks = append(blocks, s.doc.Blocks[at:]...)
	s.doc.Blocks = blocks
	s.cursor = Cursor{Block: at}
}

// replaceCurrent swaps the cursor block for the given blocks, leaving the
// cursor on the last of them.
func (s *Session) replaceCurrent(replacement []document.Block) {
	at := s.cursor.Block
	blocks := make([]document.Block, 0, len(s.doc.Blocks)+len(replacement)-1)
	blocks = append(blocks, s.doc.Blocks[:at]...)
	blocks = append(blocks, replacement...)
	blocks = append(blocks, s.doc.Blocks[at+1:]...)
	s.doc.Blocks = blocks
	s.cursor = Cursor{Block: at + len(replacement) - 1, Offset: blockLen(replacement[len(replacement)-1])}
}

func (s *Session) insertText(text string) error {
	b := s.currentBlock()
	switch {
	case b.Kind == document.CodeBlock:
		off := clamp(s.cursor.Offset, len(b.Literal))
		b.Literal = b.Literal[:off] + text + b.Literal[off:]
		s.cursor.Offset = off + len(text)
		return nil
	case isPlainParagraph(b):
		current := document.PlainText(b.Inlines)
		off := clamp(s.cursor.Offset, len(current))
		updated := current[:off] + text + current[off:]
		b.Inlines = []document.Inline{{Kind: document.Text, Content: updated}}
		s.cursor.Offset = off + len(text)
		return nil
	default:
		return ErrNotEditable
	}
}

func clamp(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
