package editor

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/quillmd/quill/internal/document"
	"github.com/quillmd/quill/internal/wikilink"
)

// Command is one editing action applied to a session via Apply.
type Command interface {
	apply(s *Session) error
}

// Apply runs a command against the session. Failures on the keystroke path
// never escape: an internal panic falls back to literal text insertion so
// the document is never left partially transformed.
func Apply(s *Session, c Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = nil
			s.insertParagraphAfter()
		}
	}()
	return c.apply(s)
}

// InsertText types plain text at the cursor.
type InsertText struct {
	Text string
}

func (c InsertText) apply(s *Session) error {
	return s.insertText(c.Text)
}

// TypeRune types a single character, applying the auto-closing pair rule
// inside code blocks.
type TypeRune struct {
	Rune rune
}

var closingPairs = map[rune]rune{
	'(':  ')',
	'{':  '}',
	'[':  ']',
	'"':  '"',
	'\'': '\'',
}

func (c TypeRune) apply(s *Session) error {
	b := s.currentBlock()
	if b.Kind == document.CodeBlock {
		if closer, ok := closingPairs[c.Rune]; ok {
			if err := s.insertText(string(c.Rune) + string(closer)); err != nil {
				return err
			}
			// Cursor lands between the pair.
			s.cursor.Offset -= len(string(closer))
			return nil
		}
	}
	if err := s.insertText(string(c.Rune)); err != nil {
		return err
	}
	if c.Rune == ']' {
		s.completeWikiLink()
	}
	return nil
}

// completeWikiLink fires the moment a typed ] closes a [[...]] token in a
// plain paragraph: the token becomes a link entity immediately, identical
// to what a whole-line reparse would produce, instead of waiting for the
// line commit.
func (s *Session) completeWikiLink() {
	b := s.currentBlock()
	if !isPlainParagraph(b) {
		return
	}

	text := document.PlainText(b.Inlines)
	head := text[:clamp(s.cursor.Offset, len(text))]
	m, ok := wikilink.ScanCompletion(head)
	if !ok {
		return
	}

	var inlines []document.Inline
	if m.Start > 0 {
		inlines = append(inlines, document.Inline{Kind: document.Text, Content: text[:m.Start]})
	}
	inlines = append(inlines, document.Inline{
		Kind:   document.WikiLink,
		Target: m.Target,
		Label:  m.Label,
	})
	if rest := text[m.End:]; rest != "" {
		inlines = append(inlines, document.Inline{Kind: document.Text, Content: rest})
	}
	b.Inlines = inlines
	s.cursor.Offset = m.Start + len(m.Display())
}

// PressEnter commits the current line, running the live-formatting rule
// chain when the cursor sits in a plain paragraph.
type PressEnter struct{}

// ModEnter exits a code block to a new trailing paragraph.
type ModEnter struct{}

func (ModEnter) apply(s *Session) error {
	b := s.currentBlock()
	if b.Kind != document.CodeBlock {
		return PressEnter{}.apply(s)
	}
	s.insertParagraphAfter()
	return nil
}

var (
	taskLineRe    = regexp.MustCompile(`^-\s\[([ xX])\]\s(.*)$`)
	fenceOpenRe   = regexp.MustCompile("^```(\\w*)$")
	orderedLineRe = regexp.MustCompile(`^\d+\.`)
)

func (PressEnter) apply(s *Session) error {
	b := s.currentBlock()

	// Inside a code block Enter is always a literal newline.
	if b.Kind == document.CodeBlock {
		return s.insertText("\n")
	}

	// Structured blocks keep their default split behavior.
	if !isPlainParagraph(b) {
		s.insertParagraphAfter()
		return nil
	}

	line := document.PlainText(b.Inlines)

	if m := taskLineRe.FindStringSubmatch(line); m != nil {
		checked := m[1] == "x" || m[1] == "X"
		*b = document.Block{
			Kind: document.BulletList,
			Items: []document.ListItem{{
				Task:    true,
				Checked: checked,
				Inlines: []document.Inline{{Kind: document.Text, Content: m[2]}},
			}},
		}
		s.insertParagraphAfter()
		return nil
	}

	if m := fenceOpenRe.FindStringSubmatch(line); m != nil {
		*b = document.Block{Kind: document.CodeBlock, Language: m[1]}
		s.cursor.Offset = 0
		return nil
	}

	if line == "" {
		s.insertParagraphAfter()
		return nil
	}

	// Ordinary prose skips the reparse entirely; replacing the node on
	// every paragraph break would churn the cursor for nothing.
	if !hasTrigger(line) {
		s.insertParagraphAfter()
		return nil
	}

	s.reinterpretLine(b, line)
	return nil
}

// hasTrigger reports whether a line contains any markdown syntax worth a
// reparse: block markers at the line start or inline markers anywhere.
func hasTrigger(line string) bool {
	if strings.HasPrefix(line, "#") ||
		strings.HasPrefix(line, "-") ||
		strings.HasPrefix(line, ">") {
		return true
	}
	if orderedLineRe.MatchString(line) {
		return true
	}
	return strings.ContainsAny(line, "*_~`![]")
}

// reinterpretLine parses the committed line as a standalone markdown
// fragment and swaps it in. A parse failure or empty result leaves the
// typed text untouched rather than dropping it.
func (s *Session) reinterpretLine(b *document.Block, line string) {
	defer func() {
		if r := recover(); r != nil {
			b.Inlines = []document.Inline{{Kind: document.Text, Content: line}}
			s.insertParagraphAfter()
		}
	}()

	blocks := document.ParseFragment(line)
	if len(blocks) == 0 {
		s.insertParagraphAfter()
		return
	}

	if len(blocks) == 1 && blocks[0].Kind == document.Paragraph {
		// A paragraph result is unwrapped: only the inline content is
		// kept, never a nested paragraph.
		b.Inlines = blocks[0].Inlines
		s.insertParagraphAfter()
		return
	}

	s.replaceCurrent(blocks)
	s.insertParagraphAfter()
}

// DeleteBackward removes the rune before the cursor. At the start of an
// empty paragraph it removes the paragraph instead, joining back onto the
// previous block.
type DeleteBackward struct{}

func (DeleteBackward) apply(s *Session) error {
	b := s.currentBlock()

	if s.cursor.Offset == 0 {
		if b.Kind == document.Paragraph && len(b.Inlines) == 0 && s.cursor.Block > 0 {
			at := s.cursor.Block
			s.doc.Blocks = append(s.doc.Blocks[:at], s.doc.Blocks[at+1:]...)
			s.cursor = Cursor{Block: at - 1, Offset: blockLen(s.doc.Blocks[at-1])}
		}
		return nil
	}

	switch {
	case b.Kind == document.CodeBlock:
		off := clamp(s.cursor.Offset, len(b.Literal))
		_, size := utf8.DecodeLastRuneInString(b.Literal[:off])
		b.Literal = b.Literal[:off-size] + b.Literal[off:]
		s.cursor.Offset = off - size
		return nil
	case isPlainParagraph(b):
		current := document.PlainText(b.Inlines)
		off := clamp(s.cursor.Offset, len(current))
		_, size := utf8.DecodeLastRuneInString(current[:off])
		updated := current[:off-size] + current[off:]
		if updated == "" {
			b.Inlines = nil
		} else {
			b.Inlines = []document.Inline{{Kind: document.Text, Content: updated}}
		}
		s.cursor.Offset = off - size
		return nil
	default:
		return ErrNotEditable
	}
}

// ToggleMark wraps or unwraps the current plain paragraph in an inline mark
// (bold, italic, underline, strikethrough). This is the toolbar path; it
// does not run the live-formatting rules.
type ToggleMark struct {
	Kind document.InlineKind
}

func (c ToggleMark) apply(s *Session) error {
	b := s.currentBlock()
	if b.Kind != document.Paragraph {
		return ErrNotEditable
	}
	if len(b.Inlines) == 1 && b.Inlines[0].Kind == c.Kind {
		b.Inlines = b.Inlines[0].Children
		return nil
	}
	if len(b.Inlines) == 0 {
		return nil
	}
	b.Inlines = []document.Inline{{Kind: c.Kind, Children: b.Inlines}}
	return nil
}
