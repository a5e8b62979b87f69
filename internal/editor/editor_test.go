package editor

import (
	"testing"

	"github.com/quillmd/quill/internal/document"
)

func typeLine(t *testing.T, s *Session, line string) {
	t.Helper()
	if err := Apply(s, InsertText{Text: line}); err != nil {
		t.Fatalf("InsertText(%q) returned error: %v", line, err)
	}
}

func TestFastPathGuardSkipsReparse(t *testing.T) {
	s := NewSession("")
	typeLine(t, s, "plain sentence")
	if err := Apply(s, PressEnter{}); err != nil {
		t.Fatalf("PressEnter returned error: %v", err)
	}

	doc := s.Document()
	if len(doc.Blocks) != 2 {
		t.Fatalf("expected paragraph plus new empty paragraph, got %#v", doc.Blocks)
	}
	first := doc.Blocks[0]
	if first.Kind != document.Paragraph {
		t.Fatalf("paragraph node type changed: %#v", first)
	}
	if got := document.PlainText(first.Inlines); got != "plain sentence" {
		t.Fatalf("paragraph content altered: %q", got)
	}
	second := doc.Blocks[1]
	if second.Kind != document.Paragraph || len(second.Inlines) != 0 {
		t.Fatalf("expected a new empty paragraph, got %#v", second)
	}
	if s.Cursor().Block != 1 {
		t.Fatalf("cursor should land in the new paragraph, got %#v", s.Cursor())
	}
}

func TestLiveFormatHeading(t *testing.T) {
	s := NewSession("")
	typeLine(t, s, "# Title")
	if err := Apply(s, PressEnter{}); err != nil {
		t.Fatalf("PressEnter returned error: %v", err)
	}

	doc := s.Document()
	if len(doc.Blocks) != 2 {
		t.Fatalf("expected heading plus trailing paragraph, got %#v", doc.Blocks)
	}
	h := doc.Blocks[0]
	if h.Kind != document.Heading || h.Level != 1 {
		t.Fatalf("expected level-1 heading, got %#v", h)
	}
	if got := document.PlainText(h.Inlines); got != "Title" {
		t.Fatalf("expected heading text %q, got %q", "Title", got)
	}
	if s.Cursor().Block != 1 {
		t.Fatalf("cursor should land below the heading, got %#v", s.Cursor())
	}
}

func TestLiveFormatTaskLine(t *testing.T) {
	s := NewSession("")
	typeLine(t, s, "- [x] Buy milk")
	if err := Apply(s, PressEnter{}); err != nil {
		t.Fatalf("PressEnter returned error: %v", err)
	}

	doc := s.Document()
	list := doc.Blocks[0]
	if list.Kind != document.BulletList || len(list.Items) != 1 {
		t.Fatalf("expected a single-item list, got %#v", list)
	}
	item := list.Items[0]
	if !item.Task || !item.Checked {
		t.Fatalf("expected checked task item, got %#v", item)
	}
	if got := document.PlainText(item.Inlines); got != "Buy milk" {
		t.Fatalf("expected item text %q, got %q", "Buy milk", got)
	}
	if s.Cursor().Block != 1 {
		t.Fatalf("cursor should advance to a new line, got %#v", s.Cursor())
	}
}

func TestLiveFormatUncheckedTaskFlag(t *testing.T) {
	s := NewSession("")
	typeLine(t, s, "- [ ] open item")
	if err := Apply(s, PressEnter{}); err != nil {
		t.Fatalf("PressEnter returned error: %v", err)
	}
	item := s.Document().Blocks[0].Items[0]
	if !item.Task || item.Checked {
		t.Fatalf("expected unchecked task item, got %#v", item)
	}
}

func TestLiveFormatCodeFence(t *testing.T) {
	s := NewSession("")
	typeLine(t, s, "```go")
	if err := Apply(s, PressEnter{}); err != nil {
		t.Fatalf("PressEnter returned error: %v", err)
	}

	doc := s.Document()
	block := doc.Blocks[0]
	if block.Kind != document.CodeBlock || block.Language != "go" {
		t.Fatalf("expected an empty go code block, got %#v", block)
	}
	if block.Literal != "" {
		t.Fatalf("expected empty code content, got %q", block.Literal)
	}
	if s.Cursor().Block != 0 {
		t.Fatalf("cursor should enter the code block, got %#v", s.Cursor())
	}

	// Subsequent Enter presses are literal newlines, never reinterpretation.
	typeLine(t, s, "fmt.Println(1)")
	if err := Apply(s, PressEnter{}); err != nil {
		t.Fatalf("PressEnter in code block returned error: %v", err)
	}
	if got := s.Document().Blocks[0].Literal; got != "fmt.Println(1)\n" {
		t.Fatalf("expected literal newline, got %q", got)
	}
}

func TestModEnterExitsCodeBlock(t *testing.T) {
	s := NewSession("```go\ncode\n```")
	if err := Apply(s, ModEnter{}); err != nil {
		t.Fatalf("ModEnter returned error: %v", err)
	}
	doc := s.Document()
	if len(doc.Blocks) != 2 || doc.Blocks[1].Kind != document.Paragraph {
		t.Fatalf("expected a trailing paragraph, got %#v", doc.Blocks)
	}
	if s.Cursor().Block != 1 {
		t.Fatalf("cursor should leave the code block, got %#v", s.Cursor())
	}
}

func TestAutoClosingPairsInCodeBlock(t *testing.T) {
	pairs := map[rune]string{
		'(':  "()",
		'{':  "{}",
		'[':  "[]",
		'"':  `""`,
		'\'': "''",
	}
	for open, want := range pairs {
		fresh := NewSession("```go\n```")
		if err := Apply(fresh, TypeRune{Rune: open}); err != nil {
			t.Fatalf("TypeRune(%q) returned error: %v", open, err)
		}
		block := fresh.Document().Blocks[0]
		if block.Literal != want {
			t.Fatalf("expected %q after typing %q, got %q", want, open, block.Literal)
		}
		if fresh.Cursor().Offset != 1 {
			t.Fatalf("cursor should sit between the pair, got %#v", fresh.Cursor())
		}
	}
}

func TestAutoClosingOnlyInsideCodeBlocks(t *testing.T) {
	s := NewSession("")
	if err := Apply(s, TypeRune{Rune: '('}); err != nil {
		t.Fatalf("TypeRune returned error: %v", err)
	}
	if got := document.PlainText(s.Document().Blocks[0].Inlines); got != "(" {
		t.Fatalf("expected a lone paren in prose, got %q", got)
	}
}

func TestEmptyLineEnterIsDefault(t *testing.T) {
	s := NewSession("")
	if err := Apply(s, PressEnter{}); err != nil {
		t.Fatalf("PressEnter returned error: %v", err)
	}
	doc := s.Document()
	if len(doc.Blocks) != 2 {
		t.Fatalf("expected two empty paragraphs, got %#v", doc.Blocks)
	}
}

func TestLiveFormatInlineUnwrapsParagraph(t *testing.T) {
	s := NewSession("")
	typeLine(t, s, "some **bold** words")
	if err := Apply(s, PressEnter{}); err != nil {
		t.Fatalf("PressEnter returned error: %v", err)
	}

	first := s.Document().Blocks[0]
	if first.Kind != document.Paragraph {
		t.Fatalf("inline result should stay a paragraph, got %#v", first)
	}
	if len(first.Inlines) != 3 || first.Inlines[1].Kind != document.Bold {
		t.Fatalf("expected the bold run to be recognized, got %#v", first.Inlines)
	}
}

func TestLiveFormatWikiLinkCompletion(t *testing.T) {
	s := NewSession("")
	typeLine(t, s, "see [[Project Alpha|Alpha]] here")
	if err := Apply(s, PressEnter{}); err != nil {
		t.Fatalf("PressEnter returned error: %v", err)
	}

	inlines := s.Document().Blocks[0].Inlines
	if len(inlines) != 3 || inlines[1].Kind != document.WikiLink {
		t.Fatalf("expected wiki-link inline, got %#v", inlines)
	}
	if inlines[1].Target != "Project Alpha" || inlines[1].Label != "Alpha" {
		t.Fatalf("unexpected wiki-link: %#v", inlines[1])
	}
}

func TestTypedClosingBracketCompletesWikiLink(t *testing.T) {
	s := NewSession("")
	for _, r := range "see [[Note]]" {
		if err := Apply(s, TypeRune{Rune: r}); err != nil {
			t.Fatalf("TypeRune(%q) returned error: %v", r, err)
		}
	}

	inlines := s.Document().Blocks[0].Inlines
	if len(inlines) != 2 || inlines[1].Kind != document.WikiLink {
		t.Fatalf("expected the token to become a link on the closing ]], got %#v", inlines)
	}
	if inlines[1].Target != "Note" || inlines[1].Label != "" {
		t.Fatalf("unexpected wiki-link: %#v", inlines[1])
	}
	if got := s.Markdown(); got != "see [[Note]]" {
		t.Fatalf("serialized form altered: %q", got)
	}
	if off := s.Cursor().Offset; off != len("see Note") {
		t.Fatalf("cursor should sit after the link text, got offset %d", off)
	}
}

func TestTypedClosingBracketIgnoresNonTokens(t *testing.T) {
	for _, line := range []string{"just ]]", "empty [[]]", "lone ]"} {
		s := NewSession("")
		for _, r := range line {
			if err := Apply(s, TypeRune{Rune: r}); err != nil {
				t.Fatalf("TypeRune(%q) returned error: %v", r, err)
			}
		}
		inlines := s.Document().Blocks[0].Inlines
		if len(inlines) != 1 || inlines[0].Kind != document.Text {
			t.Fatalf("expected %q to stay literal text, got %#v", line, inlines)
		}
	}
}

func TestReconcileSkipsSmallDrift(t *testing.T) {
	s := NewSession("hello world")
	current := s.Markdown()
	if reset := s.Reconcile(current + "!"); reset {
		t.Fatal("a one-byte delta should not force a reparse")
	}
}

func TestReconcileResetsOnLargeDrift(t *testing.T) {
	s := NewSession("hello world")
	incoming := "# Completely different\n\nnew content entirely"
	if reset := s.Reconcile(incoming); !reset {
		t.Fatal("a large delta must force a reparse")
	}
	if got := s.Markdown(); got != incoming {
		t.Fatalf("expected document rebuilt from incoming markdown, got %q", got)
	}
}

func TestReconcileResetsEmptyDocument(t *testing.T) {
	s := NewSession("")
	if reset := s.Reconcile("fresh"); !reset {
		t.Fatal("an empty document must always accept incoming content")
	}
}

func TestControllerFlushesOnSwitch(t *testing.T) {
	flushed := map[string]string{}
	c := NewController(func(id, markdown string) {
		flushed[id] = markdown
	})

	s := c.Open("note-1", "first note")
	typeLine(t, s, " extended")
	c.Open("note-2", "second note")

	if got := flushed["note-1"]; got != "first note extended" {
		t.Fatalf("expected note-1 flushed before the switch, got %q", got)
	}
	if c.NoteID() != "note-2" {
		t.Fatalf("expected controller on note-2, got %q", c.NoteID())
	}
}

func TestDeleteBackwardInParagraph(t *testing.T) {
	s := NewSession("")
	typeLine(t, s, "héllo")
	if err := Apply(s, DeleteBackward{}); err != nil {
		t.Fatalf("DeleteBackward returned error: %v", err)
	}
	if got := s.Markdown(); got != "héll" {
		t.Fatalf("markdown = %q, want %q", got, "héll")
	}

	// multi-byte rune removed whole
	if err := Apply(s, DeleteBackward{}); err != nil {
		t.Fatalf("DeleteBackward returned error: %v", err)
	}
	if err := Apply(s, DeleteBackward{}); err != nil {
		t.Fatalf("DeleteBackward returned error: %v", err)
	}
	if got := s.Markdown(); got != "h" {
		t.Fatalf("markdown = %q, want %q", got, "h")
	}
}

func TestDeleteBackwardRemovesEmptyParagraph(t *testing.T) {
	s := NewSession("")
	typeLine(t, s, "line one")
	if err := Apply(s, PressEnter{}); err != nil {
		t.Fatalf("PressEnter returned error: %v", err)
	}
	if err := Apply(s, DeleteBackward{}); err != nil {
		t.Fatalf("DeleteBackward returned error: %v", err)
	}

	doc := s.Document()
	if len(doc.Blocks) != 1 {
		t.Fatalf("expected empty paragraph to be removed, got %#v", doc.Blocks)
	}
	if c := s.Cursor(); c.Block != 0 || c.Offset != len("line one") {
		t.Fatalf("cursor should rejoin previous block end, got %#v", c)
	}
}

func TestDeleteBackwardAtDocumentStartIsNoop(t *testing.T) {
	s := NewSession("")
	if err := Apply(s, DeleteBackward{}); err != nil {
		t.Fatalf("DeleteBackward returned error: %v", err)
	}
	if len(s.Document().Blocks) != 1 {
		t.Fatalf("document shape changed: %#v", s.Document().Blocks)
	}
}

func TestSetCursorClampsOutOfRange(t *testing.T) {
	s := NewSession("short")
	s.SetCursor(Cursor{Block: 10, Offset: 99})
	if c := s.Cursor(); c.Block != 0 || c.Offset != len("short") {
		t.Fatalf("cursor not clamped: %#v", c)
	}
}
