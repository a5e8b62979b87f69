package document

import (
	"reflect"
	"strings"
	"testing"
)

func TestWikiLinkFidelity(t *testing.T) {
	source := "See [[Project Alpha|Alpha]] for details."
	if got := Serialize(Parse(source)); got != source {
		t.Fatalf("expected %q to survive a round-trip, got %q", source, got)
	}

	short := "Linked to [[Beta]] here."
	if got := Serialize(Parse(short)); got != short {
		t.Fatalf("expected %q to survive a round-trip, got %q", short, got)
	}
}

func TestWikiLinkParsedAsDistinctInline(t *testing.T) {
	doc := Parse("See [[Project Alpha|Alpha]] for details.")
	if len(doc.Blocks) != 1 || doc.Blocks[0].Kind != Paragraph {
		t.Fatalf("expected a single paragraph, got %#v", doc.Blocks)
	}

	inlines := doc.Blocks[0].Inlines
	if len(inlines) != 3 {
		t.Fatalf("expected 3 inline runs, got %#v", inlines)
	}
	link := inlines[1]
	if link.Kind != WikiLink || link.Target != "Project Alpha" || link.Label != "Alpha" {
		t.Fatalf("unexpected wiki-link inline: %#v", link)
	}
}

func TestWikiLinkTargetWithMarkupChars(t *testing.T) {
	// Targets and labels may contain characters the markdown parser reads
	// as inline markup; the token must come back byte for byte.
	sources := []string{
		"see [[a*b*c]] here",
		"see [[a_b_c|so *bold*]] here",
		"tilde [[x~~y~~z]] target",
		"bracket [[a(]] target",
	}
	for _, source := range sources {
		if got := Serialize(Parse(source)); got != source {
			t.Fatalf("token mutated for %q: got %q", source, got)
		}
	}

	doc := Parse("see [[a*b*c]] here")
	inlines := doc.Blocks[0].Inlines
	if len(inlines) != 3 || inlines[1].Kind != WikiLink {
		t.Fatalf("expected a wiki-link inline, got %#v", inlines)
	}
	if inlines[1].Target != "a*b*c" || inlines[1].Label != "" {
		t.Fatalf("label fabricated from display text: %#v", inlines[1])
	}
}

func TestTaskItemRoundTrip(t *testing.T) {
	source := "- [x] Buy milk"
	doc := Parse(source)

	if len(doc.Blocks) != 1 || doc.Blocks[0].Kind != BulletList {
		t.Fatalf("expected one bullet list, got %#v", doc.Blocks)
	}
	items := doc.Blocks[0].Items
	if len(items) != 1 {
		t.Fatalf("expected one item, got %#v", items)
	}
	if !items[0].Task || !items[0].Checked {
		t.Fatalf("expected a checked task item, got %#v", items[0])
	}
	if got := PlainText(items[0].Inlines); got != "Buy milk" {
		t.Fatalf("expected item text %q, got %q", "Buy milk", got)
	}

	if got := Serialize(doc); got != source {
		t.Fatalf("expected %q, got %q", source, got)
	}
}

func TestCodeFenceLanguagePreserved(t *testing.T) {
	doc := Parse("```python\nprint(1)\n```")

	if len(doc.Blocks) != 1 || doc.Blocks[0].Kind != CodeBlock {
		t.Fatalf("expected one code block, got %#v", doc.Blocks)
	}
	block := doc.Blocks[0]
	if block.Language != "python" {
		t.Fatalf("expected language %q, got %q", "python", block.Language)
	}
	if block.Literal != "print(1)" {
		t.Fatalf("expected literal %q with no trailing newline, got %q", "print(1)", block.Literal)
	}

	want := "```python\nprint(1)\n```"
	if got := Serialize(doc); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestCodeFenceDoesNotAccumulateBlankLines(t *testing.T) {
	source := "```go\nfmt.Println(1)\n\n```"
	once := Serialize(Parse(source))
	twice := Serialize(Parse(once))
	if once != twice {
		t.Fatalf("repeated round-trips diverged:\n once: %q\ntwice: %q", once, twice)
	}
	if strings.Contains(once, "\n\n```") {
		t.Fatalf("trailing blank line not stripped: %q", once)
	}
}

func TestSerializationIdempotent(t *testing.T) {
	sources := []string{
		"# Title\n\nSome *text* with **bold** and ~~gone~~.",
		"- one\n- two\n- three",
		"1. first\n2. second",
		"> quoted\n>\n> more",
		"- [ ] open task\n- [x] done task",
		"Plain paragraph with `code` and a [link](https://example.com).",
		"![diagram](attachment://abc-123)",
		"_italic_ and __bold__ normalize",
		"---",
		"Text with <u>underline</u> kept.",
	}
	for _, source := range sources {
		once := Serialize(Parse(source))
		twice := Serialize(Parse(once))
		if once != twice {
			t.Fatalf("not idempotent for %q:\n once: %q\ntwice: %q", source, once, twice)
		}
	}
}

func TestRoundTripStability(t *testing.T) {
	sources := []string{
		"# Heading\n\npara with [[Note]] link",
		"- [ ] task\n- plain item",
		"```sh\nls -la\n```",
		"> a quote",
		"## Sub\n\n**bold** *italic* `code`",
		"![img](attachment://id-1)",
	}
	for _, source := range sources {
		doc := Parse(Serialize(Parse(source)))
		again := Parse(Serialize(doc))
		if !reflect.DeepEqual(doc, again) {
			t.Fatalf("document tree not stable for %q:\n first: %#v\nsecond: %#v", source, doc, again)
		}
	}
}

func TestMalformedInputIsTotal(t *testing.T) {
	cases := []string{
		"[[unclosed",
		"**unbalanced",
		"``` no close",
		"][ inverted ][",
		"",
	}
	for _, c := range cases {
		doc := Parse(c)
		if doc == nil {
			t.Fatalf("expected a document for %q", c)
		}
		// Re-serialization must also never fail.
		_ = Serialize(doc)
	}
}

func TestImageHoistedFromParagraph(t *testing.T) {
	doc := Parse("before ![alt text](attachment://img-9) after")
	if len(doc.Blocks) != 3 {
		t.Fatalf("expected paragraph/image/paragraph, got %#v", doc.Blocks)
	}
	img := doc.Blocks[1]
	if img.Kind != Image || img.Src != "attachment://img-9" || img.Alt != "alt text" {
		t.Fatalf("unexpected image block: %#v", img)
	}
}

func TestAttachmentSourceOpaque(t *testing.T) {
	source := "![shot](attachment://4f1c)"
	if got := Serialize(Parse(source)); got != source {
		t.Fatalf("attachment locator altered: %q", got)
	}
}

func TestBlockquoteNesting(t *testing.T) {
	doc := Parse("> outer\n>\n> more")
	if len(doc.Blocks) != 1 || doc.Blocks[0].Kind != Blockquote {
		t.Fatalf("expected one blockquote, got %#v", doc.Blocks)
	}
	if len(doc.Blocks[0].Children) != 2 {
		t.Fatalf("expected two child paragraphs, got %#v", doc.Blocks[0].Children)
	}
}

func TestOrderedListKeepsStart(t *testing.T) {
	source := "3. third\n4. fourth"
	doc := Parse(source)
	if len(doc.Blocks) != 1 || doc.Blocks[0].Kind != OrderedList {
		t.Fatalf("expected one ordered list, got %#v", doc.Blocks)
	}
	if doc.Blocks[0].Start != 3 {
		t.Fatalf("expected start 3, got %d", doc.Blocks[0].Start)
	}
	if got := Serialize(doc); got != source {
		t.Fatalf("expected %q, got %q", source, got)
	}
}
