package document

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/quillmd/quill/internal/wikilink"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough, extension.TaskList),
)

// Parse converts markdown text into a document. Parsing is total: any input,
// however malformed, yields some valid document, falling back to literal
// paragraph text.
func Parse(source string) *Document {
	return &Document{Blocks: ParseFragment(source)}
}

// ParseFragment converts markdown text into a block sequence without
// wrapping it in a Document. The live-formatting handler uses it to
// interpret single lines.
func ParseFragment(source string) (blocks []Block) {
	defer func() {
		if r := recover(); r != nil {
			blocks = literalBlocks(source)
		}
	}()

	// Wiki-links are rewritten to reserved-scheme links before the markdown
	// parser runs, so [[...]] is never read as bracket text.
	src := []byte(wikilink.Rewrite(source))
	root := md.Parser().Parse(text.NewReader(src))

	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		blocks = append(blocks, convertBlock(child, src)...)
	}
	if blocks == nil && strings.TrimSpace(source) != "" {
		blocks = literalBlocks(source)
	}
	return blocks
}

func literalBlocks(source string) []Block {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return nil
	}
	return []Block{{
		Kind:    Paragraph,
		Inlines: []Inline{{Kind: Text, Content: trimmed}},
	}}
}

func convertBlock(n ast.Node, src []byte) []Block {
	switch b := n.(type) {
	case *ast.Heading:
		level := b.Level
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		return []Block{{Kind: Heading, Level: level, Inlines: convertChildren(b, src)}}
	case *ast.Paragraph:
		return convertParagraph(b, src)
	case *ast.TextBlock:
		return convertParagraph(b, src)
	case *ast.List:
		return []Block{convertList(b, src)}
	case *ast.Blockquote:
		var children []Block
		for c := b.FirstChild(); c != nil; c = c.NextSibling() {
			children = append(children, convertBlock(c, src)...)
		}
		return []Block{{Kind: Blockquote, Children: children}}
	case *ast.FencedCodeBlock:
		return []Block{{
			Kind:     CodeBlock,
			Language: string(b.Language(src)),
			Literal:  codeLines(b, src),
		}}
	case *ast.CodeBlock:
		return []Block{{Kind: CodeBlock, Literal: codeLines(b, src)}}
	case *ast.ThematicBreak:
		return []Block{{Kind: Rule}}
	default:
		// Unrecognized structure degrades to literal paragraph text.
		return literalBlocks(string(n.Text(src)))
	}
}

// codeLines joins the raw lines of a code block and strips the trailing
// newline the markdown parser leaves on the final line, so repeated
// round-trips do not accumulate blank lines.
func codeLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// convertParagraph maps a paragraph's inline children, hoisting images out
// into their own blocks so the inline model stays closed over text runs.
func convertParagraph(n ast.Node, src []byte) []Block {
	var out []Block
	var cur []Inline

	for c := n.FirstChild(); c != nil; {
		if img, ok := c.(*ast.Image); ok {
			if len(cur) > 0 {
				out = append(out, Block{Kind: Paragraph, Inlines: cur})
				cur = nil
			}
			out = append(out, Block{
				Kind: Image,
				Src:  string(img.Destination),
				Alt:  string(img.Text(src)),
			})
			c = c.NextSibling()
			continue
		}
		cur, c = convertInlineNode(cur, c, src)
	}

	if len(cur) > 0 || len(out) == 0 {
		out = append(out, Block{Kind: Paragraph, Inlines: cur})
	}
	return out
}

func convertList(l *ast.List, src []byte) Block {
	kind := BulletList
	start := 0
	if l.IsOrdered() {
		kind = OrderedList
		start = l.Start
		if start == 0 {
			start = 1
		}
	}

	var items []ListItem
	for li := l.FirstChild(); li != nil; li = li.NextSibling() {
		items = append(items, convertListItem(li, src)...)
	}
	return Block{Kind: kind, Items: items, Start: start}
}

// convertListItem maps one list item. Nested lists are flattened into the
// parent list; the model keeps lists one level deep.
func convertListItem(li ast.Node, src []byte) []ListItem {
	item := ListItem{}
	var extra []ListItem

	for c := li.FirstChild(); c != nil; c = c.NextSibling() {
		switch cc := c.(type) {
		case *ast.TextBlock, *ast.Paragraph:
			first := cc.FirstChild()
			if box, ok := first.(*east.TaskCheckBox); ok {
				item.Task = true
				item.Checked = box.IsChecked
				first = first.NextSibling()
			}
			for n := first; n != nil; {
				item.Inlines, n = convertInlineNode(item.Inlines, n, src)
			}
		case *ast.List:
			nested := convertList(cc, src)
			extra = append(extra, nested.Items...)
		default:
			item.Inlines = appendText(item.Inlines, string(c.Text(src)))
		}
	}

	if item.Task && len(item.Inlines) > 0 && item.Inlines[0].Kind == Text {
		item.Inlines[0].Content = strings.TrimPrefix(item.Inlines[0].Content, " ")
	}
	return append([]ListItem{item}, extra...)
}

func convertChildren(n ast.Node, src []byte) []Inline {
	var acc []Inline
	for c := n.FirstChild(); c != nil; {
		acc, c = convertInlineNode(acc, c, src)
	}
	return acc
}

// convertInlineNode maps one inline node onto the accumulator and returns
// the node to continue from. The cursor is explicit because underline spans
// are reassembled from raw <u>...</u> tag pairs spanning several siblings.
func convertInlineNode(acc []Inline, n ast.Node, src []byte) ([]Inline, ast.Node) {
	switch in := n.(type) {
	case *ast.Text:
		acc = appendText(acc, string(in.Segment.Value(src)))
		if in.SoftLineBreak() || in.HardLineBreak() {
			acc = appendText(acc, " ")
		}
	case *ast.String:
		acc = appendText(acc, string(in.Value))
	case *ast.Emphasis:
		kind := Italic
		if in.Level >= 2 {
			kind = Bold
		}
		acc = append(acc, Inline{Kind: kind, Children: convertChildren(in, src)})
	case *east.Strikethrough:
		acc = append(acc, Inline{Kind: Strike, Children: convertChildren(in, src)})
	case *ast.CodeSpan:
		acc = append(acc, Inline{Kind: Code, Content: string(in.Text(src))})
	case *ast.Link:
		acc = append(acc, convertLink(string(in.Destination), convertChildren(in, src)))
	case *ast.AutoLink:
		href := string(in.URL(src))
		acc = append(acc, Inline{
			Kind:     Link,
			Href:     href,
			Children: []Inline{{Kind: Text, Content: href}},
		})
	case *ast.Image:
		// Images nested inside marks degrade to literal text.
		acc = appendText(acc, "!["+string(in.Text(src))+"]("+string(in.Destination)+")")
	case *ast.RawHTML:
		raw := rawValue(in, src)
		if raw == "<u>" {
			if wrapped, next, ok := collectUnderline(in, src); ok {
				return append(acc, wrapped), next
			}
		}
		acc = appendText(acc, raw)
	default:
		acc = appendText(acc, string(n.Text(src)))
	}
	return acc, n.NextSibling()
}

// convertLink maps a generic link, recognizing the reserved wiki-link
// scheme. The destination alone carries the token; the display text is
// discarded, since the parser may have split it into emphasis runs.
func convertLink(dest string, children []Inline) Inline {
	if wl, ok := wikilink.FromHref(dest); ok {
		return Inline{Kind: WikiLink, Target: wl.Target, Label: wl.Label}
	}
	return Inline{Kind: Link, Href: dest, Children: children}
}

// collectUnderline gathers the siblings between a <u> and its closing </u>
// into an underline run. Without a closing tag the opener stays literal.
func collectUnderline(open *ast.RawHTML, src []byte) (Inline, ast.Node, bool) {
	var children []Inline
	for n := open.NextSibling(); n != nil; {
		if raw, ok := n.(*ast.RawHTML); ok && rawValue(raw, src) == "</u>" {
			return Inline{Kind: Underline, Children: children}, n.NextSibling(), true
		}
		children, n = convertInlineNode(children, n, src)
	}
	return Inline{}, nil, false
}

func rawValue(n *ast.RawHTML, src []byte) string {
	var buf bytes.Buffer
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}
