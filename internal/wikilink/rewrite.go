package wikilink

import "strings"

// displayEscaper keeps the generated link's display text structurally inert:
// a backslash or opening bracket inside a target must not start a nested
// link. The display text is presentation only; recovery reads the href.
var displayEscaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`)

// Rewrite replaces every wiki-link token in markdown source with a generic
// link carrying the reserved scheme, so a downstream markdown parser never
// misreads [[...]] as bracket text or a partial link. Tokens inside fenced
// code blocks and inline code spans are left untouched.
func Rewrite(source string) string {
	lines := strings.Split(source, "\n")
	inFence := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		lines[i] = rewriteLine(line)
	}
	return strings.Join(lines, "\n")
}

// rewriteLine applies the substitution to the regions of one line that sit
// outside inline code spans.
func rewriteLine(line string) string {
	if !strings.Contains(line, "[[") {
		return line
	}

	var b strings.Builder
	rest := line
	for {
		tick := strings.IndexByte(rest, '`')
		if tick < 0 {
			b.WriteString(substitute(rest))
			break
		}
		closing := strings.IndexByte(rest[tick+1:], '`')
		if closing < 0 {
			// Unterminated span: the backtick is literal text.
			b.WriteString(substitute(rest))
			break
		}
		b.WriteString(substitute(rest[:tick]))
		b.WriteString(rest[tick : tick+closing+2])
		rest = rest[tick+closing+2:]
	}
	return b.String()
}

func substitute(text string) string {
	matches := FindAll(text)
	if len(matches) == 0 {
		return text
	}
	var b strings.Builder
	prev := 0
	for _, m := range matches {
		b.WriteString(text[prev:m.Start])
		b.WriteString("[")
		b.WriteString(displayEscaper.Replace(m.Display()))
		b.WriteString("](")
		b.WriteString(m.Href())
		b.WriteString(")")
		prev = m.End
	}
	b.WriteString(text[prev:])
	return b.String()
}
