// Package wikilink recognizes [[Target]] and [[Target|Label]] tokens in note
// content and serializes them back to their exact markdown form.
package wikilink

import (
	"net/url"
	"regexp"
	"strings"
)

// Scheme is the reserved link scheme used to carry wiki-link targets through
// stages that only understand generic links. A link whose destination starts
// with this prefix is always a wiki-link, never an external URL.
const Scheme = "note:"

var pattern = regexp.MustCompile(`\[\[([^\]]+)\]\]`)

// Link is a recognized wiki-link. Label is empty when the token had no
// explicit label. Resolution of Target against note titles is the caller's
// job; the recognizer only extracts the pair.
type Link struct {
	Target string
	Label  string
}

// Match is a Link located within a scanned string. Start and End are byte
// offsets of the full [[...]] token.
type Match struct {
	Link
	Start int
	End   int
}

// Display returns the text shown for the link: the label when present,
// otherwise the target.
func (l Link) Display() string {
	if l.Label != "" {
		return l.Label
	}
	return l.Target
}

// Markdown reproduces the wiki-link token exactly. A label equal to the
// target collapses to the short form.
func (l Link) Markdown() string {
	if l.Label != "" && l.Label != l.Target {
		return "[[" + l.Target + "|" + l.Label + "]]"
	}
	return "[[" + l.Target + "]]"
}

// Href returns the link flattened into a generic link destination using the
// reserved scheme. Both components are path-escaped, so destinations
// containing spaces survive markdown link parsing and the | separator
// stays unambiguous. The destination carries the whole token: recovery
// never depends on the link's display text, which a markdown parser may
// have reinterpreted as inline markup.
func (l Link) Href() string {
	href := Scheme + url.PathEscape(l.Target)
	if l.Label != "" {
		href += "|" + url.PathEscape(l.Label)
	}
	return href
}

// FromHref recovers a Link from a generic link destination produced by Href.
// The second return is false when the destination does not carry the
// reserved scheme.
func FromHref(href string) (Link, bool) {
	if !strings.HasPrefix(href, Scheme) {
		return Link{}, false
	}
	link := split(strings.TrimPrefix(href, Scheme))
	return Link{Target: unescape(link.Target), Label: unescape(link.Label)}, true
}

func unescape(s string) string {
	out, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return out
}

func split(inner string) Link {
	if i := strings.Index(inner, "|"); i >= 0 {
		return Link{Target: inner[:i], Label: inner[i+1:]}
	}
	return Link{Target: inner}
}

// FindAll scans text for syntactically complete wiki-link tokens. Unbalanced
// or malformed brackets never match.
func FindAll(text string) []Match {
	var matches []Match
	for _, loc := range pattern.FindAllStringSubmatchIndex(text, -1) {
		inner := text[loc[2]:loc[3]]
		link := split(inner)
		if link.Target == "" {
			continue
		}
		matches = append(matches, Match{Link: link, Start: loc[0], End: loc[1]})
	}
	return matches
}

// ScanCompletion reports the wiki-link completed by the final two characters
// of text, as fired by a typed input rule the moment the closing ]] lands.
// It produces the identical Link a whole-text scan would.
func ScanCompletion(text string) (Match, bool) {
	if !strings.HasSuffix(text, "]]") {
		return Match{}, false
	}
	matches := FindAll(text)
	if len(matches) == 0 {
		return Match{}, false
	}
	last := matches[len(matches)-1]
	if last.End != len(text) {
		return Match{}, false
	}
	return last, true
}
