package wikilink

import (
	"reflect"
	"testing"
)

func TestFindAllExtractsTargetAndLabel(t *testing.T) {
	matches := FindAll("See [[Project Alpha|Alpha]] and [[Beta]] for details.")
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d: %#v", len(matches), matches)
	}

	if matches[0].Target != "Project Alpha" || matches[0].Label != "Alpha" {
		t.Fatalf("unexpected first match: %#v", matches[0])
	}
	if matches[1].Target != "Beta" || matches[1].Label != "" {
		t.Fatalf("unexpected second match: %#v", matches[1])
	}
}

func TestFindAllIgnoresMalformedBrackets(t *testing.T) {
	cases := []string{
		"unbalanced [[open",
		"closed without open ]]",
		"empty [[]]",
		"[ [not a link] ]",
	}
	for _, c := range cases {
		if got := FindAll(c); len(got) != 0 {
			t.Fatalf("expected no matches for %q, got %#v", c, got)
		}
	}
}

func TestMarkdownReproducesTokenExactly(t *testing.T) {
	cases := map[string]Link{
		"[[Project Alpha|Alpha]]": {Target: "Project Alpha", Label: "Alpha"},
		"[[Beta]]":                {Target: "Beta"},
	}
	for want, link := range cases {
		if got := link.Markdown(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}

	// A label equal to the target collapses to the short form.
	collapsed := Link{Target: "Gamma", Label: "Gamma"}
	if got := collapsed.Markdown(); got != "[[Gamma]]" {
		t.Fatalf("expected collapsed form, got %q", got)
	}
}

func TestHrefRoundTrip(t *testing.T) {
	link := Link{Target: "Project Alpha"}
	href := link.Href()
	back, ok := FromHref(href)
	if !ok {
		t.Fatalf("expected %q to round-trip", href)
	}
	if back.Target != "Project Alpha" {
		t.Fatalf("unexpected target %q", back.Target)
	}

	if _, ok := FromHref("https://example.com"); ok {
		t.Fatal("external URL should not resolve as a wiki-link")
	}
}

func TestHrefCarriesLabel(t *testing.T) {
	cases := []Link{
		{Target: "Project Alpha", Label: "Alpha"},
		{Target: "a*b*c"},
		{Target: "notes|ideas", Label: "the _pile_"},
	}
	for _, link := range cases {
		back, ok := FromHref(link.Href())
		if !ok {
			t.Fatalf("expected %q to round-trip", link.Href())
		}
		if back != link {
			t.Fatalf("href round-trip changed %#v into %#v", link, back)
		}
	}
}

func TestScanCompletionMatchesWholeTextScan(t *testing.T) {
	typed := "A thought about [[Project Alpha|Alpha]]"
	match, ok := ScanCompletion(typed)
	if !ok {
		t.Fatalf("expected completion for %q", typed)
	}

	whole := FindAll(typed)
	if !reflect.DeepEqual(match.Link, whole[len(whole)-1].Link) {
		t.Fatalf("typed rule produced %#v, scan produced %#v", match.Link, whole)
	}

	if _, ok := ScanCompletion("nothing completed here"); ok {
		t.Fatal("expected no completion without a trailing ]]")
	}
	if _, ok := ScanCompletion("[[earlier]] trailing text"); ok {
		t.Fatal("completion requires the token to end the text")
	}
}

func TestRewriteSkipsCodeRegions(t *testing.T) {
	source := "Link [[A]] here\n```\n[[not a link]]\n```\nand `[[inline code]]` stays"
	got := Rewrite(source)
	want := "Link [A](note:A) here\n```\n[[not a link]]\n```\nand `[[inline code]]` stays"
	if got != want {
		t.Fatalf("Rewrite mismatch:\n got: %q\nwant: %q", got, want)
	}
}
