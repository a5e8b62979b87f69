package importer

import (
	"testing"
	"time"
)

func TestNoteFromFileUsesHeadingTitle(t *testing.T) {
	n := noteFromFile("/tmp/some-file.md", "# Real Title\n\nbody text")
	if n.Title != "Real Title" {
		t.Fatalf("title = %q, want %q", n.Title, "Real Title")
	}
	if n.Content != "# Real Title\n\nbody text" {
		t.Fatalf("content altered: %q", n.Content)
	}
}

func TestNoteFromFileFallsBackToFileName(t *testing.T) {
	n := noteFromFile("/tmp/meeting-notes.md", "just some text")
	if n.Title != "meeting-notes" {
		t.Fatalf("title = %q, want %q", n.Title, "meeting-notes")
	}
}

func TestNoteFromFileParsesCreatedFrontmatter(t *testing.T) {
	content := "---\ncreated: 2023-05-01 14:30\ntags: old\n---\n# Note\n\nbody"
	n := noteFromFile("/tmp/note.md", content)

	want := time.Date(2023, 5, 1, 14, 30, 0, 0, time.UTC)
	if !n.CreatedAt.Equal(want) {
		t.Fatalf("CreatedAt = %v, want %v", n.CreatedAt, want)
	}
	if n.Title != "Note" {
		t.Fatalf("title = %q", n.Title)
	}
	if n.Content != "# Note\n\nbody" {
		t.Fatalf("frontmatter not stripped: %q", n.Content)
	}
}

func TestSplitFrontmatterWithoutBlock(t *testing.T) {
	front, body := splitFrontmatter("no frontmatter here")
	if front != "" || body != "no frontmatter here" {
		t.Fatalf("front=%q body=%q", front, body)
	}
}

func TestSplitFrontmatterUnterminated(t *testing.T) {
	content := "---\ncreated: 2021-01-01"
	front, body := splitFrontmatter(content)
	if front != "" || body != content {
		t.Fatalf("unterminated block should be kept as body, front=%q body=%q", front, body)
	}
}
