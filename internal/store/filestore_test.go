package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := OpenFileStore(filepath.Join(t.TempDir(), "vault.json"))
	if err != nil {
		t.Fatalf("OpenFileStore returned error: %v", err)
	}
	s.SetSaveDelay(0)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNoteCRUDRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	n := NewNote("Project Alpha", "content here", "")
	if err := s.PutNote(ctx, n); err != nil {
		t.Fatalf("PutNote returned error: %v", err)
	}

	got, err := s.Note(ctx, n.ID)
	if err != nil {
		t.Fatalf("Note returned error: %v", err)
	}
	if got.Title != "Project Alpha" || got.Content != "content here" {
		t.Fatalf("unexpected note: %#v", got)
	}

	if err := s.DeleteNote(ctx, n.ID); err != nil {
		t.Fatalf("DeleteNote returned error: %v", err)
	}
	if _, err := s.Note(ctx, n.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVaultSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vault.json")

	s, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("OpenFileStore returned error: %v", err)
	}
	s.SetSaveDelay(0)
	n := NewNote("persisted", "body", "")
	if err := s.PutNote(ctx, n); err != nil {
		t.Fatalf("PutNote returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reopened, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Note(ctx, n.ID)
	if err != nil {
		t.Fatalf("Note after reopen returned error: %v", err)
	}
	if got.Title != "persisted" {
		t.Fatalf("unexpected note after reopen: %#v", got)
	}
}

func TestPinnedNotesSortFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a := NewNote("a", "", "")
	b := NewNote("b", "", "")
	b.Pinned = true
	for _, n := range []Note{a, b} {
		if err := s.PutNote(ctx, n); err != nil {
			t.Fatalf("PutNote returned error: %v", err)
		}
	}

	notes, err := s.Notes(ctx)
	if err != nil {
		t.Fatalf("Notes returned error: %v", err)
	}
	if len(notes) != 2 || notes[0].Title != "b" {
		t.Fatalf("expected pinned note first, got %#v", notes)
	}
}

func TestFolderMoveRejectsCycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	root := NewFolder("root", "")
	child := NewFolder("child", root.ID)
	grand := NewFolder("grand", child.ID)
	for _, f := range []Folder{root, child, grand} {
		if err := s.PutFolder(ctx, f); err != nil {
			t.Fatalf("PutFolder returned error: %v", err)
		}
	}

	if err := s.MoveFolder(ctx, root.ID, grand.ID); !errors.Is(err, ErrFolderCycle) {
		t.Fatalf("expected ErrFolderCycle, got %v", err)
	}
	if err := s.MoveFolder(ctx, root.ID, root.ID); !errors.Is(err, ErrFolderCycle) {
		t.Fatalf("expected self-parenting to be rejected, got %v", err)
	}

	// A legal reorganization still works.
	if err := s.MoveFolder(ctx, grand.ID, root.ID); err != nil {
		t.Fatalf("legal move returned error: %v", err)
	}
}

func TestDeleteFolderReparentsContents(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	root := NewFolder("root", "")
	child := NewFolder("child", root.ID)
	for _, f := range []Folder{root, child} {
		if err := s.PutFolder(ctx, f); err != nil {
			t.Fatalf("PutFolder returned error: %v", err)
		}
	}
	n := NewNote("filed", "", child.ID)
	if err := s.PutNote(ctx, n); err != nil {
		t.Fatalf("PutNote returned error: %v", err)
	}

	if err := s.DeleteFolder(ctx, child.ID); err != nil {
		t.Fatalf("DeleteFolder returned error: %v", err)
	}
	got, err := s.Note(ctx, n.ID)
	if err != nil {
		t.Fatalf("Note returned error: %v", err)
	}
	if got.FolderID != root.ID {
		t.Fatalf("expected note reparented to root, got %q", got.FolderID)
	}
}

func TestAttachmentLookup(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a := NewAttachment("shot.png", "image/png", "aGVsbG8=", "")
	if err := s.PutAttachment(ctx, a); err != nil {
		t.Fatalf("PutAttachment returned error: %v", err)
	}
	got, err := s.Attachment(ctx, a.ID)
	if err != nil {
		t.Fatalf("Attachment returned error: %v", err)
	}
	if got.FileName != "shot.png" || got.MimeType != "image/png" {
		t.Fatalf("unexpected attachment: %#v", got)
	}

	if _, err := s.Attachment(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a missing id, got %v", err)
	}
}

func TestStatusTransitions(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vault.json")
	s, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("OpenFileStore returned error: %v", err)
	}
	defer s.Close()
	s.SetSaveDelay(0)

	var seen []SaveStatus
	s.OnStatus(func(status SaveStatus) {
		seen = append(seen, status)
	})

	if err := s.PutNote(ctx, NewNote("x", "", "")); err != nil {
		t.Fatalf("PutNote returned error: %v", err)
	}
	if s.Status() != StatusClean {
		t.Fatalf("expected clean status after synchronous save, got %v", s.Status())
	}
	if len(seen) == 0 || seen[len(seen)-1] != StatusClean {
		t.Fatalf("expected observable transitions ending clean, got %v", seen)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected vault file on disk: %v", err)
	}
}
