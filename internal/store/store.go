package store

import (
	"context"
	"errors"
)

// ErrNotFound signals a lookup for a record that does not exist.
var ErrNotFound = errors.New("store: record not found")

// ErrFolderCycle signals a folder move that would make a folder its own
// ancestor.
var ErrFolderCycle = errors.New("store: folder move would create a cycle")

// ErrClosed signals use of a store that has been shut down.
var ErrClosed = errors.New("store: closed")

// SaveStatus describes the persistence state of a store with debounced
// writes.
type SaveStatus int

const (
	StatusClean SaveStatus = iota
	StatusDirty
	StatusSaving
)

func (s SaveStatus) String() string {
	switch s {
	case StatusDirty:
		return "unsaved"
	case StatusSaving:
		return "saving"
	default:
		return "saved"
	}
}

// Store is the persistence contract for the note corpus.
type Store interface {
	Notes(ctx context.Context) ([]Note, error)
	Note(ctx context.Context, id string) (Note, error)
	PutNote(ctx context.Context, n Note) error
	DeleteNote(ctx context.Context, id string) error

	Folders(ctx context.Context) ([]Folder, error)
	PutFolder(ctx context.Context, f Folder) error
	MoveFolder(ctx context.Context, id, parentID string) error
	DeleteFolder(ctx context.Context, id string) error

	Attachments(ctx context.Context) ([]Attachment, error)
	Attachment(ctx context.Context, id string) (Attachment, error)
	PutAttachment(ctx context.Context, a Attachment) error
	DeleteAttachment(ctx context.Context, id string) error

	Flush(ctx context.Context) error
	Close() error
}

// moveCreatesCycle walks the parent chain from parentID and reports whether
// it ever reaches id. Both backends share the check so the cycle-free
// invariant cannot drift between them.
func moveCreatesCycle(folders []Folder, id, parentID string) bool {
	if parentID == "" {
		return false
	}
	if parentID == id {
		return true
	}

	byID := make(map[string]Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}

	seen := make(map[string]struct{})
	for cur := parentID; cur != ""; {
		if cur == id {
			return true
		}
		if _, ok := seen[cur]; ok {
			// Pre-existing corruption; refuse to extend it.
			return true
		}
		seen[cur] = struct{}{}
		parent, ok := byID[cur]
		if !ok {
			return false
		}
		cur = parent.ParentID
	}
	return false
}
