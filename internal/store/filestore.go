package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// DefaultSaveDelay is the idle interval after which dirty state is written
// out. Rapid edits within the window coalesce into one write.
const DefaultSaveDelay = 2 * time.Second

type vaultFile struct {
	Notes       []Note       `json:"notes"`
	Folders     []Folder     `json:"folders"`
	Attachments []Attachment `json:"attachments"`
}

// FileStore keeps the whole corpus in one JSON vault file with debounced,
// atomic writes. Mutations return immediately; a save happens after an idle
// interval or on Flush.
type FileStore struct {
	mu    sync.Mutex
	path  string
	vault vaultFile

	dirty    bool
	status   SaveStatus
	timer    *time.Timer
	delay    time.Duration
	onStatus func(SaveStatus)
	closed   bool
}

// OpenFileStore loads (or creates) the vault file at path.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, delay: DefaultSaveDelay}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Fresh vault.
	case err != nil:
		return nil, fmt.Errorf("store: reading vault %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, &s.vault); err != nil {
			return nil, fmt.Errorf("store: parsing vault %s: %w", path, err)
		}
	}
	return s, nil
}

// SetSaveDelay overrides the debounce interval. Zero writes synchronously
// on every mutation.
func (s *FileStore) SetSaveDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// OnStatus registers a callback observing save-state transitions. The UI
// layer uses it for the save indicator; the store never blocks edits while
// a save runs.
func (s *FileStore) OnStatus(fn func(SaveStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStatus = fn
}

// Status reports the current persistence state.
func (s *FileStore) Status() SaveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *FileStore) setStatus(status SaveStatus) {
	s.status = status
	if s.onStatus != nil {
		s.onStatus(status)
	}
}

// markDirty must be called with the lock held.
func (s *FileStore) markDirty() {
	s.dirty = true
	s.setStatus(StatusDirty)
	if s.delay <= 0 {
		s.saveLocked()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || !s.dirty {
			return
		}
		s.saveLocked()
	})
}

// saveLocked writes the vault atomically: a temp file in the same directory
// renamed over the target.
func (s *FileStore) saveLocked() {
	s.setStatus(StatusSaving)
	data, err := json.MarshalIndent(s.vault, "", "  ")
	if err != nil {
		s.setStatus(StatusDirty)
		return
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.setStatus(StatusDirty)
		return
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.setStatus(StatusDirty)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.setStatus(StatusDirty)
		return
	}
	s.dirty = false
	s.setStatus(StatusClean)
}

// Flush forces an immediate write of any dirty state.
func (s *FileStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if !s.dirty {
		return nil
	}
	s.saveLocked()
	if s.dirty {
		return fmt.Errorf("store: flushing vault %s failed", s.path)
	}
	return nil
}

// Close flushes and shuts the store down.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.dirty {
		s.saveLocked()
	}
	s.closed = true
	return nil
}

func (s *FileStore) Notes(ctx context.Context) ([]Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := append([]Note(nil), s.vault.Notes...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pinned != out[j].Pinned {
			return out[i].Pinned
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *FileStore) Note(ctx context.Context, id string) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Note{}, ErrClosed
	}
	for _, n := range s.vault.Notes {
		if n.ID == id {
			return n, nil
		}
	}
	return Note{}, ErrNotFound
}

func (s *FileStore) PutNote(ctx context.Context, n Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	n.UpdatedAt = time.Now().UTC()
	for i, existing := range s.vault.Notes {
		if existing.ID == n.ID {
			if n.CreatedAt.IsZero() {
				n.CreatedAt = existing.CreatedAt
			}
			s.vault.Notes[i] = n
			s.markDirty()
			return nil
		}
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = n.UpdatedAt
	}
	s.vault.Notes = append(s.vault.Notes, n)
	s.markDirty()
	return nil
}

func (s *FileStore) DeleteNote(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for i, n := range s.vault.Notes {
		if n.ID == id {
			s.vault.Notes = append(s.vault.Notes[:i], s.vault.Notes[i+1:]...)
			s.markDirty()
			return nil
		}
	}
	return ErrNotFound
}

func (s *FileStore) Folders(ctx context.Context) ([]Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return append([]Folder(nil), s.vault.Folders...), nil
}

func (s *FileStore) PutFolder(ctx context.Context, f Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if moveCreatesCycle(s.vault.Folders, f.ID, f.ParentID) {
		return ErrFolderCycle
	}
	for i, existing := range s.vault.Folders {
		if existing.ID == f.ID {
			s.vault.Folders[i] = f
			s.markDirty()
			return nil
		}
	}
	s.vault.Folders = append(s.vault.Folders, f)
	s.markDirty()
	return nil
}

func (s *FileStore) MoveFolder(ctx context.Context, id, parentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if moveCreatesCycle(s.vault.Folders, id, parentID) {
		return ErrFolderCycle
	}
	for i, f := range s.vault.Folders {
		if f.ID == id {
			s.vault.Folders[i].ParentID = parentID
			s.markDirty()
			return nil
		}
	}
	return ErrNotFound
}

func (s *FileStore) DeleteFolder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for i, f := range s.vault.Folders {
		if f.ID == id {
			s.vault.Folders = append(s.vault.Folders[:i], s.vault.Folders[i+1:]...)
			// Children and notes fall back to unfiled rather than dangling.
			for j := range s.vault.Folders {
				if s.vault.Folders[j].ParentID == id {
					s.vault.Folders[j].ParentID = f.ParentID
				}
			}
			for j := range s.vault.Notes {
				if s.vault.Notes[j].FolderID == id {
					s.vault.Notes[j].FolderID = f.ParentID
				}
			}
			s.markDirty()
			return nil
		}
	}
	return ErrNotFound
}

func (s *FileStore) Attachments(ctx context.Context) ([]Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return append([]Attachment(nil), s.vault.Attachments...), nil
}

func (s *FileStore) Attachment(ctx context.Context, id string) (Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Attachment{}, ErrClosed
	}
	for _, a := range s.vault.Attachments {
		if a.ID == id {
			return a, nil
		}
	}
	return Attachment{}, ErrNotFound
}

func (s *FileStore) PutAttachment(ctx context.Context, a Attachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for i, existing := range s.vault.Attachments {
		if existing.ID == a.ID {
			s.vault.Attachments[i] = a
			s.markDirty()
			return nil
		}
	}
	s.vault.Attachments = append(s.vault.Attachments, a)
	s.markDirty()
	return nil
}

func (s *FileStore) DeleteAttachment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for i, a := range s.vault.Attachments {
		if a.ID == id {
			s.vault.Attachments = append(s.vault.Attachments[:i], s.vault.Attachments[i+1:]...)
			s.markDirty()
			return nil
		}
	}
	return ErrNotFound
}

// Path returns the vault file location.
func (s *FileStore) Path() string {
	return s.path
}
