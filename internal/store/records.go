// Package store persists the note corpus: notes, folders and attachments as
// JSON-serializable records behind a small key-value style interface.
package store

import (
	"time"

	"github.com/google/uuid"
)

// Note is one note record. Content is the canonical markdown string and the
// single source of truth; every structured view of a note is derived from
// it and disposable.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	FolderID  string    `json:"folder_id,omitempty"`
	Pinned    bool      `json:"pinned,omitempty"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Folder is one folder record. ParentID is a weak back-reference forming a
// tree; the chain must stay cycle-free, enforced at move time.
type Folder struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ParentID  string `json:"parent_id,omitempty"`
	Collapsed bool   `json:"collapsed,omitempty"`
}

// Attachment is one stored binary payload, referenced from note content via
// an attachment://<id> locator resolved at render time only.
type Attachment struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	Data      string    `json:"data"`
	FolderID  string    `json:"folder_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNote constructs a note record with a fresh id and timestamps.
func NewNote(title, content, folderID string) Note {
	now := time.Now().UTC()
	return Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		FolderID:  folderID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewFolder constructs a folder record with a fresh id.
func NewFolder(name, parentID string) Folder {
	return Folder{ID: uuid.NewString(), Name: name, ParentID: parentID}
}

// NewAttachment constructs an attachment record with a fresh id.
func NewAttachment(fileName, mimeType, data, folderID string) Attachment {
	return Attachment{
		ID:        uuid.NewString(),
		FileName:  fileName,
		MimeType:  mimeType,
		Data:      data,
		FolderID:  folderID,
		CreatedAt: time.Now().UTC(),
	}
}
