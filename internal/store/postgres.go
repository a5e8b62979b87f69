package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists the corpus in Postgres. It implements the same Store
// contract as the file vault; backend selection happens in configuration.
type PGStore struct {
	pool *pgxpool.Pool
}

const pgSchema = `
CREATE TABLE IF NOT EXISTS folders (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	parent_id  TEXT NOT NULL DEFAULT '',
	collapsed  BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL DEFAULT '',
	folder_id  TEXT NOT NULL DEFAULT '',
	pinned     BOOLEAN NOT NULL DEFAULT FALSE,
	icon       TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS attachments (
	id         TEXT PRIMARY KEY,
	file_name  TEXT NOT NULL,
	mime_type  TEXT NOT NULL DEFAULT '',
	data       TEXT NOT NULL DEFAULT '',
	folder_id  TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);
`

// OpenPGStore connects to Postgres and ensures the schema exists.
func OpenPGStore(ctx context.Context, dsn string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connecting to postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: preparing schema: %w", err)
	}
	return &PGStore{pool: pool}, nil
}

func (s *PGStore) Notes(ctx context.Context) ([]Note, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, content, folder_id, pinned, icon, created_at, updated_at
		FROM notes
		ORDER BY pinned DESC, updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: listing notes: %w", err)
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.FolderID,
			&n.Pinned, &n.Icon, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scanning note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *PGStore) Note(ctx context.Context, id string) (Note, error) {
	var n Note
	err := s.pool.QueryRow(ctx, `
		SELECT id, title, content, folder_id, pinned, icon, created_at, updated_at
		FROM notes WHERE id = $1`, id).
		Scan(&n.ID, &n.Title, &n.Content, &n.FolderID,
			&n.Pinned, &n.Icon, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Note{}, ErrNotFound
	}
	if err != nil {
		return Note{}, fmt.Errorf("store: loading note %s: %w", id, err)
	}
	return n, nil
}

func (s *PGStore) PutNote(ctx context.Context, n Note) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO notes (id, title, content, folder_id, pinned, icon, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			folder_id = EXCLUDED.folder_id,
			pinned = EXCLUDED.pinned,
			icon = EXCLUDED.icon,
			updated_at = now()`,
		n.ID, n.Title, n.Content, n.FolderID, n.Pinned, n.Icon, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: saving note %s: %w", n.ID, err)
	}
	return nil
}

func (s *PGStore) DeleteNote(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("store: deleting note %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) Folders(ctx context.Context) ([]Folder, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, parent_id, collapsed FROM folders ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("store: listing folders: %w", err)
	}
	defer rows.Close()

	var out []Folder
	for rows.Next() {
		var f Folder
		if err := rows.Scan(&f.ID, &f.Name, &f.ParentID, &f.Collapsed); err != nil {
			return nil, fmt.Errorf("store: scanning folder: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *PGStore) PutFolder(ctx context.Context, f Folder) error {
	folders, err := s.Folders(ctx)
	if err != nil {
		return err
	}
	if moveCreatesCycle(folders, f.ID, f.ParentID) {
		return ErrFolderCycle
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO folders (id, name, parent_id, collapsed)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			parent_id = EXCLUDED.parent_id,
			collapsed = EXCLUDED.collapsed`,
		f.ID, f.Name, f.ParentID, f.Collapsed)
	if err != nil {
		return fmt.Errorf("store: saving folder %s: %w", f.ID, err)
	}
	return nil
}

func (s *PGStore) MoveFolder(ctx context.Context, id, parentID string) error {
	folders, err := s.Folders(ctx)
	if err != nil {
		return err
	}
	if moveCreatesCycle(folders, id, parentID) {
		return ErrFolderCycle
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE folders SET parent_id = $2 WHERE id = $1`, id, parentID)
	if err != nil {
		return fmt.Errorf("store: moving folder %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) DeleteFolder(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM folders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("store: deleting folder %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) Attachments(ctx context.Context) ([]Attachment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, file_name, mime_type, data, folder_id, created_at
		FROM attachments ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("store: listing attachments: %w", err)
	}
	defer rows.Close()

	var out []Attachment
	for rows.Next() {
		var a Attachment
		if err := rows.Scan(&a.ID, &a.FileName, &a.MimeType, &a.Data,
			&a.FolderID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scanning attachment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PGStore) Attachment(ctx context.Context, id string) (Attachment, error) {
	var a Attachment
	err := s.pool.QueryRow(ctx, `
		SELECT id, file_name, mime_type, data, folder_id, created_at
		FROM attachments WHERE id = $1`, id).
		Scan(&a.ID, &a.FileName, &a.MimeType, &a.Data, &a.FolderID, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Attachment{}, ErrNotFound
	}
	if err != nil {
		return Attachment{}, fmt.Errorf("store: loading attachment %s: %w", id, err)
	}
	return a, nil
}

func (s *PGStore) PutAttachment(ctx context.Context, a Attachment) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO attachments (id, file_name, mime_type, data, folder_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			file_name = EXCLUDED.file_name,
			mime_type = EXCLUDED.mime_type,
			data = EXCLUDED.data,
			folder_id = EXCLUDED.folder_id`,
		a.ID, a.FileName, a.MimeType, a.Data, a.FolderID, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: saving attachment %s: %w", a.ID, err)
	}
	return nil
}

func (s *PGStore) DeleteAttachment(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("store: deleting attachment %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Flush is a no-op: Postgres writes are not debounced.
func (s *PGStore) Flush(ctx context.Context) error {
	return nil
}

func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}
