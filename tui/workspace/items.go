package workspace

import (
	"fmt"
	"strings"

	"github.com/quillmd/quill/internal/store"
)

type noteItem struct {
	note   store.Note
	folder string
}

func (i noteItem) Title() string {
	title := i.note.Title
	if title == "" {
		title = "Untitled"
	}
	if i.note.Icon != "" {
		title = i.note.Icon + " " + title
	}
	if i.note.Pinned {
		title = "📌 " + title
	}
	return title
}

func (i noteItem) Description() string {
	description := ""
	if i.folder != "" {
		description += fmt.Sprintf("[%s] ", i.folder)
	}

	description += fmt.Sprintf(
		"%d chars, edited %s",
		len(i.note.Content),
		i.note.UpdatedAt.Format("2006-01-02 15:04"),
	)
	return description
}

func (i noteItem) FilterValue() string {
	return fmt.Sprintf("%s [%s]", i.note.Title, i.folder)
}

func folderNames(folders []store.Folder) map[string]string {
	names := make(map[string]string, len(folders))
	for _, f := range folders {
		names[f.ID] = f.Name
	}
	return names
}

func trimForStatus(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
