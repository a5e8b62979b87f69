package workspace

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/quillmd/quill/internal/applog"
	"github.com/quillmd/quill/internal/cache"
	"github.com/quillmd/quill/internal/graph"
	"github.com/quillmd/quill/internal/store"
)

// attachmentLookup resolves an attachment locator id to its record.
type attachmentLookup func(id string) (store.Attachment, error)

var attachmentImageRe = regexp.MustCompile(`!\[([^\]]*)\]\(attachment://([^)\s]+)\)`)

// resolveAttachments swaps attachment locators in image sources for their
// stored file names before rendering. The locator stays opaque in the
// persisted markdown; resolution happens only here, at render time. An
// unknown id renders as a broken-image placeholder and is logged.
func resolveAttachments(content string, lookup attachmentLookup, logger *applog.Logger) string {
	return attachmentImageRe.ReplaceAllStringFunc(content, func(token string) string {
		parts := attachmentImageRe.FindStringSubmatch(token)
		alt, id := parts[1], parts[2]

		a, err := lookup(id)
		if err != nil {
			logger.Warn("attachment not found", "attachment_id", id, "err", err)
			return "![missing attachment](" + id + ")"
		}
		if alt == "" {
			alt = a.FileName
		}
		return "![" + alt + "](" + a.FileName + ")"
	})
}

// renderPreview renders a note to styled terminal markdown, with a footer
// listing the notes that link to it. Renders are memoized per note
// revision.
func renderPreview(
	previewCache *cache.LRUCache[string, string],
	note store.Note,
	notes []store.Note,
	lookup attachmentLookup,
	logger *applog.Logger,
	theme string,
	width int,
) string {
	key := fmt.Sprintf("%s@%d", note.ID, note.UpdatedAt.UnixNano())
	if rendered, ok := previewCache.Get(key); ok {
		return rendered
	}

	if width <= 0 || width > 100 {
		width = 100
	}

	r, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle(themeStyle(theme)),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.ANSI256),
	)

	rendered, err := r.Render(resolveAttachments(note.Content, lookup, logger))
	if err != nil {
		return "Error rendering markdown"
	}

	if footer := backlinkFooter(note, notes); footer != "" {
		rendered += footer
	}

	previewCache.Put(key, rendered)
	return rendered
}

// themeStyle maps the configured theme onto a glamour standard style name.
// "auto" (and an unset theme) follows the terminal background.
func themeStyle(theme string) string {
	if theme == "" {
		return "auto"
	}
	return theme
}

func backlinkFooter(note store.Note, notes []store.Note) string {
	backlinks := graph.Backlinks(note.Title, notes)
	if len(backlinks) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(faintStyle.Render("Linked from:"))
	sb.WriteString("\n")
	for _, bl := range backlinks {
		sb.WriteString(wikiLinkStyle.Render("  ← " + bl.Title))
		sb.WriteString("\n")
	}
	return sb.String()
}
