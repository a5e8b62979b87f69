package editor

import "github.com/quillmd/quill/internal/document"

// DriftTolerance is the length-delta threshold for the resynchronization
// heuristic. An incoming authoritative markdown whose length differs from
// the session's serialized form by more than this many bytes forces a full
// reparse; smaller deltas are assumed to be echoes of the session's own
// edits. The value is deliberately a tunable constant: the heuristic can
// both miss equal-length divergence and over-fire on large pastes, and the
// editor feel depends on the exact tolerance.
const DriftTolerance = 2

// Reconcile decides whether the incoming authoritative markdown must
// replace the structured document. It reports whether a reset happened; a
// reset moves the cursor to the end of the document, so callers avoid
// forcing one during ordinary typing.
func (s *Session) Reconcile(incoming string) bool {
	if s.doc.IsEmpty() {
		s.reset(incoming)
		return true
	}

	current := document.Serialize(s.doc)
	drift := len(current) - len(incoming)
	if drift < 0 {
		drift = -drift
	}
	if drift > DriftTolerance {
		s.reset(incoming)
		return true
	}
	return false
}

// Controller owns the authoritative markdown for the currently open note
// and the single live session editing it.
type Controller struct {
	session  *Session
	noteID   string
	markdown string
	flush    func(noteID, markdown string)
}

// NewController builds a controller. flush receives the serialized markdown
// whenever a session is closed or switched away from; it is the bridge to
// the persistence layer.
func NewController(flush func(noteID, markdown string)) *Controller {
	return &Controller{flush: flush}
}

// Open switches the controller to a note. The previous session's markdown
// is flushed synchronously first, so no two documents are ever live at
// once.
func (c *Controller) Open(noteID, markdown string) *Session {
	c.Flush()
	c.noteID = noteID
	c.markdown = markdown
	c.session = NewSession(markdown)
	return c.session
}

// Session returns the live session, or nil when no note is open.
func (c *Controller) Session() *Session {
	return c.session
}

// NoteID returns the id of the currently open note.
func (c *Controller) NoteID() string {
	return c.noteID
}

// External feeds an externally observed content change through the drift
// heuristic. It reports whether the structured document was reset.
func (c *Controller) External(markdown string) bool {
	if c.session == nil {
		return false
	}
	c.markdown = markdown
	return c.session.Reconcile(markdown)
}

// Flush serializes the live session into the authoritative markdown and
// hands it to the persistence callback.
func (c *Controller) Flush() {
	if c.session == nil {
		return
	}
	c.markdown = c.session.Markdown()
	if c.flush != nil {
		c.flush(c.noteID, c.markdown)
	}
}

// Markdown returns the last authoritative markdown the controller holds.
func (c *Controller) Markdown() string {
	return c.markdown
}
