// Package workspace is the main TUI screen: the note list on the left, the
// structured editor or preview on the right, and an optional assistant
// panel.
package workspace

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quillmd/quill/internal/assistant"
	"github.com/quillmd/quill/internal/cache"
	"github.com/quillmd/quill/internal/document"
	"github.com/quillmd/quill/internal/editor"
	"github.com/quillmd/quill/internal/graph"
	"github.com/quillmd/quill/internal/state"
	"github.com/quillmd/quill/internal/store"
	"github.com/quillmd/quill/internal/templater"
)

type pane int

const (
	paneList pane = iota
	paneEditor
	paneChat
)

type saveStatusMsg store.SaveStatus

type notesReloadedMsg struct {
	notes   []store.Note
	folders []store.Folder
}

type Model struct {
	state      *state.State
	list       list.Model
	keys       *keyMap
	controller *editor.Controller
	chat       chatModel

	notes   []store.Note
	folders []store.Folder

	previewCache *cache.LRUCache[string, string]
	statusCh     chan store.SaveStatus
	focus        pane
	status       store.SaveStatus
	statusLine   string
	width        int
	height       int
}

func NewModel(s *state.State) Model {
	listKeys := newKeyMap()

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Notes"
	l.Styles.Title = titleStyle
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			listKeys.openNote,
			listKeys.newNote,
			listKeys.togglePin,
		}
	}

	m := Model{
		state:        s,
		list:         l,
		keys:         listKeys,
		chat:         newChatModel(s.Assistant),
		previewCache: cache.NewLRUCache[string, string](100),
		statusCh:     make(chan store.SaveStatus, 8),
	}
	m.controller = editor.NewController(m.flushNote)

	return m
}

// flushNote persists one note's markdown. It runs synchronously inside
// Update, so the store's own debounce is the only delay on disk writes.
func (m *Model) flushNote(noteID, markdown string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, err := m.state.Store.Note(ctx, noteID)
	if err != nil {
		m.state.Logger.Error("flush: note lookup failed", "note_id", noteID, "err", err)
		return
	}
	if n.Content == markdown {
		return
	}
	n.Content = markdown
	n.UpdatedAt = time.Now().UTC()

	if m.state.Watcher != nil {
		m.state.Watcher.Mute(time.Second)
	}
	if err := m.state.Store.PutNote(ctx, n); err != nil {
		m.state.Logger.Error("flush: save failed", "note_id", noteID, "err", err)
		return
	}
	m.state.Logger.NoteSaved(noteID, len(markdown))
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.reloadNotes()}
	if m.state.Watcher != nil {
		cmds = append(cmds, m.state.Watcher.Start())
	}
	if fs, ok := m.state.Store.(*store.FileStore); ok {
		fs.OnStatus(m.publishStatus)
		cmds = append(cmds, awaitStatus(m.statusCh))
	}
	return tea.Batch(cmds...)
}

func (m Model) publishStatus(st store.SaveStatus) {
	select {
	case m.statusCh <- st:
	default:
	}
}

func awaitStatus(ch <-chan store.SaveStatus) tea.Cmd {
	return func() tea.Msg {
		return saveStatusMsg(<-ch)
	}
}

func (m Model) reloadNotes() tea.Cmd {
	st := m.state.Store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		notes, err := st.Notes(ctx)
		if err != nil {
			return notesReloadedMsg{}
		}
		folders, _ := st.Folders(ctx)
		return notesReloadedMsg{notes: notes, folders: folders}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := appStyle.GetFrameSize()
		m.list.SetSize((msg.Width-h)/3, msg.Height-v-1)
		return m, nil

	case notesReloadedMsg:
		m.notes = msg.notes
		m.folders = msg.folders
		m.list.SetItems(m.noteItems())
		return m, nil

	case state.VaultChangedMsg:
		cmds = append(cmds, m.reloadNotes(), m.state.Watcher.Start())
		if session := m.controller.Session(); session != nil {
			cmds = append(cmds, m.reconcileOpenNote())
		}
		return m, tea.Batch(cmds...)

	case state.VaultWatcherErrMsg:
		m.statusLine = fmt.Sprintf("watcher error: %v", msg.Err)
		return m, m.state.Watcher.Start()

	case saveStatusMsg:
		m.status = store.SaveStatus(msg)
		return m, awaitStatus(m.statusCh)

	case assistantChunkMsg:
		if cmd := m.chat.receive(msg); cmd != nil {
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// reconcileOpenNote reloads the open note from the store and feeds it to
// the sync controller, which decides whether the on-screen document needs
// a rebuild.
func (m *Model) reconcileOpenNote() tea.Cmd {
	st := m.state.Store
	id := m.controller.NoteID()
	external := m.controller.External
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		n, err := st.Note(ctx, id)
		if err != nil {
			return nil
		}
		external(n.Content)
		return nil
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) && m.focus == paneList {
		m.controller.Flush()
		return m, tea.Quit
	}
	if msg.Type == tea.KeyCtrlC {
		m.controller.Flush()
		return m, tea.Quit
	}

	switch m.focus {
	case paneList:
		return m.handleListKey(msg)
	case paneEditor:
		return m.handleEditorKey(msg)
	default:
		return m.handleChatKey(msg)
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.openNote):
		if item, ok := m.list.SelectedItem().(noteItem); ok {
			m.controller.Open(item.note.ID, item.note.Content)
			m.focus = paneEditor
		}
		return m, nil

	case key.Matches(msg, m.keys.newNote):
		return m, m.createNote()

	case key.Matches(msg, m.keys.deleteNote):
		if item, ok := m.list.SelectedItem().(noteItem); ok {
			return m, m.deleteNote(item.note.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.togglePin):
		if item, ok := m.list.SelectedItem().(noteItem); ok {
			return m, m.togglePin(item.note)
		}
		return m, nil

	case key.Matches(msg, m.keys.toggleChat):
		m.focus = paneChat
		return m, nil

	case key.Matches(msg, m.keys.toggleHelp):
		m.list.SetShowHelp(!m.list.ShowHelp())
		return m, nil

	case key.Matches(msg, m.keys.refreshList):
		return m, m.reloadNotes()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	session := m.controller.Session()
	if session == nil {
		m.focus = paneList
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.focusList):
		m.controller.Flush()
		m.focus = paneList
		return m, m.reloadNotes()

	case key.Matches(msg, m.keys.save):
		m.controller.Flush()
		return m, nil

	case key.Matches(msg, m.keys.toggleChat):
		m.focus = paneChat
		return m, nil

	case key.Matches(msg, m.keys.modEnter):
		m.applyCommand(session, editor.ModEnter{})
		return m, nil

	case key.Matches(msg, m.keys.bold):
		m.applyCommand(session, editor.ToggleMark{Kind: document.Bold})
		return m, nil

	case key.Matches(msg, m.keys.italic):
		m.applyCommand(session, editor.ToggleMark{Kind: document.Italic})
		return m, nil

	case key.Matches(msg, m.keys.underline):
		m.applyCommand(session, editor.ToggleMark{Kind: document.Underline})
		return m, nil

	case key.Matches(msg, m.keys.strike):
		m.applyCommand(session, editor.ToggleMark{Kind: document.Strike})
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		m.applyCommand(session, editor.PressEnter{})
	case tea.KeyBackspace:
		m.applyCommand(session, editor.DeleteBackward{})
	case tea.KeySpace:
		m.applyCommand(session, editor.InsertText{Text: " "})
	case tea.KeyUp:
		c := session.Cursor()
		session.SetCursor(editor.Cursor{Block: c.Block - 1, Offset: c.Offset})
	case tea.KeyDown:
		c := session.Cursor()
		session.SetCursor(editor.Cursor{Block: c.Block + 1, Offset: c.Offset})
	case tea.KeyLeft:
		c := session.Cursor()
		session.SetCursor(editor.Cursor{Block: c.Block, Offset: c.Offset - 1})
	case tea.KeyRight:
		c := session.Cursor()
		session.SetCursor(editor.Cursor{Block: c.Block, Offset: c.Offset + 1})
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.applyCommand(session, editor.TypeRune{Rune: r})
		}
	}
	return m, nil
}

func (m *Model) applyCommand(session *editor.Session, c editor.Command) {
	if err := editor.Apply(session, c); err != nil {
		m.statusLine = "block does not accept direct typing"
	} else {
		m.statusLine = ""
	}
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.controller.Session() != nil {
			m.focus = paneEditor
		} else {
			m.focus = paneList
		}
		return m, nil
	case tea.KeyEnter:
		prompt := m.chat.input
		if prompt == "" {
			return m, nil
		}
		m.chat.input = ""
		req := m.assistantRequest(prompt)
		return m, m.chat.ask(context.Background(), req)
	case tea.KeyBackspace:
		if len(m.chat.input) > 0 {
			runes := []rune(m.chat.input)
			m.chat.input = string(runes[:len(runes)-1])
		}
		return m, nil
	case tea.KeySpace:
		m.chat.input += " "
		return m, nil
	case tea.KeyRunes:
		m.chat.input += string(msg.Runes)
		return m, nil
	}
	return m, nil
}

// assistantRequest gathers the open note and the notes it links to into
// the collaborator's context.
func (m Model) assistantRequest(prompt string) assistant.Request {
	req := assistant.Request{Prompt: prompt}

	id := m.controller.NoteID()
	for _, n := range m.notes {
		if n.ID == id {
			req.NoteTitle = n.Title
			req.NoteText = m.controller.Markdown()
			req.LinkedExcerpts = linkedExcerpts(n, m.notes)
			break
		}
	}
	return req
}

func (m Model) createNote() tea.Cmd {
	st := m.state.Store
	tpl := m.state.Templater
	reload := m.reloadNotes()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		content, err := tpl.Execute("blank", templater.TemplateData{
			Date: templater.DailyTitle(time.Now()),
		})
		if err != nil {
			content = ""
		}
		n := store.NewNote("Untitled", content, "")
		if err := st.PutNote(ctx, n); err != nil {
			return nil
		}
		return reload()
	}
}

func (m Model) deleteNote(id string) tea.Cmd {
	st := m.state.Store
	reload := m.reloadNotes()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := st.DeleteNote(ctx, id); err != nil {
			return nil
		}
		return reload()
	}
}

func (m Model) togglePin(n store.Note) tea.Cmd {
	st := m.state.Store
	reload := m.reloadNotes()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		n.Pinned = !n.Pinned
		if err := st.PutNote(ctx, n); err != nil {
			return nil
		}
		return reload()
	}
}

func (m Model) lookupAttachment(id string) (store.Attachment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return m.state.Store.Attachment(ctx, id)
}

func (m Model) noteItems() []list.Item {
	names := folderNames(m.folders)
	items := make([]list.Item, 0, len(m.notes))
	for _, n := range m.notes {
		items = append(items, noteItem{note: n, folder: names[n.FolderID]})
	}
	return items
}

func (m Model) View() string {
	listView := listStyle.Render(m.list.View())

	var right string
	switch {
	case m.focus == paneChat:
		right = m.chat.view(m.width * 2 / 3)
	case m.controller.Session() != nil:
		right = focusedEditorStyle.Render(renderEditor(m.controller.Session(), m.focus == paneEditor))
	default:
		if item, ok := m.list.SelectedItem().(noteItem); ok {
			right = editorStyle.Render(renderPreview(
				m.previewCache,
				item.note,
				m.notes,
				m.lookupAttachment,
				m.state.Logger,
				m.state.Config.Theme,
				m.width*2/3,
			))
		}
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, listView, right)
	return appStyle.Render(body) + "\n" + m.statusBar()
}

func (m Model) statusBar() string {
	line := statusStyle(m.status.String())
	if m.statusLine != "" {
		line += "  " + faintStyle.Render(trimForStatus(m.statusLine, 80))
	}
	return line
}

// linkedExcerpts pulls short excerpts of the notes the open note links to.
func linkedExcerpts(n store.Note, notes []store.Note) []string {
	const excerptLen = 280

	var excerpts []string
	for _, linked := range graph.Outbound(n, notes) {
		content := linked.Content
		if len(content) > excerptLen {
			content = content[:excerptLen]
		}
		excerpts = append(excerpts, fmt.Sprintf("%s: %s", linked.Title, content))
	}
	return excerpts
}

// Run starts the workspace program on the alternate screen.
func Run(s *state.State) error {
	p := tea.NewProgram(NewModel(s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
