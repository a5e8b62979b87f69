package state

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// VaultChangedMsg reports that the vault file was modified by another
// process while the app was running.
type VaultChangedMsg struct {
	Path string
}

type VaultWatcherErrMsg struct {
	Err error
}

// VaultWatcher watches the directory holding the vault file. Saves are
// written to a temp file and renamed into place, so the interesting events
// on the vault file itself are Create and Write.
type VaultWatcher struct {
	watcher *fsnotify.Watcher
	vault   string
	done    chan struct{}
	once    sync.Once

	mu      sync.Mutex
	muted   time.Time
	onClose func()
}

func NewVaultWatcher(vaultFile string) (*VaultWatcher, error) {
	abs, err := filepath.Abs(vaultFile)
	if err != nil {
		return nil, err
	}
	if abs == "" {
		return nil, errors.New("vault file cannot be empty")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	return &VaultWatcher{
		watcher: w,
		vault:   abs,
		done:    make(chan struct{}),
	}, nil
}

// Start returns a command that blocks until the vault file changes. The
// program re-issues it after every delivered message.
func (w *VaultWatcher) Start() tea.Cmd {
	if w == nil {
		return nil
	}

	return func() tea.Msg {
		for {
			select {
			case <-w.done:
				return nil
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if !w.isRelevant(event) {
					continue
				}
				return VaultChangedMsg{Path: w.vault}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil {
					return VaultWatcherErrMsg{Err: err}
				}
			}
		}
	}
}

// Mute suppresses events for the given window. The store calls this right
// before flushing so our own saves do not come back as external changes.
func (w *VaultWatcher) Mute(d time.Duration) {
	if w == nil {
		return
	}
	w.mu.Lock()
	w.muted = time.Now().Add(d)
	w.mu.Unlock()
}

func (w *VaultWatcher) isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return false
	}
	if filepath.Base(event.Name) != filepath.Base(w.vault) {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return time.Now().After(w.muted)
}

// OnClose registers a callback invoked exactly once when the watcher shuts
// down.
func (w *VaultWatcher) OnClose(fn func()) {
	if w == nil {
		return
	}
	w.onClose = fn
}

func (w *VaultWatcher) Close() error {
	if w == nil {
		return nil
	}

	var closeErr error
	w.once.Do(func() {
		close(w.done)
		closeErr = w.watcher.Close()
		if w.onClose != nil {
			w.onClose()
		}
	})

	return closeErr
}
