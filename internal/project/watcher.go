package project

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for a burst of writes to
// settle before reporting a change.
const DefaultDebounce = 100 * time.Millisecond

// ChangeKind describes the type of file change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // Project file written or recreated
	ChangeRemoved                    // Project file deleted or renamed away
)

// Change is a debounced change to the watched project file.
type Change struct {
	Kind ChangeKind
	File string // Absolute path
}

// Watcher monitors one project file for changes using fsnotify. It watches
// the file's directory because editors commonly replace files by rename.
type Watcher struct {
	File     string
	Changes  <-chan Change // Read-only external channel
	Debounce time.Duration

	changes chan Change // Internal write channel
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the project file at path.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Change, 16)
	return &Watcher{
		File:     abs,
		Changes:  ch,
		Debounce: DefaultDebounce,
		changes:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.File)); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	var (
		pending  bool
		lastSeen time.Time
		lastKind ChangeKind
	)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if pending {
					w.changes <- Change{Kind: lastKind, File: w.File}
				}
				return
			}
			if filepath.Clean(event.Name) != w.File {
				continue
			}
			switch {
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				lastKind = ChangeModified
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				lastKind = ChangeRemoved
			default:
				continue
			}
			pending = true
			lastSeen = time.Now()

		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			if pending && time.Since(lastSeen) >= debounce {
				w.changes <- Change{Kind: lastKind, File: w.File}
				pending = false
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the next event retries.
		}
	}
}
