package corpus

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rubiojr/shakesearch/pkg/log"
)

var logger = log.ForService("corpus")

// reloadDelay coalesces the burst of events a single editor save produces.
const reloadDelay = 200 * time.Millisecond

// Store holds the current Searcher for a corpus file and swaps it atomically
// when the file is reloaded. It is safe for concurrent use.
type Store struct {
	path         string
	contextBytes int
	current      atomic.Pointer[Searcher]

	mu       sync.Mutex
	onReload []func(*Searcher)
}

// Open loads the corpus at path.
func Open(path string, contextBytes int) (*Store, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving corpus path: %w", err)
	}
	s := &Store{path: abs, contextBytes: contextBytes}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the absolute corpus path.
func (s *Store) Path() string {
	return s.path
}

// Searcher returns the index currently in use.
func (s *Store) Searcher() *Searcher {
	return s.current.Load()
}

// Search runs query against the current index.
func (s *Store) Search(query string, page, pageSize int) []string {
	return s.current.Load().Search(query, page, pageSize)
}

// Reload re-reads the corpus. On failure the previous index stays in place.
func (s *Store) Reload() error {
	searcher, err := Load(s.path, s.contextBytes)
	if err != nil {
		return err
	}
	s.current.Store(searcher)
	logger.Debugf("indexed %s (%d bytes)", s.path, searcher.Size())

	s.mu.Lock()
	hooks := append([]func(*Searcher){}, s.onReload...)
	s.mu.Unlock()
	for _, fn := range hooks {
		fn(searcher)
	}
	return nil
}

// OnReload registers fn to be called with the new index after every
// successful Reload.
func (s *Store) OnReload(fn func(*Searcher)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReload = append(s.onReload, fn)
}

// Watch starts reloading the corpus whenever the file is written or replaced.
// The watcher is registered before Watch returns; it stops when ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	// The directory is watched so that atomic renames over the file are seen.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(s.path), err)
	}

	go s.watchLoop(ctx, watcher)
	return nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	var reload <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				reload = time.After(reloadDelay)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("watcher error: %v", err)
		case <-reload:
			reload = nil
			if err := s.Reload(); err != nil {
				logger.Warnf("reload failed, keeping previous index: %v", err)
				continue
			}
			logger.Infof("corpus reloaded from %s", s.path)
		}
	}
}
