// Package prefs persists small UI preferences such as whether the
// navigation drawer is open.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"

	"github.com/retailcat/catalogadmin/pkg/logger"
)

const (
	KeyDrawerOpen = "drawer_open"

	lockRetryDelay = 50 * time.Millisecond
)

// Store is a single JSON key-value document.
type Store struct {
	fs       afero.Fs
	path     string
	lockPath string

	mu     sync.Mutex
	values map[string]any
	loaded bool
}

type Options struct {
	Fs   afero.Fs
	Path string
	// LockPath is an OS path guarding writes across processes. Empty disables locking.
	LockPath string
}

func New(opts Options) *Store {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	return &Store{fs: opts.Fs, path: opts.Path, lockPath: opts.LockPath}
}

// NewDefault opens the store at path on disk, or under the user config dir
// when path is empty.
func NewDefault(path string) (*Store, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config dir: %w", err)
		}
		path = filepath.Join(dir, "catalogadmin", "prefs.json")
	}
	return New(Options{Fs: afero.NewOsFs(), Path: path, LockPath: path + ".lock"}), nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() error {
	if s.loaded {
		return nil
	}
	data, err := afero.ReadFile(s.fs, s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.values = map[string]any{}
	case err != nil:
		return fmt.Errorf("failed to read preferences: %w", err)
	default:
		values := map[string]any{}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &values); err != nil {
				return fmt.Errorf("failed to parse preferences: %w", err)
			}
		}
		s.values = values
	}
	s.loaded = true
	return nil
}

// Bool returns the stored flag or def when it is absent or unreadable.
func (s *Store) Bool(ctx context.Context, key string, def bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		logger.FromContext(ctx).Warn("Preferences unavailable", "path", s.path, "error", err)
		return def
	}
	if v, ok := s.values[key].(bool); ok {
		return v
	}
	return def
}

// Set stores value under key and writes the document.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		s.values = map[string]any{}
		s.loaded = true
	}
	s.values[key] = value
	return s.write(ctx)
}

func (s *Store) write(ctx context.Context) error {
	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create preferences dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace preferences: %w", err)
	}
	return nil
}

func (s *Store) lock(ctx context.Context) (func(), error) {
	if s.lockPath == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock dir: %w", err)
	}
	fl := flock.New(s.lockPath)
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to lock preferences: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("preferences are locked by another process")
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			logger.FromContext(ctx).Warn("Failed to unlock preferences", "error", err)
		}
	}, nil
}

func (s *Store) DrawerOpen(ctx context.Context) bool {
	return s.Bool(ctx, KeyDrawerOpen, true)
}

func (s *Store) SetDrawerOpen(ctx context.Context, open bool) error {
	return s.Set(ctx, KeyDrawerOpen, open)
}
