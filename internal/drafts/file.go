package drafts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goliatone/go-editkit/internal/logging"
	"github.com/goliatone/go-editkit/pkg/interfaces"
)

// FileStore persists drafts as one JSON document per page and locale, mirroring
// the browser storage layout: cms_content_{page}_{locale}.json holding a map of
// content key to envelope.
type FileStore struct {
	dir    string
	mu     sync.Mutex
	logger interfaces.Logger
}

// FileStoreOption configures the file store.
type FileStoreOption func(*FileStore)

// WithLogger attaches a module logger.
func WithLogger(logger interfaces.Logger) FileStoreOption {
	return func(s *FileStore) {
		s.logger = logging.EnsureLogger(logger)
	}
}

// NewFileStore creates the backing directory when missing and returns the store.
func NewFileStore(dir string, opts ...FileStoreOption) (*FileStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("drafts: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("drafts: create directory: %w", err)
	}
	s := &FileStore{
		dir:    dir,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Load returns the draft map for a page and locale. A missing file or a file
// that fails to parse both load as empty state; parse failures are logged.
func (s *FileStore) Load(pageName, localeCode string) (map[string]Envelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(pageName, localeCode), nil
}

// Merge reads the current map, sets one key, and writes the result back. The
// read-merge-write keeps unrelated keys saved by other writers intact at the
// granularity of this read.
func (s *FileStore) Merge(pageName, localeCode, contentKey string, env Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.loadLocked(pageName, localeCode)
	entries[contentKey] = env
	return s.writeLocked(pageName, localeCode, entries)
}

// Replace overwrites the whole draft map for a page and locale.
func (s *FileStore) Replace(pageName, localeCode string, entries map[string]Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entries == nil {
		entries = map[string]Envelope{}
	}
	return s.writeLocked(pageName, localeCode, entries)
}

// Clear removes all drafts for a page and locale.
func (s *FileStore) Clear(pageName, localeCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(pageName, localeCode))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("drafts: clear: %w", err)
	}
	return nil
}

func (s *FileStore) loadLocked(pageName, localeCode string) map[string]Envelope {
	raw, err := os.ReadFile(s.path(pageName, localeCode))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("draft file unreadable, treating as empty", "page", pageName, "locale", localeCode, "error", err)
		}
		return map[string]Envelope{}
	}

	entries := map[string]Envelope{}
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.logger.Warn("draft file corrupt, treating as empty", "page", pageName, "locale", localeCode, "error", err)
		return map[string]Envelope{}
	}
	return entries
}

func (s *FileStore) writeLocked(pageName, localeCode string, entries map[string]Envelope) error {
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("drafts: encode: %w", err)
	}

	target := s.path(pageName, localeCode)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("drafts: write: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("drafts: rename: %w", err)
	}
	return nil
}

func (s *FileStore) path(pageName, localeCode string) string {
	name := fmt.Sprintf("cms_content_%s_%s.json", sanitize(pageName), sanitize(localeCode))
	return filepath.Join(s.dir, name)
}

func sanitize(part string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(part) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
