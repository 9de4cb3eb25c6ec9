package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	editcontent "github.com/goliatone/go-editkit/content"
	"github.com/goliatone/go-editkit/internal/domain"
	"github.com/goliatone/go-editkit/internal/logging"
	"github.com/goliatone/go-editkit/internal/store"
	"github.com/goliatone/go-editkit/pkg/interfaces"
)

var (
	// ErrEditNotPermitted is returned when a caller without the edit
	// capability tries to enable edit mode.
	ErrEditNotPermitted = errors.New("session: edit capability not granted")
	// ErrSaveFailed wraps bulk save failures. The pending queue is retained in
	// full so the caller can retry or discard explicitly.
	ErrSaveFailed = errors.New("session: save all changes failed")
)

// PendingChange is an edit accepted by the UI but not yet written to the
// remote store. Repeated edits to the same slot collapse to the latest value.
type PendingChange struct {
	PageName      string
	ContentKey    string
	ContentType   domain.ContentType
	Value         string
	OriginalValue string
}

// Session tracks edit-mode state for one logical editing surface (one browser
// tab in the original deployment). It owns the in-memory content cache and the
// pending-change queue for its lifetime; both are scoped to the current locale
// and destroyed on locale switch.
type Session struct {
	mu         sync.RWMutex
	editMode   bool
	preview    bool
	locale     string
	cache      map[string]*editcontent.ContentRecord
	pending    map[string]PendingChange
	store      store.Service
	capability interfaces.EditCapability
	logger     interfaces.Logger
	editor     string
}

// Option configures a session at construction time.
type Option func(*Session)

// WithLocale sets the initial locale.
func WithLocale(code string) Option {
	return func(s *Session) {
		if trimmed := strings.ToLower(strings.TrimSpace(code)); trimmed != "" {
			s.locale = trimmed
		}
	}
}

// WithCapability sets the edit capability predicate.
func WithCapability(capability interfaces.EditCapability) Option {
	return func(s *Session) {
		if capability != nil {
			s.capability = capability
		}
	}
}

// WithLogger attaches a module logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Session) {
		s.logger = logging.EnsureLogger(logger)
	}
}

// WithEditor records the editor identity stamped onto saved records.
func WithEditor(editor string) Option {
	return func(s *Session) {
		s.editor = strings.TrimSpace(editor)
	}
}

// New constructs a session bound to the supplied content store gateway.
func New(gateway store.Service, opts ...Option) *Session {
	s := &Session{
		locale:     "en",
		cache:      make(map[string]*editcontent.ContentRecord),
		pending:    make(map[string]PendingChange),
		store:      gateway,
		capability: interfaces.AllowAll(),
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) cacheKey(pageName, contentKey string) string {
	return pageName + ":" + contentKey + ":" + s.locale
}

// ToggleEditMode flips edit mode and reports the new state. Enabling requires
// the edit capability; entering edit mode forces preview mode off since the
// two are mutually exclusive.
func (s *Session) ToggleEditMode(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.editMode && !s.capability.CanEdit(ctx) {
		return false, ErrEditNotPermitted
	}
	s.editMode = !s.editMode
	s.preview = false
	return s.editMode, nil
}

// TogglePreviewMode flips preview and reports the new state. It is a no-op
// unless edit mode is already on.
func (s *Session) TogglePreviewMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.editMode {
		return false
	}
	s.preview = !s.preview
	return s.preview
}

// IsEditMode reports whether edit mode is active.
func (s *Session) IsEditMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editMode
}

// IsPreviewMode reports whether preview mode is active.
func (s *Session) IsPreviewMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.preview
}

// Locale returns the current locale code.
func (s *Session) Locale() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locale
}

// GetContent resolves the value for a slot. Resolution order: pending change
// (skipped in preview mode, which must show exactly what a non-editing visitor
// sees), cached remote record, then the caller-supplied default.
func (s *Session) GetContent(pageName, contentKey, defaultValue string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := s.cacheKey(pageName, contentKey)
	if !s.preview {
		if change, ok := s.pending[key]; ok {
			return change.Value
		}
	}
	if record, ok := s.cache[key]; ok {
		return record.ContentValue
	}
	return defaultValue
}

// UpdateContent queues a pending change. The current resolved value is
// captured as OriginalValue for diffing; nothing is written through to the
// store until SaveAll.
func (s *Session) UpdateContent(pageName, contentKey string, contentType domain.ContentType, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.cacheKey(pageName, contentKey)
	original := ""
	if change, ok := s.pending[key]; ok {
		original = change.OriginalValue
	} else if record, ok := s.cache[key]; ok {
		original = record.ContentValue
	}
	s.pending[key] = PendingChange{
		PageName:      pageName,
		ContentKey:    contentKey,
		ContentType:   contentType,
		Value:         value,
		OriginalValue: original,
	}
}

// PendingCount returns the number of uncommitted edits.
func (s *Session) PendingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending)
}

// PendingChanges returns a snapshot of the uncommitted edits.
func (s *Session) PendingChanges() []PendingChange {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]PendingChange, 0, len(s.pending))
	for _, change := range s.pending {
		out = append(out, change)
	}
	return out
}

// SaveAll writes every pending change through the gateway concurrently and
// awaits completion. Fail-closed: if any upsert rejects, neither the cache nor
// the pending queue mutates, so the caller can retry the full set or discard
// explicitly. Upserts are idempotent per key, making retries safe.
func (s *Session) SaveAll(ctx context.Context) error {
	s.mu.Lock()
	changes := make([]PendingChange, 0, len(s.pending))
	keys := make([]string, 0, len(s.pending))
	for key, change := range s.pending {
		changes = append(changes, change)
		keys = append(keys, key)
	}
	locale := s.locale
	editor := s.editor
	s.mu.Unlock()

	if len(changes) == 0 {
		return nil
	}

	records := make([]*editcontent.ContentRecord, len(changes))
	errs := make([]error, len(changes))

	var wg sync.WaitGroup
	for i, change := range changes {
		wg.Add(1)
		go func(i int, change PendingChange) {
			defer wg.Done()
			record, err := s.store.Upsert(ctx, store.UpsertRequest{
				PageName:     change.PageName,
				ContentKey:   change.ContentKey,
				ContentType:  change.ContentType,
				ContentValue: change.Value,
				LocaleCode:   locale,
				CreatedBy:    editor,
			})
			records[i] = record
			errs[i] = err
		}(i, change)
	}
	wg.Wait()

	var failures []error
	for _, err := range errs {
		if err != nil {
			failures = append(failures, err)
		}
	}
	if len(failures) > 0 {
		s.logger.Error("bulk save failed, pending queue retained", "failed", len(failures), "total", len(changes))
		return fmt.Errorf("%w: %w", ErrSaveFailed, errors.Join(failures...))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Locale may have switched while saving; stale results must not repopulate
	// the wiped cache.
	if s.locale != locale {
		return nil
	}
	for _, record := range records {
		if record != nil {
			s.cache[record.CacheKey()] = record
		}
	}
	// Drop only the snapshot that was written. Edits queued while the save was
	// in flight stay pending, including a re-edit of a just-saved key.
	for i, key := range keys {
		if change, ok := s.pending[key]; ok && change.Value == changes[i].Value {
			delete(s.pending, key)
		}
	}
	s.logger.Info("bulk save committed", "count", len(changes), "locale", locale)
	return nil
}

// Discard clears the pending queue without writing anything.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = make(map[string]PendingChange)
}

// LoadPageContent fetches all records for a page at the current locale and
// merges them into the cache. The pending queue is untouched.
func (s *Session) LoadPageContent(ctx context.Context, pageName string) error {
	s.mu.RLock()
	locale := s.locale
	s.mu.RUnlock()

	records, err := s.store.FetchPageContent(ctx, pageName, locale)
	if err != nil {
		return fmt.Errorf("load page content: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locale != locale {
		return nil
	}
	for _, record := range records {
		s.cache[record.CacheKey()] = record
	}
	return nil
}

// SetLocale switches the active locale. Editing is scoped per locale: the
// cache and the pending queue are both cleared, abandoning uncommitted edits
// in the old locale rather than attempting to migrate them.
func (s *Session) SetLocale(code string) {
	trimmed := strings.ToLower(strings.TrimSpace(code))
	if trimmed == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if trimmed == s.locale {
		return
	}
	if len(s.pending) > 0 {
		s.logger.Warn("locale switch discards uncommitted edits", "from", s.locale, "to", trimmed, "discarded", len(s.pending))
	}
	s.locale = trimmed
	s.cache = make(map[string]*editcontent.ContentRecord)
	s.pending = make(map[string]PendingChange)
}

// Cache exposes a read-only lookup for a cached record.
func (s *Session) Cache(pageName, contentKey string) (*editcontent.ContentRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.cache[s.cacheKey(pageName, contentKey)]
	return record, ok
}

// Put stores a record into the cache, keyed by its tuple.
func (s *Session) Put(record *editcontent.ContentRecord) {
	if record == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[record.CacheKey()] = record
}

// InvalidatePage drops cached records for one page at the current locale so
// long-lived sessions can bound cache growth.
func (s *Session) InvalidatePage(pageName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := pageName + ":"
	suffix := ":" + s.locale
	for key := range s.cache {
		if strings.HasPrefix(key, prefix) && strings.HasSuffix(key, suffix) {
			delete(s.cache, key)
		}
	}
}

// CanEdit reports whether the capability predicate grants editing.
func (s *Session) CanEdit(ctx context.Context) bool {
	return s.capability.CanEdit(ctx)
}
