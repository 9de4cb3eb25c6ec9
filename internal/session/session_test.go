package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/goliatone/go-editkit/internal/domain"
	"github.com/goliatone/go-editkit/internal/store"
	"github.com/goliatone/go-editkit/pkg/interfaces"
	"github.com/google/uuid"
)

func newTestSession(t *testing.T, opts ...Option) (*Session, store.Service) {
	t.Helper()
	svc := store.NewService(store.NewMemoryRepository())
	return New(svc, opts...), svc
}

// failingStore rejects upserts for selected content keys.
type failingStore struct {
	store.Service
	mu     sync.Mutex
	reject map[string]struct{}
	calls  int
}

func (f *failingStore) Upsert(ctx context.Context, req store.UpsertRequest) (*store.ContentRecord, error) {
	f.mu.Lock()
	f.calls++
	_, rejected := f.reject[req.ContentKey]
	f.mu.Unlock()
	if rejected {
		return nil, errors.New("store unavailable")
	}
	return f.Service.Upsert(ctx, req)
}

func TestToggleEditModeRequiresCapability(t *testing.T) {
	ctx := context.Background()
	sess, _ := newTestSession(t, WithCapability(interfaces.DenyAll()))

	if _, err := sess.ToggleEditMode(ctx); !errors.Is(err, ErrEditNotPermitted) {
		t.Fatalf("expected permission error, got %v", err)
	}
	if sess.IsEditMode() {
		t.Fatalf("edit mode must stay off")
	}
}

func TestPreviewModeRequiresEditMode(t *testing.T) {
	ctx := context.Background()
	sess, _ := newTestSession(t)

	if sess.TogglePreviewMode() {
		t.Fatalf("preview must be a no-op outside edit mode")
	}

	if _, err := sess.ToggleEditMode(ctx); err != nil {
		t.Fatalf("toggle edit: %v", err)
	}
	if !sess.TogglePreviewMode() {
		t.Fatalf("preview should enable inside edit mode")
	}

	// Leaving edit mode forces preview off.
	if _, err := sess.ToggleEditMode(ctx); err != nil {
		t.Fatalf("toggle edit off: %v", err)
	}
	if sess.IsPreviewMode() {
		t.Fatalf("preview must reset when edit mode ends")
	}
}

func TestGetContentResolutionOrder(t *testing.T) {
	ctx := context.Background()
	sess, svc := newTestSession(t)

	if got := sess.GetContent("home", "hero.title", "Default"); got != "Default" {
		t.Fatalf("expected default, got %q", got)
	}

	if _, err := svc.Upsert(ctx, store.UpsertRequest{
		PageName: "home", ContentKey: "hero.title", ContentType: domain.ContentTypeText,
		ContentValue: "Saved", LocaleCode: "en",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := sess.LoadPageContent(ctx, "home"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := sess.GetContent("home", "hero.title", "Default"); got != "Saved" {
		t.Fatalf("expected cached value, got %q", got)
	}

	sess.UpdateContent("home", "hero.title", domain.ContentTypeText, "Pending")
	if got := sess.GetContent("home", "hero.title", "Default"); got != "Pending" {
		t.Fatalf("expected pending value, got %q", got)
	}

	// Preview shows what a visitor sees: pending edits are skipped, saved
	// content is not.
	if _, err := sess.ToggleEditMode(ctx); err != nil {
		t.Fatalf("toggle edit: %v", err)
	}
	sess.TogglePreviewMode()
	if got := sess.GetContent("home", "hero.title", "Default"); got != "Saved" {
		t.Fatalf("preview should skip pending, got %q", got)
	}
}

func TestUpdateContentCollapsesRepeatedEdits(t *testing.T) {
	sess, _ := newTestSession(t)

	sess.UpdateContent("home", "hero.title", domain.ContentTypeText, "one")
	sess.UpdateContent("home", "hero.title", domain.ContentTypeText, "two")
	if sess.PendingCount() != 1 {
		t.Fatalf("expected 1 pending change, got %d", sess.PendingCount())
	}
	changes := sess.PendingChanges()
	if changes[0].Value != "two" {
		t.Fatalf("expected latest value, got %q", changes[0].Value)
	}
}

func TestSaveAllCommitsAndClearsQueue(t *testing.T) {
	ctx := context.Background()
	sess, svc := newTestSession(t, WithEditor("editor@example.org"))

	sess.UpdateContent("home", "hero.title", domain.ContentTypeText, "Hello")
	sess.UpdateContent("home", "hero.subtitle", domain.ContentTypeText, "World")

	if err := sess.SaveAll(ctx); err != nil {
		t.Fatalf("save all: %v", err)
	}
	if sess.PendingCount() != 0 {
		t.Fatalf("pending queue should be empty, got %d", sess.PendingCount())
	}

	records, err := svc.FetchPageContent(ctx, "home", "en")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 saved records, got %d", len(records))
	}
	for _, record := range records {
		if record.CreatedBy != "editor@example.org" {
			t.Fatalf("expected editor stamp, got %q", record.CreatedBy)
		}
	}

	// Saved records land in the cache so resolution no longer needs defaults.
	if got := sess.GetContent("home", "hero.title", "Default"); got != "Hello" {
		t.Fatalf("expected cached save, got %q", got)
	}
}

func TestSaveAllFailureRetainsQueue(t *testing.T) {
	ctx := context.Background()
	inner := store.NewService(store.NewMemoryRepository())
	failing := &failingStore{
		Service: inner,
		reject:  map[string]struct{}{"hero.subtitle": {}},
	}
	sess := New(failing)

	sess.UpdateContent("home", "hero.title", domain.ContentTypeText, "Hello")
	sess.UpdateContent("home", "hero.subtitle", domain.ContentTypeText, "World")

	err := sess.SaveAll(ctx)
	if !errors.Is(err, ErrSaveFailed) {
		t.Fatalf("expected save failure, got %v", err)
	}
	// Fail closed: the whole queue survives so the user can retry or discard.
	if sess.PendingCount() != 2 {
		t.Fatalf("expected full queue retained, got %d", sess.PendingCount())
	}

	failing.mu.Lock()
	failing.reject = map[string]struct{}{}
	failing.mu.Unlock()

	if err := sess.SaveAll(ctx); err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
	if sess.PendingCount() != 0 {
		t.Fatalf("queue should clear after retry, got %d", sess.PendingCount())
	}
}

// stallingStore holds the first upsert until released so a test can interleave
// work with an in-flight save.
type stallingStore struct {
	store.Service
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *stallingStore) Upsert(ctx context.Context, req store.UpsertRequest) (*store.ContentRecord, error) {
	s.once.Do(func() {
		close(s.started)
		<-s.release
	})
	return s.Service.Upsert(ctx, req)
}

func TestSaveAllKeepsEditsQueuedMidSave(t *testing.T) {
	ctx := context.Background()
	stalling := &stallingStore{
		Service: store.NewService(store.NewMemoryRepository()),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	sess := New(stalling)

	sess.UpdateContent("home", "hero.title", domain.ContentTypeText, "Hello")

	done := make(chan error, 1)
	go func() { done <- sess.SaveAll(ctx) }()

	// Queue a fresh edit while the save is still writing; only the snapshot
	// taken at save start may leave the queue.
	<-stalling.started
	sess.UpdateContent("home", "hero.subtitle", domain.ContentTypeText, "World")
	close(stalling.release)

	if err := <-done; err != nil {
		t.Fatalf("save all: %v", err)
	}
	if sess.PendingCount() != 1 {
		t.Fatalf("mid-save edit must stay queued, got %d pending", sess.PendingCount())
	}
	if got := sess.GetContent("home", "hero.subtitle", "Default"); got != "World" {
		t.Fatalf("expected mid-save edit resolvable, got %q", got)
	}

	if err := sess.SaveAll(ctx); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if sess.PendingCount() != 0 {
		t.Fatalf("queue should drain after second save, got %d", sess.PendingCount())
	}
}

func TestSetLocaleClearsCacheAndPending(t *testing.T) {
	ctx := context.Background()
	sess, svc := newTestSession(t)

	if _, err := svc.Upsert(ctx, store.UpsertRequest{
		PageName: "home", ContentKey: "hero.title", ContentType: domain.ContentTypeText,
		ContentValue: "Saved", LocaleCode: "en",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := sess.LoadPageContent(ctx, "home"); err != nil {
		t.Fatalf("load: %v", err)
	}
	sess.UpdateContent("home", "hero.subtitle", domain.ContentTypeText, "Pending")

	sess.SetLocale("es")
	if sess.Locale() != "es" {
		t.Fatalf("expected locale es, got %q", sess.Locale())
	}
	if sess.PendingCount() != 0 {
		t.Fatalf("pending queue must clear on locale switch")
	}
	if got := sess.GetContent("home", "hero.title", "Default"); got != "Default" {
		t.Fatalf("cache must clear on locale switch, got %q", got)
	}

	// Same locale is a no-op and must not discard anything.
	sess.UpdateContent("home", "hero.title", domain.ContentTypeText, "Hola")
	sess.SetLocale("es")
	if sess.PendingCount() != 1 {
		t.Fatalf("no-op locale switch discarded pending edits")
	}
}

func TestPutAndInvalidatePage(t *testing.T) {
	sess, _ := newTestSession(t)

	sess.Put(&store.ContentRecord{
		ID: uuid.New(), PageName: "home", ContentKey: "hero.title",
		ContentType: domain.ContentTypeText, ContentValue: "Hello", LocaleCode: "en",
	})
	if _, ok := sess.Cache("home", "hero.title"); !ok {
		t.Fatalf("expected cached record")
	}

	sess.InvalidatePage("home")
	if _, ok := sess.Cache("home", "hero.title"); ok {
		t.Fatalf("expected cache invalidated")
	}
}
