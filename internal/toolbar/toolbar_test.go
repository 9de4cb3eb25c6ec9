package toolbar

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/goliatone/go-editkit/internal/domain"
	"github.com/goliatone/go-editkit/internal/session"
	"github.com/goliatone/go-editkit/internal/store"
	"github.com/goliatone/go-editkit/pkg/interfaces"
)

func newTestToolbar(t *testing.T, opts ...session.Option) (*Toolbar, *session.Session) {
	t.Helper()
	svc := store.NewService(store.NewMemoryRepository())
	sess := session.New(svc, opts...)
	return New(sess), sess
}

// blockingStore holds saves open until released, for in-flight assertions.
type blockingStore struct {
	store.Service
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingStore) Upsert(ctx context.Context, req store.UpsertRequest) (*store.ContentRecord, error) {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return b.Service.Upsert(ctx, req)
}

func TestVisibilityFollowsCapability(t *testing.T) {
	ctx := context.Background()

	bar, _ := newTestToolbar(t)
	if !bar.Visible(ctx) {
		t.Fatalf("toolbar should show for editors")
	}

	denied, _ := newTestToolbar(t, session.WithCapability(interfaces.DenyAll()))
	if denied.Visible(ctx) {
		t.Fatalf("toolbar must hide without edit capability")
	}
}

func TestSaveAllReportsOutcome(t *testing.T) {
	ctx := context.Background()
	bar, sess := newTestToolbar(t)

	notice, err := bar.SaveAll(ctx)
	if err != nil {
		t.Fatalf("empty save: %v", err)
	}
	if notice.Level != NoticeSuccess {
		t.Fatalf("expected success notice, got %+v", notice)
	}

	sess.UpdateContent("home", "hero.title", domain.ContentTypeText, "Hello")
	sess.UpdateContent("home", "hero.subtitle", domain.ContentTypeText, "World")
	if bar.PendingCount() != 2 {
		t.Fatalf("expected badge count 2, got %d", bar.PendingCount())
	}

	notice, err = bar.SaveAll(ctx)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if notice.Level != NoticeSuccess {
		t.Fatalf("expected success notice, got %+v", notice)
	}
	if bar.PendingCount() != 0 {
		t.Fatalf("badge should clear after save")
	}
}

func TestSaveAllRefusesConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	inner := store.NewService(store.NewMemoryRepository())
	blocking := &blockingStore{
		Service: inner,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	sess := session.New(blocking)
	bar := New(sess)

	sess.UpdateContent("home", "hero.title", domain.ContentTypeText, "Hello")

	done := make(chan error, 1)
	go func() {
		_, err := bar.SaveAll(ctx)
		done <- err
	}()

	<-blocking.started
	if !bar.Saving() {
		t.Fatalf("expected in-flight save")
	}
	if _, err := bar.SaveAll(ctx); !errors.Is(err, ErrSaveInFlight) {
		t.Fatalf("expected in-flight rejection, got %v", err)
	}

	close(blocking.release)
	if err := <-done; err != nil {
		t.Fatalf("first save: %v", err)
	}
	if bar.Saving() {
		t.Fatalf("in-flight flag should clear")
	}

	// The guard resets and later saves proceed.
	sess.UpdateContent("home", "hero.title", domain.ContentTypeText, "Again")
	if _, err := bar.SaveAll(ctx); err != nil {
		t.Fatalf("follow-up save: %v", err)
	}
}

func TestDiscard(t *testing.T) {
	bar, sess := newTestToolbar(t)

	notice := bar.Discard()
	if notice.Level != NoticeSuccess {
		t.Fatalf("empty discard should be benign, got %+v", notice)
	}

	sess.UpdateContent("home", "hero.title", domain.ContentTypeText, "Hello")
	notice = bar.Discard()
	if notice.Level != NoticeWarning {
		t.Fatalf("expected warning notice, got %+v", notice)
	}
	if sess.PendingCount() != 0 {
		t.Fatalf("discard must clear the queue")
	}
}

func TestToggleMinimized(t *testing.T) {
	bar, _ := newTestToolbar(t)
	if bar.Minimized() {
		t.Fatalf("toolbar starts expanded")
	}
	if !bar.ToggleMinimized() {
		t.Fatalf("expected minimized true")
	}
	if bar.ToggleMinimized() {
		t.Fatalf("expected minimized false")
	}
}
