package store

import (
	"context"
	"errors"
	"testing"
	"time"

	editcontent "github.com/goliatone/go-editkit/content"
	"github.com/goliatone/go-editkit/internal/domain"
	"github.com/goliatone/go-editkit/internal/identity"
)

func newTestService(tb testing.TB, opts ...ServiceOption) (Service, *MemoryRepository) {
	tb.Helper()
	repo := NewMemoryRepository()
	base := []ServiceOption{
		WithClock(func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }),
	}
	return NewService(repo, append(base, opts...)...), repo
}

func TestUpsertCreatesRecordWithDeterministicID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	record, err := svc.Upsert(ctx, UpsertRequest{
		PageName:     "home",
		ContentKey:   "hero.title",
		ContentType:  domain.ContentTypeText,
		ContentValue: "Welcome",
		LocaleCode:   "en",
		CreatedBy:    "editor@example.org",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if record.Version != 1 {
		t.Fatalf("expected version 1, got %d", record.Version)
	}
	if want := identity.RecordUUID("home", "hero.title", "en"); record.ID != want {
		t.Fatalf("expected deterministic id %s, got %s", want, record.ID)
	}

	again, err := svc.Upsert(ctx, UpsertRequest{
		PageName:     "home",
		ContentKey:   "hero.title",
		ContentType:  domain.ContentTypeText,
		ContentValue: "Welcome back",
		LocaleCode:   "en",
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if again.ID != record.ID {
		t.Fatalf("upsert changed record identity: %s vs %s", again.ID, record.ID)
	}
	if again.Version != 2 {
		t.Fatalf("expected version 2, got %d", again.Version)
	}
	if again.ContentValue != "Welcome back" {
		t.Fatalf("expected updated value, got %q", again.ContentValue)
	}
}

func TestUpsertIsScopedByLocale(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.Upsert(ctx, UpsertRequest{
		PageName: "home", ContentKey: "hero.title", ContentType: domain.ContentTypeText,
		ContentValue: "Welcome", LocaleCode: "en",
	}); err != nil {
		t.Fatalf("seed en: %v", err)
	}
	es, err := svc.Upsert(ctx, UpsertRequest{
		PageName: "home", ContentKey: "hero.title", ContentType: domain.ContentTypeText,
		ContentValue: "Bienvenido", LocaleCode: "es",
	})
	if err != nil {
		t.Fatalf("seed es: %v", err)
	}
	if es.Version != 1 {
		t.Fatalf("es record should be independent, got version %d", es.Version)
	}

	records, err := svc.FetchPageContent(ctx, "home", "es")
	if err != nil {
		t.Fatalf("fetch es: %v", err)
	}
	if len(records) != 1 || records[0].ContentValue != "Bienvenido" {
		t.Fatalf("unexpected es records: %+v", records)
	}
}

func TestUpsertValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	cases := []struct {
		name string
		req  UpsertRequest
	}{
		{"missing page", UpsertRequest{ContentKey: "k", ContentType: domain.ContentTypeText, LocaleCode: "en"}},
		{"missing key", UpsertRequest{PageName: "home", ContentType: domain.ContentTypeText, LocaleCode: "en"}},
		{"bad key", UpsertRequest{PageName: "home", ContentKey: "no spaces", ContentType: domain.ContentTypeText, LocaleCode: "en"}},
		{"bad type", UpsertRequest{PageName: "home", ContentKey: "k", ContentType: "video", LocaleCode: "en"}},
		{"missing locale", UpsertRequest{PageName: "home", ContentKey: "k", ContentType: domain.ContentTypeText}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Upsert(ctx, tc.req); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestUpsertCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	record, err := svc.Upsert(ctx, UpsertRequest{
		PageName: "home", ContentKey: "hero.title", ContentType: domain.ContentTypeText,
		ContentValue: "v1", LocaleCode: "en",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	matching := record.Version
	updated, err := svc.Upsert(ctx, UpsertRequest{
		PageName: "home", ContentKey: "hero.title", ContentType: domain.ContentTypeText,
		ContentValue: "v2", LocaleCode: "en", ExpectedVersion: &matching,
	})
	if err != nil {
		t.Fatalf("cas upsert: %v", err)
	}
	if updated.Version != 2 {
		t.Fatalf("expected version 2, got %d", updated.Version)
	}

	stale := matching
	_, err = svc.Upsert(ctx, UpsertRequest{
		PageName: "home", ContentKey: "hero.title", ContentType: domain.ContentTypeText,
		ContentValue: "v3", LocaleCode: "en", ExpectedVersion: &stale,
	})
	if !errors.Is(err, editcontent.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
	var conflict *editcontent.VersionConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected VersionConflictError, got %T", err)
	}
	if conflict.Expected != stale || conflict.Actual != 2 {
		t.Fatalf("unexpected conflict detail: %+v", conflict)
	}

	// A precondition against a missing record is also a conflict, not a create.
	one := 1
	_, err = svc.Upsert(ctx, UpsertRequest{
		PageName: "home", ContentKey: "hero.subtitle", ContentType: domain.ContentTypeText,
		ContentValue: "x", LocaleCode: "en", ExpectedVersion: &one,
	})
	if !errors.Is(err, editcontent.ErrVersionConflict) {
		t.Fatalf("expected conflict for missing record, got %v", err)
	}
}

func TestUpsertAppendsHistory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	record, err := svc.Upsert(ctx, UpsertRequest{
		PageName: "home", ContentKey: "hero.title", ContentType: domain.ContentTypeText,
		ContentValue: "v1", LocaleCode: "en",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.Upsert(ctx, UpsertRequest{
		PageName: "home", ContentKey: "hero.title", ContentType: domain.ContentTypeText,
		ContentValue: "v2", LocaleCode: "en",
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	entries, err := svc.History(ctx, record.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(entries))
	}
	if entries[0].Version != 2 || entries[1].Version != 1 {
		t.Fatalf("expected newest-first ordering, got %d then %d", entries[0].Version, entries[1].Version)
	}
	if entries[1].ContentValue != "v1" {
		t.Fatalf("expected first version value preserved, got %q", entries[1].ContentValue)
	}
}

func TestVersioningDisabledSkipsHistory(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, WithVersioning(false))

	record, err := svc.Upsert(ctx, UpsertRequest{
		PageName: "home", ContentKey: "hero.title", ContentType: domain.ContentTypeText,
		ContentValue: "v1", LocaleCode: "en",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	entries, err := repo.ListHistory(ctx, record.ID)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no history, got %d", len(entries))
	}

	if _, err := svc.RestoreVersion(ctx, RestoreVersionRequest{
		ContentID: record.ID, HistoryID: identity.HistoryUUID(record.ID, 1),
	}); !errors.Is(err, editcontent.ErrVersioningDisabled) {
		t.Fatalf("expected versioning disabled error, got %v", err)
	}
}

func TestRestoreVersion(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	record, err := svc.Upsert(ctx, UpsertRequest{
		PageName: "home", ContentKey: "hero.title", ContentType: domain.ContentTypeText,
		ContentValue: "first", LocaleCode: "en",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.Upsert(ctx, UpsertRequest{
		PageName: "home", ContentKey: "hero.title", ContentType: domain.ContentTypeText,
		ContentValue: "second", LocaleCode: "en",
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	entries, err := svc.History(ctx, record.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var v1 *editcontent.ContentHistory
	for _, entry := range entries {
		if entry.Version == 1 {
			v1 = entry
		}
	}
	if v1 == nil {
		t.Fatalf("missing version 1 entry")
	}

	restored, err := svc.RestoreVersion(ctx, RestoreVersionRequest{
		ContentID: record.ID, HistoryID: v1.ID, RestoredBy: "admin",
	})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.ContentValue != "first" {
		t.Fatalf("expected restored value %q, got %q", "first", restored.ContentValue)
	}
	// Restore is itself a new version so the rollback stays in the audit trail.
	if restored.Version != 3 {
		t.Fatalf("expected version 3 after restore, got %d", restored.Version)
	}
}

func TestRestoreVersionRejectsForeignHistory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	a, err := svc.Upsert(ctx, UpsertRequest{
		PageName: "home", ContentKey: "a", ContentType: domain.ContentTypeText,
		ContentValue: "a1", LocaleCode: "en",
	})
	if err != nil {
		t.Fatalf("seed a: %v", err)
	}
	b, err := svc.Upsert(ctx, UpsertRequest{
		PageName: "home", ContentKey: "b", ContentType: domain.ContentTypeText,
		ContentValue: "b1", LocaleCode: "en",
	})
	if err != nil {
		t.Fatalf("seed b: %v", err)
	}

	bHistory, err := svc.History(ctx, b.ID)
	if err != nil || len(bHistory) == 0 {
		t.Fatalf("history b: %v", err)
	}

	if _, err := svc.RestoreVersion(ctx, RestoreVersionRequest{
		ContentID: a.ID, HistoryID: bHistory[0].ID,
	}); !errors.Is(err, editcontent.ErrHistoryMismatch) {
		t.Fatalf("expected history mismatch, got %v", err)
	}
}

func TestFetchPageContentMissingPageReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	records, err := svc.FetchPageContent(ctx, "about", "en")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}
