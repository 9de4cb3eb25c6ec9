package registry

import (
	"context"
	"testing"

	editcontent "github.com/goliatone/go-editkit/content"
	"github.com/goliatone/go-editkit/internal/domain"
	"github.com/goliatone/go-editkit/internal/store"
)

func seedStructural(t *testing.T, svc store.Service, contentKey, newText, originalText string) {
	t.Helper()
	value, err := editcontent.EncodeEnvelope(editcontent.Envelope{
		NewText:      newText,
		OriginalText: originalText,
	})
	if err != nil {
		t.Fatalf("encode envelope: %v", err)
	}
	if _, err := svc.Upsert(context.Background(), store.UpsertRequest{
		PageName:     "home",
		ContentKey:   contentKey,
		ContentType:  domain.ContentTypeText,
		ContentValue: value,
		LocaleCode:   "en",
		CreatedBy:    "editor",
	}); err != nil {
		t.Fatalf("seed %s: %v", contentKey, err)
	}
}

func TestImportMigratesMatchedStructuralRecords(t *testing.T) {
	ctx := context.Background()
	svc := store.NewService(store.NewMemoryRepository())
	reg := New()
	reg.MustRegister(Slot{
		PageName:    "home",
		ContentKey:  "mission.heading",
		ContentType: domain.ContentTypeText,
		Default:     "Our Mission",
	})

	seedStructural(t, svc, "global_div_0_h2_0", "Our New Mission", "Our Mission")
	seedStructural(t, svc, "global_div_0_p_3", "Edited paragraph", "Text nobody declared a slot for")

	imp := NewImporter(reg, svc)
	report, err := imp.Import(ctx, "home", "en")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Considered != 2 || report.Imported != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(report.Unmatched) != 1 || report.Unmatched[0] != "global_div_0_p_3" {
		t.Fatalf("unexpected unmatched set %v", report.Unmatched)
	}

	// The new text lands under the explicit key as a plain value, and the
	// structural record survives the migration.
	records := fetchPage(t, svc, "home", "en")
	if records["mission.heading"] != "Our New Mission" {
		t.Fatalf("unexpected migrated value %q", records["mission.heading"])
	}
	if _, ok := records["global_div_0_h2_0"]; !ok {
		t.Fatalf("structural record should remain: %v", records)
	}
}

func fetchPage(t *testing.T, svc store.Service, pageName, localeCode string) map[string]string {
	t.Helper()
	records, err := svc.FetchPageContent(context.Background(), pageName, localeCode)
	if err != nil {
		t.Fatalf("fetch page: %v", err)
	}
	out := make(map[string]string, len(records))
	for _, record := range records {
		out[record.ContentKey] = record.ContentValue
	}
	return out
}

func TestImportSkipsExplicitRecordsAndLegacyValues(t *testing.T) {
	ctx := context.Background()
	svc := store.NewService(store.NewMemoryRepository())
	reg := New()
	reg.MustRegister(Slot{
		PageName:    "home",
		ContentKey:  "mission.heading",
		ContentType: domain.ContentTypeText,
		Default:     "Our Mission",
	})

	// An explicit record is not part of the migration population.
	if _, err := svc.Upsert(ctx, store.UpsertRequest{
		PageName:     "home",
		ContentKey:   "mission.heading",
		ContentType:  domain.ContentTypeText,
		ContentValue: "Already explicit",
		LocaleCode:   "en",
		CreatedBy:    "editor",
	}); err != nil {
		t.Fatalf("seed explicit: %v", err)
	}

	// Legacy bare-string records decode with no original text, so they
	// cannot anchor to a slot default.
	if _, err := svc.Upsert(ctx, store.UpsertRequest{
		PageName:     "home",
		ContentKey:   "global_div_0_h2_0",
		ContentType:  domain.ContentTypeText,
		ContentValue: "Bare legacy value",
		LocaleCode:   "en",
		CreatedBy:    "editor",
	}); err != nil {
		t.Fatalf("seed legacy: %v", err)
	}

	imp := NewImporter(reg, svc)
	report, err := imp.Import(ctx, "home", "en")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Considered != 1 || report.Imported != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(report.Unmatched) != 1 || report.Unmatched[0] != "global_div_0_h2_0" {
		t.Fatalf("unexpected unmatched set %v", report.Unmatched)
	}

	// The explicit record is untouched.
	records := fetchPage(t, svc, "home", "en")
	if records["mission.heading"] != "Already explicit" {
		t.Fatalf("explicit value clobbered: %q", records["mission.heading"])
	}
}
