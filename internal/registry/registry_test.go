package registry

import (
	"errors"
	"testing"

	"github.com/goliatone/go-editkit/internal/domain"
	"github.com/goliatone/go-editkit/pkg/testsupport"
)

func TestSlotValidate(t *testing.T) {
	valid := Slot{PageName: "home", ContentKey: "hero.title", ContentType: domain.ContentTypeText}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid slot rejected: %v", err)
	}

	cases := []struct {
		name string
		slot Slot
		want error
	}{
		{"missing page", Slot{ContentKey: "hero.title", ContentType: domain.ContentTypeText}, ErrSlotPageRequired},
		{"missing key", Slot{PageName: "home", ContentType: domain.ContentTypeText}, ErrSlotKeyRequired},
		{"structural key", Slot{PageName: "home", ContentKey: "global_div_0_h2_0", ContentType: domain.ContentTypeText}, ErrSlotKeyStructural},
		{"bad characters", Slot{PageName: "home", ContentKey: "hero title!", ContentType: domain.ContentTypeText}, ErrSlotKeyInvalid},
		{"bad type", Slot{PageName: "home", ContentKey: "hero.title", ContentType: domain.ContentType("video")}, ErrSlotTypeInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.slot.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRegisterAndLookup(t *testing.T) {
	reg := New()
	slot := Slot{PageName: "home", ContentKey: "hero.title", ContentType: domain.ContentTypeText, Default: "Welcome"}
	if err := reg.Register(slot); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(slot); !errors.Is(err, ErrSlotDuplicate) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}

	got, ok := reg.Lookup("home", "hero.title")
	if !ok {
		t.Fatalf("slot not found")
	}
	if got.Default != "Welcome" {
		t.Fatalf("unexpected slot %+v", got)
	}
	if _, ok := reg.Lookup("home", "missing"); ok {
		t.Fatalf("lookup should miss")
	}
}

func TestListAndPagesAreSorted(t *testing.T) {
	reg := New()
	reg.MustRegister(Slot{PageName: "about", ContentKey: "team.intro", ContentType: domain.ContentTypeText})
	reg.MustRegister(Slot{PageName: "home", ContentKey: "hero.title", ContentType: domain.ContentTypeText})
	reg.MustRegister(Slot{PageName: "home", ContentKey: "footer.note", ContentType: domain.ContentTypeText})

	home := reg.List("home")
	if len(home) != 2 || home[0].ContentKey != "footer.note" || home[1].ContentKey != "hero.title" {
		t.Fatalf("unexpected slot order: %+v", home)
	}
	pages := reg.Pages()
	if len(pages) != 2 || pages[0] != "about" || pages[1] != "home" {
		t.Fatalf("unexpected pages: %v", pages)
	}
	if reg.Len() != 3 {
		t.Fatalf("expected 3 slots, got %d", reg.Len())
	}
}

func TestParseManifest(t *testing.T) {
	doc := []byte(`{
		"version": 1,
		"slots": [
			{"page": "home", "key": "hero.title", "type": "text", "default": "Welcome"},
			{"page": "home", "key": "hero.body", "type": "richtext"}
		]
	}`)
	manifest, err := ParseManifest(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if manifest.Version != 1 || len(manifest.Slots) != 2 {
		t.Fatalf("unexpected manifest %+v", manifest)
	}
}

func TestLoadManifestFromFile(t *testing.T) {
	data, err := testsupport.LoadFixture("testdata/manifest.json")
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}

	reg := New()
	count, err := reg.LoadManifest(data)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if count != 3 || reg.Len() != 3 {
		t.Fatalf("expected 3 slots, got %d", reg.Len())
	}
	slot, ok := reg.Lookup("about", "team.photo")
	if !ok || slot.ContentType != domain.ContentTypeImage {
		t.Fatalf("unexpected slot %+v", slot)
	}
}

func TestParseManifestReportsPointerLocations(t *testing.T) {
	doc := []byte(`{
		"slots": [
			{"page": "home", "key": "hero.title", "type": "text"},
			{"page": "home", "key": "bad key", "type": "text"}
		]
	}`)
	_, err := ParseManifest(doc)
	if !errors.Is(err, ErrManifestInvalid) {
		t.Fatalf("expected manifest error, got %v", err)
	}
	var manifestErr *ManifestError
	if !errors.As(err, &manifestErr) {
		t.Fatalf("expected *ManifestError, got %T", err)
	}
	if len(manifestErr.Issues) == 0 {
		t.Fatalf("expected schema issues")
	}
	found := false
	for _, issue := range manifestErr.Issues {
		if issue.Location == "/slots/1/key" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected issue at /slots/1/key, got %+v", manifestErr.Issues)
	}
}

func TestParseManifestRejectsMalformedJSON(t *testing.T) {
	if _, err := ParseManifest([]byte(`{"slots": [`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoadManifestStopsAtFirstSlotError(t *testing.T) {
	reg := New()
	reg.MustRegister(Slot{PageName: "home", ContentKey: "hero.title", ContentType: domain.ContentTypeText})

	doc := []byte(`{
		"slots": [
			{"page": "home", "key": "hero.body", "type": "richtext"},
			{"page": "home", "key": "hero.title", "type": "text"}
		]
	}`)
	index, err := reg.LoadManifest(doc)
	if !errors.Is(err, ErrSlotDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if index != 1 {
		t.Fatalf("expected failure at slot 1, got %d", index)
	}
	// The slot before the failure stays registered.
	if _, ok := reg.Lookup("home", "hero.body"); !ok {
		t.Fatalf("earlier slot should be registered")
	}
}

func TestExportManifestRoundTrips(t *testing.T) {
	reg := New()
	reg.MustRegister(Slot{PageName: "home", ContentKey: "hero.title", ContentType: domain.ContentTypeText, Default: "Welcome"})
	reg.MustRegister(Slot{PageName: "about", ContentKey: "team.intro", ContentType: domain.ContentTypeRichText})

	data, err := reg.ExportManifest()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	fresh := New()
	count, err := fresh.LoadManifest(data)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if count != 2 || fresh.Len() != 2 {
		t.Fatalf("expected 2 slots back, got %d", fresh.Len())
	}
}
