package registry

import (
	"context"
	"strings"

	editcontent "github.com/goliatone/go-editkit/content"
	"github.com/goliatone/go-editkit/internal/logging"
	"github.com/goliatone/go-editkit/internal/store"
	"github.com/goliatone/go-editkit/pkg/interfaces"
)

// ImportReport summarizes one structural-to-explicit migration pass.
type ImportReport struct {
	PageName   string
	LocaleCode string
	// Considered counts structural records found for the page.
	Considered int
	// Imported counts records rewritten under an explicit slot key.
	Imported int
	// Unmatched lists structural keys whose original text matched no slot
	// default. These need a manual slot declaration before they can migrate.
	Unmatched []string
}

// Importer migrates content captured under derived structural keys to the
// explicit slot keys declared in the registry. Matching anchors on the saved
// envelope's original text against each slot's authored default, the same
// signal the overlay uses to re-locate elements. The pass is non-destructive:
// structural records stay in place so an aborted migration loses nothing.
type Importer struct {
	registry *Registry
	gateway  store.Service
	logger   interfaces.Logger
	editor   string
}

// ImporterOption configures the importer.
type ImporterOption func(*Importer)

// WithImportLogger attaches a module logger.
func WithImportLogger(logger interfaces.Logger) ImporterOption {
	return func(imp *Importer) {
		imp.logger = logging.EnsureLogger(logger)
	}
}

// WithImportEditor sets the author recorded on migrated records.
func WithImportEditor(editor string) ImporterOption {
	return func(imp *Importer) {
		imp.editor = editor
	}
}

// NewImporter builds an importer over a registry and content store.
func NewImporter(registry *Registry, gateway store.Service, opts ...ImporterOption) *Importer {
	imp := &Importer{
		registry: registry,
		gateway:  gateway,
		logger:   logging.NoOp(),
		editor:   "importer",
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Import migrates one page and locale. Records whose envelope decodes to an
// empty original text cannot be matched and are reported as unmatched.
func (imp *Importer) Import(ctx context.Context, pageName, localeCode string) (*ImportReport, error) {
	records, err := imp.gateway.FetchPageContent(ctx, pageName, localeCode)
	if err != nil {
		return nil, err
	}

	byDefault := make(map[string]Slot)
	for _, slot := range imp.registry.List(pageName) {
		anchor := strings.TrimSpace(slot.Default)
		if anchor == "" {
			continue
		}
		if _, taken := byDefault[anchor]; !taken {
			byDefault[anchor] = slot
		}
	}

	report := &ImportReport{PageName: pageName, LocaleCode: localeCode}
	for _, record := range records {
		if !editcontent.IsStructuralKey(record.ContentKey) {
			continue
		}
		report.Considered++

		env := editcontent.DecodeEnvelope(record.ContentValue)
		slot, ok := byDefault[strings.TrimSpace(env.OriginalText)]
		if !ok {
			report.Unmatched = append(report.Unmatched, record.ContentKey)
			continue
		}

		if _, upsertErr := imp.gateway.Upsert(ctx, store.UpsertRequest{
			PageName:     pageName,
			ContentKey:   slot.ContentKey,
			ContentType:  slot.ContentType,
			ContentValue: env.NewText,
			LocaleCode:   localeCode,
			CreatedBy:    imp.editor,
		}); upsertErr != nil {
			return report, upsertErr
		}

		imp.logger.Info("migrated structural record",
			"from", record.ContentKey, "to", slot.ContentKey, "page", pageName)
		report.Imported++
	}
	return report, nil
}
