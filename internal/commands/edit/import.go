package editcmd

import (
	"context"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-editkit/internal/commands"
	"github.com/goliatone/go-editkit/internal/registry"
	"github.com/goliatone/go-editkit/pkg/interfaces"
)

const importStructuralMessageType = "editkit.registry.import_structural"

// ImportStructuralCommand migrates a page's structurally keyed content to the
// explicit slot keys declared in the registry.
type ImportStructuralCommand struct {
	PageName   string `json:"page_name"`
	LocaleCode string `json:"locale_code"`
}

// Type implements command.Message.
func (ImportStructuralCommand) Type() string { return importStructuralMessageType }

// Validate ensures the message names a page and locale.
func (m ImportStructuralCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.PageName) == "" {
		errs["page_name"] = validation.NewError("editkit.registry.import.page_required", "page_name is required")
	}
	if strings.TrimSpace(m.LocaleCode) == "" {
		errs["locale_code"] = validation.NewError("editkit.registry.import.locale_required", "locale_code is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ImportStructuralHandler runs the registry importer for one page and locale.
type ImportStructuralHandler struct {
	inner *commands.Handler[ImportStructuralCommand]

	// lastReport keeps the most recent outcome for callers that dispatch
	// through the command bus and cannot receive a return value.
	mu         sync.Mutex
	lastReport *registry.ImportReport
}

// NewImportStructuralHandler constructs a handler wired to the importer.
func NewImportStructuralHandler(importer *registry.Importer, logger interfaces.Logger, opts ...commands.HandlerOption[ImportStructuralCommand]) *ImportStructuralHandler {
	h := &ImportStructuralHandler{}
	exec := func(ctx context.Context, msg ImportStructuralCommand) error {
		report, err := importer.Import(ctx, msg.PageName, msg.LocaleCode)
		h.mu.Lock()
		h.lastReport = report
		h.mu.Unlock()
		return err
	}

	handlerOpts := []commands.HandlerOption[ImportStructuralCommand]{
		commands.WithLogger[ImportStructuralCommand](logger),
		commands.WithOperation[ImportStructuralCommand]("registry.import_structural"),
	}
	handlerOpts = append(handlerOpts, opts...)

	h.inner = commands.NewHandler[ImportStructuralCommand](exec, handlerOpts...)
	return h
}

// Execute satisfies command.Commander[ImportStructuralCommand].Execute.
func (h *ImportStructuralHandler) Execute(ctx context.Context, msg ImportStructuralCommand) error {
	return h.inner.Execute(ctx, msg)
}

// LastReport returns the outcome of the most recent execution.
func (h *ImportStructuralHandler) LastReport() *registry.ImportReport {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastReport
}
