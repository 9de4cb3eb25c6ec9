// Package editkit provides in-place content editing for server-rendered and
// single-page marketing sites: heuristic discovery of editable elements in
// parsed HTML, durable content identity, a versioned content store, local
// draft fallback, and the session machinery that ties them together.
package editkit

import (
	"context"

	editcontent "github.com/goliatone/go-editkit/content"
	"github.com/goliatone/go-editkit/domain"
	"github.com/goliatone/go-editkit/internal/commands"
	editcmd "github.com/goliatone/go-editkit/internal/commands/edit"
	"github.com/goliatone/go-editkit/internal/di"
	"github.com/goliatone/go-editkit/internal/dom"
	"github.com/goliatone/go-editkit/internal/drafts"
	"github.com/goliatone/go-editkit/internal/editable"
	"github.com/goliatone/go-editkit/internal/logging"
	"github.com/goliatone/go-editkit/internal/media"
	"github.com/goliatone/go-editkit/internal/overlay"
	"github.com/goliatone/go-editkit/internal/registry"
	"github.com/goliatone/go-editkit/internal/session"
	"github.com/goliatone/go-editkit/internal/store"
	"github.com/goliatone/go-editkit/internal/toolbar"
	"github.com/goliatone/go-editkit/pkg/storage"
	"github.com/uptrace/bun"
	"golang.org/x/net/html"
)

// ContentType exports the content type enum.
type ContentType = domain.ContentType

// Content type values for UpdateContent and slot declarations.
const (
	ContentTypeText     = domain.ContentTypeText
	ContentTypeRichText = domain.ContentTypeRichText
	ContentTypeImage    = domain.ContentTypeImage
	ContentTypeHTML     = domain.ContentTypeHTML
)

// ContentService exports the content store gateway contract.
type ContentService = store.Service

// ContentRepository exports the content repository contract for custom
// persistence backends.
type ContentRepository = store.Repository

// UpsertRequest exports the gateway upsert payload.
type UpsertRequest = store.UpsertRequest

// RestoreVersionRequest exports the gateway restore payload.
type RestoreVersionRequest = store.RestoreVersionRequest

// DraftStore exports the local draft cache contract.
type DraftStore = drafts.Store

// Session exports the edit session type.
type Session = session.Session

// SessionOption exports session construction options.
type SessionOption = session.Option

// PendingChange exports one queued, unsaved edit.
type PendingChange = session.PendingChange

// Overlay exports the edit-mode overlay engine.
type Overlay = overlay.Engine

// OverlayOption exports overlay construction options.
type OverlayOption = overlay.Option

// SaveOutcome exports the overlay commit outcome.
type SaveOutcome = overlay.SaveOutcome

// Toolbar exports the admin toolbar.
type Toolbar = toolbar.Toolbar

// EditableText exports the declaratively keyed text component.
type EditableText = editable.Text

// TextEditor exports the in-place text editing round.
type TextEditor = editable.TextEditor

// EditableImage exports the declaratively keyed image component.
type EditableImage = editable.Image

// ImageReplacer exports the validated image replacement flow.
type ImageReplacer = editable.ImageReplacer

// Slot exports one declared editable content position.
type Slot = registry.Slot

// SlotRegistry exports the slot registry.
type SlotRegistry = registry.Registry

// Importer exports the structural-to-explicit content importer.
type Importer = registry.Importer

// MediaService exports the blob-backed media helper.
type MediaService = media.Service

// SaveAllCommand exports the save-all command message.
type SaveAllCommand = editcmd.SaveAllCommand

// DiscardChangesCommand exports the discard command message.
type DiscardChangesCommand = editcmd.DiscardChangesCommand

// RestoreVersionCommand exports the history restore command message.
type RestoreVersionCommand = editcmd.RestoreVersionCommand

// ImportStructuralCommand exports the structural migration command message.
type ImportStructuralCommand = editcmd.ImportStructuralCommand

// NewTextEditor starts an explicit-slot text editing round over a session.
func NewTextEditor(text EditableText, sess *Session) *TextEditor {
	return editable.NewTextEditor(text, sess)
}

// Module is the top level editkit runtime facade.
type Module struct {
	container *di.Container
}

// New constructs an editkit module from configuration plus optional DI
// overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// OpenStorage opens the database named in the configuration, applies the
// content schema, and returns a bun handle suitable for di.WithBunDB.
func OpenStorage(ctx context.Context, cfg Config) (*bun.DB, error) {
	db, err := storage.Open(storage.Config{
		Driver: cfg.Storage.Driver,
		DSN:    cfg.Storage.DSN,
	})
	if err != nil {
		return nil, err
	}
	models := []any{(*editcontent.ContentRecord)(nil), (*editcontent.ContentHistory)(nil)}
	if err := storage.EnsureSchema(ctx, db, models...); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Content returns the configured content store gateway.
func (m *Module) Content() ContentService {
	return m.container.ContentService()
}

// Drafts returns the configured local draft cache.
func (m *Module) Drafts() DraftStore {
	return m.container.DraftStore()
}

// Media returns the media service, nil when the media library feature is
// disabled.
func (m *Module) Media() *MediaService {
	return m.container.MediaService()
}

// Registry returns the slot registry.
func (m *Module) Registry() *SlotRegistry {
	return m.container.Registry()
}

// Importer returns the structural-to-explicit importer.
func (m *Module) Importer() *Importer {
	return m.container.Importer()
}

// NewSession creates an edit session bound to the module's content store,
// capability predicate, and default locale. Options may override any of them.
func (m *Module) NewSession(opts ...SessionOption) *Session {
	sessionOpts := []session.Option{
		session.WithLocale(m.container.Config.DefaultLocale),
		session.WithCapability(m.container.EditCapability()),
		session.WithLogger(logging.SessionLogger(m.container.LoggerProvider())),
	}
	sessionOpts = append(sessionOpts, opts...)
	return session.New(m.container.ContentService(), sessionOpts...)
}

// NewOverlay creates an edit-mode overlay engine for one page document,
// honouring the configured structural key limits.
func (m *Module) NewOverlay(pageName string, doc *html.Node, sess *Session, opts ...OverlayOption) *Overlay {
	keys := dom.KeyBuilder{
		MaxDepth: m.container.Config.Limits.StructuralKeyMaxDepth,
		MaxLen:   m.container.Config.Limits.StructuralKeyMaxLen,
	}
	overlayOpts := []overlay.Option{
		overlay.WithKeyBuilder(keys),
		overlay.WithCapability(m.container.EditCapability()),
		overlay.WithLogger(logging.OverlayLogger(m.container.LoggerProvider())),
	}
	overlayOpts = append(overlayOpts, opts...)
	return overlay.New(pageName, doc, sess, m.container.ContentService(), m.container.DraftStore(), overlayOpts...)
}

// NewToolbar creates an admin toolbar over a session.
func (m *Module) NewToolbar(sess *Session) *Toolbar {
	return toolbar.New(sess,
		toolbar.WithLogger(logging.ToolbarLogger(m.container.LoggerProvider())))
}

// Commands bundles the module's command handlers for hosts that dispatch
// through go-command.
type Commands struct {
	SaveAll          *editcmd.SaveAllHandler
	DiscardChanges   *editcmd.DiscardChangesHandler
	RestoreVersion   *editcmd.RestoreVersionHandler
	ImportStructural *editcmd.ImportStructuralHandler
}

// NewCommands builds command handlers bound to a session and the module's
// services. SaveAll carries the configured save timeout.
func (m *Module) NewCommands(sess *Session) *Commands {
	logger := commands.CommandLogger(m.container.LoggerProvider(), "edit")
	return &Commands{
		SaveAll: editcmd.NewSaveAllHandler(sess, logger,
			commands.WithTimeout[editcmd.SaveAllCommand](m.container.Config.Limits.SaveTimeout)),
		DiscardChanges:   editcmd.NewDiscardChangesHandler(sess, logger),
		RestoreVersion:   editcmd.NewRestoreVersionHandler(m.container.ContentService(), logger),
		ImportStructural: editcmd.NewImportStructuralHandler(m.container.Importer(), logger),
	}
}

// NewImageReplacer creates the validated image replacement flow for a session,
// honouring the configured upload size limit.
func (m *Module) NewImageReplacer(sess *Session) *ImageReplacer {
	return editable.NewImageReplacer(sess, m.container.BlobStore(),
		editable.WithMaxImageBytes(m.container.Config.Limits.MaxImageBytes),
		editable.WithLogger(logging.MediaLogger(m.container.LoggerProvider())))
}
