package editcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-editkit/internal/commands"
	"github.com/goliatone/go-editkit/internal/store"
	"github.com/goliatone/go-editkit/pkg/interfaces"
	"github.com/google/uuid"
)

const restoreVersionMessageType = "editkit.content.restore_version"

// RestoreVersionCommand requests that a content record be rolled back to the
// value captured in one of its history entries.
type RestoreVersionCommand struct {
	ContentID  uuid.UUID `json:"content_id"`
	HistoryID  uuid.UUID `json:"history_id"`
	RestoredBy string    `json:"restored_by,omitempty"`
}

// Type implements command.Message.
func (RestoreVersionCommand) Type() string { return restoreVersionMessageType }

// Validate ensures the message carries the required identifiers.
func (m RestoreVersionCommand) Validate() error {
	errs := validation.Errors{}
	if m.ContentID == uuid.Nil {
		errs["content_id"] = validation.NewError("editkit.content.restore.content_id_required", "content_id is required")
	}
	if m.HistoryID == uuid.Nil {
		errs["history_id"] = validation.NewError("editkit.content.restore.history_id_required", "history_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RestoreVersionHandler rolls content back through the store service.
type RestoreVersionHandler struct {
	inner *commands.Handler[RestoreVersionCommand]
}

// NewRestoreVersionHandler constructs a handler wired to the content store.
func NewRestoreVersionHandler(gateway store.Service, logger interfaces.Logger, opts ...commands.HandlerOption[RestoreVersionCommand]) *RestoreVersionHandler {
	exec := func(ctx context.Context, msg RestoreVersionCommand) error {
		_, err := gateway.RestoreVersion(ctx, store.RestoreVersionRequest{
			ContentID:  msg.ContentID,
			HistoryID:  msg.HistoryID,
			RestoredBy: msg.RestoredBy,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[RestoreVersionCommand]{
		commands.WithLogger[RestoreVersionCommand](logger),
		commands.WithOperation[RestoreVersionCommand]("content.restore_version"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RestoreVersionHandler{inner: commands.NewHandler[RestoreVersionCommand](exec, handlerOpts...)}
}

// Execute satisfies command.Commander[RestoreVersionCommand].Execute.
func (h *RestoreVersionHandler) Execute(ctx context.Context, msg RestoreVersionCommand) error {
	return h.inner.Execute(ctx, msg)
}
