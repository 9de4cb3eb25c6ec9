package editcmd

import (
	"context"

	"github.com/goliatone/go-editkit/internal/commands"
	"github.com/goliatone/go-editkit/internal/session"
	"github.com/goliatone/go-editkit/pkg/interfaces"
)

const saveAllMessageType = "editkit.session.save_all"

// SaveAllCommand flushes every pending change on a session to the content
// store.
type SaveAllCommand struct{}

// Type implements command.Message.
func (SaveAllCommand) Type() string { return saveAllMessageType }

// SaveAllHandler persists the pending queue via the session.
type SaveAllHandler struct {
	inner *commands.Handler[SaveAllCommand]
}

// NewSaveAllHandler constructs a handler bound to one session.
func NewSaveAllHandler(sess *session.Session, logger interfaces.Logger, opts ...commands.HandlerOption[SaveAllCommand]) *SaveAllHandler {
	exec := func(ctx context.Context, _ SaveAllCommand) error {
		return sess.SaveAll(ctx)
	}

	handlerOpts := []commands.HandlerOption[SaveAllCommand]{
		commands.WithLogger[SaveAllCommand](logger),
		commands.WithOperation[SaveAllCommand]("session.save_all"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SaveAllHandler{inner: commands.NewHandler[SaveAllCommand](exec, handlerOpts...)}
}

// Execute satisfies command.Commander[SaveAllCommand].Execute.
func (h *SaveAllHandler) Execute(ctx context.Context, msg SaveAllCommand) error {
	return h.inner.Execute(ctx, msg)
}

const discardChangesMessageType = "editkit.session.discard"

// DiscardChangesCommand drops every pending change on a session.
type DiscardChangesCommand struct{}

// Type implements command.Message.
func (DiscardChangesCommand) Type() string { return discardChangesMessageType }

// DiscardChangesHandler clears the pending queue.
type DiscardChangesHandler struct {
	inner *commands.Handler[DiscardChangesCommand]
}

// NewDiscardChangesHandler constructs a handler bound to one session.
func NewDiscardChangesHandler(sess *session.Session, logger interfaces.Logger, opts ...commands.HandlerOption[DiscardChangesCommand]) *DiscardChangesHandler {
	exec := func(ctx context.Context, _ DiscardChangesCommand) error {
		sess.Discard()
		return nil
	}

	handlerOpts := []commands.HandlerOption[DiscardChangesCommand]{
		commands.WithLogger[DiscardChangesCommand](logger),
		commands.WithOperation[DiscardChangesCommand]("session.discard"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DiscardChangesHandler{inner: commands.NewHandler[DiscardChangesCommand](exec, handlerOpts...)}
}

// Execute satisfies command.Commander[DiscardChangesCommand].Execute.
func (h *DiscardChangesHandler) Execute(ctx context.Context, msg DiscardChangesCommand) error {
	return h.inner.Execute(ctx, msg)
}
