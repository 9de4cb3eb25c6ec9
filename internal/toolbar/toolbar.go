package toolbar

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/goliatone/go-editkit/internal/logging"
	"github.com/goliatone/go-editkit/internal/session"
	"github.com/goliatone/go-editkit/pkg/interfaces"
)

// ErrSaveInFlight is returned when SaveAll is invoked while a previous save is
// still running. The toolbar serializes saves; callers retry after the notice.
var ErrSaveInFlight = errors.New("toolbar: a save is already in progress")

// NoticeLevel classifies feedback emitted by toolbar actions.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is the user-facing outcome of a toolbar action.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Toolbar is the control surface shown to users with edit capability. It
// fronts exactly one session: mode toggles, the pending counter, save and
// discard actions, and a minimized presentation flag.
type Toolbar struct {
	sess      *session.Session
	logger    interfaces.Logger
	saving    atomic.Bool
	minimized atomic.Bool
}

// Option configures the toolbar.
type Option func(*Toolbar)

// WithLogger attaches a module logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(t *Toolbar) {
		t.logger = logging.EnsureLogger(logger)
	}
}

// New builds a toolbar over a session.
func New(sess *session.Session, opts ...Option) *Toolbar {
	t := &Toolbar{
		sess:   sess,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Visible reports whether the toolbar should render at all. It is hidden
// entirely from users without edit capability.
func (t *Toolbar) Visible(ctx context.Context) bool {
	return t.sess.CanEdit(ctx)
}

// ToggleEditMode flips edit mode on the session.
func (t *Toolbar) ToggleEditMode(ctx context.Context) (bool, error) {
	return t.sess.ToggleEditMode(ctx)
}

// TogglePreviewMode flips preview mode. Preview has no effect outside edit
// mode; the session enforces that.
func (t *Toolbar) TogglePreviewMode() bool {
	return t.sess.TogglePreviewMode()
}

// ToggleMinimized flips the collapsed presentation state and returns the new
// value. Minimized is purely presentational; all actions stay available.
func (t *Toolbar) ToggleMinimized() bool {
	for {
		old := t.minimized.Load()
		if t.minimized.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Minimized reports the collapsed presentation state.
func (t *Toolbar) Minimized() bool {
	return t.minimized.Load()
}

// PendingCount returns the number of unsaved changes for the badge.
func (t *Toolbar) PendingCount() int {
	return t.sess.PendingCount()
}

// SaveAll persists every pending change. Only one save runs at a time; a
// second invocation while one is in flight returns ErrSaveInFlight. On partial
// failure the session keeps the queue, so the returned notice tells the user
// to retry rather than claiming loss.
func (t *Toolbar) SaveAll(ctx context.Context) (Notice, error) {
	if !t.saving.CompareAndSwap(false, true) {
		return Notice{Level: NoticeWarning, Message: "A save is already in progress."}, ErrSaveInFlight
	}
	defer t.saving.Store(false)

	count := t.sess.PendingCount()
	if count == 0 {
		return Notice{Level: NoticeSuccess, Message: "Nothing to save."}, nil
	}

	if err := t.sess.SaveAll(ctx); err != nil {
		t.logger.Error("save all failed", "pending", count, "error", err)
		return Notice{
			Level:   NoticeError,
			Message: "Some changes could not be saved. They are still pending; try again.",
		}, err
	}

	t.logger.Info("saved pending changes", "count", count)
	return Notice{
		Level:   NoticeSuccess,
		Message: fmt.Sprintf("Saved %d change(s).", count),
	}, nil
}

// Saving reports whether a SaveAll is currently in flight.
func (t *Toolbar) Saving() bool {
	return t.saving.Load()
}

// Discard drops every pending change and returns a notice with the count.
func (t *Toolbar) Discard() Notice {
	count := t.sess.PendingCount()
	t.sess.Discard()
	if count == 0 {
		return Notice{Level: NoticeSuccess, Message: "Nothing to discard."}
	}
	return Notice{
		Level:   NoticeWarning,
		Message: fmt.Sprintf("Discarded %d unsaved change(s).", count),
	}
}
