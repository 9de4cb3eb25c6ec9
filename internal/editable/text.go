package editable

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/goliatone/go-editkit/internal/domain"
	"github.com/goliatone/go-editkit/internal/session"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	// ErrEditNotOpen is returned for editor operations before Begin.
	ErrEditNotOpen = errors.New("editable: no edit in progress")
	// ErrTagNotAllowed is returned for wrapper tags outside the supported set.
	ErrTagNotAllowed = errors.New("editable: wrapper tag not allowed")
)

var allowedTags = map[string]struct{}{
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"p": {}, "span": {}, "div": {}, "li": {}, "label": {},
	"blockquote": {}, "figcaption": {}, "strong": {}, "em": {}, "small": {},
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		goldmarkhtml.WithHardWraps(),
	),
)

// Text is a declaratively keyed editable text region. Unlike overlay-scanned
// elements, its content key is explicit and stable across markup changes,
// which makes it the preferred identity for new surfaces.
type Text struct {
	PageName   string
	ContentKey string
	// Default is the authored fallback shown when no saved value exists.
	Default string
	// Tag is the wrapper element for Render. Empty means "span".
	Tag string
	// RichText renders the resolved value as GitHub-flavored markdown.
	RichText bool
}

// ContentType reports the store content type for this component.
func (t Text) ContentType() domain.ContentType {
	if t.RichText {
		return domain.ContentTypeRichText
	}
	return domain.ContentTypeText
}

// Resolve returns the value the component should display, following the
// session's pending-then-cache-then-default order.
func (t Text) Resolve(sess *session.Session) string {
	return sess.GetContent(t.PageName, t.ContentKey, t.Default)
}

// Render resolves the value and produces the display markup. Plain text is
// HTML-escaped inside the wrapper tag; rich text goes through the markdown
// renderer, which produces its own block markup.
func (t Text) Render(sess *session.Session) (string, error) {
	value := t.Resolve(sess)

	if t.RichText {
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(value), &buf); err != nil {
			return "", fmt.Errorf("editable: render rich text %q: %w", t.ContentKey, err)
		}
		return buf.String(), nil
	}

	tag := strings.ToLower(strings.TrimSpace(t.Tag))
	if tag == "" {
		tag = "span"
	}
	if _, ok := allowedTags[tag]; !ok {
		return "", ErrTagNotAllowed
	}
	return fmt.Sprintf("<%s>%s</%s>", tag, html.EscapeString(value), tag), nil
}

// TextEditor drives an in-place editing round for one Text component. Begin
// snapshots the resolved value, SetDraft tracks keystrokes, Revert restores
// the snapshot, and Commit queues the draft on the session without saving.
type TextEditor struct {
	mu       sync.Mutex
	text     Text
	sess     *session.Session
	open     bool
	snapshot string
	draft    string
}

// NewTextEditor binds an editor to a component and session.
func NewTextEditor(text Text, sess *session.Session) *TextEditor {
	return &TextEditor{text: text, sess: sess}
}

// Begin opens the editor over the currently resolved value. Reopening an
// already open editor re-snapshots, discarding the in-flight draft.
func (e *TextEditor) Begin() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.snapshot = e.text.Resolve(e.sess)
	e.draft = e.snapshot
	e.open = true
	return e.snapshot
}

// SetDraft records the working value.
func (e *TextEditor) SetDraft(value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.open {
		return ErrEditNotOpen
	}
	e.draft = value
	return nil
}

// Draft returns the working value.
func (e *TextEditor) Draft() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft, e.open
}

// Revert closes the editor and returns the pre-edit value untouched.
func (e *TextEditor) Revert() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.open {
		return "", ErrEditNotOpen
	}
	e.open = false
	return e.snapshot, nil
}

// Commit closes the editor and queues the draft as a pending change on the
// session. An unchanged draft still queues; deduplication is the session's
// concern, not the editor's.
func (e *TextEditor) Commit() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.open {
		return "", ErrEditNotOpen
	}
	e.open = false
	e.sess.UpdateContent(e.text.PageName, e.text.ContentKey, e.text.ContentType(), e.draft)
	return e.draft, nil
}
