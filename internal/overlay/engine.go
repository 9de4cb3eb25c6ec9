package overlay

import (
	"context"
	"errors"
	"strings"
	"sync"

	editcontent "github.com/goliatone/go-editkit/content"
	"github.com/goliatone/go-editkit/internal/dom"
	"github.com/goliatone/go-editkit/internal/domain"
	"github.com/goliatone/go-editkit/internal/drafts"
	"github.com/goliatone/go-editkit/internal/identity"
	"github.com/goliatone/go-editkit/internal/logging"
	"github.com/goliatone/go-editkit/internal/session"
	"github.com/goliatone/go-editkit/internal/store"
	"github.com/goliatone/go-editkit/pkg/interfaces"
	"golang.org/x/net/html"
)

var (
	// ErrEditNotPermitted is returned when the capability predicate refuses editing.
	ErrEditNotPermitted = errors.New("overlay: edit capability not granted")
	// ErrNotEditable is returned when the overlay is not accepting edits
	// (edit mode off or preview active).
	ErrNotEditable = errors.New("overlay: edit mode is not active")
	// ErrNotScanning is returned for interactions that require the scanning state.
	ErrNotScanning = errors.New("overlay: not scanning")
	// ErrNotEditing is returned for commit/cancel without an open editor.
	ErrNotEditing = errors.New("overlay: no edit in progress")
	// ErrNotEligible is returned when the target element fails the eligibility rules.
	ErrNotEligible = errors.New("overlay: element is not editable")
	// ErrNothingDurable is returned when both the local and the remote write fail.
	ErrNothingDurable = errors.New("overlay: edit could not be persisted locally or remotely")
)

// State tracks the overlay interaction machine for one mounted page.
type State int

const (
	// StateIdle means edit mode is off; the overlay ignores interactions.
	StateIdle State = iota
	// StateScanning means edit mode is on and elements respond to hover/click.
	StateScanning
	// StateEditing means an editor is open for one captured element.
	StateEditing
)

// SaveOutcome reports where a committed edit landed. Remote false means the
// write reached only the local draft cache ("saved locally"); that is a soft
// success, not an error, because local persistence is the durability
// guarantee of record and the remote store is an optimistic mirror.
type SaveOutcome struct {
	ContentKey string
	Remote     bool
}

// ApplyReport summarizes one load-and-reconcile pass.
type ApplyReport struct {
	// Source is "remote" or "local" depending on which store supplied the edits.
	Source string
	// Loaded counts saved edits considered for matching.
	Loaded int
	// Applied counts elements whose text was swapped.
	Applied int
}

type capture struct {
	node         *html.Node
	originalText string
	contentKey   string
}

// Engine overlays editing behaviour onto one parsed page document. It scans
// for eligible elements, captures edits, writes them through the draft cache
// and the content store, and reconciles previously saved edits back onto the
// document, including subtrees inserted after the initial load.
type Engine struct {
	mu         sync.Mutex
	pageName   string
	doc        *html.Node
	state      State
	hovered    *html.Node
	capture    *capture
	matcher    *dom.Matcher
	keys       dom.KeyBuilder
	sess       *session.Session
	gateway    store.Service
	drafts     drafts.Store
	capability interfaces.EditCapability
	logger     interfaces.Logger
}

// Option configures the engine.
type Option func(*Engine)

// WithKeyBuilder overrides structural key limits.
func WithKeyBuilder(keys dom.KeyBuilder) Option {
	return func(e *Engine) {
		e.keys = keys
	}
}

// WithCapability sets the edit capability predicate.
func WithCapability(capability interfaces.EditCapability) Option {
	return func(e *Engine) {
		if capability != nil {
			e.capability = capability
		}
	}
}

// WithLogger attaches a module logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Engine) {
		e.logger = logging.EnsureLogger(logger)
	}
}

// New constructs an overlay engine for one page document.
func New(pageName string, doc *html.Node, sess *session.Session, gateway store.Service, draftStore drafts.Store, opts ...Option) *Engine {
	e := &Engine{
		pageName:   pageName,
		doc:        doc,
		state:      StateIdle,
		keys:       dom.DefaultKeyBuilder,
		sess:       sess,
		gateway:    gateway,
		drafts:     draftStore,
		capability: interfaces.AllowAll(),
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current interaction state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Hovered returns the element currently carrying the hover affordance.
func (e *Engine) Hovered() *html.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hovered
}

// Enter activates scanning. It requires the edit capability, an active edit
// mode on the session, and preview mode off.
func (e *Engine) Enter(ctx context.Context) error {
	if !e.capability.CanEdit(ctx) {
		return ErrEditNotPermitted
	}
	if !e.sess.IsEditMode() || e.sess.IsPreviewMode() {
		return ErrNotEditable
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateScanning
	return nil
}

// Exit deactivates the overlay and releases interaction state. Callers must
// invoke it when edit mode ends or the page unmounts.
func (e *Engine) Exit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateIdle
	e.hovered = nil
	e.capture = nil
}

// Hover records the hover affordance for an eligible element. Ignored outside
// scanning or while an editor is open.
func (e *Engine) Hover(n *html.Node) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateScanning {
		return false
	}
	if !dom.Eligible(n) {
		return false
	}
	e.hovered = n
	return true
}

// Unhover clears the hover affordance.
func (e *Engine) Unhover() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hovered = nil
}

// BeginEdit captures an element and opens the editor. The element's current
// text becomes the envelope's original text; its structural key becomes the
// content key.
func (e *Engine) BeginEdit(n *html.Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateScanning {
		return ErrNotScanning
	}
	if !dom.Eligible(n) {
		return ErrNotEligible
	}

	e.hovered = nil
	e.capture = &capture{
		node:         n,
		originalText: strings.TrimSpace(dom.Text(n)),
		contentKey:   e.keys.StructuralKey(n),
	}
	e.state = StateEditing
	return nil
}

// EditingText returns the text under edit, valid only while editing.
func (e *Engine) EditingText() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateEditing || e.capture == nil {
		return "", false
	}
	return e.capture.originalText, true
}

// Cancel discards the open editor and returns to scanning.
func (e *Engine) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateEditing {
		return ErrNotEditing
	}
	e.capture = nil
	e.state = StateScanning
	return nil
}

// Commit persists the edit. The envelope lands in the draft cache first
// (always), then the content store (best-effort), and the session cache plus
// the live element text update synchronously. A remote rejection downgrades to
// a local-only outcome instead of failing.
func (e *Engine) Commit(ctx context.Context, newText string) (SaveOutcome, error) {
	e.mu.Lock()
	if e.state != StateEditing || e.capture == nil {
		e.mu.Unlock()
		return SaveOutcome{}, ErrNotEditing
	}
	captured := *e.capture
	e.capture = nil
	e.state = StateScanning
	e.mu.Unlock()

	locale := e.sess.Locale()
	env := editcontent.Envelope{NewText: newText, OriginalText: captured.originalText}

	localErr := e.drafts.Merge(e.pageName, locale, captured.contentKey, env)
	if localErr != nil {
		e.logger.Warn("draft write failed", "page", e.pageName, "key", captured.contentKey, "error", localErr)
	}

	encoded, err := editcontent.EncodeEnvelope(env)
	if err != nil {
		return SaveOutcome{}, err
	}

	record, remoteErr := e.gateway.Upsert(ctx, store.UpsertRequest{
		PageName:     e.pageName,
		ContentKey:   captured.contentKey,
		ContentType:  domain.ContentTypeText,
		ContentValue: encoded,
		LocaleCode:   locale,
	})
	if remoteErr != nil {
		e.logger.Warn("remote save failed, keeping local copy", "page", e.pageName, "key", captured.contentKey, "error", remoteErr)
		if localErr != nil {
			return SaveOutcome{}, ErrNothingDurable
		}
		record = &editcontent.ContentRecord{
			ID:           identity.RecordUUID(e.pageName, captured.contentKey, locale),
			PageName:     e.pageName,
			ContentKey:   captured.contentKey,
			ContentType:  domain.ContentTypeText,
			ContentValue: encoded,
			LocaleCode:   locale,
			Version:      1,
		}
	}

	e.sess.Put(record)

	e.mu.Lock()
	dom.SetText(captured.node, newText)
	if e.matcher != nil {
		e.matcher.MarkProcessed(captured.node)
	}
	e.mu.Unlock()

	return SaveOutcome{ContentKey: captured.contentKey, Remote: remoteErr == nil}, nil
}

// LoadSaved loads stored edits for the page and reconciles them onto the
// document. The remote store is tried first; when it fails or holds no
// structural records, the draft cache supplies the edits. Remote failures are
// swallowed: the overlay always degrades to local or default content rather
// than surfacing a load error to rendering.
func (e *Engine) LoadSaved(ctx context.Context) (*ApplyReport, error) {
	locale := e.sess.Locale()
	report := &ApplyReport{Source: "remote"}

	var records []*editcontent.ContentRecord
	remote, err := e.gateway.FetchPageContent(ctx, e.pageName, locale)
	if err != nil {
		e.logger.Debug("remote fetch failed, trying drafts", "page", e.pageName, "error", err)
	} else {
		for _, record := range remote {
			if editcontent.IsStructuralKey(record.ContentKey) {
				records = append(records, record)
			}
		}
	}

	if len(records) == 0 {
		entries, draftErr := e.drafts.Load(e.pageName, locale)
		if draftErr != nil {
			e.logger.Warn("draft load failed", "page", e.pageName, "error", draftErr)
		}
		for key, env := range entries {
			encoded, encErr := editcontent.EncodeEnvelope(env)
			if encErr != nil {
				continue
			}
			records = append(records, &editcontent.ContentRecord{
				ID:           identity.RecordUUID(e.pageName, key, locale),
				PageName:     e.pageName,
				ContentKey:   key,
				ContentType:  domain.ContentTypeText,
				ContentValue: encoded,
				LocaleCode:   locale,
				Version:      1,
			})
		}
		report.Source = "local"
	}

	report.Loaded = len(records)

	e.mu.Lock()
	e.matcher = dom.NewMatcherWithKeys(records, e.keys)
	matcher := e.matcher
	doc := e.doc
	e.mu.Unlock()

	if matcher.Empty() {
		return report, nil
	}
	report.Applied = applyMatches(matcher, doc)
	return report, nil
}

// ApplyFragment reconciles saved edits onto a subtree inserted after the
// initial load (carousel slides and the like). Application is idempotent: the
// matcher tracks processed elements, so repeated calls over the same nodes are
// safe. Returns the number of elements updated.
func (e *Engine) ApplyFragment(root *html.Node) int {
	e.mu.Lock()
	matcher := e.matcher
	e.mu.Unlock()

	if matcher == nil {
		return 0
	}
	return applyMatches(matcher, root)
}

// ResolveText implements the content-provider contract: dynamic components
// query their replacement text directly by authored default (and optionally
// structural key) instead of waiting to be discovered by a scan.
func (e *Engine) ResolveText(original, structuralKey string) (string, bool) {
	e.mu.Lock()
	matcher := e.matcher
	e.mu.Unlock()

	if matcher == nil {
		return "", false
	}
	return matcher.ResolveText(original, structuralKey)
}

func applyMatches(matcher *dom.Matcher, root *html.Node) int {
	applied := 0
	for _, n := range dom.FindEligible(root) {
		match, ok := matcher.Match(n)
		if !ok {
			continue
		}
		dom.SetText(n, match.Envelope.NewText)
		applied++
	}
	return applied
}
