package registry

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	editcontent "github.com/goliatone/go-editkit/content"
	"github.com/goliatone/go-editkit/internal/domain"
)

var (
	// ErrSlotPageRequired is returned for slots missing a page name.
	ErrSlotPageRequired = errors.New("registry: slot page name is required")
	// ErrSlotKeyRequired is returned for slots missing a content key.
	ErrSlotKeyRequired = errors.New("registry: slot content key is required")
	// ErrSlotKeyInvalid is returned for keys outside the explicit key grammar.
	ErrSlotKeyInvalid = errors.New("registry: slot content key is invalid")
	// ErrSlotKeyStructural is returned when an explicit slot tries to claim a
	// structural key. Structural keys are derived, never declared.
	ErrSlotKeyStructural = errors.New("registry: structural keys cannot be registered as slots")
	// ErrSlotTypeInvalid is returned for unknown content types.
	ErrSlotTypeInvalid = errors.New("registry: slot content type is invalid")
	// ErrSlotDuplicate is returned when a (page, key) tuple is already registered.
	ErrSlotDuplicate = errors.New("registry: slot is already registered")
)

var explicitKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Slot declares one editable content position: a page plus an explicit,
// markup-independent content key. Slots are the durable identity scheme;
// structural keys exist only as a bridge for content captured before a slot
// was declared.
type Slot struct {
	PageName    string             `json:"page"`
	ContentKey  string             `json:"key"`
	ContentType domain.ContentType `json:"type"`
	// Default is the authored fallback, and the anchor the structural
	// importer matches saved envelopes against.
	Default     string `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// Validate checks the slot declaration.
func (s Slot) Validate() error {
	if strings.TrimSpace(s.PageName) == "" {
		return ErrSlotPageRequired
	}
	key := strings.TrimSpace(s.ContentKey)
	if key == "" {
		return ErrSlotKeyRequired
	}
	if editcontent.IsStructuralKey(key) {
		return ErrSlotKeyStructural
	}
	if !explicitKeyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrSlotKeyInvalid, key)
	}
	if !s.ContentType.Valid() {
		return fmt.Errorf("%w: %q", ErrSlotTypeInvalid, s.ContentType)
	}
	return nil
}

// Registry holds the declared slots, keyed by (page, content key).
type Registry struct {
	mu    sync.RWMutex
	slots map[string]Slot
}

// New builds an empty registry.
func New() *Registry {
	return &Registry{slots: make(map[string]Slot)}
}

func slotKey(pageName, contentKey string) string {
	return pageName + "\x00" + contentKey
}

// Register adds a slot. Duplicate (page, key) tuples are rejected.
func (r *Registry) Register(slot Slot) error {
	if err := slot.Validate(); err != nil {
		return err
	}
	slot.PageName = strings.TrimSpace(slot.PageName)
	slot.ContentKey = strings.TrimSpace(slot.ContentKey)

	r.mu.Lock()
	defer r.mu.Unlock()

	key := slotKey(slot.PageName, slot.ContentKey)
	if _, exists := r.slots[key]; exists {
		return fmt.Errorf("%w: %s/%s", ErrSlotDuplicate, slot.PageName, slot.ContentKey)
	}
	r.slots[key] = slot
	return nil
}

// MustRegister registers a slot and panics on a declaration error. Meant for
// package-level slot tables where a bad declaration is a programming mistake.
func (r *Registry) MustRegister(slot Slot) {
	if err := r.Register(slot); err != nil {
		panic(err)
	}
}

// Lookup returns the slot for a (page, key) tuple.
func (r *Registry) Lookup(pageName, contentKey string) (Slot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slot, ok := r.slots[slotKey(pageName, contentKey)]
	return slot, ok
}

// List returns the slots declared for a page, ordered by content key.
func (r *Registry) List(pageName string) []Slot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Slot, 0)
	for _, slot := range r.slots {
		if slot.PageName == pageName {
			out = append(out, slot)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ContentKey < out[j].ContentKey
	})
	return out
}

// Pages returns the distinct page names with declared slots, sorted.
func (r *Registry) Pages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, slot := range r.slots {
		seen[slot.PageName] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for page := range seen {
		out = append(out, page)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered slots.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots)
}
