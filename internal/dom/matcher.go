package dom

import (
	"strings"
	"sync"

	editcontent "github.com/goliatone/go-editkit/content"
	"golang.org/x/net/html"
)

// Match pairs a live element with the saved edit that targets it.
type Match struct {
	Record   *editcontent.ContentRecord
	Envelope editcontent.Envelope
}

// Matcher re-attaches saved overlay edits to freshly parsed elements using a
// two-pass strategy: original-text equality first (robust against structural
// key drift from conditional siblings), then structural-key lookup for legacy
// records that never captured an original text. Each element matches at most
// once per matcher lifetime; repeated scans over mutating documents are
// therefore idempotent. Safe for concurrent use: the record indexes are
// immutable after construction and the processed set is mutex-guarded, so
// overlapping fragment reconciliations may share one matcher.
type Matcher struct {
	keys       KeyBuilder
	byOriginal map[string]Match
	byKey      map[string]Match

	mu        sync.Mutex
	processed map[*html.Node]struct{}
}

// NewMatcher indexes saved records for matching.
func NewMatcher(records []*editcontent.ContentRecord) *Matcher {
	return NewMatcherWithKeys(records, DefaultKeyBuilder)
}

// NewMatcherWithKeys indexes saved records using custom key limits.
func NewMatcherWithKeys(records []*editcontent.ContentRecord, keys KeyBuilder) *Matcher {
	m := &Matcher{
		keys:       keys,
		byOriginal: make(map[string]Match),
		byKey:      make(map[string]Match),
		processed:  make(map[*html.Node]struct{}),
	}
	for _, record := range records {
		if record == nil {
			continue
		}
		env := editcontent.DecodeEnvelope(record.ContentValue)
		match := Match{Record: record, Envelope: env}
		if original := strings.TrimSpace(env.OriginalText); original != "" {
			// First record wins on duplicate originals; accepted imprecision.
			if _, exists := m.byOriginal[original]; !exists {
				m.byOriginal[original] = match
			}
			continue
		}
		if _, exists := m.byKey[record.ContentKey]; !exists {
			m.byKey[record.ContentKey] = match
		}
	}
	return m
}

// Empty reports whether the matcher holds no saved edits.
func (m *Matcher) Empty() bool {
	return len(m.byOriginal) == 0 && len(m.byKey) == 0
}

// Match resolves the saved edit for an element, if any. An element is matched
// at most once; later calls for the same node return false.
func (m *Matcher) Match(n *html.Node) (Match, bool) {
	if n == nil {
		return Match{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, done := m.processed[n]; done {
		return Match{}, false
	}

	if current := strings.TrimSpace(Text(n)); current != "" {
		if match, ok := m.byOriginal[current]; ok {
			m.processed[n] = struct{}{}
			return match, true
		}
	}
	if key := m.keys.StructuralKey(n); key != "" {
		if match, ok := m.byKey[key]; ok {
			m.processed[n] = struct{}{}
			return match, true
		}
	}
	return Match{}, false
}

// MarkProcessed records a node as handled without matching it.
func (m *Matcher) MarkProcessed(n *html.Node) {
	if n == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processed[n] = struct{}{}
}

// Reset drops the processed set, e.g. when a document is re-parsed.
func (m *Matcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processed = make(map[*html.Node]struct{})
}

// ResolveText answers the content-provider query: given the authored default
// text (and optionally the structural key) of a dynamic component, return the
// saved replacement. This lets carousels and other late-rendered components
// ask for their content directly instead of being discovered by scanning.
func (m *Matcher) ResolveText(original, structuralKey string) (string, bool) {
	if trimmed := strings.TrimSpace(original); trimmed != "" {
		if match, ok := m.byOriginal[trimmed]; ok {
			return match.Envelope.NewText, true
		}
	}
	if structuralKey != "" {
		if match, ok := m.byKey[structuralKey]; ok {
			return match.Envelope.NewText, true
		}
	}
	return "", false
}
