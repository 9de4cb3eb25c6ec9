package drafts

import "sync"

// MemoryStore keeps drafts in process memory. Used for tests and deployments
// that disable local persistence.
type MemoryStore struct {
	mu    sync.RWMutex
	pages map[string]map[string]Envelope
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pages: make(map[string]map[string]Envelope),
	}
}

func pageKey(pageName, localeCode string) string {
	return pageName + "\x00" + localeCode
}

// Load returns a copy of the draft map for a page and locale.
func (s *MemoryStore) Load(pageName, localeCode string) (map[string]Envelope, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]Envelope{}
	for key, env := range s.pages[pageKey(pageName, localeCode)] {
		out[key] = env
	}
	return out, nil
}

// Merge sets one key in the draft map.
func (s *MemoryStore) Merge(pageName, localeCode, contentKey string, env Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pageKey(pageName, localeCode)
	if s.pages[key] == nil {
		s.pages[key] = map[string]Envelope{}
	}
	s.pages[key][contentKey] = env
	return nil
}

// Replace overwrites the whole draft map for a page and locale.
func (s *MemoryStore) Replace(pageName, localeCode string, entries map[string]Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := map[string]Envelope{}
	for key, env := range entries {
		copied[key] = env
	}
	s.pages[pageKey(pageName, localeCode)] = copied
	return nil
}

// Clear removes all drafts for a page and locale.
func (s *MemoryStore) Clear(pageName, localeCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pages, pageKey(pageName, localeCode))
	return nil
}
