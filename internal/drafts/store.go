package drafts

import (
	editcontent "github.com/goliatone/go-editkit/content"
)

// Envelope aliases the stored draft value pair.
type Envelope = editcontent.Envelope

// Store is the local draft cache: the durability-of-record fallback used when
// the remote content store is unreachable. Entries are keyed by page and
// locale and hold a map of content key to envelope. Entries persist until a
// caller clears them; the store never prunes on its own.
type Store interface {
	// Load returns the draft map for a page and locale. Missing or corrupt
	// state loads as an empty map, never an error surfaced to rendering.
	Load(pageName, localeCode string) (map[string]Envelope, error)
	// Merge reads the current map, sets one key, and writes the result back.
	Merge(pageName, localeCode, contentKey string, env Envelope) error
	// Replace overwrites the whole draft map for a page and locale.
	Replace(pageName, localeCode string, entries map[string]Envelope) error
	// Clear removes all drafts for a page and locale.
	Clear(pageName, localeCode string) error
}
