package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory implementation for scaffolding and tests.
type MemoryRepository struct {
	mu         sync.RWMutex
	records    map[uuid.UUID]*ContentRecord
	tupleIndex map[string]uuid.UUID
	history    map[uuid.UUID]*ContentHistory
}

// NewMemoryRepository creates an empty in-memory content repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:    make(map[uuid.UUID]*ContentRecord),
		tupleIndex: make(map[string]uuid.UUID),
		history:    make(map[uuid.UUID]*ContentHistory),
	}
}

func tupleKey(pageName, contentKey, localeCode string) string {
	return pageName + "\x00" + contentKey + "\x00" + localeCode
}

// GetByID retrieves a record by identifier.
func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*ContentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{Resource: "content_record", Key: id.String()}
	}
	return rec.Clone(), nil
}

// GetByTuple retrieves the live record for one (page, key, locale) tuple.
func (m *MemoryRepository) GetByTuple(_ context.Context, pageName, contentKey, localeCode string) (*ContentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.tupleIndex[tupleKey(pageName, contentKey, localeCode)]
	if !ok {
		return nil, &NotFoundError{Resource: "content_record", Key: contentKey}
	}
	return m.records[id].Clone(), nil
}

// ListByPage returns all records for a page and locale ordered by content key.
func (m *MemoryRepository) ListByPage(_ context.Context, pageName, localeCode string) ([]*ContentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*ContentRecord, 0)
	for _, rec := range m.records {
		if rec.PageName == pageName && rec.LocaleCode == localeCode {
			out = append(out, rec.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ContentKey < out[j].ContentKey
	})
	return out, nil
}

// Create inserts the supplied record.
func (m *MemoryRepository) Create(_ context.Context, record *ContentRecord) (*ContentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := record.Clone()
	m.records[copied.ID] = copied
	m.tupleIndex[tupleKey(copied.PageName, copied.ContentKey, copied.LocaleCode)] = copied.ID
	return copied.Clone(), nil
}

// Update replaces an existing record.
func (m *MemoryRepository) Update(_ context.Context, record *ContentRecord) (*ContentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "content_record", Key: record.ID.String()}
	}
	copied := record.Clone()
	m.records[copied.ID] = copied
	return copied.Clone(), nil
}

// CreateHistory appends an immutable history entry.
func (m *MemoryRepository) CreateHistory(_ context.Context, entry *ContentHistory) (*ContentHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *entry
	copied.Content = nil
	m.history[copied.ID] = &copied
	cloned := copied
	return &cloned, nil
}

// ListHistory returns history entries for a record, newest version first.
func (m *MemoryRepository) ListHistory(_ context.Context, contentID uuid.UUID) ([]*ContentHistory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*ContentHistory, 0)
	for _, entry := range m.history {
		if entry.ContentID == contentID {
			copied := *entry
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Version > out[j].Version
	})
	return out, nil
}

// GetHistoryEntry fetches one history entry by identifier.
func (m *MemoryRepository) GetHistoryEntry(_ context.Context, entryID uuid.UUID) (*ContentHistory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.history[entryID]
	if !ok {
		return nil, &NotFoundError{Resource: "content_history", Key: entryID.String()}
	}
	copied := *entry
	return &copied, nil
}
