package store

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewRecordRepository(db *bun.DB) repository.Repository[*ContentRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ContentRecord]{
		NewRecord: func() *ContentRecord { return &ContentRecord{} },
		GetID: func(r *ContentRecord) uuid.UUID {
			return r.ID
		},
		SetID: func(r *ContentRecord, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(r *ContentRecord) string {
			if r == nil {
				return ""
			}
			return r.ID.String()
		},
	})
}

func NewHistoryRepository(db *bun.DB) repository.Repository[*ContentHistory] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ContentHistory]{
		NewRecord: func() *ContentHistory { return &ContentHistory{} },
		GetID: func(h *ContentHistory) uuid.UUID {
			return h.ID
		},
		SetID: func(h *ContentHistory, id uuid.UUID) {
			h.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(h *ContentHistory) string {
			if h == nil {
				return ""
			}
			return h.ID.String()
		},
	})
}
