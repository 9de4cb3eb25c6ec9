package content

import (
	"time"

	"github.com/goliatone/go-editkit/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ContentRecord is the live override stored for one editable slot.
//
// At most one live record exists per (page_name, content_key, locale_code)
// tuple; every write bumps Version and appends an immutable ContentHistory row.
type ContentRecord struct {
	bun.BaseModel `bun:"table:content_records,alias:cr"`

	ID           uuid.UUID          `bun:",pk,type:uuid"                json:"id"`
	PageName     string             `bun:"page_name,notnull"            json:"page_name"`
	ContentKey   string             `bun:"content_key,notnull"          json:"content_key"`
	ContentType  domain.ContentType `bun:"content_type,notnull"         json:"content_type"`
	ContentValue string             `bun:"content_value,notnull"        json:"content_value"`
	LocaleCode   string             `bun:"locale_code,notnull"          json:"locale_code"`
	Version      int                `bun:"version,notnull,default:1"    json:"version"`
	CreatedBy    string             `bun:"created_by"                   json:"created_by,omitempty"`
	CreatedAt    time.Time          `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time          `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	History []*ContentHistory `bun:"rel:has-many,join:id=content_id" json:"history,omitempty"`
}

// ContentHistory is an append-only snapshot of a record value at one version.
type ContentHistory struct {
	bun.BaseModel `bun:"table:content_history,alias:ch"`

	ID           uuid.UUID          `bun:",pk,type:uuid"         json:"id"`
	ContentID    uuid.UUID          `bun:"content_id,notnull,type:uuid" json:"content_id"`
	Version      int                `bun:"version,notnull"       json:"version"`
	ContentType  domain.ContentType `bun:"content_type,notnull"  json:"content_type"`
	ContentValue string             `bun:"content_value,notnull" json:"content_value"`
	CreatedBy    string             `bun:"created_by"            json:"created_by,omitempty"`
	CreatedAt    time.Time          `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`

	Content *ContentRecord `bun:"rel:belongs-to,join:content_id=id" json:"content,omitempty"`
}

// CacheKey returns the session cache key for the record tuple.
func (r *ContentRecord) CacheKey() string {
	if r == nil {
		return ""
	}
	return r.PageName + ":" + r.ContentKey + ":" + r.LocaleCode
}

// Clone performs a deep copy so repositories never hand out shared pointers.
func (r *ContentRecord) Clone() *ContentRecord {
	if r == nil {
		return nil
	}
	copied := *r
	if len(r.History) > 0 {
		copied.History = make([]*ContentHistory, len(r.History))
		for i, h := range r.History {
			if h == nil {
				continue
			}
			local := *h
			local.Content = nil
			copied.History[i] = &local
		}
	}
	return &copied
}

// CloneHistory copies a history entry without its back reference.
func CloneHistory(h *ContentHistory) *ContentHistory {
	if h == nil {
		return nil
	}
	copied := *h
	copied.Content = nil
	return &copied
}
