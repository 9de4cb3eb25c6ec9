package store

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository persists content records and history through bun.
type BunRepository struct {
	records repository.Repository[*ContentRecord]
	history repository.Repository[*ContentHistory]
}

// NewBunRepository constructs the repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs the repository with optional read caching.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	return &BunRepository{
		records: wrapWithCache(NewRecordRepository(db), cacheService, keySerializer),
		history: wrapWithCache(NewHistoryRepository(db), cacheService, keySerializer),
	}
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*ContentRecord, error) {
	result, err := r.records.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "content_record", id.String())
	}
	return result, nil
}

func (r *BunRepository) GetByTuple(ctx context.Context, pageName, contentKey, localeCode string) (*ContentRecord, error) {
	records, _, err := r.records.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.page_name = ?", pageName).
				Where("?TableAlias.content_key = ?", contentKey).
				Where("?TableAlias.locale_code = ?", localeCode)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "content_record", contentKey)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "content_record", Key: contentKey}
	}
	return records[0], nil
}

func (r *BunRepository) ListByPage(ctx context.Context, pageName, localeCode string) ([]*ContentRecord, error) {
	records, _, err := r.records.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.page_name = ?", pageName).
				Where("?TableAlias.locale_code = ?", localeCode)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.content_key ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "content_record", pageName)
	}
	return records, nil
}

func (r *BunRepository) Create(ctx context.Context, record *ContentRecord) (*ContentRecord, error) {
	created, err := r.records.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("create content record: %w", err)
	}
	return created, nil
}

func (r *BunRepository) Update(ctx context.Context, record *ContentRecord) (*ContentRecord, error) {
	updated, err := r.records.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"content_type",
			"content_value",
			"version",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "content_record", record.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) CreateHistory(ctx context.Context, entry *ContentHistory) (*ContentHistory, error) {
	created, err := r.history.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("create content history: %w", err)
	}
	return created, nil
}

func (r *BunRepository) ListHistory(ctx context.Context, contentID uuid.UUID) ([]*ContentHistory, error) {
	entries, _, err := r.history.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_id = ?", contentID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.version DESC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "content_history", contentID.String())
	}
	return entries, nil
}

func (r *BunRepository) GetHistoryEntry(ctx context.Context, entryID uuid.UUID) (*ContentHistory, error) {
	entry, err := r.history.GetByID(ctx, entryID.String())
	if err != nil {
		return nil, mapRepositoryError(err, "content_history", entryID.String())
	}
	return entry, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
