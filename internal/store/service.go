package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	editcontent "github.com/goliatone/go-editkit/content"
	"github.com/goliatone/go-editkit/internal/domain"
	"github.com/goliatone/go-editkit/internal/identity"
	"github.com/goliatone/go-editkit/internal/logging"
	"github.com/goliatone/go-editkit/pkg/interfaces"
	"github.com/google/uuid"
)

// Service exposes the content store gateway consumed by sessions and overlays.
type Service interface {
	FetchPageContent(ctx context.Context, pageName, localeCode string) ([]*ContentRecord, error)
	Upsert(ctx context.Context, req UpsertRequest) (*ContentRecord, error)
	History(ctx context.Context, contentID uuid.UUID) ([]*ContentHistory, error)
	RestoreVersion(ctx context.Context, req RestoreVersionRequest) (*ContentRecord, error)
}

// Repository abstracts storage operations for content records and history.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ContentRecord, error)
	GetByTuple(ctx context.Context, pageName, contentKey, localeCode string) (*ContentRecord, error)
	ListByPage(ctx context.Context, pageName, localeCode string) ([]*ContentRecord, error)
	Create(ctx context.Context, record *ContentRecord) (*ContentRecord, error)
	Update(ctx context.Context, record *ContentRecord) (*ContentRecord, error)
	CreateHistory(ctx context.Context, entry *ContentHistory) (*ContentHistory, error)
	ListHistory(ctx context.Context, contentID uuid.UUID) ([]*ContentHistory, error)
	GetHistoryEntry(ctx context.Context, entryID uuid.UUID) (*ContentHistory, error)
}

// UpsertRequest captures a create-or-replace write for one slot.
//
// ExpectedVersion, when set, is a compare-and-swap precondition: the write is
// rejected with a VersionConflictError unless the live record currently holds
// exactly that version. Leaving it nil preserves last-writer-wins semantics.
type UpsertRequest struct {
	PageName        string
	ContentKey      string
	ContentType     domain.ContentType
	ContentValue    string
	LocaleCode      string
	CreatedBy       string
	ExpectedVersion *int
}

var contentKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Validate enforces request invariants before any repository work happens.
func (r UpsertRequest) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(r.PageName) == "" {
		errs["page_name"] = validation.NewError("editkit.content.upsert.page_required", "page name is required")
	}
	key := strings.TrimSpace(r.ContentKey)
	if key == "" {
		errs["content_key"] = validation.NewError("editkit.content.upsert.key_required", "content key is required")
	} else if !contentKeyPattern.MatchString(key) {
		errs["content_key"] = validation.NewError("editkit.content.upsert.key_invalid", "content key contains invalid characters")
	}
	if !r.ContentType.Valid() {
		errs["content_type"] = validation.NewError("editkit.content.upsert.type_invalid", "content type is invalid")
	}
	if strings.TrimSpace(r.LocaleCode) == "" {
		errs["locale_code"] = validation.NewError("editkit.content.upsert.locale_required", "locale code is required")
	}
	if r.ExpectedVersion != nil && *r.ExpectedVersion < 1 {
		errs["expected_version"] = validation.NewError("editkit.content.upsert.version_invalid", "expected version must be positive")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RestoreVersionRequest copies a history entry back onto the live record.
type RestoreVersionRequest struct {
	ContentID  uuid.UUID
	HistoryID  uuid.UUID
	RestoredBy string
}

// Validate enforces request invariants.
func (r RestoreVersionRequest) Validate() error {
	errs := validation.Errors{}
	if r.ContentID == uuid.Nil {
		errs["content_id"] = validation.NewError("editkit.content.restore.content_id_required", "content id is required")
	}
	if r.HistoryID == uuid.Nil {
		errs["history_id"] = validation.NewError("editkit.content.restore.history_id_required", "history entry id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// IDGenerator produces identifiers for history entries.
type IDGenerator func() uuid.UUID

// WithIDGenerator overrides history entry ID generation.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger attaches a module logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		s.logger = logging.EnsureLogger(logger)
	}
}

// WithVersioning toggles history bookkeeping. Disabled deployments still bump
// the live record version but skip history rows.
func WithVersioning(enabled bool) ServiceOption {
	return func(s *service) {
		s.versioning = enabled
	}
}

type service struct {
	repo       Repository
	now        func() time.Time
	id         IDGenerator
	logger     interfaces.Logger
	versioning bool
}

// NewService constructs the content store gateway.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:       repo,
		now:        func() time.Time { return time.Now().UTC() },
		id:         uuid.New,
		logger:     logging.NoOp(),
		versioning: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) FetchPageContent(ctx context.Context, pageName, localeCode string) ([]*ContentRecord, error) {
	pageName = strings.TrimSpace(pageName)
	if pageName == "" {
		return nil, editcontent.ErrPageNameRequired
	}
	localeCode = strings.ToLower(strings.TrimSpace(localeCode))
	if localeCode == "" {
		return nil, editcontent.ErrLocaleRequired
	}
	records, err := s.repo.ListByPage(ctx, pageName, localeCode)
	if err != nil {
		return nil, fmt.Errorf("fetch page content: %w", err)
	}
	return records, nil
}

func (s *service) Upsert(ctx context.Context, req UpsertRequest) (*ContentRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	pageName := strings.TrimSpace(req.PageName)
	contentKey := strings.TrimSpace(req.ContentKey)
	localeCode := strings.ToLower(strings.TrimSpace(req.LocaleCode))
	now := s.now()

	existing, err := s.repo.GetByTuple(ctx, pageName, contentKey, localeCode)
	switch {
	case err == nil:
		if req.ExpectedVersion != nil && *req.ExpectedVersion != existing.Version {
			return nil, &editcontent.VersionConflictError{
				PageName:   pageName,
				ContentKey: contentKey,
				LocaleCode: localeCode,
				Expected:   *req.ExpectedVersion,
				Actual:     existing.Version,
			}
		}
		existing.ContentType = req.ContentType
		existing.ContentValue = req.ContentValue
		existing.Version++
		existing.UpdatedAt = now
		updated, err := s.repo.Update(ctx, existing)
		if err != nil {
			return nil, fmt.Errorf("update content record: %w", err)
		}
		if err := s.appendHistory(ctx, updated, req.CreatedBy); err != nil {
			return nil, err
		}
		s.logger.Debug("content upserted", "page", pageName, "key", contentKey, "version", updated.Version)
		return updated, nil

	case editcontent.IsNotFound(err):
		if req.ExpectedVersion != nil {
			return nil, &editcontent.VersionConflictError{
				PageName:   pageName,
				ContentKey: contentKey,
				LocaleCode: localeCode,
				Expected:   *req.ExpectedVersion,
			}
		}
		record := &ContentRecord{
			ID:           identity.RecordUUID(pageName, contentKey, localeCode),
			PageName:     pageName,
			ContentKey:   contentKey,
			ContentType:  req.ContentType,
			ContentValue: req.ContentValue,
			LocaleCode:   localeCode,
			Version:      1,
			CreatedBy:    strings.TrimSpace(req.CreatedBy),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		created, err := s.repo.Create(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("create content record: %w", err)
		}
		if err := s.appendHistory(ctx, created, req.CreatedBy); err != nil {
			return nil, err
		}
		s.logger.Debug("content created", "page", pageName, "key", contentKey)
		return created, nil

	default:
		return nil, fmt.Errorf("lookup content record: %w", err)
	}
}

func (s *service) History(ctx context.Context, contentID uuid.UUID) ([]*ContentHistory, error) {
	if contentID == uuid.Nil {
		return nil, editcontent.ErrContentIDRequired
	}
	entries, err := s.repo.ListHistory(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("list content history: %w", err)
	}
	return entries, nil
}

func (s *service) RestoreVersion(ctx context.Context, req RestoreVersionRequest) (*ContentRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !s.versioning {
		return nil, editcontent.ErrVersioningDisabled
	}

	entry, err := s.repo.GetHistoryEntry(ctx, req.HistoryID)
	if err != nil {
		return nil, fmt.Errorf("lookup history entry: %w", err)
	}
	if entry.ContentID != req.ContentID {
		return nil, editcontent.ErrHistoryMismatch
	}

	record, err := s.repo.GetByID(ctx, req.ContentID)
	if err != nil {
		return nil, fmt.Errorf("lookup content record: %w", err)
	}

	record.ContentType = entry.ContentType
	record.ContentValue = entry.ContentValue
	record.Version++
	record.UpdatedAt = s.now()
	restored, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("restore content record: %w", err)
	}
	if err := s.appendHistory(ctx, restored, req.RestoredBy); err != nil {
		return nil, err
	}
	s.logger.Info("content version restored", "content_id", req.ContentID, "from_version", entry.Version, "new_version", restored.Version)
	return restored, nil
}

func (s *service) appendHistory(ctx context.Context, record *ContentRecord, createdBy string) error {
	if !s.versioning {
		return nil
	}
	entry := &ContentHistory{
		ID:           identity.HistoryUUID(record.ID, record.Version),
		ContentID:    record.ID,
		Version:      record.Version,
		ContentType:  record.ContentType,
		ContentValue: record.ContentValue,
		CreatedBy:    strings.TrimSpace(createdBy),
		CreatedAt:    s.now(),
	}
	if _, err := s.repo.CreateHistory(ctx, entry); err != nil {
		return fmt.Errorf("append content history: %w", err)
	}
	return nil
}
