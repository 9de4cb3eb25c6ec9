package content

import (
	"errors"
	"fmt"
)

var (
	ErrPageNameRequired   = errors.New("content: page name is required")
	ErrLocaleRequired     = errors.New("content: locale code is required")
	ErrContentIDRequired  = errors.New("content: content id required")
	ErrVersionConflict    = errors.New("content: version precondition failed")
	ErrHistoryMismatch    = errors.New("content: history entry does not belong to record")
	ErrVersioningDisabled = errors.New("content: versioning feature disabled")
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// VersionConflictError captures a failed compare-and-swap precondition on upsert.
type VersionConflictError struct {
	PageName   string
	ContentKey string
	LocaleCode string
	Expected   int
	Actual     int
}

func (e *VersionConflictError) Error() string {
	if e == nil {
		return ErrVersionConflict.Error()
	}
	return fmt.Sprintf("%s: key=%s expected=%d actual=%d",
		ErrVersionConflict.Error(), e.ContentKey, e.Expected, e.Actual)
}

func (e *VersionConflictError) Unwrap() error {
	return ErrVersionConflict
}
