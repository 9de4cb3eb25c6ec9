package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-editkit/internal/logging"
	"github.com/goliatone/go-editkit/pkg/interfaces"
)

var (
	// ErrNameRequired is returned for uploads without a file name.
	ErrNameRequired = errors.New("media: upload name is required")
	// ErrBodyRequired is returned for uploads without a payload.
	ErrBodyRequired = errors.New("media: upload body is required")
	// ErrURLRequired is returned for deletes without a URL.
	ErrURLRequired = errors.New("media: asset url is required")
)

// Service fronts a blob store with naming, validation, and logging. Stored
// object names carry a timestamp prefix so repeated uploads of the same file
// never collide or overwrite.
type Service struct {
	store  interfaces.BlobStore
	clock  func() time.Time
	logger interfaces.Logger
}

// Option configures the service.
type Option func(*Service)

// WithClock overrides the timestamp source, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger attaches a module logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		s.logger = logging.EnsureLogger(logger)
	}
}

// NewService builds a media service over a blob store.
func NewService(store interfaces.BlobStore, opts ...Option) *Service {
	s := &Service{
		store:  store,
		clock:  time.Now,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload stores the payload and returns its public URL.
func (s *Service) Upload(ctx context.Context, upload interfaces.BlobUpload) (string, error) {
	name := sanitizeName(upload.Name)
	if name == "" {
		return "", ErrNameRequired
	}
	if upload.Body == nil {
		return "", ErrBodyRequired
	}

	upload.Name = fmt.Sprintf("%d-%s", s.clock().UnixMilli(), name)
	url, err := s.store.Upload(ctx, upload)
	if err != nil {
		s.logger.Error("upload failed", "name", upload.Name, "error", err)
		return "", err
	}
	s.logger.Info("uploaded asset", "name", upload.Name, "url", url, "size", upload.Size)
	return url, nil
}

// Delete removes a previously uploaded asset by its public URL.
func (s *Service) Delete(ctx context.Context, url string) error {
	if strings.TrimSpace(url) == "" {
		return ErrURLRequired
	}
	if err := s.store.Delete(ctx, url); err != nil {
		s.logger.Error("delete failed", "url", url, "error", err)
		return err
	}
	s.logger.Info("deleted asset", "url", url)
	return nil
}

// sanitizeName strips directories and normalizes the file name to a safe
// object key segment.
func sanitizeName(name string) string {
	name = path.Base(strings.TrimSpace(strings.ReplaceAll(name, "\\", "/")))
	if name == "." || name == "/" {
		return ""
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "._")
}
