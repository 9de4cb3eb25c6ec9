package editable

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-editkit/internal/domain"
	"github.com/goliatone/go-editkit/internal/logging"
	"github.com/goliatone/go-editkit/internal/session"
	"github.com/goliatone/go-editkit/pkg/interfaces"
)

// DefaultMaxImageBytes caps uploaded image payloads at 5 MiB.
const DefaultMaxImageBytes = 5 << 20

var (
	// ErrNotAnImage is returned when the payload's sniffed type is not image/*.
	ErrNotAnImage = errors.New("editable: file is not an image")
	// ErrImageTooLarge is returned when the payload exceeds the size limit.
	ErrImageTooLarge = errors.New("editable: image exceeds the size limit")
	// ErrUploadUnavailable is returned when no blob store is configured.
	ErrUploadUnavailable = errors.New("editable: no blob store configured")
)

// Image is a declaratively keyed editable image. The stored value is the
// public URL of the uploaded asset; DefaultURL is the authored fallback.
type Image struct {
	PageName   string
	ContentKey string
	DefaultURL string
	Alt        string
}

// ImageReplacer validates and uploads replacement images, then queues the new
// URL on the session. A failed validation or upload leaves the previous URL in
// place; the component never points at a half-uploaded asset.
type ImageReplacer struct {
	sess     *session.Session
	blobs    interfaces.BlobStore
	maxBytes int64
	logger   interfaces.Logger
}

// ImageReplacerOption configures the replacer.
type ImageReplacerOption func(*ImageReplacer)

// WithMaxImageBytes overrides the upload size limit.
func WithMaxImageBytes(limit int64) ImageReplacerOption {
	return func(r *ImageReplacer) {
		if limit > 0 {
			r.maxBytes = limit
		}
	}
}

// WithLogger attaches a module logger.
func WithLogger(logger interfaces.Logger) ImageReplacerOption {
	return func(r *ImageReplacer) {
		r.logger = logging.EnsureLogger(logger)
	}
}

// NewImageReplacer builds a replacer over a session and blob store.
func NewImageReplacer(sess *session.Session, blobs interfaces.BlobStore, opts ...ImageReplacerOption) *ImageReplacer {
	r := &ImageReplacer{
		sess:     sess,
		blobs:    blobs,
		maxBytes: DefaultMaxImageBytes,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the URL the component should display.
func (img Image) Resolve(sess *session.Session) string {
	return sess.GetContent(img.PageName, img.ContentKey, img.DefaultURL)
}

// Render produces the img markup for the resolved URL.
func (img Image) Render(sess *session.Session) string {
	return fmt.Sprintf("<img src=%q alt=%q>", img.Resolve(sess), img.Alt)
}

// Replace validates the payload, uploads it, and queues the uploaded URL as a
// pending change. The returned URL is the new resolved value. Content type is
// sniffed from the payload bytes, never trusted from the declared upload
// metadata.
func (r *ImageReplacer) Replace(ctx context.Context, img Image, upload interfaces.BlobUpload) (string, error) {
	if r.blobs == nil {
		return "", ErrUploadUnavailable
	}
	if upload.Size > r.maxBytes {
		return "", ErrImageTooLarge
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(upload.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("editable: read image payload: %w", err)
	}
	head = head[:n]

	sniffed := http.DetectContentType(head)
	if !strings.HasPrefix(sniffed, "image/") {
		return "", ErrNotAnImage
	}

	// The declared size is advisory; the hard cap applies to actual bytes.
	body := io.Reader(io.MultiReader(bytes.NewReader(head), upload.Body))
	body = &cappedReader{r: body, remaining: r.maxBytes}

	url, err := r.blobs.Upload(ctx, interfaces.BlobUpload{
		Name:        upload.Name,
		ContentType: sniffed,
		Size:        upload.Size,
		Body:        body,
	})
	if err != nil {
		if errors.Is(err, ErrImageTooLarge) {
			return "", ErrImageTooLarge
		}
		r.logger.Warn("image upload failed", "key", img.ContentKey, "error", err)
		return "", fmt.Errorf("editable: upload image %q: %w", img.ContentKey, err)
	}

	r.sess.UpdateContent(img.PageName, img.ContentKey, domain.ContentTypeImage, url)
	return url, nil
}

// cappedReader fails the stream once more than the allowed number of bytes
// has been read, so an understated declared size cannot bypass the limit.
type cappedReader struct {
	r         io.Reader
	remaining int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	if c.remaining <= 0 {
		return 0, ErrImageTooLarge
	}
	if int64(len(p)) > c.remaining {
		p = p[:c.remaining]
	}
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	if c.remaining <= 0 && err == nil {
		// Allow exactly maxBytes; fail only if more bytes follow.
		var probe [1]byte
		if extra, _ := c.r.Read(probe[:]); extra > 0 {
			return n, ErrImageTooLarge
		}
		return n, io.EOF
	}
	return n, err
}
