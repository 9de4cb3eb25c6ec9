package editable

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-editkit/internal/media"
	"github.com/goliatone/go-editkit/pkg/interfaces"
)

// pngHeader is enough of a PNG signature for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

func pngPayload(size int) []byte {
	payload := make([]byte, size)
	copy(payload, pngHeader)
	return payload
}

func TestImageResolveAndRender(t *testing.T) {
	sess, _ := newTestSession(t)
	img := Image{
		PageName: "home", ContentKey: "hero.image",
		DefaultURL: "/img/hero.jpg", Alt: "Volunteers at work",
	}

	if got := img.Resolve(sess); got != "/img/hero.jpg" {
		t.Fatalf("expected default url, got %q", got)
	}
	markup := img.Render(sess)
	if !strings.Contains(markup, `src="/img/hero.jpg"`) || !strings.Contains(markup, `alt="Volunteers at work"`) {
		t.Fatalf("unexpected markup: %q", markup)
	}
}

func TestReplaceUploadsAndQueuesURL(t *testing.T) {
	ctx := context.Background()
	sess, _ := newTestSession(t)
	blobs := media.NewMemoryStore("memory://media")
	replacer := NewImageReplacer(sess, blobs)

	img := Image{PageName: "home", ContentKey: "hero.image", DefaultURL: "/img/hero.jpg"}
	payload := pngPayload(2048)

	url, err := replacer.Replace(ctx, img, interfaces.BlobUpload{
		Name: "hero.png", Size: int64(len(payload)), Body: bytes.NewReader(payload),
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if !strings.HasPrefix(url, "memory://media/") {
		t.Fatalf("unexpected url %q", url)
	}
	if blobs.Len() != 1 {
		t.Fatalf("expected 1 stored object, got %d", blobs.Len())
	}
	if got := img.Resolve(sess); got != url {
		t.Fatalf("expected queued url, got %q", got)
	}
	if sess.PendingCount() != 1 {
		t.Fatalf("expected pending change for the new url")
	}
}

func TestReplaceRejectsNonImages(t *testing.T) {
	ctx := context.Background()
	sess, _ := newTestSession(t)
	replacer := NewImageReplacer(sess, media.NewMemoryStore(""))

	img := Image{PageName: "home", ContentKey: "hero.image"}
	payload := []byte("%PDF-1.7 definitely not an image")

	_, err := replacer.Replace(ctx, img, interfaces.BlobUpload{
		Name: "sneaky.png", Size: int64(len(payload)), Body: bytes.NewReader(payload),
	})
	if !errors.Is(err, ErrNotAnImage) {
		t.Fatalf("expected image rejection, got %v", err)
	}
	// A failed validation leaves the previous value in place.
	if got := img.Resolve(sess); got != "" {
		t.Fatalf("expected untouched value, got %q", got)
	}
	if sess.PendingCount() != 0 {
		t.Fatalf("rejected upload must not queue a change")
	}
}

func TestReplaceEnforcesSizeLimit(t *testing.T) {
	ctx := context.Background()
	sess, _ := newTestSession(t)
	replacer := NewImageReplacer(sess, media.NewMemoryStore(""), WithMaxImageBytes(1024))

	img := Image{PageName: "home", ContentKey: "hero.image"}

	// Declared size over the cap fails fast.
	_, err := replacer.Replace(ctx, img, interfaces.BlobUpload{
		Name: "big.png", Size: 4096, Body: bytes.NewReader(pngPayload(4096)),
	})
	if !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("expected size rejection, got %v", err)
	}

	// An understated declared size is caught by the byte counter.
	_, err = replacer.Replace(ctx, img, interfaces.BlobUpload{
		Name: "liar.png", Size: 100, Body: bytes.NewReader(pngPayload(4096)),
	})
	if !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("expected streamed size rejection, got %v", err)
	}

	// At the limit exactly is fine.
	payload := pngPayload(1024)
	if _, err := replacer.Replace(ctx, img, interfaces.BlobUpload{
		Name: "fits.png", Size: int64(len(payload)), Body: bytes.NewReader(payload),
	}); err != nil {
		t.Fatalf("expected upload at the limit to pass: %v", err)
	}
}
