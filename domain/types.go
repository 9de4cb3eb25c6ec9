package domain

import internaldomain "github.com/goliatone/go-editkit/internal/domain"

// ContentType enumerates the kinds of values an editable slot can hold.
type ContentType = internaldomain.ContentType

const (
	// ContentTypeText is plain text rendered with escaping.
	ContentTypeText = internaldomain.ContentTypeText
	// ContentTypeRichText is markdown rendered to HTML at display time.
	ContentTypeRichText = internaldomain.ContentTypeRichText
	// ContentTypeImage stores the URL of an uploaded asset.
	ContentTypeImage = internaldomain.ContentTypeImage
	// ContentTypeHTML is raw markup rendered without escaping.
	ContentTypeHTML = internaldomain.ContentTypeHTML
)

// ParseContentType normalizes a raw string into a ContentType, defaulting to text.
func ParseContentType(raw string) ContentType {
	return internaldomain.ParseContentType(raw)
}
