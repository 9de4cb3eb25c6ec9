package domain

import "strings"

// ContentType enumerates the kinds of values an editable slot can hold.
type ContentType string

const (
	// ContentTypeText is plain text rendered with escaping.
	ContentTypeText ContentType = "text"
	// ContentTypeRichText is markdown rendered to HTML at display time.
	ContentTypeRichText ContentType = "richtext"
	// ContentTypeImage stores the URL of an uploaded asset.
	ContentTypeImage ContentType = "image"
	// ContentTypeHTML is raw markup rendered without escaping.
	ContentTypeHTML ContentType = "html"
)

// ParseContentType normalizes a raw string into a ContentType, defaulting to text.
func ParseContentType(raw string) ContentType {
	switch ContentType(strings.ToLower(strings.TrimSpace(raw))) {
	case ContentTypeRichText:
		return ContentTypeRichText
	case ContentTypeImage:
		return ContentTypeImage
	case ContentTypeHTML:
		return ContentTypeHTML
	default:
		return ContentTypeText
	}
}

// Valid reports whether the content type is one of the supported values.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeText, ContentTypeRichText, ContentTypeImage, ContentTypeHTML:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (t ContentType) String() string {
	return string(t)
}
