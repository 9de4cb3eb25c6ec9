package dom

import (
	"strconv"
	"strings"

	editcontent "github.com/goliatone/go-editkit/content"
	"golang.org/x/net/html"
)

const (
	// DefaultMaxDepth caps how many ancestor levels contribute to a key.
	// Elements nested deeper collapse to a coarser key; accepted limitation.
	DefaultMaxDepth = 8
	// DefaultMaxLen truncates keys to keep them storable as identifiers.
	DefaultMaxLen = 100
)

// KeyBuilder derives structural keys from document position. The same logical
// slot yields the same key across full parses of an unchanged document; keys
// drift when conditional siblings change an element's ordinal position, which
// is why saved edits also carry the original text as a matching anchor.
type KeyBuilder struct {
	MaxDepth int
	MaxLen   int
}

// DefaultKeyBuilder uses the stock depth and length limits.
var DefaultKeyBuilder = KeyBuilder{MaxDepth: DefaultMaxDepth, MaxLen: DefaultMaxLen}

// StructuralKey derives a key for the element using default limits.
func StructuralKey(n *html.Node) string {
	return DefaultKeyBuilder.StructuralKey(n)
}

// StructuralKey walks from the element up to (but not including) the document
// body, recording each level as tag_indexAmongSameTagSiblings, and renders the
// path outermost-first prefixed with the structural marker: e.g. global_div_0_h2_1.
func (b KeyBuilder) StructuralKey(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}

	maxDepth := b.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	maxLen := b.MaxLen
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}

	segments := make([]string, 0, maxDepth)
	for cur := n; cur != nil && cur.Type == html.ElementNode && len(segments) < maxDepth; cur = cur.Parent {
		if cur.Data == "body" || cur.Data == "html" {
			break
		}
		segments = append(segments, cur.Data+"_"+strconv.Itoa(sameTagIndex(cur)))
	}
	if len(segments) == 0 {
		return ""
	}

	// Reverse into document order so keys read outermost-first.
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}

	key := editcontent.StructuralKeyPrefix + sanitizeKey(strings.Join(segments, "_"))
	if len(key) > maxLen {
		key = key[:maxLen]
	}
	return key
}

// sameTagIndex returns the element's index among preceding siblings that share
// its tag name.
func sameTagIndex(n *html.Node) int {
	index := 0
	for sib := n.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Type == html.ElementNode && sib.Data == n.Data {
			index++
		}
	}
	return index
}

func sanitizeKey(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
