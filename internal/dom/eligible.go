package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// ExcludeAttr marks a subtree that the overlay must never treat as editable.
const ExcludeAttr = "data-editkit-exclude"

// editableTags is the fixed heading/paragraph/inline/list/label set eligible
// for heuristic editing.
var editableTags = map[string]struct{}{
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"p": {}, "span": {}, "li": {}, "td": {}, "th": {}, "label": {},
	"blockquote": {}, "figcaption": {}, "dt": {}, "dd": {},
	"strong": {}, "em": {}, "small": {},
}

// interactiveTags can never be edited, nor can anything nested inside them.
var interactiveTags = map[string]struct{}{
	"a": {}, "button": {}, "input": {}, "textarea": {}, "select": {}, "option": {},
}

// excludedRoles match ARIA roles whose subtrees hold UI chrome, not content.
var excludedRoles = map[string]struct{}{
	"menu": {}, "listbox": {}, "dialog": {},
}

// excludedClassMarkers identify page chrome regions: the admin toolbar, the
// editor modal, user/language menus, the top utility bar, navigation
// dropdowns, and the hero carousel.
var excludedClassMarkers = []string{
	"editkit-toolbar",
	"editkit-editor",
	"user-menu",
	"language-menu",
	"utility-bar",
	"nav-dropdown",
	"hero-carousel",
}

// maxDescendantElements guards against matching structural containers rather
// than leaf text.
const maxDescendantElements = 5

// minTextLength rejects trivially short content.
const minTextLength = 2

// Eligible reports whether an element qualifies for heuristic editing. All
// rules must hold: allowed tag, outside excluded regions, not interactive or
// nested in an interactive element, non-trivial text, few descendants.
func Eligible(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if _, ok := editableTags[n.Data]; !ok {
		return false
	}
	if _, ok := interactiveTags[n.Data]; ok {
		return false
	}
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		if excludedRegion(cur) {
			return false
		}
		if cur != n {
			if _, ok := interactiveTags[cur.Data]; ok {
				return false
			}
		}
	}
	if len(strings.TrimSpace(Text(n))) < minTextLength {
		return false
	}
	if descendantElementCount(n) > maxDescendantElements {
		return false
	}
	return true
}

// FindEligible walks a subtree and returns eligible elements in document order.
func FindEligible(root *html.Node) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) {
		if Eligible(n) {
			out = append(out, n)
		}
	})
	return out
}

// Text concatenates all text nodes beneath n.
func Text(n *html.Node) string {
	var b strings.Builder
	walk(n, func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
	})
	return b.String()
}

// SetText replaces the element's children with a single text node.
func SetText(n *html.Node, text string) {
	if n == nil || n.Type != html.ElementNode {
		return
	}
	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		n.RemoveChild(child)
		child = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func excludedRegion(n *html.Node) bool {
	for _, attr := range n.Attr {
		switch attr.Key {
		case ExcludeAttr:
			return true
		case "role":
			if _, ok := excludedRoles[strings.ToLower(strings.TrimSpace(attr.Val))]; ok {
				return true
			}
		case "class":
			for _, class := range strings.Fields(attr.Val) {
				for _, marker := range excludedClassMarkers {
					if strings.EqualFold(class, marker) {
						return true
					}
				}
			}
		}
	}
	return false
}

func descendantElementCount(n *html.Node) int {
	count := 0
	walk(n, func(cur *html.Node) {
		if cur != n && cur.Type == html.ElementNode {
			count++
		}
	})
	return count
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n == nil {
		return
	}
	fn(n)
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walk(child, fn)
	}
}
