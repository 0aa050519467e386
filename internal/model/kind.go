package model

import "strings"

// Kind is the closed set of knowledge base content types.
type Kind int

const (
	KindArticle Kind = iota + 1
	KindTip
	KindForum
)

// Kinds lists every kind in display order.
func Kinds() []Kind {
	return []Kind{KindArticle, KindTip, KindForum}
}

// ParseKind maps a front matter or query value onto a Kind.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "article":
		return KindArticle, true
	case "tip":
		return KindTip, true
	case "forum":
		return KindForum, true
	}
	return 0, false
}

func (k Kind) String() string {
	switch k {
	case KindArticle:
		return "article"
	case KindTip:
		return "tip"
	case KindForum:
		return "forum"
	}
	return "unknown"
}

// Label is the badge text shown on an item card.
func (k Kind) Label() string {
	switch k {
	case KindArticle:
		return "Article"
	case KindTip:
		return "Tip & Trick"
	case KindForum:
		return "Forum Discussion"
	}
	return ""
}

// Plural is the filter button text.
func (k Kind) Plural() string {
	switch k {
	case KindArticle:
		return "Articles"
	case KindTip:
		return "Tips & Tricks"
	case KindForum:
		return "Forum"
	}
	return ""
}

// Icon names the icon drawn next to the label.
func (k Kind) Icon() string {
	switch k {
	case KindArticle:
		return "book-open"
	case KindTip:
		return "share-2"
	case KindForum:
		return "message-circle"
	}
	return ""
}

// Color returns the badge CSS classes.
func (k Kind) Color() string {
	switch k {
	case KindArticle:
		return "badge-blue"
	case KindTip:
		return "badge-green"
	case KindForum:
		return "badge-purple"
	}
	return ""
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindArticle, KindTip, KindForum:
		return true
	}
	return false
}
