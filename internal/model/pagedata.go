package model

// NavEntry is a header link with its active state resolved against the current route.
type NavEntry struct {
	Label  string
	Hash   string
	Href   string
	Active bool
}

// PageData is the layout context shared by every rendered page.
type PageData struct {
	SiteTitle    string
	PageTitle    string
	BaseURL      string
	Page         string
	Nav          []NavEntry
	Params       map[string]interface{}
	ScrollLocked bool
	Scripted     bool
	Year         int
}
