package content

import "github.com/ScootGarcia/renetium/internal/model"

// Summary is the JSON shape of an item in listings and the search index.
type Summary struct {
	ID        string `json:"id"`
	Kind      string `json:"type"`
	Title     string `json:"title"`
	Author    string `json:"author,omitempty"`
	Date      string `json:"date,omitempty"`
	Excerpt   string `json:"excerpt,omitempty"`
	Image     string `json:"image,omitempty"`
	Likes     int    `json:"likes"`
	Comments  int    `json:"comments"`
	Permalink string `json:"permalink"`
}

// Summarize converts items, keeping their order.
func Summarize(items []*model.ContentItem) []Summary {
	out := make([]Summary, 0, len(items))
	for _, item := range items {
		s := Summary{
			ID:        item.ID,
			Kind:      item.Kind.String(),
			Title:     item.Title,
			Author:    item.Author,
			Excerpt:   item.Excerpt,
			Image:     item.Image,
			Likes:     item.Likes,
			Comments:  item.Comments,
			Permalink: item.Permalink,
		}
		if !item.Date.IsZero() {
			s.Date = item.Date.Format("2006-01-02")
		}
		out = append(out, s)
	}
	return out
}
