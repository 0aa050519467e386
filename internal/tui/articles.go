package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ScootGarcia/renetium/internal/content"
	"github.com/ScootGarcia/renetium/internal/model"
	"github.com/ScootGarcia/renetium/internal/viewer"
)

const emptyState = "No content matches your current filters."

// filterCycle is the order the f key steps through.
var filterCycle = []content.Filter{
	content.FilterAll,
	content.FilterKind(model.KindArticle),
	content.FilterKind(model.KindTip),
	content.FilterKind(model.KindForum),
}

func (m *Model) recompute() {
	m.results = m.listing.Results(m.lib.Items)
	m.moveCursor(0, len(m.results))
}

func (m *Model) selected() *model.ContentItem {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return nil
	}
	return m.results[m.cursor]
}

func (m *Model) articlesKey(key string) tea.Cmd {
	switch key {
	case "up", "k":
		m.moveCursor(-1, len(m.results))
	case "down", "j":
		m.moveCursor(1, len(m.results))
	case "f":
		next := 0
		for i, f := range filterCycle {
			if f == m.listing.Filter {
				next = (i + 1) % len(filterCycle)
			}
		}
		m.listing.SetFilter(filterCycle[next])
		m.recompute()
	case "/":
		m.searching = true
		return m.search.Focus()
	case "enter":
		if item := m.selected(); item != nil {
			m.listing.Toggle(item.ID)
		}
	case "i":
		if item := m.selected(); item != nil {
			m.openImage(item.ID)
		}
	case "r":
		m.listing.Reset()
		m.search.SetValue("")
		m.recompute()
	}
	return nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "esc":
		m.searching = false
		m.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.listing.SetQuery(m.search.Value())
	m.recompute()
	return cmd
}

// openImage shows an item's image full-screen over the listing.
func (m *Model) openImage(id string) {
	item, ok := m.lib.Item(id)
	if !ok || item.Image == "" {
		return
	}
	if m.overlay != nil {
		m.overlay.Teardown()
	}
	v, err := viewer.New([]string{item.Image}, viewer.WithScrollLock(m.lock), viewer.WithKeyboard(m.keys))
	if err != nil {
		return
	}
	m.markUnavailable(v, []string{item.Image})
	v.Open()
	m.overlay, m.overlayOf = v, item
}

func (m *Model) renderArticles(b *strings.Builder) {
	counts := content.Counts(m.lib.Items)
	buttons := make([]string, 0, len(filterCycle))
	for _, f := range filterCycle {
		label := fmt.Sprintf("All (%d)", len(m.lib.Items))
		if k, ok := f.Kind(); ok {
			label = fmt.Sprintf("%s %s (%d)", glyphs[k], k.Plural(), counts[k])
		}
		if f == m.listing.Filter {
			buttons = append(buttons, m.styles.Active.Render(label))
			continue
		}
		buttons = append(buttons, m.styles.Filter.Render(label))
	}
	b.WriteString(strings.Join(buttons, " "))
	b.WriteString("\n")

	switch {
	case m.searching:
		b.WriteString(m.search.View())
	case m.listing.Query != "":
		b.WriteString(m.styles.Meta.Render("Search: " + m.listing.Query))
	}
	b.WriteString("\n\n")

	if m.listing.Empty(m.lib.Items) {
		b.WriteString(m.styles.Empty.Render(emptyState + "\nPress r to reset filters."))
		return
	}

	for i, item := range m.results {
		if i == m.cursor {
			m.cursorLine = strings.Count(b.String(), "\n")
		}
		marker, title := "  ", item.Title
		if i == m.cursor {
			marker, title = "› ", m.styles.Selected.Render(item.Title)
		}
		b.WriteString(marker + title + "\n")
		b.WriteString("  " + badge(item.Kind) + m.styles.Meta.Render(meta(item)) + "\n")
		if item.Excerpt != "" {
			b.WriteString("  " + item.Excerpt + "\n")
		}
		if m.listing.IsExpanded(item.ID) {
			b.WriteString(m.markdown(item.ID, item.Body))
		}
		b.WriteString("\n")
	}
}

func meta(item *model.ContentItem) string {
	parts := []string{""}
	if item.Author != "" {
		parts = append(parts, item.Author)
	}
	if !item.Date.IsZero() {
		parts = append(parts, item.Date.Format("January 2, 2006"))
	}
	parts = append(parts, fmt.Sprintf("♥ %d", item.Likes))
	if item.Kind == model.KindForum {
		parts = append(parts, fmt.Sprintf("%d replies", item.Comments))
	} else {
		parts = append(parts, fmt.Sprintf("%d comments", item.Comments))
	}
	return strings.Join(parts, " · ")
}
