package tui

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ScootGarcia/renetium/internal/content"
	"github.com/ScootGarcia/renetium/internal/model"
	"github.com/ScootGarcia/renetium/internal/viewer"
)

const unavailable = "[image unavailable]"

func (m *Model) mountCarousels() {
	for _, g := range m.lib.Galleries {
		v, err := viewer.New(g.Images, viewer.WithScrollLock(m.lock), viewer.WithKeyboard(m.keys))
		if err != nil {
			m.log.Warn("skipping gallery", zap.String("gallery", g.ID), zap.Error(err))
			continue
		}
		m.markUnavailable(v, g.Images)
		m.galleries = append(m.galleries, g)
		m.viewers = append(m.viewers, v)
	}
}

func (m *Model) galleryKey(key string) {
	if len(m.viewers) == 0 {
		return
	}
	v := m.viewers[m.cursor]
	switch key {
	case "up", "k":
		m.moveCursor(-1, len(m.viewers))
	case "down", "j":
		m.moveCursor(1, len(m.viewers))
	case "left", "h":
		v.Previous()
	case "right", "l":
		v.Next()
	case "enter":
		v.Open()
	}
}

func (m *Model) renderCarousels(b *strings.Builder) {
	if len(m.viewers) == 0 {
		b.WriteString(m.styles.Empty.Render("No galleries yet."))
		return
	}
	for i, g := range m.galleries {
		if i == m.cursor {
			m.cursorLine = strings.Count(b.String(), "\n")
		}
		v := m.viewers[i]
		marker, title := "  ", g.Title
		if i == m.cursor {
			marker, title = "› ", m.styles.Selected.Render(g.Title)
		}
		b.WriteString(marker + title + m.styles.Meta.Render(fmt.Sprintf(" by %s · ♥ %d", g.Author, g.Likes)) + "\n")

		f := v.Frame()
		b.WriteString("  " + frameLine(f) + "\n")
		if f.ShowControls {
			b.WriteString("  " + dots(v) + "\n")
		}
		b.WriteString("\n")
	}
}

func (m *Model) renderOverlay(b *strings.Builder) {
	v := m.openViewer()
	f := v.Frame()

	var title string
	if v == m.overlay {
		title = m.overlayOf.Title
	} else {
		for i, cv := range m.viewers {
			if cv == v {
				title = m.galleries[i].Title
			}
		}
	}

	var inner strings.Builder
	inner.WriteString(m.styles.Title.Render(title) + "\n\n")
	inner.WriteString(frameLine(f) + "\n")
	if f.ShowControls {
		thumbs := make([]string, 0, f.Len)
		for i := range f.Len {
			label := fmt.Sprintf("%d", i+1)
			if v.FrameAt(i).Placeholder {
				label += "!"
			}
			if i == f.Index {
				thumbs = append(thumbs, m.styles.Selected.Render("["+label+"]"))
				continue
			}
			thumbs = append(thumbs, " "+label+" ")
		}
		inner.WriteString("\n" + strings.Join(thumbs, ""))
	}
	b.WriteString(m.styles.Overlay.Render(inner.String()))
}

func frameLine(f viewer.Frame) string {
	src := f.URL
	if f.Placeholder {
		src = unavailable
	}
	if !f.ShowControls {
		return src
	}
	return fmt.Sprintf("[%s] %s", f.Position(), src)
}

func dots(v *viewer.Viewer) string {
	out := make([]string, v.Len())
	for i := range out {
		out[i] = "○"
		if i == v.Index() {
			out[i] = "●"
		}
	}
	return strings.Join(out, " ")
}

func (m *Model) renderHome(b *strings.Builder) {
	b.WriteString(m.styles.Title.Render("Capturing moments, sharing stories") + "\n")
	b.WriteString("Explore the knowledge base, join the community, or take on the weekly challenge.\n\n")

	b.WriteString(m.styles.Title.Render("Featured Photography") + "\n\n")
	m.renderCarousels(b)

	b.WriteString(m.styles.Title.Render("Latest from Knowledge Base") + "\n")
	for _, item := range content.Latest(m.lib.Items, model.KindArticle, 3) {
		b.WriteString("  " + item.Title + m.styles.Meta.Render(meta(item)) + "\n")
	}
	b.WriteString("\n" + m.styles.Title.Render("Community Highlights") + "\n")
	for _, item := range content.Latest(m.lib.Items, model.KindForum, 3) {
		b.WriteString("  " + item.Title + m.styles.Meta.Render(fmt.Sprintf(" · %d replies", item.Comments)) + "\n")
	}
}

func (m *Model) renderAbout(b *strings.Builder) {
	if m.lib.About == nil {
		return
	}
	b.WriteString(m.styles.Title.Render(m.lib.About.Title) + "\n")
	b.WriteString(m.markdown("about", m.lib.About.Body))
}
