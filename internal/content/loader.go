package content

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"

	"github.com/ScootGarcia/renetium/internal/model"
)

const (
	conventionalContentDir = "content"
	conventionalGalleries  = "galleries.yaml"
	conventionalAboutPage  = "about.md"
)

var (
	ErrUnknownKind  = errors.New("content: unknown kind")
	ErrDuplicateID  = errors.New("content: duplicate id")
	ErrEmptyGallery = errors.New("content: gallery has no images")
	ErrInvalidID    = errors.New("content: id must be a single path segment")
)

var dateFormats = []string{"2006-01-02T15:04:05Z07:00", "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

type frontMatter struct {
	ID       string `yaml:"id"`
	Type     string `yaml:"type"`
	Title    string `yaml:"title"`
	Author   string `yaml:"author"`
	Date     string `yaml:"date"`
	Excerpt  string `yaml:"excerpt"`
	Image    string `yaml:"image"`
	Likes    int    `yaml:"likes"`
	Comments int    `yaml:"comments"`
}

type galleryFile struct {
	ID     string   `yaml:"id"`
	Title  string   `yaml:"title"`
	Author string   `yaml:"author"`
	Likes  int      `yaml:"likes"`
	Images []string `yaml:"images"`
}

// Loader reads the knowledge base, galleries and about page from a site filesystem:
//
//	content/<articles|tips|forum>/*.md   items with front matter
//	content/about.md                     about page
//	galleries.yaml                       carousel galleries
type Loader struct {
	fsys   fs.FS
	md     goldmark.Markdown
	policy *bluemonday.Policy
	log    *zap.Logger
}

// NewLoader builds a loader over fsys.
func NewLoader(fsys fs.FS, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	return &Loader{
		fsys: fsys,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				gmhtml.WithHardWraps(),
			),
		),
		policy: policy,
		log:    logger.Named("loader"),
	}
}

// Load reads everything and returns a fresh library.
func (l *Loader) Load(params map[string]interface{}) (*model.Library, error) {
	lib := &model.Library{
		Params: params,
		ByKind: make(map[model.Kind][]*model.ContentItem),
	}
	if lib.Params == nil {
		lib.Params = map[string]interface{}{}
	}

	seen := make(map[string]string)
	err := fs.WalkDir(l.fsys, conventionalContentDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error accessing path '%s' during walk: %w", p, walkErr)
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		if p == path.Join(conventionalContentDir, conventionalAboutPage) {
			return nil
		}

		item, err := l.loadItem(p)
		if err != nil {
			return err
		}
		if prev, dup := seen[item.ID]; dup {
			return fmt.Errorf("%w: %q in %s and %s", ErrDuplicateID, item.ID, prev, p)
		}
		seen[item.ID] = p
		lib.Items = append(lib.Items, item)
		lib.ByKind[item.Kind] = append(lib.ByKind[item.Kind], item)
		l.log.Debug("loaded item", zap.String("id", item.ID), zap.String("kind", item.Kind.String()), zap.String("path", p))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error during content walk: %w", err)
	}

	if lib.Galleries, err = l.loadGalleries(); err != nil {
		return nil, err
	}
	if lib.About, err = l.loadPage(path.Join(conventionalContentDir, conventionalAboutPage)); err != nil {
		return nil, err
	}

	l.log.Info("library loaded",
		zap.Int("items", len(lib.Items)),
		zap.Int("galleries", len(lib.Galleries)))
	return lib, nil
}

func (l *Loader) loadItem(p string) (*model.ContentItem, error) {
	raw, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("failed to read file '%s': %w", p, err)
	}

	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		l.log.Warn("could not parse front matter, treating as pure markdown", zap.String("path", p), zap.Error(err))
		body = raw
		fm = frontMatter{}
	}

	// The directory names the kind; front matter overrides it.
	kindName := fm.Type
	if kindName == "" {
		dir := path.Base(path.Dir(p))
		kindName = strings.TrimSuffix(dir, "s")
	}
	kind, ok := model.ParseKind(kindName)
	if !ok {
		return nil, fmt.Errorf("%w %q in %s", ErrUnknownKind, kindName, p)
	}

	base := strings.TrimSuffix(path.Base(p), path.Ext(p))
	id := fm.ID
	if id == "" {
		id = kind.String() + "-" + base
	}
	if !validID(id) {
		return nil, fmt.Errorf("%w: %q in %s", ErrInvalidID, id, p)
	}

	title := fm.Title
	if title == "" {
		title = titleFromName(base)
	}

	bodyHTML, err := l.render(body)
	if err != nil {
		return nil, fmt.Errorf("failed to convert markdown to HTML for file '%s': %w", p, err)
	}

	return &model.ContentItem{
		ID:         id,
		Kind:       kind,
		Title:      title,
		Author:     fm.Author,
		Date:       l.parseDate(fm.Date, p),
		Excerpt:    fm.Excerpt,
		Body:       string(body),
		BodyHTML:   bodyHTML,
		Image:      fm.Image,
		Likes:      max(fm.Likes, 0),
		Comments:   max(fm.Comments, 0),
		SourcePath: p,
		Permalink:  "/articles/" + id + "/",
	}, nil
}

func (l *Loader) loadPage(p string) (*model.Page, error) {
	raw, err := fs.ReadFile(l.fsys, p)
	if errors.Is(err, fs.ErrNotExist) {
		return &model.Page{Title: "About"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read page '%s': %w", p, err)
	}
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		body = raw
	}
	html, err := l.render(body)
	if err != nil {
		return nil, fmt.Errorf("failed to convert markdown to HTML for page '%s': %w", p, err)
	}
	title := fm.Title
	if title == "" {
		title = titleFromName(strings.TrimSuffix(path.Base(p), path.Ext(p)))
	}
	return &model.Page{Title: title, Body: string(body), BodyHTML: html}, nil
}

func (l *Loader) loadGalleries() ([]*model.Gallery, error) {
	raw, err := fs.ReadFile(l.fsys, conventionalGalleries)
	if errors.Is(err, fs.ErrNotExist) {
		l.log.Warn("no galleries file", zap.String("path", conventionalGalleries))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", conventionalGalleries, err)
	}

	var files []galleryFile
	if err := yaml.Unmarshal(raw, &files); err != nil {
		return nil, fmt.Errorf("error unmarshalling %s: %w", conventionalGalleries, err)
	}

	galleries := make([]*model.Gallery, 0, len(files))
	seen := make(map[string]bool, len(files))
	for i, g := range files {
		if g.ID == "" {
			g.ID = fmt.Sprintf("gallery-%d", i+1)
		}
		if !validID(g.ID) {
			return nil, fmt.Errorf("%w: gallery %q", ErrInvalidID, g.ID)
		}
		if seen[g.ID] {
			return nil, fmt.Errorf("%w: gallery %q", ErrDuplicateID, g.ID)
		}
		seen[g.ID] = true
		if len(g.Images) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrEmptyGallery, g.ID)
		}
		galleries = append(galleries, &model.Gallery{
			ID:     g.ID,
			Title:  g.Title,
			Author: g.Author,
			Likes:  max(g.Likes, 0),
			Images: append([]string(nil), g.Images...),
		})
	}
	return galleries, nil
}

func (l *Loader) render(markdown []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := l.md.Convert(markdown, &buf); err != nil {
		return "", err
	}
	return template.HTML(l.policy.SanitizeBytes(buf.Bytes())), nil
}

func (l *Loader) parseDate(s, p string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	l.log.Warn("could not parse date, use YYYY-MM-DD or RFC3339", zap.String("date", s), zap.String("path", p))
	return time.Time{}
}

// validID reports whether id can name one URL path segment and one output
// directory.
func validID(id string) bool {
	return id != "." && fs.ValidPath(id) && !strings.ContainsAny(id, "/\\?#")
}

func titleFromName(name string) string {
	name = strings.ReplaceAll(strings.ReplaceAll(name, "-", " "), "_", " ")
	return cases.Title(language.English).String(name)
}
