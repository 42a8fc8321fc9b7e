// Package shell wraps page fragments in the common site layout: document
// head, navigation, header and footer.
package shell

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"strings"
	"time"

	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
)

//go:embed templates/page.html.tmpl
var embeddedTemplates embed.FS

const (
	defaultTemplate = "templates/page.html.tmpl"

	// DefaultFavicon is linked when the brand has no favicon.
	DefaultFavicon = "favicon.ico"
	// DefaultThemeColor is the navigation and heading color.
	DefaultThemeColor = "#2c3e50"
)

// NavItem is one entry of the site navigation.
type NavItem struct {
	Label string
	Href  string
}

// Navigation lists the seven site pages in display order.
var Navigation = []NavItem{
	{Label: "Home", Href: "index.html"},
	{Label: "About", Href: "about.html"},
	{Label: "Services", Href: "services.html"},
	{Label: "Testimonials", Href: "testimonials.html"},
	{Label: "FAQs", Href: "faqs.html"},
	{Label: "Help", Href: "help.html"},
	{Label: "Contact", Href: "contact.html"},
}

// PageData is everything the shell needs to render one page.
type PageData struct {
	Brand   string
	Title   string
	Favicon string
	// File is the output file name, used to mark the current nav entry.
	File           string
	Content        template.HTML
	StructuredData []byte
}

type navView struct {
	Label   string
	Href    string
	Current bool
}

type view struct {
	DocumentTitle  string
	Brand          string
	Heading        string
	Favicon        string
	ThemeColor     string
	Nav            []navView
	Content        template.HTML
	StructuredData template.JS
	Year           int
	Updated        string
}

// Renderer renders full HTML documents.
type Renderer struct {
	tmpl       *template.Template
	now        func() time.Time
	themeColor string
}

// Option configures a Renderer.
type Option func(*rendererConfig)

type rendererConfig struct {
	now          func() time.Time
	templateFile string
	themeColor   string
}

// WithClock sets the clock used for the footer timestamp.
func WithClock(now func() time.Time) Option {
	return func(c *rendererConfig) { c.now = now }
}

// WithTemplateFile replaces the embedded layout with a template file. A
// missing or blank file falls back to the embedded layout.
func WithTemplateFile(path string) Option {
	return func(c *rendererConfig) { c.templateFile = path }
}

// WithThemeColor sets the theme color.
func WithThemeColor(color string) Option {
	return func(c *rendererConfig) { c.themeColor = color }
}

// NewRenderer parses the layout template.
func NewRenderer(opts ...Option) (*Renderer, error) {
	cfg := rendererConfig{now: time.Now, themeColor: DefaultThemeColor}
	for _, opt := range opts {
		opt(&cfg)
	}

	raw, err := loadTemplate(cfg.templateFile)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New("page").Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &Renderer{tmpl: tmpl, now: cfg.now, themeColor: cfg.themeColor}, nil
}

func loadTemplate(path string) (string, error) {
	if path != "" {
		// #nosec G304 -- path comes from the user's own configuration
		b, err := os.ReadFile(path)
		if err == nil && strings.TrimSpace(string(b)) != "" {
			slog.Debug("Loaded page template override", logfields.Path(path))
			return string(b), nil
		}
		slog.Warn("Page template override not usable, using embedded layout", logfields.Path(path), logfields.Error(err))
	}

	b, err := embeddedTemplates.ReadFile(defaultTemplate)
	if err != nil {
		return "", fmt.Errorf("embedded page template missing: %w", err)
	}
	return string(b), nil
}

// Render renders one full HTML document.
func (r *Renderer) Render(data PageData) ([]byte, error) {
	now := r.now().UTC()

	brand := data.Brand
	docTitle := brand
	if data.Title != "" {
		docTitle = brand + " — " + data.Title
	}
	heading := data.Title
	if heading == "" {
		heading = brand
	}
	favicon := data.Favicon
	if favicon == "" {
		favicon = DefaultFavicon
	}

	nav := make([]navView, len(Navigation))
	for i, item := range Navigation {
		nav[i] = navView{Label: item.Label, Href: item.Href, Current: item.Href == data.File}
	}

	v := view{
		DocumentTitle: docTitle,
		Brand:         brand,
		Heading:       heading,
		Favicon:       favicon,
		ThemeColor:    r.themeColor,
		Nav:           nav,
		Content:       data.Content,
		Year:          now.Year(),
		Updated:       now.Format("2006-01-02 15:04") + " UTC",
	}
	if len(data.StructuredData) > 0 {
		// #nosec G203 -- produced by encoding/json, which escapes <, > and &
		v.StructuredData = template.JS(data.StructuredData)
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("render page %q: %w", data.Title, err)
	}
	return buf.Bytes(), nil
}
