package shell

import (
	"html/template"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
}

func TestRender(t *testing.T) {
	r, err := NewRenderer(WithClock(fixedClock))
	require.NoError(t, err)

	out, err := r.Render(PageData{
		Brand:   "Acme & Sons",
		Title:   "Our Services",
		File:    "services.html",
		Content: template.HTML("<div class='card'>Hello</div>"),
	})
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "<title>Acme &amp; Sons — Our Services</title>")
	assert.Contains(t, html, "<h1>Our Services</h1>")
	assert.Contains(t, html, `<link rel="icon" href="favicon.ico">`)
	assert.Contains(t, html, "<div class='card'>Hello</div>")
	assert.Contains(t, html, `<a href="services.html" aria-current="page">Services</a>`)
	assert.Contains(t, html, `<a href="contact.html">Contact</a>`)
	assert.Contains(t, html, "© 2025 — Auto-generated from structured data. Last updated: 2025-03-14 09:26 UTC")
	assert.NotContains(t, html, "application/ld+json")
}

func TestRenderBrandOnlyTitle(t *testing.T) {
	r, err := NewRenderer(WithClock(fixedClock))
	require.NoError(t, err)

	out, err := r.Render(PageData{Brand: "Acme", Favicon: "img/fav.png"})
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, "<title>Acme</title>")
	assert.Contains(t, html, "<h1>Acme</h1>")
	assert.Contains(t, html, `<link rel="icon" href="img/fav.png">`)
}

func TestRenderStructuredData(t *testing.T) {
	r, err := NewRenderer(WithClock(fixedClock))
	require.NoError(t, err)

	out, err := r.Render(PageData{
		Brand:          "Acme",
		Title:          "About",
		StructuredData: []byte(`{"@context":"https://schema.org","@type":"Organization","name":"Acme"}`),
	})
	require.NoError(t, err)
	assert.Contains(t, string(out),
		`<script type="application/ld+json">{"@context":"https://schema.org","@type":"Organization","name":"Acme"}</script>`)
}

func TestRenderIsStableForSameClock(t *testing.T) {
	r, err := NewRenderer(WithClock(fixedClock))
	require.NoError(t, err)
	data := PageData{Brand: "Acme", Title: "FAQs", Content: "<p>x</p>"}

	a, err := r.Render(data)
	require.NoError(t, err)
	b, err := r.Render(data)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTemplateOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("<title>{{ .DocumentTitle }}</title>{{ .Content }}"), 0o600))

	r, err := NewRenderer(WithTemplateFile(path), WithClock(fixedClock))
	require.NoError(t, err)
	out, err := r.Render(PageData{Brand: "Acme", Title: "Help", Content: "<p>x</p>"})
	require.NoError(t, err)
	assert.Equal(t, "<title>Acme — Help</title><p>x</p>", string(out))
}

func TestTemplateOverrideMissingFallsBack(t *testing.T) {
	r, err := NewRenderer(WithTemplateFile(filepath.Join(t.TempDir(), "missing.tmpl")))
	require.NoError(t, err)
	out, err := r.Render(PageData{Brand: "Acme"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "<!DOCTYPE html>")
}

func TestTemplateOverrideInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("{{ .Broken "), 0o600))
	_, err := NewRenderer(WithTemplateFile(path))
	require.Error(t, err)
}
