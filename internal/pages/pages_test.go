package pages

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagebuilder/internal/deploy"
	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
)

type fixedRepo string

func (f fixedRepo) Repository(context.Context) (string, error) {
	if f == "" {
		return "", deploy.ErrNoRepository
	}
	return string(f), nil
}

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func testEnv(root string, repo string) *Env {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEnv(root, nil, fixedRepo(repo), logger)
}

func assemble(t *testing.T, a Assembler, env *Env) Fragment {
	t.Helper()
	frag, err := a.Assemble(context.Background(), env)
	require.NoError(t, err)
	return frag
}

func TestAssemblersFollowPageOrder(t *testing.T) {
	as := Assemblers()
	require.Len(t, as, len(Order))
	for i, a := range as {
		assert.Equal(t, Order[i], a.Page())
	}
	assert.Equal(t, []string{
		"index.html", "about.html", "services.html", "testimonials.html",
		"faqs.html", "help.html", "contact.html",
	}, Files())
}

func TestEmptyRootDegradesToPlaceholders(t *testing.T) {
	env := testEnv(t.TempDir(), "acme/green-lawn-care")

	tests := []struct {
		assembler Assembler
		title     string
		text      string
	}{
		{ContactAssembler{}, "Contact Us", "Contact details are not available yet."},
		{ServicesAssembler{}, "Our Services", "No services have been published yet."},
		{TestimonialsAssembler{}, "Testimonials", "No testimonials have been published yet. Check back soon."},
		{FAQsAssembler{}, "Frequently Asked Questions", "No FAQs have been published yet."},
		{HelpAssembler{}, "Help Center", "No help articles have been published yet."},
	}
	for _, tt := range tests {
		t.Run(tt.assembler.Page().Name, func(t *testing.T) {
			frag := assemble(t, tt.assembler, env)
			assert.True(t, frag.Placeholder)
			assert.Equal(t, tt.title, frag.Title)
			assert.Contains(t, string(frag.HTML), tt.text)
			assert.Zero(t, frag.Items)
		})
	}

	about := assemble(t, AboutAssembler{}, env)
	assert.False(t, about.Placeholder)
	assert.Equal(t, "Green Lawn Care", about.Title)
	assert.Contains(t, string(about.HTML), "Green Lawn Care is a professional firm")
	assert.Contains(t, string(about.HTML), "<strong>Services offered:</strong> 0")

	index := assemble(t, IndexAssembler{}, env)
	assert.Equal(t, "Welcome to Green Lawn Care", index.Title)
	assert.Zero(t, index.Items)
}

func TestEmptyDirectoriesDegradeToPlaceholders(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{DirLocations, DirServices, DirFAQs, DirHelpArticles} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o750))
	}
	write(t, root, "services/broken.json", "{not json")
	write(t, root, "faqs/blank.yaml", "- question: \"\"\n  answer: nothing\n")
	write(t, root, "help-articles/notes.txt", "not markdown")
	env := testEnv(root, "acme/site")

	for _, a := range []Assembler{ContactAssembler{}, ServicesAssembler{}, FAQsAssembler{}, HelpAssembler{}} {
		frag := assemble(t, a, env)
		assert.True(t, frag.Placeholder, a.Page().Name)
	}
}

func TestAboutWithoutRepositoryUsesOurCompany(t *testing.T) {
	env := testEnv(t.TempDir(), "")
	frag := assemble(t, AboutAssembler{}, env)
	assert.Equal(t, "Our Company", frag.Title)
}

func TestIndexRequiresRepository(t *testing.T) {
	env := testEnv(t.TempDir(), "")
	_, err := IndexAssembler{}.Assemble(context.Background(), env)
	require.Error(t, err)
	assert.True(t, errors.Is(err, deploy.ErrNoRepository))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryDeploy))
}

func TestIndexListsSourceFiles(t *testing.T) {
	root := filepath.Join(t.TempDir(), "schemas")
	write(t, root, "services/b.yaml", "name: B\n")
	write(t, root, "services/a.json", `{"name": "A"}`)
	write(t, root, "help-articles/start.md", "# Start\n")
	write(t, root, "llm/site.llm", "data")
	write(t, root, "notes.txt", "skip me")
	write(t, root, ".hidden/secret.json", "{}")
	write(t, root, "organization/org.json", `{"name": "Acme"}`)
	env := testEnv(root, "acme/site")

	frag := assemble(t, IndexAssembler{}, env)
	assert.Equal(t, "Welcome to Acme", frag.Title)
	assert.Equal(t, 5, frag.Items)

	html := string(frag.HTML)
	assert.Contains(t, html, `href="https://raw.githubusercontent.com/acme/site/main/schemas/services/a.json"`)
	assert.Contains(t, html, ">services/a.json</a>")
	assert.Contains(t, html, ">llm/site.llm</a>")
	assert.Contains(t, html, `<h2 id="files">📁 All Schema Files</h2>`)
	assert.Contains(t, html, `href="#files"`)
	assert.NotContains(t, html, "notes.txt")
	assert.NotContains(t, html, "secret.json")
	assert.Less(t, strings.Index(html, "help-articles/start.md"), strings.Index(html, "services/a.json"))
	assert.Less(t, strings.Index(html, "services/a.json"), strings.Index(html, "services/b.yaml"))
}

func TestIndexHonorsBranchAndContentPath(t *testing.T) {
	root := t.TempDir()
	write(t, root, "faqs/q.yaml", "question: Why\n")
	env := testEnv(root, "acme/site")
	env.Branch = "gh-pages"
	env.ContentPath = "data/schemas"

	frag := assemble(t, IndexAssembler{}, env)
	assert.Contains(t, string(frag.HTML), "https://raw.githubusercontent.com/acme/site/gh-pages/data/schemas/faqs/q.yaml")
}

func TestContactPage(t *testing.T) {
	root := t.TempDir()
	write(t, root, "locations/main.yaml", `
locations:
  - name: Downtown Office
    contact_name: Pat
    streetAddress: 1 Main St
    city: Springfield
    state: IL
    postalCode: "62701"
    geo:
      latitude: 39.8
      longitude: -89
    sameAs: [a, b, c, d, e, f, g, h, i, j]
    contactPoint:
      telephone: "555-0100"
  - location_name: Uptown
    address: 9 Hill Rd
    email: uptown@acme.test
    website: https://uptown.acme.test
`)
	env := testEnv(root, "acme/site")

	frag := assemble(t, ContactAssembler{}, env)
	require.False(t, frag.Placeholder)
	assert.Equal(t, "Contact Us", frag.Title)
	assert.Equal(t, 2, frag.Items)

	html := string(frag.HTML)
	assert.Contains(t, html, "<h2>Quick Contact</h2>")
	assert.Contains(t, html, "<p><strong>Downtown Office</strong></p>")
	assert.Contains(t, html, `href="tel:555-0100"`)
	assert.Contains(t, html, `href="mailto:uptown@acme.test"`)
	assert.Contains(t, html, "<strong>Contact:</strong> Pat<br>")
	assert.Contains(t, html, "<strong>Address:</strong> 1 Main St Springfield, IL 62701<br>")
	assert.Contains(t, html, "<h3>Uptown</h3>")
	assert.Contains(t, html, "maps?q=39.8,-89")
	assert.Contains(t, html, "maps?q=9&#43;Hill&#43;Rd")
	assert.Contains(t, html, `>h</a>`)
	assert.NotContains(t, html, `>i</a>`)

	var ld []map[string]any
	require.NoError(t, json.Unmarshal(frag.StructuredData, &ld))
	require.Len(t, ld, 2)
	assert.Equal(t, "LocalBusiness", ld[0]["@type"])
	assert.Equal(t, "555-0100", ld[0]["telephone"])
	assert.Equal(t, "https://uptown.acme.test", ld[1]["url"])
}

func TestServicesPage(t *testing.T) {
	root := t.TempDir()
	write(t, root, "services/catalog.json", `{
  "services": [
    {"name": "Service", "keywords": ["tax planning", "audits", "payroll"], "featured": "yes",
     "features": ["Fast service", "fast service", "Friendly"], "service_areas": ["North", "South"], "price": "$100"},
    {"title": "Bookkeeping", "slug": "books", "summary": "Monthly books."}
  ]
}`)
	write(t, root, "services/item-3.yaml", "title: item 3\n")
	env := testEnv(root, "acme/site")

	frag := assemble(t, ServicesAssembler{}, env)
	require.False(t, frag.Placeholder)
	assert.Equal(t, 3, frag.Items)

	html := string(frag.HTML)
	assert.Contains(t, html, `<div class="card" id="tax-planning-audits">`)
	assert.Contains(t, html, `<h2>Tax Planning / Audits <span class="badge">Featured</span></h2>`)
	assert.Contains(t, html, "<li>Fast service</li><li>Friendly</li><li>Service areas: North, South</li>")
	assert.Contains(t, html, "<strong>Starting at:</strong> $100")
	assert.Contains(t, html, `<div class="card" id="books">`)
	assert.Contains(t, html, `href="#books"`)
	assert.Contains(t, html, "<p>Monthly books.</p>")
	assert.Contains(t, html, "<strong>Starting at:</strong> Contact for pricing")
	assert.Contains(t, html, "<h2>Item 3</h2>")
	assert.Equal(t, 1, strings.Count(html, "Featured"))
}

func TestTestimonialsPage(t *testing.T) {
	root := t.TempDir()
	write(t, root, "reviews/r.json", `[
  {"customer_name": "Ann", "entity_name": "Acme", "review_body": "Great work", "rating": 9, "date": "2024-05-01"},
  {"rating": "2"},
  {"author": "Bo", "quote": "Solid", "rating": "bad"}
]`)
	env := testEnv(root, "acme/site")

	frag := assemble(t, TestimonialsAssembler{}, env)
	require.False(t, frag.Placeholder)
	assert.Equal(t, 3, frag.Items)

	html := string(frag.HTML)
	assert.Contains(t, html, "<p>“Great work”</p>")
	assert.Contains(t, html, "— Ann, Acme")
	assert.Contains(t, html, "<small>2024-05-01</small>")
	assert.Contains(t, html, "★★★★★")
	assert.Contains(t, html, "— Anonymous")
	assert.Contains(t, html, "No review text provided.")
	assert.Contains(t, html, "★★☆☆☆")
	assert.Contains(t, html, "— Bo")
}

func TestFAQsPage(t *testing.T) {
	root := t.TempDir()
	write(t, root, "faqs/schema.json", `{
  "@type": "FAQPage",
  "mainEntity": [
    {"name": "Do you travel?", "acceptedAnswer": {"text": "Yes."}},
    {"name": "  "}
  ]
}`)
	write(t, root, "faqs/simple.yaml", "- question: Open on Sunday?\n  answer: No.\n")
	env := testEnv(root, "acme/site")

	frag := assemble(t, FAQsAssembler{}, env)
	require.False(t, frag.Placeholder)
	assert.Equal(t, 2, frag.Items)
	assert.Contains(t, string(frag.HTML), "Do you travel?</h3>")
	assert.Contains(t, string(frag.HTML), "<p>Yes.</p>")
	assert.Contains(t, string(frag.HTML), "Open on Sunday?</h3>")

	var ld faqPageLD
	require.NoError(t, json.Unmarshal(frag.StructuredData, &ld))
	assert.Equal(t, "FAQPage", ld.Type)
	require.Len(t, ld.MainEntity, 2)
	assert.Equal(t, "Yes.", ld.MainEntity[0].AcceptedAnswer.Text)
}

func TestHelpPage(t *testing.T) {
	root := t.TempDir()
	write(t, root, "help-articles/b-getting-started.md", "---\ntitle: Getting Started\n---\n## Step one\n\nInstall it.\n")
	write(t, root, "help-articles/a-billing-faq.md", "Pay by **card**.\n")
	write(t, root, "help-articles/c-broken.md", "---\ntitle: Broken: [\n---\nBody\n")
	env := testEnv(root, "acme/site")

	frag := assemble(t, HelpAssembler{}, env)
	require.False(t, frag.Placeholder)
	assert.Equal(t, 3, frag.Items)

	html := string(frag.HTML)
	assert.Contains(t, html, "<h2>A Billing Faq</h2>")
	assert.Contains(t, html, "<strong>card</strong>")
	assert.Contains(t, html, "<h2>Getting Started</h2>")
	assert.Contains(t, html, `<h2 id="b-getting-started-step-one">Step one</h2>`)
	assert.Contains(t, html, "<h2>Broken: [</h2>")
	assert.Less(t, strings.Index(html, "A Billing Faq"), strings.Index(html, "Getting Started"))
}

func TestHelpHeadingIDsAreUniqueAcrossArticles(t *testing.T) {
	root := t.TempDir()
	write(t, root, "help-articles/billing.md", "## Overview\n\nPay monthly.\n")
	write(t, root, "help-articles/setup.md", "## Overview\n\nPlug it in.\n")
	env := testEnv(root, "acme/site")

	html := string(assemble(t, HelpAssembler{}, env).HTML)
	assert.Contains(t, html, `<div class="card" id="billing">`)
	assert.Contains(t, html, `<h2 id="billing-overview">Overview</h2>`)
	assert.Contains(t, html, `<h2 id="setup-overview">Overview</h2>`)
	assert.Equal(t, 1, strings.Count(html, `id="billing-overview"`))
}

func TestAboutPage(t *testing.T) {
	root := t.TempDir()
	write(t, root, "organization/org.yaml", `
entity_name: Acme Plumbing
logo_url: img/logo.png
mission: Fix leaks
website: https://acme.test
same_as: [https://x.test/acme, https://y.test/acme]
`)
	write(t, root, "services/list.yaml", "- name: Repair\n- services:\n    - name: Install\n    - name: Inspect\n")
	write(t, root, "services/deep-clean.json", `{"name": "Service 2", "description": "Top to bottom."}`)
	write(t, root, "locations/a.json", `{"service_areas": ["Zeta", "Alpha"], "telephone": "555-0101"}`)
	write(t, root, "locations/b.json", `{"areas": "Beta, Alpha", "email_address": "hi@acme.test"}`)
	write(t, root, "reviews/r.yaml", "- rating: 5\n- rating: 4\n- rating: 0\n- rating: nope\n")
	env := testEnv(root, "acme/site")

	frag := assemble(t, AboutAssembler{}, env)
	assert.Equal(t, "Acme Plumbing", frag.Title)

	html := string(frag.HTML)
	assert.Contains(t, html, `<img src="img/logo.png" alt="Acme Plumbing"`)
	assert.Contains(t, html, "Acme Plumbing is a professional firm serving our community")
	assert.Contains(t, html, "<strong>Services offered:</strong> 4")
	assert.Contains(t, html, "<strong>Average rating:</strong> 4.5 ★★★★★")
	assert.Contains(t, html, "<strong>Service areas:</strong> Alpha, Beta, Zeta")
	assert.Contains(t, html, "<strong>Phone:</strong> 555-0101")
	assert.Contains(t, html, `href="mailto:hi@acme.test"`)
	assert.Contains(t, html, "<h2>Our Mission</h2>")
	assert.NotContains(t, html, "Our Vision")
	assert.Contains(t, html, `<a href="https://acme.test" target="_blank" rel="nofollow">Website</a>`)
	assert.Contains(t, html, ">https://y.test/acme</a>")
	assert.Contains(t, html, `<a href="contact.html">Contact us</a>`)

	var ld organizationLD
	require.NoError(t, json.Unmarshal(frag.StructuredData, &ld))
	assert.Equal(t, "Organization", ld.Type)
	assert.Equal(t, "Acme Plumbing", ld.Name)
	assert.Equal(t, []string{"https://x.test/acme", "https://y.test/acme"}, ld.SameAs)
	assert.Equal(t, []string{"Deep Clean", "Repair", "Install", "Inspect"}, ld.KnowsAbout)
}

func TestAssemblersAreDeterministic(t *testing.T) {
	root := t.TempDir()
	write(t, root, "services/s.json", `[{"name": "A"}, {"name": "B"}]`)
	write(t, root, "locations/l.json", `{"name": "HQ", "city": "Oslo"}`)
	env := testEnv(root, "acme/site")

	for _, a := range Assemblers() {
		first := assemble(t, a, env)
		second := assemble(t, a, env)
		assert.Equal(t, first, second, a.Page().Name)
	}
}
