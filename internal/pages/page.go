package pages

import (
	"context"
	"html/template"
	"log/slog"

	"git.home.luguber.info/inful/pagebuilder/internal/brand"
	"git.home.luguber.info/inful/pagebuilder/internal/markdown"
	"git.home.luguber.info/inful/pagebuilder/internal/record"
	"git.home.luguber.info/inful/pagebuilder/internal/resolve"
	"git.home.luguber.info/inful/pagebuilder/internal/synth"
)

// Page identifies one output page.
type Page struct {
	Name string
	File string
}

var (
	Index        = Page{Name: "index", File: "index.html"}
	About        = Page{Name: "about", File: "about.html"}
	Services     = Page{Name: "services", File: "services.html"}
	Testimonials = Page{Name: "testimonials", File: "testimonials.html"}
	FAQs         = Page{Name: "faqs", File: "faqs.html"}
	Help         = Page{Name: "help", File: "help.html"}
	Contact      = Page{Name: "contact", File: "contact.html"}
)

// Order is the fixed build order.
var Order = []Page{Index, About, Services, Testimonials, FAQs, Help, Contact}

// Files returns the output file names in build order.
func Files() []string {
	out := make([]string, len(Order))
	for i, p := range Order {
		out[i] = p.File
	}
	return out
}

// Content subdirectories read by the assemblers.
const (
	DirServices     = "services"
	DirLocations    = "locations"
	DirReviews      = "reviews"
	DirFAQs         = "faqs"
	DirHelpArticles = "help-articles"
)

// Fragment is the inner content of a page, before the shell wraps it.
type Fragment struct {
	Title string
	HTML  template.HTML
	// Placeholder marks a fragment produced because no usable data existed.
	Placeholder bool
	// StructuredData is an optional JSON-LD document for the page head.
	StructuredData []byte
	// Items is the number of records or files rendered.
	Items int
}

// Assembler builds the fragment for one page.
type Assembler interface {
	Page() Page
	Assemble(ctx context.Context, env *Env) (Fragment, error)
}

// Env is everything an assembler may read.
type Env struct {
	// Root is the content root directory.
	Root string
	// ContentPath is the content root's path inside the repository, used to
	// build raw file URLs. Defaults to the base name of Root.
	ContentPath string
	// Branch is the branch raw file URLs point at.
	Branch string

	Loader   *record.Loader
	Resolver *resolve.Resolver
	Synth    *synth.Synthesizer
	Brand    *brand.Discoverer
	Repo     brand.RepositoryResolver
	Markdown *markdown.Renderer
	Logger   *slog.Logger
}

// NewEnv wires an Env for root with default collaborators. A nil table
// means the default alias table; repo may be nil.
func NewEnv(root string, table *resolve.AliasTable, repo brand.RepositoryResolver, logger *slog.Logger) *Env {
	if logger == nil {
		logger = slog.Default()
	}
	loader := record.NewLoader(logger)
	r := resolve.NewResolver(table)
	return &Env{
		Root:     root,
		Loader:   loader,
		Resolver: r,
		Synth:    synth.New(r),
		Brand:    brand.NewDiscoverer(root, loader, repo),
		Repo:     repo,
		Markdown: markdown.NewRenderer(markdown.Options{HeadingIDs: true}),
		Logger:   logger,
	}
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// Assemblers returns one assembler per page, in build order.
func Assemblers() []Assembler {
	return []Assembler{
		IndexAssembler{},
		AboutAssembler{},
		ServicesAssembler{},
		TestimonialsAssembler{},
		FAQsAssembler{},
		HelpAssembler{},
		ContactAssembler{},
	}
}

func placeholder(title, message string) Fragment {
	return Fragment{
		Title:       title,
		HTML:        template.HTML("<p>" + template.HTMLEscapeString(message) + "</p>"), // #nosec G203 -- escaped above
		Placeholder: true,
	}
}
