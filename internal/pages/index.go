package pages

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/pagebuilder/internal/deploy"
	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/util/sets"
)

// indexedExtensions are the source file types listed on the home page.
var indexedExtensions = sets.New(".json", ".yaml", ".yml", ".md", ".llm")

// IndexAssembler renders the home page: quick links plus a list of every
// source file with its raw URL in the hosting repository.
type IndexAssembler struct{}

func (IndexAssembler) Page() Page { return Index }

type quickLink struct {
	Label string
	Href  string
}

var quickLinks = []quickLink{
	{Label: "About Us", Href: About.File},
	{Label: "Our Services", Href: Services.File},
	{Label: "Testimonials", Href: Testimonials.File},
	{Label: "FAQs", Href: FAQs.File},
	{Label: "Help Center", Href: Help.File},
	{Label: "Contact Us", Href: Contact.File},
	{Label: "Browse All Schema Files", Href: "#files"},
}

type fileLink struct {
	Path string
	URL  string
}

func (IndexAssembler) Assemble(ctx context.Context, env *Env) (Fragment, error) {
	meta := env.Brand.Discover(ctx)

	if env.Repo == nil {
		return Fragment{}, ferrors.DeployError("repository identifier required for the file index").
			WithCause(deploy.ErrNoRepository).
			Build()
	}
	repo, err := env.Repo.Repository(ctx)
	if err != nil {
		return Fragment{}, ferrors.WrapError(err, ferrors.CategoryDeploy, "repository identifier required for the file index").
			WithContext("page", Index.Name).
			Build()
	}

	branch := env.Branch
	if branch == "" {
		branch = deploy.DefaultBranch
	}
	base := deploy.RawBaseURL(repo, branch)
	env.logger().Debug("Raw file base URL", logfields.URL(base))

	files, err := indexFiles(env.Root)
	if err != nil {
		return Fragment{}, ferrors.FileSystemError("cannot list content files").WithCause(err).
			WithContext("root", env.Root).
			Build()
	}

	prefix := contentPath(env)
	links := make([]fileLink, len(files))
	for i, rel := range files {
		links[i] = fileLink{Path: rel, URL: base + "/" + joinURLPath(prefix, rel)}
	}

	data := struct {
		Links []quickLink
		Files []fileLink
	}{Links: quickLinks, Files: links}
	html, err := renderFragment("index", data)
	if err != nil {
		return Fragment{}, err
	}

	env.logger().Info("Index page assembled", logfields.Items(len(links)), logfields.Repository(repo))
	return Fragment{Title: "Welcome to " + meta.Name, HTML: html, Items: len(links)}, nil
}

// indexFiles walks root and returns the slash-separated paths, relative to
// root, of every listed source file. Hidden files and directories are skipped.
func indexFiles(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !indexedExtensions.Has(strings.ToLower(filepath.Ext(d.Name()))) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(out)
	return out, err
}

func contentPath(env *Env) string {
	if env.ContentPath != "" {
		return env.ContentPath
	}
	return filepath.Base(filepath.Clean(env.Root))
}

func joinURLPath(prefix, rel string) string {
	prefix = strings.Trim(filepath.ToSlash(prefix), "/")
	if prefix == "" || prefix == "." {
		return rel
	}
	return prefix + "/" + rel
}
