package pages

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/pagebuilder/internal/frontmatter"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/markdown"
	"git.home.luguber.info/inful/pagebuilder/internal/synth"
)

const (
	helpTitle       = "Help Center"
	helpPlaceholder = "No help articles have been published yet."
)

// HelpAssembler renders every Markdown article in the help directory.
type HelpAssembler struct{}

func (HelpAssembler) Page() Page { return Help }

type helpArticle struct {
	ID    string
	Title string
	Body  template.HTML
}

// listArticles returns the Markdown files directly inside dir, sorted.
func listArticles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ".md") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

func (a HelpAssembler) Assemble(ctx context.Context, env *Env) (Fragment, error) {
	dir := filepath.Join(env.Root, DirHelpArticles)
	files, err := listArticles(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			env.logger().Info("Help articles directory not found, using placeholder", logfields.Dir(dir))
		} else {
			env.logger().Warn("Cannot read help articles directory", logfields.Dir(dir), logfields.Error(err))
		}
		return placeholder(helpTitle, helpPlaceholder), nil
	}

	md := env.Markdown
	if md == nil {
		md = markdown.NewRenderer(markdown.Options{})
	}

	var articles []helpArticle
	for _, path := range files {
		if ctx.Err() != nil {
			return Fragment{}, ctx.Err()
		}
		article, ok := a.article(env, md, path)
		if ok {
			articles = append(articles, article)
		}
	}

	if len(articles) == 0 {
		env.logger().Warn("No help articles found, using placeholder", logfields.Dir(dir))
		return placeholder(helpTitle, helpPlaceholder), nil
	}

	html, err := renderFragment("help", articles)
	if err != nil {
		return Fragment{}, err
	}
	env.logger().Info("Help page assembled", logfields.Items(len(articles)))
	return Fragment{Title: helpTitle, HTML: html, Items: len(articles)}, nil
}

func (HelpAssembler) article(env *Env, md *markdown.Renderer, path string) (helpArticle, bool) {
	// #nosec G304 -- path comes from a listing of the content root
	content, err := os.ReadFile(path)
	if err != nil {
		env.logger().Warn("Cannot read help article", logfields.Path(path), logfields.Error(err))
		return helpArticle{}, false
	}

	doc, err := frontmatter.Parse(content)
	if err != nil {
		env.logger().Warn("Help article front matter is malformed", logfields.Path(path), logfields.Error(err))
	}

	title := doc.Title()
	if title == "" {
		title = synth.TitleFromFilename(path)
	}

	id := synth.Slugify(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	body, err := md.RenderWithIDPrefix(doc.Body, id)
	if err != nil {
		env.logger().Warn("Cannot render help article", logfields.Path(path), logfields.Error(err))
		return helpArticle{}, false
	}
	return helpArticle{ID: id, Title: title, Body: body}, true
}
