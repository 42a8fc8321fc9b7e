package linkverify

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
)

// DefaultIgnore lists optional assets the page layout links to but a build
// never produces.
var DefaultIgnore = []string{"favicon.ico", "icons/*", "site.webmanifest"}

// ErrBrokenLinks is returned by callers that treat broken links as failure.
var ErrBrokenLinks = errors.New("broken internal links")

// Verifier checks internal links of the HTML files in one directory.
type Verifier struct {
	dir    string
	ignore []string
	logger *slog.Logger
}

// NewVerifier creates a Verifier for dir. Without ignore patterns
// DefaultIgnore applies. Patterns use path.Match syntax against
// slash-separated paths relative to dir.
func NewVerifier(dir string, logger *slog.Logger, ignore ...string) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	if len(ignore) == 0 {
		ignore = DefaultIgnore
	}
	return &Verifier{dir: dir, ignore: ignore, logger: logger}
}

// Verify checks files, given as paths relative to the directory. With no
// files every .html file directly inside the directory is checked. External
// links are counted as skipped, never fetched.
func (v *Verifier) Verify(ctx context.Context, files []string) (*Result, error) {
	if len(files) == 0 {
		found, err := filepath.Glob(filepath.Join(v.dir, "*.html"))
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			files = append(files, filepath.Base(f))
		}
	}
	sort.Strings(files)

	docs := map[string]*Document{}
	result := &Result{}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		page := filepath.ToSlash(file)
		doc, err := v.document(docs, page)
		if err != nil {
			return result, err
		}
		result.Pages++

		for _, link := range doc.Links {
			if !link.IsInternal {
				result.Skipped++
				continue
			}
			reason, checked := v.check(docs, page, doc, link)
			if !checked {
				result.Skipped++
				continue
			}
			result.Links++
			if reason != "" {
				broken := BrokenLink{
					Page:      page,
					URL:       link.URL,
					Tag:       link.Tag,
					Attribute: link.Attribute,
					Line:      link.Line,
					Reason:    reason,
				}
				result.Broken = append(result.Broken, broken)
				v.logger.Warn("Broken internal link",
					logfields.Page(page), logfields.URL(link.URL), slog.String("reason", reason))
			}
		}
	}

	v.logger.Info("Link verification finished",
		logfields.Count(result.Pages), slog.Int("links", result.Links), slog.Int("broken", len(result.Broken)))
	return result, nil
}

// check returns a reason when link is broken. checked is false for links
// that match an ignore pattern.
func (v *Verifier) check(docs map[string]*Document, page string, doc *Document, link *Link) (reason string, checked bool) {
	u, err := url.Parse(link.URL)
	if err != nil {
		return "unparseable URL", true
	}

	target := page
	targetDoc := doc
	if u.Path != "" {
		target = path.Clean(path.Join(path.Dir(page), u.Path))
		if target == ".." || strings.HasPrefix(target, "../") {
			return "target outside output directory", true
		}
		if v.ignored(target) {
			return "", false
		}

		info, err := os.Stat(filepath.Join(v.dir, filepath.FromSlash(target)))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "target not found", true
			}
			return err.Error(), true
		}
		if info.IsDir() {
			target = path.Join(target, "index.html")
			if _, err := os.Stat(filepath.Join(v.dir, filepath.FromSlash(target))); err != nil {
				return "directory has no index.html", true
			}
		}
		targetDoc = nil
	}

	if u.Fragment == "" || !strings.EqualFold(path.Ext(target), ".html") {
		return "", true
	}
	if targetDoc == nil {
		targetDoc, err = v.document(docs, target)
		if err != nil {
			return err.Error(), true
		}
	}
	if !targetDoc.HasID(u.Fragment) {
		return "anchor not found", true
	}
	return "", true
}

func (v *Verifier) document(docs map[string]*Document, page string) (*Document, error) {
	if doc, ok := docs[page]; ok {
		return doc, nil
	}
	doc, err := ParseFile(filepath.Join(v.dir, filepath.FromSlash(page)))
	if err != nil {
		return nil, err
	}
	docs[page] = doc
	return doc, nil
}

func (v *Verifier) ignored(target string) bool {
	for _, pattern := range v.ignore {
		if ok, _ := path.Match(pattern, target); ok {
			return true
		}
	}
	return false
}
