// Package linkverify checks that the links between generated pages resolve
// to files and anchors that exist in the output directory.
package linkverify

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
)

// Link represents an extracted link from HTML content.
type Link struct {
	URL        string // The URL or path
	Text       string // Link text/title
	Tag        string // HTML tag (a, img, script, link, iframe, source)
	Attribute  string // Attribute containing the link (href, src)
	IsInternal bool   // True if link stays inside the site
	Line       int    // Ordinal of the element in the document
}

// Document is the link-relevant content of one HTML file.
type Document struct {
	Links []*Link
	// IDs holds every id attribute, the targets of "#fragment" links.
	IDs map[string]struct{}
}

// HasID reports whether the document declares id.
func (d *Document) HasID(id string) bool {
	_, ok := d.IDs[id]
	return ok
}

// ParseFile extracts links and ids from an HTML file.
func ParseFile(htmlPath string) (*Document, error) {
	file, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return nil, errors.FileSystemError("failed to open HTML file").WithCause(err).WithContext("html_path", htmlPath).Build()
	}
	defer func() {
		_ = file.Close() // Ignore close errors on read-only operation
	}()

	return Parse(file)
}

// Parse extracts links and ids from an HTML reader.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.ValidationError("failed to parse HTML").WithCause(err).Build()
	}

	doc := &Document{IDs: map[string]struct{}{}}
	var lineNum int

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			lineNum++
			if id := getAttr(n, "id"); id != "" {
				doc.IDs[id] = struct{}{}
			}
			extractElementLinks(n, &doc.Links, lineNum)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(root)
	return doc, nil
}

// extractElementLinks extracts links from a single HTML element.
func extractElementLinks(n *html.Node, links *[]*Link, lineNum int) {
	var attr, text string
	switch n.Data {
	case "a":
		attr, text = "href", extractText(n)
	case "link":
		attr, text = "href", getAttr(n, "rel")
	case "img":
		attr, text = "src", getAttr(n, "alt")
	case "script", "iframe", "source", "video", "audio":
		attr = "src"
	default:
		return
	}

	target := strings.TrimSpace(getAttr(n, attr))
	if target == "" {
		return
	}
	*links = append(*links, &Link{
		URL:        target,
		Text:       text,
		Tag:        n.Data,
		Attribute:  attr,
		IsInternal: isInternalLink(target),
		Line:       lineNum,
	})
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// extractText extracts text content from an HTML node and its children.
func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractText(c))
	}

	return strings.TrimSpace(text.String())
}

// isInternalLink reports whether a URL points inside the generated site:
// a relative path or a same-page anchor.
func isInternalLink(linkURL string) bool {
	if hasSpecialScheme(linkURL) {
		return false
	}
	u, err := url.Parse(linkURL)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

func hasSpecialScheme(linkURL string) bool {
	lower := strings.ToLower(linkURL)
	for _, p := range []string{"mailto:", "tel:", "javascript:", "data:"} {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// FilterLinks filters links based on criteria.
func FilterLinks(links []*Link, includeInternal, includeExternal bool) []*Link {
	var filtered []*Link
	for _, link := range links {
		if link.IsInternal && includeInternal {
			filtered = append(filtered, link)
		} else if !link.IsInternal && includeExternal {
			filtered = append(filtered, link)
		}
	}
	return filtered
}
