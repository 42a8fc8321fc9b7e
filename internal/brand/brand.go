// Package brand discovers the site-wide name, logo and favicon from the
// content root.
package brand

import (
	"context"
	"path/filepath"

	"git.home.luguber.info/inful/pagebuilder/internal/record"
	"git.home.luguber.info/inful/pagebuilder/internal/resolve"
	"git.home.luguber.info/inful/pagebuilder/internal/synth"
)

// DefaultName is used when nothing else names the site.
const DefaultName = "Site"

var (
	// OrganizationDirs are probed, in order, for the organization record.
	OrganizationDirs = []string{"organization", "organizations", "company", "entity", "business"}

	probeDirs = append(append([]string{}, OrganizationDirs...), "reviews", "services", "locations")

	orgNameKeys   = []string{"entity_name", "name", "legal_name", "brand", "site_title"}
	probeNameKeys = []string{"entity_name", "name", "legal_name", "brand", "company", "organization", "site_title"}
	logoKeys      = []string{"logo_url", "logo"}
	faviconKeys   = []string{"favicon", "favicon_url"}
)

// Source tells where the brand name was found.
type Source string

const (
	SourceOrganization Source = "organization"
	SourceProbe        Source = "probe"
	SourceRepository   Source = "repository"
	SourceDefault      Source = "default"
)

// Meta is the site branding. Logo and Favicon may be empty.
type Meta struct {
	Name    string
	Logo    string
	Favicon string
	Source  Source
}

// RepositoryResolver supplies the hosting repository identifier.
type RepositoryResolver interface {
	Repository(ctx context.Context) (string, error)
}

// Discoverer reads branding from the content root. It keeps no state between
// calls: every Discover reads the files again.
type Discoverer struct {
	root   string
	loader *record.Loader
	repo   RepositoryResolver
}

// NewDiscoverer creates a Discoverer. repo may be nil.
func NewDiscoverer(root string, loader *record.Loader, repo RepositoryResolver) *Discoverer {
	if loader == nil {
		loader = record.NewLoader(nil)
	}
	return &Discoverer{root: root, loader: loader, repo: repo}
}

// OrganizationRecord returns the first record of the first record file in the
// first organization directory that has one, with that file's path.
func (d *Discoverer) OrganizationRecord(ctx context.Context) (record.Record, string, bool) {
	for _, dir := range OrganizationDirs {
		if ctx.Err() != nil {
			return nil, "", false
		}
		files, err := record.ListFiles(filepath.Join(d.root, dir))
		if err != nil || len(files) == 0 {
			continue
		}
		rec, ok := record.First(d.loader.Load(files[0]))
		return rec, files[0], ok
	}
	return nil, "", false
}

// Discover resolves the site branding.
func (d *Discoverer) Discover(ctx context.Context) Meta {
	var meta Meta

	if org, _, ok := d.OrganizationRecord(ctx); ok {
		meta.Name = resolve.FirstOf(org, orgNameKeys...)
		meta.Logo = resolve.FirstOf(org, logoKeys...)
		meta.Favicon = resolve.FirstOf(org, faviconKeys...)
		if meta.Name != "" {
			meta.Source = SourceOrganization
			return meta
		}
	}

	if name := d.probeName(); name != "" {
		meta.Name, meta.Source = name, SourceProbe
		return meta
	}

	if d.repo != nil {
		if repo, err := d.repo.Repository(ctx); err == nil {
			if name := synth.NameFromRepository(repo); name != "" {
				meta.Name, meta.Source = name, SourceRepository
				return meta
			}
		}
	}

	meta.Name, meta.Source = DefaultName, SourceDefault
	return meta
}

// probeName looks at the first record of the first file with data in each
// probe directory.
func (d *Discoverer) probeName() string {
	for _, dir := range probeDirs {
		files, err := record.ListFiles(filepath.Join(d.root, dir))
		if err != nil {
			continue
		}
		for _, path := range files {
			items := d.loader.Load(path)
			if len(items) == 0 {
				continue
			}
			if rec, ok := record.First(items); ok {
				if name := resolve.FirstOf(rec, probeNameKeys...); name != "" {
					return name
				}
			}
			break
		}
	}
	return ""
}
