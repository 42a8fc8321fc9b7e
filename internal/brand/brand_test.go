package brand

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRepo struct {
	repo string
	err  error
}

func (f fixedRepo) Repository(context.Context) (string, error) { return f.repo, f.err }

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestDiscoverFromOrganization(t *testing.T) {
	root := t.TempDir()
	write(t, root, "organization/b.json", `{"name": "Later"}`)
	write(t, root, "organization/a.yaml", "legal_name: Acme LLC\nlogo: img/logo.png\nfavicon_url: /fav.png\n")

	meta := NewDiscoverer(root, nil, nil).Discover(context.Background())
	assert.Equal(t, Meta{Name: "Acme LLC", Logo: "img/logo.png", Favicon: "/fav.png", Source: SourceOrganization}, meta)
}

func TestDiscoverSkipsEmptyOrganizationDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "organization"), 0o750))
	write(t, root, "company/c.json", `[{"brand": "Brandy"}]`)

	meta := NewDiscoverer(root, nil, nil).Discover(context.Background())
	assert.Equal(t, "Brandy", meta.Name)
	assert.Equal(t, SourceOrganization, meta.Source)
}

func TestDiscoverKeepsLogoWhenNameComesFromProbe(t *testing.T) {
	root := t.TempDir()
	write(t, root, "organization/org.json", `{"logo_url": "logo.svg"}`)
	write(t, root, "reviews/r.json", `[{"entity_name": "Reviewed Co", "rating": 5}]`)

	meta := NewDiscoverer(root, nil, nil).Discover(context.Background())
	assert.Equal(t, "Reviewed Co", meta.Name)
	assert.Equal(t, "logo.svg", meta.Logo)
	assert.Equal(t, SourceProbe, meta.Source)
}

func TestProbeUsesFirstFileWithData(t *testing.T) {
	root := t.TempDir()
	write(t, root, "services/a.json", "")
	write(t, root, "services/b.json", `{"title": "No name here"}`)
	write(t, root, "services/c.json", `{"name": "Ignored"}`)
	write(t, root, "locations/l.json", `{"organization": "From Locations"}`)

	meta := NewDiscoverer(root, nil, nil).Discover(context.Background())
	assert.Equal(t, "From Locations", meta.Name)
}

func TestDiscoverFromRepository(t *testing.T) {
	root := t.TempDir()
	meta := NewDiscoverer(root, nil, fixedRepo{repo: "acme/acme-tax-services"}).Discover(context.Background())
	assert.Equal(t, "Acme Tax Services", meta.Name)
	assert.Equal(t, SourceRepository, meta.Source)
}

func TestDiscoverDefault(t *testing.T) {
	root := t.TempDir()
	meta := NewDiscoverer(root, nil, fixedRepo{err: errors.New("none")}).Discover(context.Background())
	assert.Equal(t, Meta{Name: DefaultName, Source: SourceDefault}, meta)
}

func TestDiscoverIsNotCached(t *testing.T) {
	root := t.TempDir()
	d := NewDiscoverer(root, nil, nil)
	assert.Equal(t, DefaultName, d.Discover(context.Background()).Name)

	write(t, root, "business/b.json", `{"site_title": "Fresh"}`)
	assert.Equal(t, "Fresh", d.Discover(context.Background()).Name)
}

func TestOrganizationRecord(t *testing.T) {
	root := t.TempDir()
	write(t, root, "entity/e.json", `{"name": "E"}`)

	rec, path, ok := NewDiscoverer(root, nil, nil).OrganizationRecord(context.Background())
	require.True(t, ok)
	assert.Equal(t, "E", rec["name"])
	assert.Equal(t, filepath.Join(root, "entity", "e.json"), path)
}
