package build

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/pagebuilder/internal/brand"
	"git.home.luguber.info/inful/pagebuilder/internal/manifest"
	"git.home.luguber.info/inful/pagebuilder/internal/pages"
)

// contentDirs lists every content subdirectory a build may read.
func contentDirs() []string {
	dirs := append([]string{}, brand.OrganizationDirs...)
	return append(dirs, pages.DirServices, pages.DirLocations, pages.DirReviews, pages.DirFAQs, pages.DirHelpArticles)
}

// collectInputs fingerprints the files of every content subdirectory.
func collectInputs(root string) (manifest.Inputs, error) {
	inputs := manifest.Inputs{ContentRoot: root}
	for _, name := range contentDirs() {
		dir := manifest.DirInput{Name: name}
		entries, err := os.ReadDir(filepath.Join(root, name))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				inputs.Dirs = append(inputs.Dirs, dir)
				continue
			}
			return inputs, err
		}
		dir.Exists = true
		for _, e := range entries {
			if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			fp, err := manifest.FingerprintFile(filepath.Join(root, name, e.Name()))
			if err != nil {
				return inputs, err
			}
			dir.Files = append(dir.Files, manifest.FileInput{Path: name + "/" + e.Name(), Fingerprint: fp})
		}
		inputs.Dirs = append(inputs.Dirs, dir)
	}
	return inputs, nil
}
