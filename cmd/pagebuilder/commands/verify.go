package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"git.home.luguber.info/inful/pagebuilder/internal/linkverify"
)

// VerifyCmd implements the 'verify' command.
type VerifyCmd struct {
	Dir   string   `arg:"" optional:"" help:"Directory holding the generated pages (default from config)"`
	Pages []string `short:"p" name:"page" help:"Only check these pages, relative to the directory"`
	JSON  bool     `name:"json" help:"Print the result as JSON"`
}

func (v *VerifyCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	dir := v.Dir
	if dir == "" {
		dir = cfg.Output
	}

	result, verr := verifyLinks(g.ctx(), dir, v.Pages, g.logger())
	if verr != nil && !errors.Is(verr, linkverify.ErrBrokenLinks) {
		return verr
	}

	out := g.stdout()
	if v.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
		return verr
	}

	for _, b := range result.Broken {
		_, _ = fmt.Fprintf(out, "%s: %s <%s %s> %s\n", b.Page, b.URL, b.Tag, b.Attribute, b.Reason)
	}
	_, _ = fmt.Fprintf(out, "Checked %d links in %d pages (%d skipped), %d broken\n",
		result.Links, result.Pages, result.Skipped, len(result.Broken))
	return verr
}
