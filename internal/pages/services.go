package pages

import (
	"context"
	"path/filepath"

	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/record"
	"git.home.luguber.info/inful/pagebuilder/internal/resolve"
	"git.home.luguber.info/inful/pagebuilder/internal/synth"
)

const (
	servicesTitle       = "Our Services"
	servicesPlaceholder = "No services have been published yet."
)

// ServicesAssembler renders one card per service.
type ServicesAssembler struct{}

func (ServicesAssembler) Page() Page { return Services }

type serviceCard struct {
	Slug        string
	Title       string
	Featured    bool
	Description string
	Bullets     []string
	Price       string
}

// expandServices replaces every record that carries a "services" list with
// the items of that list.
func expandServices(items []any) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		if rec, ok := item.(map[string]any); ok {
			if nested, ok := rec["services"].([]any); ok {
				out = append(out, nested...)
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

func (ServicesAssembler) Assemble(ctx context.Context, env *Env) (Fragment, error) {
	dir := filepath.Join(env.Root, DirServices)
	res := env.Loader.LoadDir(dir)
	if !res.Exists {
		env.logger().Info("Services directory not found, using placeholder", logfields.Dir(dir))
		return placeholder(servicesTitle, servicesPlaceholder), nil
	}

	var (
		cards    []serviceCard
		polished int
	)
	for _, file := range res.Files {
		if ctx.Err() != nil {
			return Fragment{}, ctx.Err()
		}
		for _, svc := range record.Records(expandServices(file.Items)) {
			title := synth.ServiceTitle(svc, file.Path)
			if title.Polished {
				polished++
			}
			slug := resolve.FirstOf(svc, "slug")
			if slug == "" {
				slug = synth.Slugify(title.Value)
			}
			cards = append(cards, serviceCard{
				Slug:        slug,
				Title:       title.Value,
				Featured:    resolve.Truthy(svc["featured"]) || resolve.Truthy(svc["is_featured"]),
				Description: synth.Description(svc),
				Bullets:     synth.Bullets(svc),
				Price:       synth.Price(svc),
			})
		}
	}

	if len(cards) == 0 {
		env.logger().Warn("No valid services found, using placeholder", logfields.Dir(dir), logfields.Count(res.Scanned))
		return placeholder(servicesTitle, servicesPlaceholder), nil
	}

	html, err := renderFragment("services", cards)
	if err != nil {
		return Fragment{}, err
	}
	if polished > 0 {
		env.logger().Info("Polished placeholder service titles", logfields.Count(polished))
	}
	env.logger().Info("Services page assembled", logfields.Items(len(cards)), logfields.Count(len(res.Files)))
	return Fragment{Title: servicesTitle, HTML: html, Items: len(cards)}, nil
}
