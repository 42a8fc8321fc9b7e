package pages

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/record"
	"git.home.luguber.info/inful/pagebuilder/internal/resolve"
	"git.home.luguber.info/inful/pagebuilder/internal/synth"
	"git.home.luguber.info/inful/pagebuilder/internal/util/sets"
)

const (
	aboutFallbackTitle = "About Us"
	fallbackOrgName    = "Our Company"
	maxServiceAreas    = 8
	maxSameAsLinks     = 12
)

// AboutAssembler renders the organization profile together with facts
// gathered from the services, locations and reviews directories. It never
// produces a placeholder: without an organization record it describes a
// synthesized one.
type AboutAssembler struct{}

func (AboutAssembler) Page() Page { return About }

// facts are the cross-directory aggregates shown on the about page.
type facts struct {
	Services []string
	Areas    []string
	Phone    string
	Email    string
	Ratings  int
	Average  float64
	records  int
}

func (f facts) rating() string {
	if f.Ratings == 0 {
		return ""
	}
	return fmt.Sprintf("%.1f %s", f.Average, synth.Stars(synth.RoundStars(f.Average)))
}

type aboutView struct {
	Name         string
	Logo         string
	Description  string
	ServiceCount int
	Rating       string
	Areas        string
	Phone        string
	Email        string
	Mission      string
	Vision       string
	Website      string
	SameAs       []string
}

func (a AboutAssembler) Assemble(ctx context.Context, env *Env) (Fragment, error) {
	org, source, ok := env.Brand.OrganizationRecord(ctx)
	if !ok {
		org = a.fallbackOrganization(ctx, env)
	}
	f := gatherFacts(env)

	name := resolve.FirstNonEmpty(resolve.FirstOf(org, "entity_name", "name"), aboutFallbackTitle)
	description := resolve.FirstOf(org, "description")
	if description == "" {
		description = name + " is a professional firm serving our community with high-quality services and a client-first approach."
	}
	sameAs := resolve.AsList(resolve.FirstPresent(org, "sameAs", "same_as"))
	sameAs = sameAs[:min(maxSameAsLinks, len(sameAs))]

	v := aboutView{
		Name:         name,
		Logo:         resolve.FirstOf(org, "logo_url", "logo"),
		Description:  description,
		ServiceCount: len(f.Services),
		Rating:       f.rating(),
		Areas:        strings.Join(f.Areas, ", "),
		Phone:        f.Phone,
		Email:        f.Email,
		Mission:      resolve.FirstOf(org, "mission"),
		Vision:       resolve.FirstOf(org, "vision"),
		Website:      resolve.FirstOf(org, "website", "url"),
		SameAs:       sameAs,
	}

	html, err := renderFragment("about", v)
	if err != nil {
		return Fragment{}, err
	}
	ld, err := structuredData(organizationLD{
		Context:     schemaContext,
		Type:        "Organization",
		Name:        v.Name,
		Description: v.Description,
		URL:         v.Website,
		Logo:        v.Logo,
		Telephone:   v.Phone,
		Email:       v.Email,
		SameAs:      v.SameAs,
		KnowsAbout:  f.Services,
	})
	if err != nil {
		return Fragment{}, err
	}

	if ok {
		env.logger().Info("About page assembled", logfields.Path(source), logfields.Records(f.records))
	} else {
		env.logger().Info("About page assembled from synthesized organization", logfields.Records(f.records))
	}
	return Fragment{Title: name, HTML: html, StructuredData: ld, Items: f.records}, nil
}

func (AboutAssembler) fallbackOrganization(ctx context.Context, env *Env) record.Record {
	name := fallbackOrgName
	if env.Repo != nil {
		if repo, err := env.Repo.Repository(ctx); err == nil {
			if n := synth.NameFromRepository(repo); n != "" {
				name = n
			}
		}
	}
	return record.Record{"entity_name": name, "name": name}
}

func gatherFacts(env *Env) facts {
	var f facts
	r := env.Resolver

	services := env.Loader.LoadDir(filepath.Join(env.Root, DirServices))
	for _, file := range services.Files {
		for _, rec := range record.Records(expandServices(file.Items)) {
			f.Services = append(f.Services, synth.ShortTitle(rec, file.Path))
			f.records++
		}
	}

	areas := sets.New[string]()
	locations := env.Loader.LoadDir(filepath.Join(env.Root, DirLocations), record.WithContainer("locations"))
	for _, loc := range locations.Records() {
		f.records++
		for _, area := range resolve.AsList(resolve.FirstPresent(loc, "service_areas", "areas")) {
			areas.Add(area)
		}
		if f.Phone == "" {
			f.Phone = r.String(loc, resolve.Phone)
		}
		if f.Email == "" {
			f.Email = r.String(loc, resolve.Email)
		}
	}
	sorted := sets.Sorted(areas)
	f.Areas = sorted[:min(maxServiceAreas, len(sorted))]

	var sum float64
	for _, rev := range env.Loader.LoadDir(filepath.Join(env.Root, DirReviews)).Records() {
		f.records++
		if v, ok := synth.RatingValue(rev["rating"]); ok {
			sum += v
			f.Ratings++
		}
	}
	if f.Ratings > 0 {
		f.Average = sum / float64(f.Ratings)
	}
	return f
}
