package pages

import (
	"context"
	"path/filepath"

	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/record"
	"git.home.luguber.info/inful/pagebuilder/internal/resolve"
)

const (
	contactTitle       = "Contact Us"
	contactPlaceholder = "Contact details are not available yet."
	maxSocialLinks     = 8
)

// ContactAssembler renders one card per location plus a quick contact card.
type ContactAssembler struct{}

func (ContactAssembler) Page() Page { return Contact }

type quickContact struct {
	Name  string
	Phone string
	Email string
}

type locationCard struct {
	Name    string
	Person  string
	Address string
	Hours   string
	Website string
	Socials []string
	Map     string
}

func (ContactAssembler) Assemble(ctx context.Context, env *Env) (Fragment, error) {
	dir := filepath.Join(env.Root, DirLocations)
	res := env.Loader.LoadDir(dir, record.WithContainer("locations"))
	if !res.Exists {
		env.logger().Info("Locations directory not found, using placeholder", logfields.Dir(dir))
		return placeholder(contactTitle, contactPlaceholder), nil
	}

	r := env.Resolver
	var (
		quick     quickContact
		cards     []locationCard
		documents []localBusinessLD
		recCount  int
	)
	for _, loc := range res.Records() {
		if ctx.Err() != nil {
			return Fragment{}, ctx.Err()
		}
		recCount++

		card := locationCard{
			Name:    resolve.FirstNonEmpty(r.String(loc, resolve.EntityName), loc["location_name"], "Location"),
			Person:  r.String(loc, resolve.ContactPerson),
			Address: env.Synth.Address(loc["address"], loc),
			Hours:   env.Synth.Hours(loc),
			Website: r.String(loc, resolve.Website),
			Socials: r.List(loc, resolve.SameAs),
		}
		card.Socials = card.Socials[:min(maxSocialLinks, len(card.Socials))]
		card.Map = env.Synth.MapLink(loc, card.Address)

		phone := r.String(loc, resolve.Phone)
		email := r.String(loc, resolve.Email)
		if quick.Name == "" {
			quick.Name = card.Name
		}
		if quick.Phone == "" {
			quick.Phone = phone
		}
		if quick.Email == "" {
			quick.Email = email
		}

		cards = append(cards, card)
		documents = append(documents, localBusinessLD{
			Context:      schemaContext,
			Type:         "LocalBusiness",
			Name:         card.Name,
			Address:      card.Address,
			Telephone:    phone,
			Email:        email,
			URL:          card.Website,
			OpeningHours: card.Hours,
			HasMap:       card.Map,
			SameAs:       card.Socials,
		})
	}

	if len(cards) == 0 {
		env.logger().Warn("No usable contact info found, using placeholder",
			logfields.Dir(dir), logfields.Count(res.Scanned), logfields.Records(recCount))
		return placeholder(contactTitle, contactPlaceholder), nil
	}

	data := struct {
		Quick     *quickContact
		Locations []locationCard
	}{Locations: cards}
	if quick != (quickContact{}) {
		data.Quick = &quick
	}

	html, err := renderFragment("contact", data)
	if err != nil {
		return Fragment{}, err
	}
	ld, err := structuredData(documents)
	if err != nil {
		return Fragment{}, err
	}

	env.logger().Info("Contact page assembled",
		logfields.Items(len(cards)), logfields.Count(res.Scanned), logfields.Records(recCount))
	return Fragment{Title: contactTitle, HTML: html, StructuredData: ld, Items: len(cards)}, nil
}
