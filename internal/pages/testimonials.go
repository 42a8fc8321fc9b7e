package pages

import (
	"context"
	"path/filepath"

	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/resolve"
	"git.home.luguber.info/inful/pagebuilder/internal/synth"
)

const (
	testimonialsTitle = "Testimonials"
	anonymousAuthor   = "Anonymous"
	missingReviewText = "No review text provided."
)

// TestimonialsAssembler renders one quote per review. With no reviews it
// still renders a card saying so.
type TestimonialsAssembler struct{}

func (TestimonialsAssembler) Page() Page { return Testimonials }

type testimonial struct {
	Quote  string
	Author string
	Entity string
	Date   string
	Stars  string
}

func (TestimonialsAssembler) Assemble(ctx context.Context, env *Env) (Fragment, error) {
	dir := filepath.Join(env.Root, DirReviews)
	res := env.Loader.LoadDir(dir)

	items := make([]testimonial, 0)
	for _, rev := range res.Records() {
		if ctx.Err() != nil {
			return Fragment{}, ctx.Err()
		}
		items = append(items, testimonial{
			Quote:  resolve.FirstNonEmpty(resolve.FirstOf(rev, "review_body", "quote", "review_title"), missingReviewText),
			Author: resolve.FirstNonEmpty(resolve.FirstOf(rev, "customer_name", "author"), anonymousAuthor),
			Entity: resolve.FirstOf(rev, "entity_name"),
			Date:   resolve.FirstOf(rev, "date"),
			Stars:  synth.Stars(synth.ReviewRating(rev["rating"])),
		})
	}

	html, err := renderFragment("testimonials", items)
	if err != nil {
		return Fragment{}, err
	}
	env.logger().Info("Testimonials page assembled", logfields.Items(len(items)), logfields.Dir(dir))
	return Fragment{
		Title:       testimonialsTitle,
		HTML:        html,
		Placeholder: len(items) == 0,
		Items:       len(items),
	}, nil
}
