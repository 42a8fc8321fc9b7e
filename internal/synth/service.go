package synth

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/pagebuilder/internal/record"
	"git.home.luguber.info/inful/pagebuilder/internal/resolve"
	"git.home.luguber.info/inful/pagebuilder/internal/util/sets"
)

var (
	titleKeys = []string{
		"title", "service_name", "name", "headline", "service", "offering",
		"product_name", "category", "subtype", "type", "label",
	}
	initialTitleKeys = []string{"title", "service_name", "name"}

	placeholderTitles  = sets.New("service", "unnamed service", "untitled", "n/a", "na", "tbd")
	placeholderPattern = regexp.MustCompile(`^(service|item|entry)\s*\d+$`)
)

// DefaultPrice is shown when a service lists no price.
const DefaultPrice = "Contact for pricing"

// Title is a resolved service title.
type Title struct {
	Value string
	// Initial is the first plain name field, before placeholder rejection.
	Initial string
	// Polished is set when Initial was a placeholder and Value is not.
	Polished bool
}

// IsPlaceholderTitle reports whether s is empty or a stand-in such as
// "Service", "TBD" or "item 3".
func IsPlaceholderTitle(s string) bool {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "" {
		return true
	}
	return placeholderTitles.Has(t) || placeholderPattern.MatchString(t)
}

// ServiceTitle resolves a display title for a service record loaded from
// sourcePath, falling back to keywords and then to the file name.
func ServiceTitle(rec record.Record, sourcePath string) Title {
	candidate := resolve.FirstOf(rec, titleKeys...)
	if IsPlaceholderTitle(candidate) {
		if kws := resolve.AsList(rec["keywords"]); len(kws) > 0 {
			candidate = TitleCase(strings.Join(kws[:min(2, len(kws))], " / "))
		}
	}
	if IsPlaceholderTitle(candidate) {
		candidate = TitleFromFilename(sourcePath)
	}

	initial := resolve.FirstOf(rec, initialTitleKeys...)
	return Title{
		Value:    candidate,
		Initial:  initial,
		Polished: IsPlaceholderTitle(initial) && !IsPlaceholderTitle(candidate),
	}
}

// ShortTitle is the title used when only counting services: the first plain
// name field, or the file name when that is a placeholder.
func ShortTitle(rec record.Record, sourcePath string) string {
	title := resolve.FirstOf(rec, initialTitleKeys...)
	if IsPlaceholderTitle(title) {
		return TitleFromFilename(sourcePath)
	}
	return title
}

// Bullets extracts at most four short selling points from a service record.
func Bullets(rec record.Record) []string {
	features := resolve.AsList(resolve.FirstPresent(rec, "features", "benefits", "highlights"))
	specialties := resolve.AsList(resolve.FirstPresent(rec, "specialties", "capabilities"))
	areas := resolve.AsList(resolve.FirstPresent(rec, "service_areas", "areas", "locations_served"))

	bullets := make([]string, 0, 4)
	bullets = append(bullets, features[:min(3, len(features))]...)
	if len(bullets) == 0 {
		bullets = append(bullets, specialties[:min(3, len(specialties))]...)
	}
	if len(areas) > 0 {
		bullets = append(bullets, "Service areas: "+strings.Join(areas[:min(5, len(areas))], ", "))
	}

	bullets = sets.DedupFold(bullets)
	return bullets[:min(4, len(bullets))]
}

// Price returns the first listed price, or DefaultPrice.
func Price(rec record.Record) string {
	if p := resolve.FirstOf(rec, "price", "price_range", "starting_price", "min_price", "cost", "fee"); p != "" {
		return p
	}
	return DefaultPrice
}

// Description returns the first descriptive text field.
func Description(rec record.Record) string {
	return resolve.FirstOf(rec, "description", "summary", "details", "body", "content", "answer", "copy")
}
