package synth

import (
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/pagebuilder/internal/resolve"
)

var (
	slugStrip = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)
	slugSpace = regexp.MustCompile(`\s+`)
)

// TitleCase upper-cases the first letter of every word and lower-cases the rest.
func TitleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

// TitleFromFilename turns "tax-planning_2024.yaml" into "Tax Planning 2024".
func TitleFromFilename(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return TitleCase(strings.TrimSpace(base))
}

// Slugify builds a URL fragment from text; it never returns "".
func Slugify(text string) string {
	s := slugStrip.ReplaceAllString(text, "")
	s = slugSpace.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	if s == "" {
		return "item"
	}
	return s
}

// NameFromRepository derives a display name from "owner/my-site": "My Site".
func NameFromRepository(repo string) string {
	slug := repo
	if i := strings.LastIndex(repo, "/"); i >= 0 {
		slug = repo[i+1:]
	}
	slug = strings.TrimSpace(strings.ReplaceAll(slug, "-", " "))
	if slug == "" {
		return ""
	}
	return TitleCase(slug)
}

// DefaultRating is used for reviews without a usable integer rating.
const DefaultRating = 5

// ReviewRating reads a review's star rating as a whole number clamped to 1..5.
// Fractions are truncated; unreadable or missing ratings count as DefaultRating.
func ReviewRating(v any) int {
	rating := DefaultRating
	switch t := v.(type) {
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			rating = n
		}
	default:
		if f, ok := resolve.Numeric(v); ok {
			rating = int(f)
		}
	}
	return max(1, min(5, rating))
}

// RatingValue reads a rating for averaging. Only positive values count.
func RatingValue(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		n, ok := resolve.Numeric(v)
		if !ok {
			return 0, false
		}
		f = n
	}
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Stars renders n filled stars padded with empty stars up to five.
func Stars(n int) string {
	n = max(0, n)
	return strings.Repeat("★", n) + strings.Repeat("☆", max(0, 5-n))
}

// RoundStars rounds an average rating to whole stars, halves away from zero.
func RoundStars(avg float64) int {
	return int(math.Round(avg))
}
