package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleFromFilename(t *testing.T) {
	assert.Equal(t, "Tax Planning 2024", TitleFromFilename("schemas/services/tax-planning_2024.yaml"))
	assert.Equal(t, "Getting Started", TitleFromFilename("getting-started.md"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "tax-planning", Slugify("  Tax Planning! "))
	assert.Equal(t, "a-b-c", Slugify("a  b\tc"))
	assert.Equal(t, "item", Slugify("!!!"))
	assert.Equal(t, "item", Slugify(""))
}

func TestNameFromRepository(t *testing.T) {
	assert.Equal(t, "Acme Accounting", NameFromRepository("acme/acme-accounting"))
	assert.Equal(t, "Site", NameFromRepository("org/group/site"))
	assert.Empty(t, NameFromRepository(""))
	assert.Empty(t, NameFromRepository("owner/"))
}

func TestReviewRating(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{nil, 5},
		{int64(4), 4},
		{4.9, 4},
		{" 3 ", 3},
		{"4.5", 5},
		{"great", 5},
		{int64(0), 1},
		{int64(9), 5},
		{int64(-2), 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReviewRating(tt.in), "%v", tt.in)
	}
}

func TestRatingValue(t *testing.T) {
	v, ok := RatingValue("4.5")
	assert.True(t, ok)
	assert.Equal(t, 4.5, v)

	_, ok = RatingValue(int64(0))
	assert.False(t, ok)
	_, ok = RatingValue(nil)
	assert.False(t, ok)
	_, ok = RatingValue("n/a")
	assert.False(t, ok)
}

func TestStars(t *testing.T) {
	assert.Equal(t, "★★★☆☆", Stars(3))
	assert.Equal(t, "☆☆☆☆☆", Stars(-1))
	assert.Equal(t, "★★★★★★", Stars(6))
	assert.Equal(t, 5, RoundStars(4.5))
	assert.Equal(t, 4, RoundStars(4.49))
}
