package rating_test

import (
	"testing"

	"github.com/shubhamsaxena444/pingpongpro/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelta(t *testing.T) {
	tests := []struct {
		name     string
		scored   int
		conceded int
		isWinner bool
		want     int
	}{
		{"winner with moderate margin", 10, 5, true, 75},
		{"blowout loss clamps to -100", 0, 21, false, -100},
		{"blowout win clamps to +100", 21, 0, true, 100},
		{"narrow loss", 19, 21, false, -20},
		{"win bonus pushes past cap", 21, 12, true, 100},
		{"even score with win bonus", 11, 11, true, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rating.Delta(tt.scored, tt.conceded, tt.isWinner)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDelta_AlwaysWithinCap(t *testing.T) {
	for scored := 0; scored <= 30; scored += 3 {
		for conceded := 0; conceded <= 30; conceded += 3 {
			for _, isWinner := range []bool{true, false} {
				got, err := rating.Delta(scored, conceded, isWinner)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, got, -rating.MaxRatingChange)
				assert.LessOrEqual(t, got, rating.MaxRatingChange)
			}
		}
	}
}

func TestDelta_RejectsNegativeScores(t *testing.T) {
	_, err := rating.Delta(-1, 5, true)
	assert.ErrorIs(t, err, rating.ErrInvalidInput)

	_, err = rating.Delta(5, -1, false)
	assert.ErrorIs(t, err, rating.ErrInvalidInput)
}

func TestApply_EnforcesFloor(t *testing.T) {
	assert.Equal(t, rating.MinRating, rating.Apply(850, -100))
	assert.Equal(t, 1285, rating.Apply(1200, 85))
}

func TestOverall(t *testing.T) {
	assert.Equal(t, 1200, rating.Overall(1200, 1200))
	assert.Equal(t, 1280, rating.Overall(1300, 1250))
	// round(1250*0.6 + 1201*0.4) = round(1230.4) = 1230
	assert.Equal(t, 1230, rating.Overall(1250, 1201))
}

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		rating int
		want   rating.Category
	}{
		{800, rating.CategoryNovice},
		{999, rating.CategoryNovice},
		{1000, rating.CategoryBeginner},
		{1200, rating.CategoryIntermediate},
		{1400, rating.CategoryAdvanced},
		{1600, rating.CategoryExpert},
		{1800, rating.CategoryMaster},
		{2400, rating.CategoryMaster},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rating.CategoryFor(tt.rating), "rating %d", tt.rating)
	}
}
