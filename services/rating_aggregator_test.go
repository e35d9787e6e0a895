package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinescore/cinescorebackend/repository"
)

func TestRoundRating(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"integer", 5, 5},
		{"two decimals untouched", 3.14, 3.14},
		{"half rounds to even down", 4.125, 4.12},
		{"half rounds to even up", 4.375, 4.38},
		{"plain round up", 2.678, 2.68},
		{"plain round down", 2.672, 2.67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RoundRating(tt.in), 1e-9)
		})
	}
}

func TestRecomputePersistsAverage(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	movie := seedMovie(t, db, "Stalker")

	seedReview(t, db, user.ID, movie.ID, 4)
	seedReview(t, db, user.ID, movie.ID, 3)

	aggregator := NewRatingAggregator(
		repository.NewGormReviewRepository(db),
		repository.NewGormMovieRepository(db),
	)

	require.NoError(t, aggregator.Recompute(movie.ID))
	assert.InDelta(t, 3.5, movieAverage(t, db, movie.ID), 1e-9)
}

func TestRecomputeWithoutReviewsResetsToZero(t *testing.T) {
	db := newTestDB(t)
	movie := seedMovie(t, db, "Solaris")
	require.NoError(t, db.Model(movie).Update("average_rating", 4.2).Error)

	aggregator := NewRatingAggregator(
		repository.NewGormReviewRepository(db),
		repository.NewGormMovieRepository(db),
	)

	require.NoError(t, aggregator.Recompute(movie.ID))
	assert.Zero(t, movieAverage(t, db, movie.ID))
}

func TestRecomputeUnknownMovieErrors(t *testing.T) {
	db := newTestDB(t)

	aggregator := NewRatingAggregator(
		repository.NewGormReviewRepository(db),
		repository.NewGormMovieRepository(db),
	)

	assert.Error(t, aggregator.Recompute(12345))
}
