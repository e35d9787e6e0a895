package services

import (
	"fmt"
	"math"

	"github.com/cinescore/cinescorebackend/repository"
)

// RoundRating rounds a rating average to two decimal places using
// round-half-to-even (4.125 becomes 4.12, 4.375 becomes 4.38).
func RoundRating(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// RatingAggregator recomputes and persists the cached average rating of a
// movie from its current review set. It is the only writer of
// movies.average_rating; every review mutation must invoke it synchronously,
// inside the same transaction, on the post-mutation review set.
type RatingAggregator struct {
	Reviews repository.ReviewRepositoryInterface
	Movies  repository.MovieRepositoryInterface
}

func NewRatingAggregator(reviews repository.ReviewRepositoryInterface, movies repository.MovieRepositoryInterface) *RatingAggregator {
	return &RatingAggregator{Reviews: reviews, Movies: movies}
}

// Recompute recalculates the movie's mean rating (0 when it has no reviews)
// and persists it. A persistence failure is returned to the caller so the
// surrounding transaction rolls back the triggering review mutation with it.
func (a *RatingAggregator) Recompute(movieID uint) error {
	avg, err := a.Reviews.AverageRatingForMovie(movieID)
	if err != nil {
		return fmt.Errorf("failed to compute average rating for movie %d: %w", movieID, err)
	}
	if err := a.Movies.SetAverageRating(movieID, RoundRating(avg)); err != nil {
		return fmt.Errorf("failed to persist average rating for movie %d: %w", movieID, err)
	}
	return nil
}
