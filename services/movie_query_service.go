package services

import (
	"github.com/cinescore/cinescorebackend/models"
	"github.com/cinescore/cinescorebackend/repository"
)

// MovieQueryService serves the read-only ranking queries over movies.
type MovieQueryService struct {
	Movies  repository.MovieRepositoryInterface
	Reviews repository.ReviewRepositoryInterface
}

func NewMovieQueryService(movies repository.MovieRepositoryInterface, reviews repository.ReviewRepositoryInterface) *MovieQueryService {
	return &MovieQueryService{Movies: movies, Reviews: reviews}
}

// TopMovies returns up to limit movies ordered by cached average rating.
// When no movies exist at all it returns ErrNoMovies; a limit of zero on a
// non-empty catalog yields an empty slice.
func (s *MovieQueryService) TopMovies(limit int) ([]models.Movie, error) {
	movies, err := s.Movies.TopByAverageRating(limit)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		count, err := s.Movies.Count()
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrNoMovies
		}
	}
	return movies, nil
}

// TopMoviesByCritic returns up to limit movies the user has reviewed, ranked
// by the user's own mean rating per movie. Returns ErrNoReviewedMovies when
// the user has reviewed nothing.
func (s *MovieQueryService) TopMoviesByCritic(userID uint, limit int) ([]models.Movie, error) {
	movies, err := s.Movies.TopByCriticRating(userID, limit)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		reviews, err := s.Reviews.ListByUser(userID)
		if err != nil {
			return nil, err
		}
		if len(reviews) == 0 {
			return nil, ErrNoReviewedMovies
		}
	}
	return movies, nil
}
