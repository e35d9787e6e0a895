package services

import (
	"gorm.io/gorm"

	"github.com/cinescore/cinescorebackend/models"
	"github.com/cinescore/cinescorebackend/repository"
)

// ReviewInput carries the writable review fields for create and full update.
type ReviewInput struct {
	MovieID uint
	Rating  float64
	Comment string
}

// ReviewPatch carries optional review fields for partial update; nil fields
// are left untouched.
type ReviewPatch struct {
	MovieID *uint
	Rating  *float64
	Comment *string
}

// ReviewService orchestrates review mutations: it gates update and delete
// through the access policy, forces ownership on create, and recomputes the
// affected movie averages inside the same transaction as the mutation.
type ReviewService struct {
	db     *gorm.DB
	policy ReviewAccessPolicy
}

func NewReviewService(db *gorm.DB, policy ReviewAccessPolicy) *ReviewService {
	return &ReviewService{db: db, policy: policy}
}

// Create inserts a review for any authenticated actor. The review's owner is
// always the actor, regardless of any user reference in the request payload.
func (s *ReviewService) Create(actor *models.User, input ReviewInput) (*models.Review, error) {
	review := &models.Review{
		MovieID: input.MovieID,
		Rating:  input.Rating,
		Comment: input.Comment,
		UserID:  actor.ID,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		reviews := repository.NewGormReviewRepository(tx)
		movies := repository.NewGormMovieRepository(tx)
		if _, err := movies.GetByID(input.MovieID); err != nil {
			return err
		}
		if err := reviews.Create(review); err != nil {
			return err
		}
		return NewRatingAggregator(reviews, movies).Recompute(input.MovieID)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// Update replaces all writable fields of a review. Denied mutations leave the
// review untouched. When the review is moved to a different movie, both the
// old and the new movie's averages are recomputed.
func (s *ReviewService) Update(actor *models.User, reviewID uint, input ReviewInput) (*models.Review, error) {
	return s.update(actor, reviewID, ReviewActionUpdate, ReviewPatch{
		MovieID: &input.MovieID,
		Rating:  &input.Rating,
		Comment: &input.Comment,
	})
}

// PartialUpdate applies only the fields set in the patch, under the same
// authorization gate as Update.
func (s *ReviewService) PartialUpdate(actor *models.User, reviewID uint, patch ReviewPatch) (*models.Review, error) {
	return s.update(actor, reviewID, ReviewActionPartialUpdate, patch)
}

func (s *ReviewService) update(actor *models.User, reviewID uint, action ReviewAction, patch ReviewPatch) (*models.Review, error) {
	var updated *models.Review
	err := s.db.Transaction(func(tx *gorm.DB) error {
		reviews := repository.NewGormReviewRepository(tx)
		movies := repository.NewGormMovieRepository(tx)

		review, err := reviews.GetByID(reviewID)
		if err != nil {
			return err
		}

		// the policy check happens strictly before any write
		if decision := s.policy.Authorize(actor, review, action); !decision.Allowed {
			return &DeniedError{Reason: decision.Reason}
		}

		previousMovieID := review.MovieID
		if patch.MovieID != nil && *patch.MovieID != review.MovieID {
			if _, err := movies.GetByID(*patch.MovieID); err != nil {
				return err
			}
			review.MovieID = *patch.MovieID
		}
		if patch.Rating != nil {
			review.Rating = *patch.Rating
		}
		if patch.Comment != nil {
			review.Comment = *patch.Comment
		}

		if err := reviews.Update(review); err != nil {
			return err
		}

		aggregator := NewRatingAggregator(reviews, movies)
		if err := aggregator.Recompute(review.MovieID); err != nil {
			return err
		}
		if previousMovieID != review.MovieID {
			if err := aggregator.Recompute(previousMovieID); err != nil {
				return err
			}
		}

		updated = review
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a review under the access policy and recomputes the average
// of the movie it referenced. The movie ID is captured before deletion.
func (s *ReviewService) Delete(actor *models.User, reviewID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		reviews := repository.NewGormReviewRepository(tx)
		movies := repository.NewGormMovieRepository(tx)

		review, err := reviews.GetByID(reviewID)
		if err != nil {
			return err
		}

		if decision := s.policy.Authorize(actor, review, ReviewActionDelete); !decision.Allowed {
			return &DeniedError{Reason: decision.Reason}
		}

		movieID := review.MovieID
		if err := reviews.Delete(review.ID); err != nil {
			return err
		}
		return NewRatingAggregator(reviews, movies).Recompute(movieID)
	})
}

// UpdateOwn applies a patch to one of the actor's own reviews; reviews owned
// by anyone else are reported as not found, never as forbidden.
func (s *ReviewService) UpdateOwn(actor *models.User, reviewID uint, patch ReviewPatch) (*models.Review, error) {
	var updated *models.Review
	err := s.db.Transaction(func(tx *gorm.DB) error {
		reviews := repository.NewGormReviewRepository(tx)
		movies := repository.NewGormMovieRepository(tx)

		review, err := reviews.GetByID(reviewID)
		if err != nil {
			return err
		}
		if review.UserID != actor.ID {
			return gorm.ErrRecordNotFound
		}

		previousMovieID := review.MovieID
		if patch.MovieID != nil && *patch.MovieID != review.MovieID {
			if _, err := movies.GetByID(*patch.MovieID); err != nil {
				return err
			}
			review.MovieID = *patch.MovieID
		}
		if patch.Rating != nil {
			review.Rating = *patch.Rating
		}
		if patch.Comment != nil {
			review.Comment = *patch.Comment
		}

		if err := reviews.Update(review); err != nil {
			return err
		}

		aggregator := NewRatingAggregator(reviews, movies)
		if err := aggregator.Recompute(review.MovieID); err != nil {
			return err
		}
		if previousMovieID != review.MovieID {
			if err := aggregator.Recompute(previousMovieID); err != nil {
				return err
			}
		}

		updated = review
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteOwn removes one of the actor's own reviews and recomputes the movie
// average. Foreign reviews are reported as not found.
func (s *ReviewService) DeleteOwn(actor *models.User, reviewID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		reviews := repository.NewGormReviewRepository(tx)
		movies := repository.NewGormMovieRepository(tx)

		review, err := reviews.GetByID(reviewID)
		if err != nil {
			return err
		}
		if review.UserID != actor.ID {
			return gorm.ErrRecordNotFound
		}

		movieID := review.MovieID
		if err := reviews.Delete(review.ID); err != nil {
			return err
		}
		return NewRatingAggregator(reviews, movies).Recompute(movieID)
	})
}

// PurgeUserReviews deletes every review owned by the user and recomputes the
// average of each movie that lost one. Used when a user account is removed.
func (s *ReviewService) PurgeUserReviews(userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		reviews := repository.NewGormReviewRepository(tx)
		movies := repository.NewGormMovieRepository(tx)

		movieIDs, err := reviews.DeleteByUser(userID)
		if err != nil {
			return err
		}

		aggregator := NewRatingAggregator(reviews, movies)
		for _, movieID := range movieIDs {
			if err := aggregator.Recompute(movieID); err != nil {
				return err
			}
		}
		return nil
	})
}
