package repository

import (
	"gorm.io/gorm"

	"github.com/cinescore/cinescorebackend/models"
)

type GormReviewRepository struct {
	db *gorm.DB
}

func NewGormReviewRepository(db *gorm.DB) ReviewRepositoryInterface {
	return &GormReviewRepository{db: db}
}

func (r *GormReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

func (r *GormReviewRepository) GetByID(id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *GormReviewRepository) ListAll() ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.db.Find(&reviews).Error
	return reviews, err
}

func (r *GormReviewRepository) ListByUser(userID uint) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.db.Where("user_id = ?", userID).Find(&reviews).Error
	return reviews, err
}

// ListByUserAndMovie returns the user's reviews for one movie, most recently
// updated first.
func (r *GormReviewRepository) ListByUserAndMovie(userID, movieID uint) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.db.
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Order("updated_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *GormReviewRepository) Update(review *models.Review) error {
	return r.db.Save(review).Error
}

func (r *GormReviewRepository) Delete(id uint) error {
	return r.db.Delete(&models.Review{}, id).Error
}

func (r *GormReviewRepository) AverageRatingForMovie(movieID uint) (float64, error) {
	var avg *float64
	err := r.db.Model(&models.Review{}).
		Where("movie_id = ?", movieID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		// no reviews yet
		return 0, nil
	}
	return *avg, nil
}

func (r *GormReviewRepository) DeleteByUser(userID uint) ([]uint, error) {
	var movieIDs []uint
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Review{}).
			Where("user_id = ?", userID).
			Distinct().
			Pluck("movie_id", &movieIDs).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&models.Review{}).Error
	})
	if err != nil {
		return nil, err
	}
	return movieIDs, nil
}
