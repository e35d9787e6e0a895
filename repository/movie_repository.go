package repository

import (
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"github.com/facette/natsort"
	"gorm.io/gorm"

	"github.com/cinescore/cinescorebackend/models"
)

var sqlBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

type GormMovieRepository struct {
	db *gorm.DB
}

func NewGormMovieRepository(db *gorm.DB) MovieRepositoryInterface {
	return &GormMovieRepository{db: db}
}

func (r *GormMovieRepository) Create(movie *models.Movie) error {
	return r.db.Create(movie).Error
}

func (r *GormMovieRepository) GetByID(id uint) (*models.Movie, error) {
	var movie models.Movie
	err := r.db.Preload("Director").First(&movie, id).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// ListAll returns every movie in natural name order ("Rocky 2" before "Rocky 10").
func (r *GormMovieRepository) ListAll() ([]models.Movie, error) {
	var movies []models.Movie
	if err := r.db.Preload("Director").Find(&movies).Error; err != nil {
		return nil, err
	}
	sort.SliceStable(movies, func(i, j int) bool {
		return natsort.Compare(movies[i].Name, movies[j].Name)
	})
	return movies, nil
}

func (r *GormMovieRepository) Update(movie *models.Movie) error {
	return r.db.Save(movie).Error
}

func (r *GormMovieRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("movie_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Movie{}, id).Error
	})
}

func (r *GormMovieRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Movie{}).Count(&count).Error
	return count, err
}

func (r *GormMovieRepository) SetAverageRating(movieID uint, avg float64) error {
	result := r.db.Model(&models.Movie{}).Where("id = ?", movieID).Update("average_rating", avg)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TopByAverageRating returns up to limit movies ordered by their cached
// average rating, best first.
func (r *GormMovieRepository) TopByAverageRating(limit int) ([]models.Movie, error) {
	queryBuilder := sqlBuilder.Select("*").
		From("movies").
		OrderBy("average_rating DESC", "id ASC").
		Limit(uint64(limit))
	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for TopByAverageRating: %w", err)
	}

	movies := []models.Movie{}
	if err := r.db.Raw(sqlStr, args...).Scan(&movies).Error; err != nil {
		return nil, fmt.Errorf("failed to execute TopByAverageRating query: %w", err)
	}
	return movies, nil
}

// TopByCriticRating returns up to limit movies the given user has reviewed,
// ranked by that user's own mean rating per movie rather than the global
// average.
func (r *GormMovieRepository) TopByCriticRating(userID uint, limit int) ([]models.Movie, error) {
	queryBuilder := sqlBuilder.Select("movies.*").
		From("movies").
		Join("reviews ON reviews.movie_id = movies.id").
		Where(sq.Eq{"reviews.user_id": userID}).
		GroupBy("movies.id").
		OrderBy("AVG(reviews.rating) DESC", "movies.id ASC").
		Limit(uint64(limit))
	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for TopByCriticRating: %w", err)
	}

	movies := []models.Movie{}
	if err := r.db.Raw(sqlStr, args...).Scan(&movies).Error; err != nil {
		return nil, fmt.Errorf("failed to execute TopByCriticRating query: %w", err)
	}
	return movies, nil
}
