package repository

import (
	"gorm.io/gorm"

	"github.com/cinescore/cinescorebackend/models"
)

type GormDirectorRepository struct {
	db *gorm.DB
}

func NewGormDirectorRepository(db *gorm.DB) DirectorRepositoryInterface {
	return &GormDirectorRepository{db: db}
}

func (r *GormDirectorRepository) Create(director *models.Director) error {
	return r.db.Create(director).Error
}

func (r *GormDirectorRepository) GetByID(id uint) (*models.Director, error) {
	var director models.Director
	err := r.db.First(&director, id).Error
	if err != nil {
		return nil, err
	}
	return &director, nil
}

func (r *GormDirectorRepository) ListAll() ([]models.Director, error) {
	directors := []models.Director{}
	err := r.db.Find(&directors).Error
	return directors, err
}

func (r *GormDirectorRepository) Update(director *models.Director) error {
	return r.db.Save(director).Error
}

// Delete removes the director and clears the director reference on any movie
// that pointed at them. Movies are never deleted with their director.
func (r *GormDirectorRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Movie{}).
			Where("director_id = ?", id).
			Update("director_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Director{}, id).Error
	})
}
