package models

import "time"

// Movie is a film that users can review. AverageRating is a cached value
// derived from the movie's review set; it is written exclusively by the
// rating aggregator and is never accepted from request payloads.
type Movie struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"not null"`
	DirectorID    *uint     `json:"director_id,omitempty" gorm:"index"` // Nullable: movies outlive their director
	Director      *Director `json:"director,omitempty" gorm:"foreignKey:DirectorID"`
	ReleaseDate   time.Time `json:"release_date"`
	Description   string    `json:"description"`
	AverageRating float64   `json:"average_rating" gorm:"default:0"`
	Reviews       []Review  `json:"-" gorm:"foreignKey:MovieID"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
