package models

import "time"

// Review is a single user's rating and comment for a movie. A review is owned
// by exactly one user; deleting the movie or the user deletes the review.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	MovieID   uint      `json:"movie_id" gorm:"not null;index"`
	Movie     *Movie    `json:"-" gorm:"foreignKey:MovieID"`
	Rating    float64   `json:"rating" gorm:"default:0"`
	Comment   string    `json:"comment"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      *User     `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`
}
