package models

import "time"

// Director is a film director that movies can reference.
type Director struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	BirthDate time.Time `json:"birth_date"`
	Movies    []Movie   `json:"-" gorm:"foreignKey:DirectorID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
