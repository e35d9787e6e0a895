package models

import "time"

// MoviesAdminGroupName is the privileged group whose members may edit or
// delete any review regardless of ownership.
const MoviesAdminGroupName = "Movies Administrators"

// Group defines a named set of permissions that can be assigned to users
type Group struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Permissions []string  `json:"permissions" gorm:"serializer:json"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Users       []*User   `json:"-" gorm:"many2many:user_groups;"` // Many-to-many relationship with User
}

// UserGroup is the join table for the many-to-many relationship between users and groups.
type UserGroup struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	GroupID   uint      `json:"group_id" gorm:"primaryKey"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	Group     Group     `json:"-" gorm:"foreignKey:GroupID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name for UserGroup to be `user_groups`
func (UserGroup) TableName() string {
	return "user_groups"
}
