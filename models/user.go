package models

import (
	"golang.org/x/crypto/bcrypt"
	"time"
)

// User represents a critic or administrator in the system.
type User struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	Username          string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash      string    `json:"-" gorm:"not null"` // "-" means don't include in JSON responses
	GlobalPermissions []string  `json:"global_permissions" gorm:"serializer:json"`
	Groups            []*Group  `json:"groups,omitempty" gorm:"many2many:user_groups;"` // Groups the user belongs to
	Reviews           []Review  `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SetPassword hashes the given password and sets it on the user model.
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the given password matches the user's hashed password.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// InGroup reports whether the user belongs to the named group.
// Assumes u.Groups is preloaded.
func (u *User) InGroup(name string) bool {
	for _, g := range u.Groups {
		if g == nil { // Defensive check
			continue
		}
		if g.Name == name {
			return true
		}
	}
	return false
}

// HasGlobalPermission checks if the user has a specific global permission,
// considering both direct permissions and permissions from groups.
func (u *User) HasGlobalPermission(permission string) bool {
	// Check direct global permissions
	for _, p := range u.GlobalPermissions {
		if p == permission {
			return true
		}
	}

	// Check permissions from groups
	// Assumes u.Groups is preloaded
	for _, group := range u.Groups {
		if group == nil { // Defensive check
			continue
		}
		for _, p := range group.Permissions {
			if p == permission {
				return true
			}
		}
	}
	return false
}
