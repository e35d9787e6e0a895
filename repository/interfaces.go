package repository

import (
	"github.com/cinescore/cinescorebackend/models"
)

// DirectorRepositoryInterface defines the methods for director data operations
type DirectorRepositoryInterface interface {
	Create(director *models.Director) error
	GetByID(id uint) (*models.Director, error)
	ListAll() ([]models.Director, error)
	Update(director *models.Director) error
	// Delete removes the director; movies referencing them keep existing with
	// their director reference cleared.
	Delete(id uint) error
}

// MovieRepositoryInterface defines the methods for movie data operations
type MovieRepositoryInterface interface {
	Create(movie *models.Movie) error
	GetByID(id uint) (*models.Movie, error)
	ListAll() ([]models.Movie, error)
	Update(movie *models.Movie) error
	// Delete removes the movie and all of its reviews.
	Delete(id uint) error
	Count() (int64, error)

	// SetAverageRating persists the cached average rating for a movie. It is
	// only ever called by the rating aggregator.
	SetAverageRating(movieID uint, avg float64) error

	// ranking queries
	TopByAverageRating(limit int) ([]models.Movie, error)
	TopByCriticRating(userID uint, limit int) ([]models.Movie, error)
}

// ReviewRepositoryInterface defines the methods for review data operations
type ReviewRepositoryInterface interface {
	Create(review *models.Review) error
	GetByID(id uint) (*models.Review, error)
	ListAll() ([]models.Review, error)
	ListByUser(userID uint) ([]models.Review, error)
	ListByUserAndMovie(userID, movieID uint) ([]models.Review, error)
	Update(review *models.Review) error
	Delete(id uint) error

	// AverageRatingForMovie computes the mean rating over all reviews of the
	// movie, returning 0 when the movie has no reviews.
	AverageRatingForMovie(movieID uint) (float64, error)

	// DeleteByUser removes all reviews owned by the user and returns the IDs
	// of the movies that were affected.
	DeleteByUser(userID uint) ([]uint, error)
}

// UserRepository defines the methods for user data operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	ListAll() ([]models.User, error)

	// group management for a user
	AddGroupToUser(userID uint, groupID uint) error
	RemoveGroupFromUser(userID uint, groupID uint) error
	GetUserGroups(userID uint) ([]models.Group, error)

	// direct global permission management for a user
	SetUserGlobalPermissions(userID uint, permissions []string) error
}

// GroupRepository defines the methods for group data operations
type GroupRepository interface {
	Create(group *models.Group) error
	GetByID(id uint) (*models.Group, error)
	GetByName(name string) (*models.Group, error)
	ListAll() ([]models.Group, error)
	Update(group *models.Group) error
	Delete(id uint) error

	SetGroupPermissions(groupID uint, permissions []string) error

	// user-group management
	FindUsersByGroupID(groupID uint) ([]models.User, error)
	AddUserToGroup(userID, groupID uint) error
	RemoveUserFromGroup(userID, groupID uint) error
}

// InviteCodeRepository defines the methods for invite code data operations
type InviteCodeRepository interface {
	Create(inviteCode *models.InviteCode) error
	GetByCode(code string) (*models.InviteCode, error)
	GetByID(id uint) (*models.InviteCode, error)
	Update(inviteCode *models.InviteCode) error
	IncrementUses(id uint) error
	ListAll() ([]models.InviteCode, error)
	Delete(id uint) error
}
