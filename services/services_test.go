package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cinescore/cinescorebackend/database"
	"github.com/cinescore/cinescorebackend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a single connection keeps every test statement on the same in-memory db
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrateModels(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "irrelevant"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedAdmin creates a user and places them in the Movies Administrators group,
// both in the database and on the returned in-memory struct.
func seedAdmin(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	group := &models.Group{Name: models.MoviesAdminGroupName}
	require.NoError(t, db.Where("name = ?", group.Name).FirstOrCreate(group).Error)

	user := &models.User{Username: username, PasswordHash: "irrelevant"}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.UserGroup{UserID: user.ID, GroupID: group.ID}).Error)

	user.Groups = []*models.Group{group}
	return user
}

func seedMovie(t *testing.T, db *gorm.DB, name string) *models.Movie {
	t.Helper()
	movie := &models.Movie{Name: name}
	require.NoError(t, db.Create(movie).Error)
	return movie
}

func seedReview(t *testing.T, db *gorm.DB, userID, movieID uint, rating float64) *models.Review {
	t.Helper()
	review := &models.Review{UserID: userID, MovieID: movieID, Rating: rating, Comment: "seed"}
	require.NoError(t, db.Create(review).Error)
	return review
}

func movieAverage(t *testing.T, db *gorm.DB, movieID uint) float64 {
	t.Helper()
	var movie models.Movie
	require.NoError(t, db.First(&movie, movieID).Error)
	return movie.AverageRating
}
