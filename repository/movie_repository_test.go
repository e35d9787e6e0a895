package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cinescore/cinescorebackend/models"
)

func TestMovieListAllUsesNaturalOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormMovieRepository(db)

	for _, name := range []string{"Rocky 10", "Rocky 2", "Alien", "Rocky 1"} {
		require.NoError(t, repo.Create(&models.Movie{Name: name}))
	}

	movies, err := repo.ListAll()
	require.NoError(t, err)
	require.Len(t, movies, 4)

	names := make([]string, len(movies))
	for i, m := range movies {
		names[i] = m.Name
	}
	// "Rocky 10" sorts after "Rocky 2" under natural ordering
	assert.Equal(t, []string{"Alien", "Rocky 1", "Rocky 2", "Rocky 10"}, names)
}

func TestMovieSetAverageRating(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormMovieRepository(db)

	movie := &models.Movie{Name: "Heat"}
	require.NoError(t, repo.Create(movie))

	require.NoError(t, repo.SetAverageRating(movie.ID, 4.25))

	reloaded, err := repo.GetByID(movie.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.25, reloaded.AverageRating, 1e-9)

	err = repo.SetAverageRating(9999, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMovieDeleteCascadesReviews(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormMovieRepository(db)
	user := testUser(t, db, "alice")

	movie := &models.Movie{Name: "Collateral"}
	require.NoError(t, repo.Create(movie))
	mustCreate(t, db, &models.Review{MovieID: movie.ID, UserID: user.ID, Rating: 3})

	require.NoError(t, repo.Delete(movie.ID))

	var reviews int64
	require.NoError(t, db.Model(&models.Review{}).Where("movie_id = ?", movie.ID).Count(&reviews).Error)
	assert.Zero(t, reviews)

	_, err := repo.GetByID(movie.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDirectorDeleteClearsMovieReference(t *testing.T) {
	db := newTestDB(t)
	directors := NewGormDirectorRepository(db)
	movies := NewGormMovieRepository(db)

	director := &models.Director{Name: "Akira", LastName: "Kurosawa"}
	require.NoError(t, directors.Create(director))

	movie := &models.Movie{Name: "Ran", DirectorID: &director.ID}
	require.NoError(t, movies.Create(movie))

	require.NoError(t, directors.Delete(director.ID))

	reloaded, err := movies.GetByID(movie.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.DirectorID)
}
