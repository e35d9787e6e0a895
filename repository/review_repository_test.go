package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinescore/cinescorebackend/models"
)

func TestAverageRatingForMovie(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormReviewRepository(db)
	user := testUser(t, db, "alice")

	movie := &models.Movie{Name: "Casablanca"}
	mustCreate(t, db, movie)

	avg, err := repo.AverageRatingForMovie(movie.ID)
	require.NoError(t, err)
	assert.Zero(t, avg)

	mustCreate(t, db, &models.Review{MovieID: movie.ID, UserID: user.ID, Rating: 4})
	mustCreate(t, db, &models.Review{MovieID: movie.ID, UserID: user.ID, Rating: 3})

	avg, err = repo.AverageRatingForMovie(movie.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, avg, 1e-9)
}

func TestListByUserAndMovieOrdersByRecency(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormReviewRepository(db)
	user := testUser(t, db, "alice")
	other := testUser(t, db, "bob")

	movie := &models.Movie{Name: "Vertigo"}
	mustCreate(t, db, movie)

	older := &models.Review{MovieID: movie.ID, UserID: user.ID, Rating: 2, Comment: "older"}
	newer := &models.Review{MovieID: movie.ID, UserID: user.ID, Rating: 4, Comment: "newer"}
	foreign := &models.Review{MovieID: movie.ID, UserID: other.ID, Rating: 5}
	mustCreate(t, db, older)
	mustCreate(t, db, newer)
	mustCreate(t, db, foreign)

	now := time.Now()
	require.NoError(t, db.Model(older).Update("updated_at", now.Add(-time.Hour)).Error)
	require.NoError(t, db.Model(newer).Update("updated_at", now).Error)

	reviews, err := repo.ListByUserAndMovie(user.ID, movie.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "newer", reviews[0].Comment)
	assert.Equal(t, "older", reviews[1].Comment)
}

func TestDeleteByUserReturnsAffectedMovies(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormReviewRepository(db)
	doomed := testUser(t, db, "doomed")
	keeper := testUser(t, db, "keeper")

	first := &models.Movie{Name: "First"}
	second := &models.Movie{Name: "Second"}
	untouched := &models.Movie{Name: "Untouched"}
	mustCreate(t, db, first)
	mustCreate(t, db, second)
	mustCreate(t, db, untouched)

	mustCreate(t, db, &models.Review{MovieID: first.ID, UserID: doomed.ID, Rating: 1})
	mustCreate(t, db, &models.Review{MovieID: first.ID, UserID: doomed.ID, Rating: 2})
	mustCreate(t, db, &models.Review{MovieID: second.ID, UserID: doomed.ID, Rating: 3})
	mustCreate(t, db, &models.Review{MovieID: untouched.ID, UserID: keeper.ID, Rating: 5})

	movieIDs, err := repo.DeleteByUser(doomed.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{first.ID, second.ID}, movieIDs)

	var remaining int64
	require.NoError(t, db.Model(&models.Review{}).Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining)
}
