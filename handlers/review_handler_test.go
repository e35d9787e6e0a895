package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cinescore/cinescorebackend/database"
	"github.com/cinescore/cinescorebackend/models"
	"github.com/cinescore/cinescorebackend/repository"
	"github.com/cinescore/cinescorebackend/services"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrateModels(db))
	return db
}

// newTestRouter builds the review-facing route subset with a stub auth
// middleware that injects the given actor directly into the request context.
func newTestRouter(db *gorm.DB, actor *models.User, policy services.ReviewAccessPolicy) http.Handler {
	movieRepo := repository.NewGormMovieRepository(db)
	reviewRepo := repository.NewGormReviewRepository(db)
	directorRepo := repository.NewGormDirectorRepository(db)

	reviewService := services.NewReviewService(db, policy)
	queries := services.NewMovieQueryService(movieRepo, reviewRepo)

	movieHandler := NewMovieHandler(movieRepo, directorRepo, queries)
	reviewHandler := NewReviewHandler(reviewRepo, reviewService)
	criticHandler := NewCriticHandler(reviewRepo, reviewService, queries)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), UserContextKey, actor)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/movies/top/{topNumber}", movieHandler.TopMovies)
		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", reviewHandler.ListReviews)
			r.Post("/", reviewHandler.CreateReview)
			r.Route("/{reviewID}", func(r chi.Router) {
				r.Get("/", reviewHandler.GetReview)
				r.Put("/", reviewHandler.UpdateReview)
				r.Patch("/", reviewHandler.PartialUpdateReview)
				r.Delete("/", reviewHandler.DeleteReview)
			})
		})
		r.Route("/critic", func(r chi.Router) {
			r.Put("/reviews/{reviewID}", criticHandler.UpdateOwnReview)
			r.Delete("/reviews/{reviewID}", criticHandler.DeleteOwnReview)
			r.Get("/movies/top/{topNumber}", criticHandler.TopOwnMovies)
		})
	})
	return r
}

func createTestUser(t *testing.T, db *gorm.DB, username string, admin bool) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "irrelevant"}
	require.NoError(t, db.Create(user).Error)

	if admin {
		group := &models.Group{Name: models.MoviesAdminGroupName}
		require.NoError(t, db.Where("name = ?", group.Name).FirstOrCreate(group).Error)
		require.NoError(t, db.Create(&models.UserGroup{UserID: user.ID, GroupID: group.ID}).Error)
		user.Groups = []*models.Group{group}
	}
	return user
}

func createTestMovie(t *testing.T, db *gorm.DB, name string) *models.Movie {
	t.Helper()
	movie := &models.Movie{Name: name}
	require.NoError(t, db.Create(movie).Error)
	return movie
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func firstErrorDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Errors)
	return resp.Errors[0].Detail
}

func TestCreateReviewIgnoresCallerSuppliedOwner(t *testing.T) {
	db := newTestDB(t)
	actor := createTestUser(t, db, "alice", false)
	victim := createTestUser(t, db, "bob", false)
	movie := createTestMovie(t, db, "Chinatown")

	router := newTestRouter(db, actor, services.GroupOnlyPolicy{})
	rec := doJSON(t, router, http.MethodPost, "/api/reviews", map[string]interface{}{
		"movie_id": movie.ID,
		"rating":   4,
		"comment":  "tight",
		"user_id":  victim.ID, // must be ignored
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, actor.ID, created.UserID)
}

func TestCreateReviewRejectsOutOfRangeRating(t *testing.T) {
	db := newTestDB(t)
	actor := createTestUser(t, db, "alice", false)
	movie := createTestMovie(t, db, "Jaws")

	router := newTestRouter(db, actor, services.GroupOnlyPolicy{})
	rec := doJSON(t, router, http.MethodPost, "/api/reviews", map[string]interface{}{
		"movie_id": movie.ID,
		"rating":   5.5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateReviewDeniedUnderGroupOnlyPolicy(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", false)
	movie := createTestMovie(t, db, "Alien")
	review := &models.Review{MovieID: movie.ID, UserID: owner.ID, Rating: 4, Comment: "original"}
	require.NoError(t, db.Create(review).Error)

	router := newTestRouter(db, owner, services.GroupOnlyPolicy{})
	rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/reviews/%d", review.ID), map[string]interface{}{
		"movie_id": movie.ID,
		"rating":   1,
		"comment":  "changed",
	})

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Only members of the Movies Administrators group can modify reviews.", firstErrorDetail(t, rec))

	var reloaded models.Review
	require.NoError(t, db.First(&reloaded, review.ID).Error)
	assert.Equal(t, "original", reloaded.Comment)
}

func TestDeleteReviewByAdminRecomputesAverage(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin", true)
	owner := createTestUser(t, db, "owner", false)
	movie := createTestMovie(t, db, "Blade Runner")
	doomed := &models.Review{MovieID: movie.ID, UserID: owner.ID, Rating: 1}
	require.NoError(t, db.Create(doomed).Error)
	require.NoError(t, db.Create(&models.Review{MovieID: movie.ID, UserID: admin.ID, Rating: 5}).Error)

	router := newTestRouter(db, admin, services.GroupOnlyPolicy{})
	rec := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/reviews/%d", doomed.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	var reloaded models.Movie
	require.NoError(t, db.First(&reloaded, movie.ID).Error)
	assert.InDelta(t, 5.0, reloaded.AverageRating, 1e-9)
}

func TestGetForeignReviewHiddenFromNonAdmin(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", false)
	stranger := createTestUser(t, db, "stranger", false)
	movie := createTestMovie(t, db, "The Thing")
	review := &models.Review{MovieID: movie.ID, UserID: owner.ID, Rating: 4}
	require.NoError(t, db.Create(review).Error)

	router := newTestRouter(db, stranger, services.GroupOnlyPolicy{})
	rec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/reviews/%d", review.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCriticUpdateForeignReviewNotFound(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", false)
	stranger := createTestUser(t, db, "stranger", false)
	movie := createTestMovie(t, db, "Rear Window")
	review := &models.Review{MovieID: movie.ID, UserID: owner.ID, Rating: 4}
	require.NoError(t, db.Create(review).Error)

	router := newTestRouter(db, stranger, services.GroupOnlyPolicy{})
	rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/critic/reviews/%d", review.ID), map[string]interface{}{
		"rating": 1,
	})
	// foreign reviews are reported as missing, never as forbidden
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTopMoviesEndpoint(t *testing.T) {
	db := newTestDB(t)
	actor := createTestUser(t, db, "alice", false)
	router := newTestRouter(db, actor, services.GroupOnlyPolicy{})

	rec := doJSON(t, router, http.MethodGet, "/api/movies/top/3", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No movies have been added yet", firstErrorDetail(t, rec))

	movie := createTestMovie(t, db, "Casino")
	require.NoError(t, db.Model(movie).Update("average_rating", 4.0).Error)

	rec = doJSON(t, router, http.MethodGet, "/api/movies/top/3", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var movies []models.Movie
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &movies))
	require.Len(t, movies, 1)
	assert.Equal(t, "Casino", movies[0].Name)

	// zero on a non-empty catalog is an empty list, not an error
	rec = doJSON(t, router, http.MethodGet, "/api/movies/top/0", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCriticTopMoviesNothingReviewed(t *testing.T) {
	db := newTestDB(t)
	actor := createTestUser(t, db, "alice", false)
	createTestMovie(t, db, "Goodfellas")

	router := newTestRouter(db, actor, services.GroupOnlyPolicy{})
	rec := doJSON(t, router, http.MethodGet, "/api/critic/movies/top/5", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "You have not reviewed any movies yet", firstErrorDetail(t, rec))
}
