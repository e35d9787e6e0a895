package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/cinescore/cinescorebackend/repository"
	"github.com/cinescore/cinescorebackend/services"
)

// CriticHandler serves the critic-scoped endpoints: every route here is
// implicitly filtered to the authenticated caller's own reviews.
type CriticHandler struct {
	ReviewRepo    repository.ReviewRepositoryInterface
	ReviewService *services.ReviewService
	Queries       *services.MovieQueryService
}

func NewCriticHandler(reviewRepo repository.ReviewRepositoryInterface, reviewService *services.ReviewService, queries *services.MovieQueryService) *CriticHandler {
	return &CriticHandler{ReviewRepo: reviewRepo, ReviewService: reviewService, Queries: queries}
}

// ListOwnReviews returns every review owned by the caller.
func (h *CriticHandler) ListOwnReviews(w http.ResponseWriter, r *http.Request) {
	actor := CurrentUser(r)
	if actor == nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "User not found in context")
		return
	}

	reviews, err := h.ReviewRepo.ListByUser(actor.ID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve reviews")
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// ListOwnReviewsForMovie returns the caller's reviews of one movie, most
// recently updated first.
func (h *CriticHandler) ListOwnReviewsForMovie(w http.ResponseWriter, r *http.Request) {
	actor := CurrentUser(r)
	if actor == nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "User not found in context")
		return
	}

	movieID, err := parseUintParam(r, "movieID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid movie ID format")
		return
	}

	reviews, err := h.ReviewRepo.ListByUserAndMovie(actor.ID, movieID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve reviews")
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// UpdateOwnReview updates one of the caller's own reviews. Reviews owned by
// other users respond 404 rather than 403: this surface never acknowledges
// foreign reviews.
func (h *CriticHandler) UpdateOwnReview(w http.ResponseWriter, r *http.Request) {
	actor := CurrentUser(r)
	if actor == nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "User not found in context")
		return
	}

	id, err := parseUintParam(r, "reviewID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid review ID format")
		return
	}

	var payload ReviewUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload: "+err.Error())
		return
	}
	if payload.Rating != nil && !validRating(*payload.Rating) {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Rating must be between 0 and 5")
		return
	}

	review, err := h.ReviewService.UpdateOwn(actor, id, services.ReviewPatch{
		MovieID: payload.MovieID,
		Rating:  payload.Rating,
		Comment: payload.Comment,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Review not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to update review")
		}
		return
	}

	writeJSON(w, http.StatusOK, review)
}

// DeleteOwnReview deletes one of the caller's own reviews.
func (h *CriticHandler) DeleteOwnReview(w http.ResponseWriter, r *http.Request) {
	actor := CurrentUser(r)
	if actor == nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "User not found in context")
		return
	}

	id, err := parseUintParam(r, "reviewID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid review ID format")
		return
	}

	if err := h.ReviewService.DeleteOwn(actor, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Review not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to delete review")
		}
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// TopOwnMovies ranks the movies the caller has reviewed by the caller's own
// mean rating per movie, not the global average.
func (h *CriticHandler) TopOwnMovies(w http.ResponseWriter, r *http.Request) {
	actor := CurrentUser(r)
	if actor == nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "User not found in context")
		return
	}

	limit, err := parseTopNumber(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid top number format")
		return
	}

	movies, err := h.Queries.TopMoviesByCritic(actor.ID, limit)
	if err != nil {
		if errors.Is(err, services.ErrNoReviewedMovies) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "You have not reviewed any movies yet")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve top movies")
		}
		return
	}
	writeJSON(w, http.StatusOK, movies)
}
