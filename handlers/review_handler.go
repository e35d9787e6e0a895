package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/cinescore/cinescorebackend/models"
	"github.com/cinescore/cinescorebackend/repository"
	"github.com/cinescore/cinescorebackend/services"
)

type ReviewHandler struct {
	ReviewRepo    repository.ReviewRepositoryInterface
	ReviewService *services.ReviewService
}

func NewReviewHandler(reviewRepo repository.ReviewRepositoryInterface, reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{ReviewRepo: reviewRepo, ReviewService: reviewService}
}

// ReviewCreatePayload has no user field on purpose: the review is always
// owned by the authenticated caller, whatever the request body claims.
type ReviewCreatePayload struct {
	MovieID uint    `json:"movie_id"`
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

type ReviewUpdatePayload struct {
	MovieID *uint    `json:"movie_id,omitempty"`
	Rating  *float64 `json:"rating,omitempty"`
	Comment *string  `json:"comment,omitempty"`
}

func validRating(rating float64) bool {
	return rating >= 0 && rating <= 5
}

// writeReviewMutationError maps review service failures onto API responses:
// policy denials become 403 with the policy's fixed message, missing records
// become 404.
func writeReviewMutationError(w http.ResponseWriter, err error) {
	var denied *services.DeniedError
	switch {
	case errors.As(err, &denied):
		WriteAPIError(w, http.StatusForbidden, "forbidden", denied.Reason)
	case errors.Is(err, gorm.ErrRecordNotFound):
		WriteAPIError(w, http.StatusNotFound, "not_found", "Review or movie not found")
	default:
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to apply review change")
	}
}

// ListReviews returns the caller's own reviews; members of the Movies
// Administrators group (or holders of review.list.all) see every review.
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	actor := CurrentUser(r)
	if actor == nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "User not found in context")
		return
	}

	var (
		reviews []models.Review
		err     error
	)
	if actor.InGroup(models.MoviesAdminGroupName) || actor.HasGlobalPermission("review.list.all") {
		reviews, err = h.ReviewRepo.ListAll()
	} else {
		reviews, err = h.ReviewRepo.ListByUser(actor.ID)
	}
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve reviews")
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
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

	review, err := h.ReviewRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Review not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve review")
		}
		return
	}

	// non-privileged callers only ever see their own reviews
	if review.UserID != actor.ID && !actor.InGroup(models.MoviesAdminGroupName) && !actor.HasGlobalPermission("review.list.all") {
		WriteAPIError(w, http.StatusNotFound, "not_found", "Review not found")
		return
	}

	writeJSON(w, http.StatusOK, review)
}

func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	actor := CurrentUser(r)
	if actor == nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "User not found in context")
		return
	}

	var payload ReviewCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload: "+err.Error())
		return
	}

	if payload.MovieID == 0 {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "A movie reference is required")
		return
	}
	if !validRating(payload.Rating) {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Rating must be between 0 and 5")
		return
	}

	review, err := h.ReviewService.Create(actor, services.ReviewInput{
		MovieID: payload.MovieID,
		Rating:  payload.Rating,
		Comment: payload.Comment,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Movie not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create review")
		}
		return
	}

	writeJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
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

	var payload ReviewCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload: "+err.Error())
		return
	}
	if payload.MovieID == 0 {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "A movie reference is required")
		return
	}
	if !validRating(payload.Rating) {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Rating must be between 0 and 5")
		return
	}

	review, err := h.ReviewService.Update(actor, id, services.ReviewInput{
		MovieID: payload.MovieID,
		Rating:  payload.Rating,
		Comment: payload.Comment,
	})
	if err != nil {
		writeReviewMutationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, review)
}

func (h *ReviewHandler) PartialUpdateReview(w http.ResponseWriter, r *http.Request) {
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

	review, err := h.ReviewService.PartialUpdate(actor, id, services.ReviewPatch{
		MovieID: payload.MovieID,
		Rating:  payload.Rating,
		Comment: payload.Comment,
	})
	if err != nil {
		writeReviewMutationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, review)
}

func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
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

	if err := h.ReviewService.Delete(actor, id); err != nil {
		writeReviewMutationError(w, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
