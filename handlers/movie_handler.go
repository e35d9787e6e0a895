package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/cinescore/cinescorebackend/models"
	"github.com/cinescore/cinescorebackend/repository"
	"github.com/cinescore/cinescorebackend/services"
)

type MovieHandler struct {
	MovieRepo    repository.MovieRepositoryInterface
	DirectorRepo repository.DirectorRepositoryInterface
	Queries      *services.MovieQueryService
}

func NewMovieHandler(movieRepo repository.MovieRepositoryInterface, directorRepo repository.DirectorRepositoryInterface, queries *services.MovieQueryService) *MovieHandler {
	return &MovieHandler{MovieRepo: movieRepo, DirectorRepo: directorRepo, Queries: queries}
}

// MovieCreatePayload deliberately has no average_rating field: the cached
// average is derived from reviews and cannot be supplied by clients.
type MovieCreatePayload struct {
	Name        string    `json:"name"`
	DirectorID  *uint     `json:"director_id,omitempty"`
	ReleaseDate time.Time `json:"release_date"`
	Description string    `json:"description"`
}

type MovieUpdatePayload struct {
	Name        *string    `json:"name,omitempty"`
	DirectorID  *uint      `json:"director_id,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	Description *string    `json:"description,omitempty"`
}

func (h *MovieHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.MovieRepo.ListAll()
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve movies")
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := parseUintParam(r, "movieID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid movie ID format")
		return
	}

	movie, err := h.MovieRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Movie not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve movie")
		}
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var payload MovieCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload: "+err.Error())
		return
	}

	if strings.TrimSpace(payload.Name) == "" {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Movie name is required")
		return
	}

	if payload.DirectorID != nil {
		if _, err := h.DirectorRepo.GetByID(*payload.DirectorID); err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Referenced director does not exist")
			return
		}
	}

	movie := &models.Movie{
		Name:        payload.Name,
		DirectorID:  payload.DirectorID,
		ReleaseDate: payload.ReleaseDate,
		Description: payload.Description,
	}
	if err := h.MovieRepo.Create(movie); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create movie")
		return
	}

	writeJSON(w, http.StatusCreated, movie)
}

func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := parseUintParam(r, "movieID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid movie ID format")
		return
	}

	var payload MovieUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload: "+err.Error())
		return
	}

	movie, err := h.MovieRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Movie not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve movie for update")
		}
		return
	}

	if payload.Name != nil {
		if strings.TrimSpace(*payload.Name) == "" {
			WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Movie name cannot be empty")
			return
		}
		movie.Name = *payload.Name
	}
	if payload.DirectorID != nil {
		if _, err := h.DirectorRepo.GetByID(*payload.DirectorID); err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Referenced director does not exist")
			return
		}
		movie.DirectorID = payload.DirectorID
	}
	if payload.ReleaseDate != nil {
		movie.ReleaseDate = *payload.ReleaseDate
	}
	if payload.Description != nil {
		movie.Description = *payload.Description
	}

	// preloaded association must not be re-saved alongside the new foreign key
	movie.Director = nil

	if err := h.MovieRepo.Update(movie); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to update movie")
		return
	}

	writeJSON(w, http.StatusOK, movie)
}

func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := parseUintParam(r, "movieID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid movie ID format")
		return
	}

	if _, err := h.MovieRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Movie not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to check movie before delete")
		}
		return
	}

	// the movie's reviews are deleted with it
	if err := h.MovieRepo.Delete(id); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to delete movie")
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// TopMovies returns the top-N movies by cached average rating. Responds 404
// when no movies exist; an explicit top_number of zero on a non-empty catalog
// returns an empty list.
func (h *MovieHandler) TopMovies(w http.ResponseWriter, r *http.Request) {
	limit, err := parseTopNumber(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid top number format")
		return
	}

	movies, err := h.Queries.TopMovies(limit)
	if err != nil {
		if errors.Is(err, services.ErrNoMovies) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "No movies have been added yet")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve top movies")
		}
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

func parseTopNumber(r *http.Request) (int, error) {
	topStr := chi.URLParam(r, "topNumber")
	top, err := strconv.Atoi(topStr)
	if err != nil || top < 0 {
		return 0, errors.New("invalid top number")
	}
	return top, nil
}
