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
)

type DirectorHandler struct {
	DirectorRepo repository.DirectorRepositoryInterface
}

func NewDirectorHandler(directorRepo repository.DirectorRepositoryInterface) *DirectorHandler {
	return &DirectorHandler{DirectorRepo: directorRepo}
}

type DirectorCreatePayload struct {
	Name      string    `json:"name"`
	LastName  string    `json:"last_name"`
	BirthDate time.Time `json:"birth_date"`
}

type DirectorUpdatePayload struct {
	Name      *string    `json:"name,omitempty"`
	LastName  *string    `json:"last_name,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}

func (h *DirectorHandler) ListDirectors(w http.ResponseWriter, r *http.Request) {
	directors, err := h.DirectorRepo.ListAll()
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve directors")
		return
	}
	writeJSON(w, http.StatusOK, directors)
}

func (h *DirectorHandler) GetDirector(w http.ResponseWriter, r *http.Request) {
	id, err := parseUintParam(r, "directorID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid director ID format")
		return
	}

	director, err := h.DirectorRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Director not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve director")
		}
		return
	}
	writeJSON(w, http.StatusOK, director)
}

func (h *DirectorHandler) CreateDirector(w http.ResponseWriter, r *http.Request) {
	var payload DirectorCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload: "+err.Error())
		return
	}

	if strings.TrimSpace(payload.Name) == "" || strings.TrimSpace(payload.LastName) == "" {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Director name and last name are required")
		return
	}

	director := &models.Director{
		Name:      payload.Name,
		LastName:  payload.LastName,
		BirthDate: payload.BirthDate,
	}
	if err := h.DirectorRepo.Create(director); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create director")
		return
	}

	writeJSON(w, http.StatusCreated, director)
}

func (h *DirectorHandler) UpdateDirector(w http.ResponseWriter, r *http.Request) {
	id, err := parseUintParam(r, "directorID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid director ID format")
		return
	}

	var payload DirectorUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload: "+err.Error())
		return
	}

	director, err := h.DirectorRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Director not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve director for update")
		}
		return
	}

	if payload.Name != nil {
		if strings.TrimSpace(*payload.Name) == "" {
			WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Director name cannot be empty")
			return
		}
		director.Name = *payload.Name
	}
	if payload.LastName != nil {
		if strings.TrimSpace(*payload.LastName) == "" {
			WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Director last name cannot be empty")
			return
		}
		director.LastName = *payload.LastName
	}
	if payload.BirthDate != nil {
		director.BirthDate = *payload.BirthDate
	}

	if err := h.DirectorRepo.Update(director); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to update director")
		return
	}

	writeJSON(w, http.StatusOK, director)
}

func (h *DirectorHandler) DeleteDirector(w http.ResponseWriter, r *http.Request) {
	id, err := parseUintParam(r, "directorID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid director ID format")
		return
	}

	if _, err := h.DirectorRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Director not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to check director before delete")
		}
		return
	}

	// movies referencing the director survive with the reference cleared
	if err := h.DirectorRepo.Delete(id); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to delete director")
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// parseUintParam parses a chi URL parameter as an unsigned integer ID.
func parseUintParam(r *http.Request, name string) (uint, error) {
	idStr := chi.URLParam(r, name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
