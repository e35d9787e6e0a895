package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/cinescore/cinescorebackend/models"
	"github.com/cinescore/cinescorebackend/repository"
)

type AdminInviteCodeHandler struct {
	InviteCodeRepo repository.InviteCodeRepository
}

func NewAdminInviteCodeHandler(inviteCodeRepo repository.InviteCodeRepository) *AdminInviteCodeHandler {
	return &AdminInviteCodeHandler{InviteCodeRepo: inviteCodeRepo}
}

type InviteCodeCreatePayload struct {
	ExpiresAt *string `json:"expires_at,omitempty"` // RFC3339, e.g. "2026-12-31T23:59:59Z", or null
	MaxUses   *int    `json:"max_uses,omitempty"`   // nullable for unlimited
}

type InviteCodeUpdatePayload struct {
	ExpiresAt *string `json:"expires_at,omitempty"`
	MaxUses   *int    `json:"max_uses,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// InviteCodeResponseDTO for API responses
type InviteCodeResponseDTO struct {
	ID              uint    `json:"id"`
	Code            string  `json:"code"`
	ExpiresAt       *string `json:"expires_at,omitempty"`
	MaxUses         *int    `json:"max_uses,omitempty"`
	Uses            int     `json:"uses"`
	IsActive        bool    `json:"is_active"`
	CreatedByUserID uint    `json:"created_by_user_id"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func toInviteCodeResponseDTO(ic *models.InviteCode) InviteCodeResponseDTO {
	var expiresAtStr *string
	if ic.ExpiresAt != nil {
		s := ic.ExpiresAt.Format(time.RFC3339)
		expiresAtStr = &s
	}
	return InviteCodeResponseDTO{
		ID:              ic.ID,
		Code:            ic.Code,
		ExpiresAt:       expiresAtStr,
		MaxUses:         ic.MaxUses,
		Uses:            ic.Uses,
		IsActive:        ic.IsActive,
		CreatedByUserID: ic.CreatedByUserID,
		CreatedAt:       ic.CreatedAt.Format(http.TimeFormat),
		UpdatedAt:       ic.UpdatedAt.Format(http.TimeFormat),
	}
}

func toInviteCodeListResponseDTO(ics []models.InviteCode) []InviteCodeResponseDTO {
	dtos := make([]InviteCodeResponseDTO, len(ics))
	for i, ic := range ics {
		dtos[i] = toInviteCodeResponseDTO(&ic)
	}
	return dtos
}

func (h *AdminInviteCodeHandler) ListInviteCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.InviteCodeRepo.ListAll()
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve invite codes")
		return
	}
	writeJSON(w, http.StatusOK, toInviteCodeListResponseDTO(codes))
}

func (h *AdminInviteCodeHandler) GetInviteCode(w http.ResponseWriter, r *http.Request) {
	codeID, err := parseUintParam(r, "inviteCodeID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid invite code ID format")
		return
	}

	code, err := h.InviteCodeRepo.GetByID(codeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Invite code not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve invite code")
		}
		return
	}
	writeJSON(w, http.StatusOK, toInviteCodeResponseDTO(code))
}

func (h *AdminInviteCodeHandler) CreateInviteCode(w http.ResponseWriter, r *http.Request) {
	var payload InviteCodeCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload: "+err.Error())
		return
	}

	currentUser := CurrentUser(r)
	if currentUser == nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "User not found in context")
		return
	}

	inviteCode := &models.InviteCode{
		CreatedByUserID: currentUser.ID,
		MaxUses:         payload.MaxUses,
	}

	if payload.ExpiresAt != nil && *payload.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, *payload.ExpiresAt)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid expires_at format (must be RFC3339)")
			return
		}
		inviteCode.ExpiresAt = &t
	}

	if err := h.InviteCodeRepo.Create(inviteCode); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create invite code: "+err.Error())
		return
	}

	reloadedCode, err := h.InviteCodeRepo.GetByID(inviteCode.ID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve newly created invite code")
		return
	}
	writeJSON(w, http.StatusCreated, toInviteCodeResponseDTO(reloadedCode))
}

func (h *AdminInviteCodeHandler) UpdateInviteCode(w http.ResponseWriter, r *http.Request) {
	codeID, err := parseUintParam(r, "inviteCodeID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid invite code ID format")
		return
	}

	var payload InviteCodeUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload: "+err.Error())
		return
	}

	inviteCode, err := h.InviteCodeRepo.GetByID(codeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Invite code not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve invite code for update")
		}
		return
	}

	if payload.ExpiresAt != nil {
		if *payload.ExpiresAt == "" {
			inviteCode.ExpiresAt = nil
		} else {
			t, err := time.Parse(time.RFC3339, *payload.ExpiresAt)
			if err != nil {
				WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid expires_at format (must be RFC3339)")
				return
			}
			inviteCode.ExpiresAt = &t
		}
	}
	if payload.MaxUses != nil {
		inviteCode.MaxUses = payload.MaxUses
	}
	if payload.IsActive != nil {
		inviteCode.IsActive = *payload.IsActive
	}

	if err := h.InviteCodeRepo.Update(inviteCode); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to update invite code: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toInviteCodeResponseDTO(inviteCode))
}

func (h *AdminInviteCodeHandler) DeleteInviteCode(w http.ResponseWriter, r *http.Request) {
	codeID, err := parseUintParam(r, "inviteCodeID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid invite code ID format")
		return
	}

	if _, err := h.InviteCodeRepo.GetByID(codeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Invite code not found")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to check invite code before delete")
		return
	}

	if err := h.InviteCodeRepo.Delete(codeID); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to delete invite code: "+err.Error())
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
