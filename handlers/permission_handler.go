package handlers

import (
	"net/http"

	"github.com/cinescore/cinescorebackend/permissions"
)

type PermissionsHandler struct {
	// no dependencies, serves static data
}

func NewPermissionsHandler() *PermissionsHandler {
	return &PermissionsHandler{}
}

// ListDefinedPermissions serves the statically defined permission groups and
// their permissions, so a UI can understand what is available for assignment.
func (h *PermissionsHandler) ListDefinedPermissions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, permissions.DefinedPermissionGroups)
}

// ListDefinedPermissionKeys serves just the keys of all defined permissions.
func (h *PermissionsHandler) ListDefinedPermissionKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, permissions.GetAllPermissionKeys())
}
