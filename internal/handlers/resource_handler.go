package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gourl/sqids/internal/models"
	"github.com/gourl/sqids/internal/services"
)

// CreateResourceRequest represents the request body for registering a resource.
type CreateResourceRequest struct {
	Name   string `json:"name"`
	Target string `json:"target,omitempty"`
}

// ResourceResponse is the public view of a resource. The numeric ID is
// not exposed.
type ResourceResponse struct {
	Token     string `json:"token"`
	Name      string `json:"name"`
	Target    string `json:"target,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ResourceHandler handles resource registry endpoints.
type ResourceHandler struct {
	service services.ResourceService
}

// NewResourceHandler creates a new ResourceHandler.
func NewResourceHandler(svc services.ResourceService) *ResourceHandler {
	return &ResourceHandler{service: svc}
}

// Create handles POST /api/v1/resources requests.
func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errInvalidBody)
		return
	}

	res, err := h.service.Create(r.Context(), services.CreateResourceRequest{
		Name:   req.Name,
		Target: req.Target,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/resources/"+res.Token)
	writeJSON(w, http.StatusCreated, toResourceResponse(res))
}

// Get handles GET /api/v1/resources/{token} requests.
func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Resolve(r.Context(), r.PathValue("token"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResourceResponse(res))
}

// Delete handles DELETE /api/v1/resources/{token} requests.
func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("token")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toResourceResponse(res *models.Resource) ResourceResponse {
	return ResourceResponse{
		Token:     res.Token,
		Name:      res.Name,
		Target:    res.Target,
		CreatedAt: res.CreatedAt.UTC().Format(time.RFC3339),
	}
}
