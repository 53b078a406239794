package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gourl/sqids/internal/services"
)

// maxEncodeNumbers bounds the size of a single encode request.
const maxEncodeNumbers = 1000

// EncodeRequest represents the request body for encoding numbers.
type EncodeRequest struct {
	Numbers []uint64 `json:"numbers"`
}

// EncodeResponse carries an encoded id.
type EncodeResponse struct {
	ID string `json:"id"`
}

// DecodeResponse carries decoded numbers. Numbers is always a list.
type DecodeResponse struct {
	Numbers []uint64 `json:"numbers"`
}

// CodecHandler exposes the codec over HTTP.
type CodecHandler struct {
	service services.CodecService
}

// NewCodecHandler creates a new CodecHandler.
func NewCodecHandler(svc services.CodecService) *CodecHandler {
	return &CodecHandler{service: svc}
}

// Encode handles POST /api/v1/encode requests.
func (h *CodecHandler) Encode(w http.ResponseWriter, r *http.Request) {
	var req EncodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errInvalidBody)
		return
	}
	if len(req.Numbers) > maxEncodeNumbers {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "too many numbers",
			Code:  "TOO_MANY_NUMBERS",
		})
		return
	}

	id, err := h.service.Encode(req.Numbers)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, EncodeResponse{ID: id})
}

// Decode handles GET /api/v1/decode/{id} requests.
func (h *CodecHandler) Decode(w http.ResponseWriter, r *http.Request) {
	numbers := h.service.Decode(r.PathValue("id"))
	if numbers == nil {
		numbers = []uint64{}
	}
	writeJSON(w, http.StatusOK, DecodeResponse{Numbers: numbers})
}
