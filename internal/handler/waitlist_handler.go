package handler

import (
	"net/http"
	"strings"

	"github.com/kavacham/backend/internal/service"
)

// WaitlistHandler handles launch waitlist signups.
type WaitlistHandler struct {
	waitlistService service.WaitlistService
}

// NewWaitlistHandler creates a WaitlistHandler with the given service.
func NewWaitlistHandler(waitlistService service.WaitlistService) *WaitlistHandler {
	return &WaitlistHandler{waitlistService: waitlistService}
}

type waitlistRequest struct {
	Email string `json:"email" validate:"required,emailshape"`
}

type waitlistResponse struct {
	Success       bool   `json:"success"`
	AlreadyExists bool   `json:"alreadyExists"`
	RecordID      string `json:"recordId,omitempty"`
	Message       string `json:"message"`
}

// Join handles POST /api/waitlist and its alias POST /api/join.
func (h *WaitlistHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req waitlistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeInvalid(w, r, "waitlist", err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validateStruct(&req); err != nil {
		writeInvalid(w, r, "waitlist", err)
		return
	}

	res, err := h.waitlistService.Join(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if res.AlreadyExists {
		writeJSON(w, http.StatusOK, waitlistResponse{
			Success:       true,
			AlreadyExists: true,
			Message:       "You are already on the waitlist! We'll notify you as soon as we launch.",
		})
		return
	}
	writeJSON(w, http.StatusOK, waitlistResponse{
		Success:  true,
		RecordID: res.Entry.ID,
		Message:  "Successfully joined the waitlist! Check your email for confirmation.",
	})
}
