package handler

import (
	"net/http"
	"strings"

	"github.com/kavacham/backend/internal/model"
	"github.com/kavacham/backend/internal/service"
)

// ContactHandler handles contact form submissions.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// contactRequest is the expected JSON body for POST /api/contact.
type contactRequest struct {
	To           string `json:"to" validate:"required,emailshape"`
	CustomerName string `json:"customerName" validate:"required"`
	Message      string `json:"message" validate:"required,max=5000"`
	Email        string `json:"email" validate:"required,emailshape"`
	Phone        string `json:"phone"`
}

type contactResponse struct {
	Success  bool   `json:"success"`
	RecordID string `json:"recordId"`
	Message  string `json:"message"`
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeInvalid(w, r, "contact", err)
		return
	}
	req.To = strings.TrimSpace(req.To)
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	if strings.TrimSpace(req.Message) == "" {
		req.Message = ""
	}

	if err := validateStruct(&req); err != nil {
		writeInvalid(w, r, "contact", err)
		return
	}

	msg := &model.ContactMessage{
		To:           req.To,
		CustomerName: req.CustomerName,
		Email:        req.Email,
		Phone:        req.Phone,
		Message:      req.Message,
	}
	res, err := h.contactService.Submit(r.Context(), msg)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, contactResponse{
		Success:  true,
		RecordID: res.RecordID,
		Message:  "Your message has been sent. We will get back to you soon.",
	})
}
