package handler

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/kavacham/backend/internal/model"
	"github.com/kavacham/backend/internal/service"
)

// AstrologerHandler handles astrologer registrations.
type AstrologerHandler struct {
	astrologerService service.AstrologerService
}

// NewAstrologerHandler creates an AstrologerHandler with the given service.
func NewAstrologerHandler(astrologerService service.AstrologerService) *AstrologerHandler {
	return &AstrologerHandler{astrologerService: astrologerService}
}

// astrologerRequest is the normalized registration form, whatever the
// request encoding was.
type astrologerRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,emailshape"`
	Phone          string `json:"phone" validate:"required"`
	DOB            string `json:"dob"`
	Gender         string `json:"gender"`
	Experience     string `json:"experience" validate:"required,wholenumber=100"`
	Specialization string `json:"specialization"`
	Languages      []string
	Services       []string
	About          string `json:"about"`
}

// astrologerJSON is the JSON body. experience may be a number or a numeric
// string; languages and services are parsed leniently.
type astrologerJSON struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	DOB            string          `json:"dob"`
	Gender         string          `json:"gender"`
	Experience     json.RawMessage `json:"experience"`
	Specialization string          `json:"specialization"`
	Languages      json.RawMessage `json:"languages"`
	Services       json.RawMessage `json:"services"`
	About          string          `json:"about"`
}

type astrologerResponse struct {
	Success   bool   `json:"success"`
	RecordID  string `json:"recordId"`
	EmailSent bool   `json:"emailSent"`
	Message   string `json:"message"`
}

// Register handles POST /api/astrologers/register.
// Accepts application/json, multipart/form-data and
// application/x-www-form-urlencoded bodies.
func (h *AstrologerHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := h.decode(w, r)
	if err != nil {
		writeInvalid(w, r, "astrologer", err)
		return
	}
	if err := validateStruct(req); err != nil {
		writeInvalid(w, r, "astrologer", err)
		return
	}
	experience, _ := strconv.Atoi(req.Experience)

	app := &model.AstrologerApplication{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		DateOfBirth:    req.DOB,
		Gender:         req.Gender,
		Experience:     experience,
		Specialization: req.Specialization,
		Languages:      req.Languages,
		Services:       req.Services,
		About:          req.About,
	}
	res, err := h.astrologerService.Register(r.Context(), app)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, astrologerResponse{
		Success:   true,
		RecordID:  res.RecordID,
		EmailSent: res.EmailSent,
		Message:   "Registration successful! We will review your application and contact you soon.",
	})
}

func (h *AstrologerHandler) decode(w http.ResponseWriter, r *http.Request) (*astrologerRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, invalidForm()
		}
		return astrologerFromForm(r), nil
	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return nil, invalidForm()
		}
		return astrologerFromForm(r), nil
	default:
		var body astrologerJSON
		if err := decodeJSON(w, r, &body); err != nil {
			return nil, err
		}
		return astrologerFromJSON(&body), nil
	}
}

func invalidForm() error {
	return &service.ValidationError{
		Code:    "invalid_form",
		Message: "Request body must be a valid form submission.",
	}
}

func astrologerFromJSON(body *astrologerJSON) *astrologerRequest {
	return &astrologerRequest{
		Name:           strings.TrimSpace(body.Name),
		Email:          strings.TrimSpace(body.Email),
		Phone:          strings.TrimSpace(body.Phone),
		DOB:            strings.TrimSpace(body.DOB),
		Gender:         strings.TrimSpace(body.Gender),
		Experience:     experienceFromJSON(body.Experience),
		Specialization: strings.TrimSpace(body.Specialization),
		Languages:      listFromJSON(body.Languages),
		Services:       listFromJSON(body.Services),
		About:          strings.TrimSpace(body.About),
	}
}

func astrologerFromForm(r *http.Request) *astrologerRequest {
	get := func(key string) string {
		return strings.TrimSpace(r.FormValue(key))
	}
	return &astrologerRequest{
		Name:           get("name"),
		Email:          get("email"),
		Phone:          get("phone"),
		DOB:            get("dob"),
		Gender:         get("gender"),
		Experience:     get("experience"),
		Specialization: get("specialization"),
		Languages:      listFromForm(r.Form["languages"]),
		Services:       listFromForm(r.Form["services"]),
		About:          get("about"),
	}
}

// experienceFromJSON returns the textual form of a JSON number or string,
// or "" when the field is absent or null.
func experienceFromJSON(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}
	return string(raw)
}

// listFromJSON accepts a JSON array of strings. Anything else yields an
// empty list.
func listFromJSON(raw json.RawMessage) []string {
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []string{}
	}
	return compact(out)
}

// listFromForm accepts a single JSON-encoded array or repeated plain values.
func listFromForm(values []string) []string {
	if len(values) == 1 {
		v := strings.TrimSpace(values[0])
		if strings.HasPrefix(v, "[") {
			return listFromJSON(json.RawMessage(v))
		}
	}
	return compact(values)
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
