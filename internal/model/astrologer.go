package model

import "time"

// AstrologerStatusPending is the review status of a freshly submitted application.
const AstrologerStatusPending = "pending"

// AstrologerApplication is a registration request from an astrologer who
// wants to offer services on the platform.
type AstrologerApplication struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	DateOfBirth    string    `json:"dob,omitempty"`
	Gender         string    `json:"gender,omitempty"`
	Experience     int       `json:"experience"` // years
	Specialization string    `json:"specialization,omitempty"`
	Languages      []string  `json:"languages"`
	Services       []string  `json:"services"`
	About          string    `json:"about,omitempty"`
	Status         string    `json:"status"` // "pending" | "approved" | "rejected"
	IsActive       bool      `json:"isActive"`
	SubmittedAt    time.Time `json:"submittedAt"`
}
