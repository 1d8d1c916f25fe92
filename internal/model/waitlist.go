package model

import "time"

// WaitlistStatusActive is the status of a new waitlist entry.
const WaitlistStatusActive = "active"

// WaitlistEntry is a launch waitlist signup. Email is unique across entries.
type WaitlistEntry struct {
	ID       string    `json:"id"`
	Email    string    `json:"email"`
	Status   string    `json:"status"`
	Notified bool      `json:"notified"`
	JoinedAt time.Time `json:"joinedAt"`
}
