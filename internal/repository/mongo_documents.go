package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/kavacham/backend/internal/model"
)

// contactDoc is the stored shape of a ContactMessage. phone is null when the
// visitor left it empty.
type contactDoc struct {
	ID           bson.ObjectID `bson:"_id"`
	To           string        `bson:"to"`
	CustomerName string        `bson:"customerName"`
	Email        string        `bson:"email"`
	Phone        *string       `bson:"phone"`
	Message      string        `bson:"message"`
	Status       string        `bson:"status"`
	CreatedAt    time.Time     `bson:"createdAt"`
}

type astrologerDoc struct {
	ID             bson.ObjectID `bson:"_id"`
	Name           string        `bson:"name"`
	Email          string        `bson:"email"`
	Phone          string        `bson:"phone"`
	DateOfBirth    string        `bson:"dob"`
	Gender         string        `bson:"gender"`
	Experience     int           `bson:"experience"`
	Specialization string        `bson:"specialization"`
	Languages      []string      `bson:"languages"`
	Services       []string      `bson:"services"`
	About          string        `bson:"about"`
	Status         string        `bson:"status"`
	IsActive       bool          `bson:"isActive"`
	SubmittedAt    time.Time     `bson:"submittedAt"`
}

type waitlistDoc struct {
	ID       bson.ObjectID `bson:"_id"`
	Email    string        `bson:"email"`
	Status   string        `bson:"status"`
	Notified bool          `bson:"notified"`
	JoinedAt time.Time     `bson:"joinedAt"`
}

func newContactDoc(msg *model.ContactMessage, now time.Time) contactDoc {
	var phone *string
	if msg.Phone != "" {
		p := msg.Phone
		phone = &p
	}
	return contactDoc{
		ID:           bson.NewObjectID(),
		To:           msg.To,
		CustomerName: msg.CustomerName,
		Email:        msg.Email,
		Phone:        phone,
		Message:      msg.Message,
		Status:       msg.Status,
		CreatedAt:    now,
	}
}

func newAstrologerDoc(app *model.AstrologerApplication, now time.Time) astrologerDoc {
	return astrologerDoc{
		ID:             bson.NewObjectID(),
		Name:           app.Name,
		Email:          app.Email,
		Phone:          app.Phone,
		DateOfBirth:    app.DateOfBirth,
		Gender:         app.Gender,
		Experience:     app.Experience,
		Specialization: app.Specialization,
		Languages:      nonNil(app.Languages),
		Services:       nonNil(app.Services),
		About:          app.About,
		Status:         app.Status,
		IsActive:       app.IsActive,
		SubmittedAt:    now,
	}
}

func newWaitlistDoc(entry *model.WaitlistEntry, now time.Time) waitlistDoc {
	return waitlistDoc{
		ID:       bson.NewObjectID(),
		Email:    entry.Email,
		Status:   entry.Status,
		Notified: entry.Notified,
		JoinedAt: now,
	}
}

func (d waitlistDoc) toModel() *model.WaitlistEntry {
	return &model.WaitlistEntry{
		ID:       d.ID.Hex(),
		Email:    d.Email,
		Status:   d.Status,
		Notified: d.Notified,
		JoinedAt: d.JoinedAt,
	}
}
