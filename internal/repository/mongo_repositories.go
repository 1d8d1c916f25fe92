package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/kavacham/backend/internal/model"
)

// MongoContactRepository stores contact messages in the contacts collection.
type MongoContactRepository struct {
	coll *mongo.Collection
}

// NewMongoContactRepository creates a MongoContactRepository.
func NewMongoContactRepository(m *Mongo) *MongoContactRepository {
	return &MongoContactRepository{coll: m.collection(ContactsCollection)}
}

var _ ContactRepository = (*MongoContactRepository)(nil)

// Create inserts msg and fills in its ID and CreatedAt.
func (r *MongoContactRepository) Create(ctx context.Context, msg *model.ContactMessage) error {
	doc := newContactDoc(msg, time.Now().UTC())
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	msg.ID = doc.ID.Hex()
	msg.CreatedAt = doc.CreatedAt
	return nil
}

// MongoAstrologerRepository stores applications in the astrologers collection.
type MongoAstrologerRepository struct {
	coll *mongo.Collection
}

// NewMongoAstrologerRepository creates a MongoAstrologerRepository.
func NewMongoAstrologerRepository(m *Mongo) *MongoAstrologerRepository {
	return &MongoAstrologerRepository{coll: m.collection(AstrologersCollection)}
}

var _ AstrologerRepository = (*MongoAstrologerRepository)(nil)

// Create inserts app and fills in its ID and SubmittedAt.
func (r *MongoAstrologerRepository) Create(ctx context.Context, app *model.AstrologerApplication) error {
	doc := newAstrologerDoc(app, time.Now().UTC())
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	app.ID = doc.ID.Hex()
	app.SubmittedAt = doc.SubmittedAt
	return nil
}

// MongoWaitlistRepository stores signups in the waitlist collection.
type MongoWaitlistRepository struct {
	coll *mongo.Collection
}

// NewMongoWaitlistRepository creates a MongoWaitlistRepository.
func NewMongoWaitlistRepository(m *Mongo) *MongoWaitlistRepository {
	return &MongoWaitlistRepository{coll: m.collection(WaitlistCollection)}
}

var _ WaitlistRepository = (*MongoWaitlistRepository)(nil)

// FindByEmail returns the entry whose email matches exactly.
func (r *MongoWaitlistRepository) FindByEmail(ctx context.Context, email string) (*model.WaitlistEntry, error) {
	var doc waitlistDoc
	err := r.coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

// Create inserts entry. A duplicate key error from the unique email index is
// reported as ErrDuplicate.
func (r *MongoWaitlistRepository) Create(ctx context.Context, entry *model.WaitlistEntry) error {
	doc := newWaitlistDoc(entry, time.Now().UTC())
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	entry.ID = doc.ID.Hex()
	entry.JoinedAt = doc.JoinedAt
	return nil
}
