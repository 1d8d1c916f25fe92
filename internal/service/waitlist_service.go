package service

import (
	"context"

	"github.com/kavacham/backend/internal/model"
)

// WaitlistService handles launch waitlist signups.
type WaitlistService interface {
	// Join adds email to the waitlist once. Joining again with the same email
	// reports AlreadyExists without writing or sending anything.
	Join(ctx context.Context, email string) (*WaitlistResult, error)
}

// WaitlistResult is the outcome of a join.
type WaitlistResult struct {
	AlreadyExists bool
	Entry         *model.WaitlistEntry // nil when AlreadyExists
	Deliveries    Deliveries
}

// JoinLocker narrows concurrent joins for the same email across processes.
// Failing to acquire is not proof of membership: the lookup and the store's
// unique index still decide.
type JoinLocker interface {
	Acquire(ctx context.Context, id string) (release func(), acquired bool)
}
