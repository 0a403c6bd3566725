package model

import (
	"housiee-backend/internal/shared/authz"
	"housiee-backend/pkg/apperror"
)

// Actor is the caller's relationship to one booking.
type Actor string

const (
	ActorNone     Actor = "NONE"
	ActorRenter   Actor = "RENTER"
	ActorProvider Actor = "PROVIDER"
	ActorAdmin    Actor = "ADMIN"
)

// transitions lists, per actor and current status, the statuses the actor
// may move a booking to. Anything not listed is rejected.
var transitions = map[Actor]map[Status][]Status{
	ActorRenter: {
		StatusPending:   {StatusCancelled},
		StatusConfirmed: {StatusCancelled},
	},
	ActorProvider: {
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusCompleted, StatusCancelled},
	},
	ActorAdmin: {
		StatusPending:   {StatusConfirmed, StatusCancelled, StatusCompleted},
		StatusConfirmed: {StatusPending, StatusCancelled, StatusCompleted},
		StatusCancelled: {StatusPending, StatusConfirmed, StatusCompleted},
		StatusCompleted: {StatusPending, StatusConfirmed, StatusCancelled},
	},
}

// vocabulary is the set of target statuses an actor may ever request.
// Requesting a status outside it is a permission problem (403), while a
// known target that is not allowed from the current status is a bad
// request (400).
var vocabulary = map[Actor]map[Status]bool{
	ActorRenter:   {StatusCancelled: true},
	ActorProvider: {StatusConfirmed: true, StatusCancelled: true, StatusCompleted: true},
	ActorAdmin:    {StatusPending: true, StatusConfirmed: true, StatusCancelled: true, StatusCompleted: true},
}

// ActorFor classifies caller against booking. Precedence: admin, owning
// provider, renter.
func ActorFor(caller *authz.Caller, booking *BookingDetail) Actor {
	switch {
	case caller == nil || booking == nil:
		return ActorNone
	case caller.IsAdmin():
		return ActorAdmin
	case caller.OwnsProvider(booking.ProviderID):
		return ActorProvider
	case caller.Is(booking.UserID):
		return ActorRenter
	default:
		return ActorNone
	}
}

// AllowedTransitions returns the statuses actor may move a booking in from to.
func AllowedTransitions(actor Actor, from Status) []Status {
	return transitions[actor][from]
}

// CheckTransition validates moving a booking from one status to another.
func CheckTransition(actor Actor, from, to Status) error {
	// Renters learn nothing beyond "cancel only", even for unknown statuses
	switch {
	case actor == ActorNone:
		return NewNoAccessError()
	case actor == ActorRenter && to != StatusCancelled:
		return apperror.Forbidden("You can only cancel your bookings")
	case !to.IsValid():
		return NewInvalidStatusError(string(to))
	case !vocabulary[actor][to]:
		return apperror.Forbidden("You cannot set this booking status")
	}

	for _, allowed := range transitions[actor][from] {
		if allowed == to {
			return nil
		}
	}
	return NewInvalidTransitionError(from, to)
}
