package reservation

import (
	"context"
	"time"
)

// Guard inspects the locked reservation and vetoes a transition by
// returning an error.
type Guard func(r *Reservation) error

type Repository interface {
	// Book debits the membership for (r.UserID, r.CoachID) and inserts r as
	// CONFIRMED in one transaction.
	Book(ctx context.Context, r *Reservation) (*Reservation, error)
	// Transition locks the reservation, runs guard, moves it to next and
	// refunds the booked minutes when next is CANCELED.
	Transition(ctx context.Context, id int, next Status, feedback *string, actorID int, guard Guard) (*TransitionResult, error)

	GetByID(ctx context.Context, id int) (*Reservation, error)
	ListByUser(ctx context.Context, userID int, status Status) ([]ReservationDetail, error)
	ListAll(ctx context.Context, status Status) ([]ReservationDetail, error)
	// ListForCoach returns reservations of any status overlapping [from, to).
	ListForCoach(ctx context.Context, coachID int, from, to time.Time) ([]Reservation, error)
}
