package reservation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"lessonbook/internal/db"
	"lessonbook/internal/membership"

	"github.com/jmoiron/sqlx"
)

const overlapConstraint = "no_overlap_per_coach"

const reservationColumns = `id, lesson_id, user_id, coach_id, branch_id, start_at, end_at, status,
	goal, category_tag, feedback, canceled_at, created_at, updated_at`

const selectDetail = `
	SELECT r.id, r.lesson_id, r.user_id, r.coach_id, r.branch_id, r.start_at, r.end_at, r.status,
	       r.goal, r.category_tag, r.feedback, r.canceled_at, r.created_at, r.updated_at,
	       l.name AS lesson_name, c.name AS coach_name, b.name AS branch_name, u.name AS user_name
	FROM reservations r
	JOIN lessons l ON l.id = r.lesson_id
	JOIN coaches c ON c.id = r.coach_id
	JOIN branches b ON b.id = r.branch_id
	JOIN users u ON u.id = r.user_id`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Book(ctx context.Context, res *Reservation) (*Reservation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	m, err := membership.LockForUserCoach(ctx, tx, res.UserID, res.CoachID)
	if errors.Is(err, membership.ErrMembershipNotFound) {
		return nil, ErrNoMembership
	}
	if err != nil {
		return nil, err
	}

	minutes := res.DurationMinutes()
	switch {
	case !m.Active:
		return nil, ErrNoMembership
	case m.ExpiresAt.Before(res.StartAt):
		return nil, ErrMembershipExpired
	case m.RemainingMinutes < minutes:
		return nil, ErrInsufficientMinutes
	}

	// Serializes bookings per coach until commit.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, res.CoachID); err != nil {
		return nil, err
	}

	taken, err := db.Exists(ctx, tx, `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE coach_id = $1
			  AND status IN ('PENDING', 'CONFIRMED', 'ATTENDED', 'HOLIDAY')
			  AND start_at < $3 AND end_at > $2
		)`, res.CoachID, res.StartAt, res.EndAt)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrTimeConflict
	}

	var created Reservation
	err = tx.GetContext(ctx, &created, `
		INSERT INTO reservations (lesson_id, user_id, coach_id, branch_id, start_at, end_at, status, goal, category_tag)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+reservationColumns,
		res.LessonID, res.UserID, res.CoachID, res.BranchID, res.StartAt, res.EndAt, StatusConfirmed, res.Goal, res.CategoryTag)
	if err != nil {
		if db.ConstraintViolation(err, db.CodeExclusionViolation, overlapConstraint) {
			return nil, ErrTimeConflict
		}
		return nil, err
	}

	if _, err := membership.ApplyDelta(ctx, tx, m, -minutes, membership.ReasonBooking, &created.ID, res.UserID); err != nil {
		if errors.Is(err, membership.ErrInsufficientMinutes) {
			return nil, ErrInsufficientMinutes
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		if db.ConstraintViolation(err, db.CodeExclusionViolation, overlapConstraint) {
			return nil, ErrTimeConflict
		}
		return nil, err
	}
	return &created, nil
}

func (r *repository) Transition(ctx context.Context, id int, next Status, feedback *string, actorID int, guard Guard) (*TransitionResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var cur Reservation
	err = tx.GetContext(ctx, &cur, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}

	if guard != nil {
		if err := guard(&cur); err != nil {
			return nil, err
		}
	}

	canceling := next == StatusCanceled && cur.Status != StatusCanceled
	canceledAt := cur.CanceledAt
	if canceling {
		now := time.Now()
		canceledAt = &now
	}

	var updated Reservation
	err = tx.GetContext(ctx, &updated, `
		UPDATE reservations
		SET status = $1, feedback = COALESCE($2, feedback), canceled_at = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+reservationColumns, next, feedback, canceledAt, id)
	if err != nil {
		if db.ConstraintViolation(err, db.CodeExclusionViolation, overlapConstraint) {
			return nil, ErrTimeConflict
		}
		return nil, err
	}

	result := &TransitionResult{Reservation: &updated, Previous: cur.Status}
	if canceling {
		m, err := membership.LockForUserCoach(ctx, tx, cur.UserID, cur.CoachID)
		switch {
		case errors.Is(err, membership.ErrMembershipNotFound):
			// canceled without refund
		case err != nil:
			return nil, err
		default:
			if _, err := membership.ApplyDelta(ctx, tx, m, cur.DurationMinutes(), membership.ReasonCancelRefund, &cur.ID, actorID); err != nil {
				return nil, err
			}
			result.Refunded = true
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Reservation, error) {
	var res Reservation
	err := r.db.GetContext(ctx, &res, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int, status Status) ([]ReservationDetail, error) {
	out := []ReservationDetail{}
	err := r.db.SelectContext(ctx, &out, selectDetail+`
		WHERE r.user_id = $1 AND ($2::text = '' OR r.status = $2::text)
		ORDER BY r.start_at DESC`, userID, string(status))
	return out, err
}

func (r *repository) ListAll(ctx context.Context, status Status) ([]ReservationDetail, error) {
	out := []ReservationDetail{}
	err := r.db.SelectContext(ctx, &out, selectDetail+`
		WHERE ($1::text = '' OR r.status = $1::text)
		ORDER BY r.start_at DESC`, string(status))
	return out, err
}

func (r *repository) ListForCoach(ctx context.Context, coachID int, from, to time.Time) ([]Reservation, error) {
	out := []Reservation{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE coach_id = $1 AND start_at < $3 AND end_at > $2
		ORDER BY start_at`, coachID, from, to)
	return out, err
}
