package membership

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Helpers in this file run inside a caller-owned transaction. They are the
// only code that writes remaining_minutes, and every write appends exactly
// one ledger row carrying the same delta.

const membershipColumns = `id, user_id, coach_id, remaining_minutes, expires_at, active, created_at, updated_at`

const ledgerColumns = `id, membership_id, delta_minutes, reason, reservation_id, created_by_user_id, created_at`

// LockForUserCoach loads and row-locks the membership for (userID, coachID).
func LockForUserCoach(ctx context.Context, tx sqlx.ExtContext, userID, coachID int) (*Membership, error) {
	var m Membership
	err := sqlx.GetContext(ctx, tx, &m, `
		SELECT `+membershipColumns+`
		FROM memberships
		WHERE user_id = $1 AND coach_id = $2
		FOR UPDATE`, userID, coachID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func LockByID(ctx context.Context, tx sqlx.ExtContext, id int) (*Membership, error) {
	var m Membership
	err := sqlx.GetContext(ctx, tx, &m, `SELECT `+membershipColumns+` FROM memberships WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ApplyDelta moves delta minutes on a locked membership and records the
// ledger entry. m.RemainingMinutes is updated on success.
func ApplyDelta(ctx context.Context, tx sqlx.ExtContext, m *Membership, delta int, reason LedgerReason, reservationID *int, createdBy int) (*LedgerEntry, error) {
	if m.RemainingMinutes+delta < 0 {
		return nil, ErrInsufficientMinutes
	}

	var remaining int
	err := sqlx.GetContext(ctx, tx, &remaining, `
		UPDATE memberships
		SET remaining_minutes = remaining_minutes + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING remaining_minutes`, delta, m.ID)
	if err != nil {
		return nil, err
	}

	var entry LedgerEntry
	err = sqlx.GetContext(ctx, tx, &entry, `
		INSERT INTO membership_ledger (membership_id, delta_minutes, reason, reservation_id, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+ledgerColumns, m.ID, delta, reason, reservationID, createdBy)
	if err != nil {
		return nil, err
	}

	m.RemainingMinutes = remaining
	return &entry, nil
}
