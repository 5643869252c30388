package membership

import (
	"context"
	"database/sql"
	"errors"

	"lessonbook/internal/db"

	"github.com/jmoiron/sqlx"
)

const uniqueUserCoach = "memberships_user_coach_key"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Issue creates the membership at zero and allocates the opening balance
// through the ledger so the balance always equals the ledger sum.
func (r *repository) Issue(ctx context.Context, userID int, req IssueRequest, createdBy int) (*Membership, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var m Membership
	err = tx.GetContext(ctx, &m, `
		INSERT INTO memberships (user_id, coach_id, remaining_minutes, expires_at, active)
		VALUES ($1, $2, 0, $3, TRUE)
		RETURNING `+membershipColumns, userID, req.CoachID, req.ExpiresAt)
	if err != nil {
		switch {
		case db.ConstraintViolation(err, db.CodeUniqueViolation, uniqueUserCoach):
			return nil, ErrMembershipExists
		case db.IsForeignKeyViolation(err):
			return nil, ErrUnknownReference
		}
		return nil, err
	}

	if req.RemainingMinutes > 0 {
		if _, err := ApplyDelta(ctx, tx, &m, req.RemainingMinutes, ReasonAllocate, nil, createdBy); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) Adjust(ctx context.Context, id, delta, createdBy int) (*Membership, *LedgerEntry, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	m, err := LockByID(ctx, tx, id)
	if err != nil {
		return nil, nil, err
	}

	entry, err := ApplyDelta(ctx, tx, m, delta, ReasonAdjust, nil, createdBy)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return m, entry, nil
}

func (r *repository) SetActive(ctx context.Context, id int, active bool) (*Membership, error) {
	var m Membership
	err := r.db.GetContext(ctx, &m, `
		UPDATE memberships SET active = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+membershipColumns, active, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Membership, error) {
	var m Membership
	err := r.db.GetContext(ctx, &m, `SELECT `+membershipColumns+` FROM memberships WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]MembershipSummary, error) {
	out := []MembershipSummary{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT m.id, m.user_id, m.coach_id, m.remaining_minutes, m.expires_at, m.active, m.created_at, m.updated_at,
		       c.name AS coach_name,
		       (SELECT COUNT(*) FROM membership_ledger l WHERE l.membership_id = m.id) AS ledger_count
		FROM memberships m
		JOIN coaches c ON c.id = m.coach_id
		WHERE m.user_id = $1
		ORDER BY m.active DESC, m.expires_at ASC`, userID)
	return out, err
}

func (r *repository) ListLedger(ctx context.Context, membershipID int) ([]LedgerEntry, error) {
	out := []LedgerEntry{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+ledgerColumns+`
		FROM membership_ledger
		WHERE membership_id = $1
		ORDER BY created_at DESC, id DESC`, membershipID)
	return out, err
}

func (r *repository) Audit(ctx context.Context, id int) (*Audit, error) {
	var a Audit
	err := r.db.GetContext(ctx, &a, `
		SELECT m.id AS membership_id, m.remaining_minutes,
		       COALESCE((SELECT SUM(l.delta_minutes) FROM membership_ledger l WHERE l.membership_id = m.id), 0) AS ledger_sum
		FROM memberships m
		WHERE m.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}
	a.Consistent = a.RemainingMinutes == a.LedgerSum
	return &a, nil
}
