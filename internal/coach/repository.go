package coach

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lessonbook/internal/db"

	"github.com/jmoiron/sqlx"
)

const selectCoach = `
	SELECT c.id, c.name, c.gender, c.bio, c.specialty, c.image_url, c.phone, c.created_at, c.updated_at,
	       COALESCE(array_agg(cb.branch_id ORDER BY cb.branch_id) FILTER (WHERE cb.branch_id IS NOT NULL), '{}') AS branch_ids
	FROM coaches c
	LEFT JOIN coach_branches cb ON cb.coach_id = c.id`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req CoachRequest) (*Coach, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var id int
	err = tx.GetContext(ctx, &id, `
		INSERT INTO coaches (name, gender, bio, specialty, image_url, phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		req.Name, req.Gender, req.Bio, req.Specialty, req.ImageURL, req.Phone)
	if err != nil {
		return nil, err
	}

	if err := linkBranches(ctx, tx, id, req.BranchIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func linkBranches(ctx context.Context, tx *sqlx.Tx, coachID int, branchIDs []int64) error {
	for _, branchID := range branchIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO coach_branches (coach_id, branch_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			coachID, branchID)
		if err != nil {
			if db.IsForeignKeyViolation(err) {
				return fmt.Errorf("%w: %d", ErrUnknownBranch, branchID)
			}
			return err
		}
	}
	return nil
}

func (r *repository) GetAll(ctx context.Context, branchID int) ([]Coach, error) {
	coaches := []Coach{}
	var err error
	if branchID > 0 {
		err = r.db.SelectContext(ctx, &coaches, selectCoach+`
			WHERE c.id IN (SELECT coach_id FROM coach_branches WHERE branch_id = $1)
			GROUP BY c.id ORDER BY c.name`, branchID)
	} else {
		err = r.db.SelectContext(ctx, &coaches, selectCoach+` GROUP BY c.id ORDER BY c.name`)
	}
	return coaches, err
}

func (r *repository) GetByID(ctx context.Context, id int) (*Coach, error) {
	var c Coach
	err := r.db.GetContext(ctx, &c, selectCoach+` WHERE c.id = $1 GROUP BY c.id`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCoachNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) Update(ctx context.Context, id int, req CoachRequest) (*Coach, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE coaches
		SET name = $1, gender = $2, bio = $3, specialty = $4, image_url = $5, phone = $6, updated_at = NOW()
		WHERE id = $7`,
		req.Name, req.Gender, req.Bio, req.Specialty, req.ImageURL, req.Phone, id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrCoachNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM coach_branches WHERE coach_id = $1`, id); err != nil {
		return nil, err
	}
	if err := linkBranches(ctx, tx, id, req.BranchIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coaches WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrCoachInUse
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCoachNotFound
	}
	return nil
}

func (r *repository) ListRules(ctx context.Context, coachID int) ([]AvailRule, error) {
	rules := []AvailRule{}
	err := r.db.SelectContext(ctx, &rules, `
		SELECT id, coach_id, weekday, start_time, end_time
		FROM coach_avail_rules
		WHERE coach_id = $1
		ORDER BY weekday, start_time`, coachID)
	return rules, err
}

// ReplaceRules swaps the whole weekly schedule in one transaction.
func (r *repository) ReplaceRules(ctx context.Context, coachID int, rules []AvailRule) ([]AvailRule, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM coach_avail_rules WHERE coach_id = $1`, coachID); err != nil {
		return nil, err
	}

	saved := make([]AvailRule, 0, len(rules))
	for _, rule := range rules {
		var out AvailRule
		err := tx.GetContext(ctx, &out, `
			INSERT INTO coach_avail_rules (coach_id, weekday, start_time, end_time)
			VALUES ($1, $2, $3, $4)
			RETURNING id, coach_id, weekday, start_time, end_time`,
			coachID, rule.Weekday, rule.StartTime, rule.EndTime)
		if err != nil {
			if db.IsForeignKeyViolation(err) {
				return nil, ErrCoachNotFound
			}
			return nil, err
		}
		saved = append(saved, out)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *repository) ListTimeOffs(ctx context.Context, coachID int, from, to time.Time) ([]TimeOff, error) {
	offs := []TimeOff{}
	err := r.db.SelectContext(ctx, &offs, `
		SELECT id, coach_id, start_at, end_at, reason, created_at
		FROM coach_time_offs
		WHERE coach_id = $1 AND start_at < $3 AND end_at > $2
		ORDER BY start_at`, coachID, from, to)
	return offs, err
}

func (r *repository) CreateTimeOff(ctx context.Context, t TimeOff) (*TimeOff, error) {
	var out TimeOff
	err := r.db.GetContext(ctx, &out, `
		INSERT INTO coach_time_offs (coach_id, start_at, end_at, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, coach_id, start_at, end_at, reason, created_at`,
		t.CoachID, t.StartAt, t.EndAt, t.Reason)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *repository) DeleteTimeOff(ctx context.Context, coachID, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coach_time_offs WHERE id = $1 AND coach_id = $2`, id, coachID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTimeOffNotFound
	}
	return nil
}
