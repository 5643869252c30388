package dashboard

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	// Stats counts CONFIRMED and ATTENDED reservations starting in each
	// window. Memberships are counted as active when usable at now.
	Stats(ctx context.Context, day, week, month Window, now time.Time) (*Stats, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Stats(ctx context.Context, day, week, month Window, now time.Time) (*Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'member') AS total_members,
			(SELECT COUNT(*) FROM coaches) AS total_coaches,
			(SELECT COUNT(*) FROM branches) AS total_branches,
			(SELECT COUNT(*) FROM lessons) AS total_lessons,
			(SELECT COUNT(*) FROM reservations
			  WHERE status IN ('CONFIRMED', 'ATTENDED') AND start_at >= $1 AND start_at < $2) AS today_reservations,
			(SELECT COUNT(*) FROM reservations
			  WHERE status IN ('CONFIRMED', 'ATTENDED') AND start_at >= $3 AND start_at < $4) AS week_reservations,
			(SELECT COUNT(*) FROM reservations
			  WHERE status IN ('CONFIRMED', 'ATTENDED') AND start_at >= $5 AND start_at < $6) AS month_reservations,
			(SELECT COUNT(*) FROM memberships WHERE active AND expires_at >= $7) AS active_memberships,
			(SELECT COALESCE(SUM(remaining_minutes), 0) FROM memberships WHERE active AND expires_at >= $7) AS outstanding_minutes
	`

	var s Stats
	err := r.db.GetContext(ctx, &s, query,
		day.From, day.To,
		week.From, week.To,
		month.From, month.To,
		now,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
