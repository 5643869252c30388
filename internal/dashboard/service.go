package dashboard

import (
	"context"
	"time"
)

type Service interface {
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

func NewService(repo Repository, loc *time.Location) Service {
	return &service{repo: repo, loc: loc, now: time.Now}
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	now := s.now()
	day, week, month := windows(now, s.loc)
	return s.repo.Stats(ctx, day, week, month, now)
}

// windows returns today, the current Monday-based week and the current
// month in loc.
func windows(now time.Time, loc *time.Location) (day, week, month Window) {
	local := now.In(loc)
	y, m, d := local.Date()

	dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
	day = Window{From: dayStart, To: dayStart.AddDate(0, 0, 1)}

	offset := (int(local.Weekday()) + 6) % 7
	weekStart := dayStart.AddDate(0, 0, -offset)
	week = Window{From: weekStart, To: weekStart.AddDate(0, 0, 7)}

	monthStart := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	month = Window{From: monthStart, To: monthStart.AddDate(0, 1, 0)}
	return day, week, month
}
