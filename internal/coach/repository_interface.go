package coach

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, req CoachRequest) (*Coach, error)
	GetAll(ctx context.Context, branchID int) ([]Coach, error)
	GetByID(ctx context.Context, id int) (*Coach, error)
	Update(ctx context.Context, id int, req CoachRequest) (*Coach, error)
	Delete(ctx context.Context, id int) error

	ListRules(ctx context.Context, coachID int) ([]AvailRule, error)
	ReplaceRules(ctx context.Context, coachID int, rules []AvailRule) ([]AvailRule, error)

	// ListTimeOffs returns time-offs overlapping [from, to).
	ListTimeOffs(ctx context.Context, coachID int, from, to time.Time) ([]TimeOff, error)
	CreateTimeOff(ctx context.Context, t TimeOff) (*TimeOff, error)
	DeleteTimeOff(ctx context.Context, coachID, id int) error
}
