package coach

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lessonbook/internal/logger"
)

var (
	ErrCoachNotFound   = errors.New("coach not found")
	ErrCoachInUse      = errors.New("coach is referenced by lessons, reservations or memberships")
	ErrUnknownBranch   = errors.New("unknown branch")
	ErrInvalidRule     = errors.New("invalid availability rule")
	ErrInvalidTimeOff  = errors.New("time-off end must be after start")
	ErrTimeOffNotFound = errors.New("time-off not found")
)

// scheduleHorizon bounds the time-offs returned with a schedule.
const scheduleHorizon = 365 * 24 * time.Hour

// Invalidator drops cached availability for a coach after its inputs change.
type Invalidator interface {
	InvalidateCoach(ctx context.Context, coachID int) error
}

type Service interface {
	Create(ctx context.Context, req CoachRequest) (*Coach, error)
	List(ctx context.Context, branchID int) ([]Coach, error)
	Get(ctx context.Context, id int) (*Coach, error)
	Update(ctx context.Context, id int, req CoachRequest) (*Coach, error)
	Delete(ctx context.Context, id int) error

	GetSchedule(ctx context.Context, coachID int) (*Schedule, error)
	ReplaceSchedule(ctx context.Context, coachID int, req ScheduleRequest) ([]AvailRule, error)
	AddTimeOff(ctx context.Context, coachID int, req TimeOffRequest) (*TimeOff, error)
	RemoveTimeOff(ctx context.Context, coachID, timeOffID int) error
}

type service struct {
	repo  Repository
	cache Invalidator
	now   func() time.Time
}

func NewService(repo Repository, cache Invalidator) Service {
	return &service{repo: repo, cache: cache, now: time.Now}
}

func (s *service) Create(ctx context.Context, req CoachRequest) (*Coach, error) {
	return s.repo.Create(ctx, req)
}

func (s *service) List(ctx context.Context, branchID int) ([]Coach, error) {
	return s.repo.GetAll(ctx, branchID)
}

func (s *service) Get(ctx context.Context, id int) (*Coach, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id int, req CoachRequest) (*Coach, error) {
	return s.repo.Update(ctx, id, req)
}

func (s *service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) GetSchedule(ctx context.Context, coachID int) (*Schedule, error) {
	if _, err := s.repo.GetByID(ctx, coachID); err != nil {
		return nil, err
	}

	rules, err := s.repo.ListRules(ctx, coachID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	offs, err := s.repo.ListTimeOffs(ctx, coachID, now, now.Add(scheduleHorizon))
	if err != nil {
		return nil, err
	}

	return &Schedule{CoachID: coachID, Rules: rules, TimeOffs: offs}, nil
}

// ParseRules converts request rules into validated AvailRules.
func ParseRules(coachID int, in []RuleInput) ([]AvailRule, error) {
	rules := make([]AvailRule, 0, len(in))
	for i, r := range in {
		if r.Weekday < 0 || r.Weekday > 6 {
			return nil, fmt.Errorf("%w: rule %d weekday %d", ErrInvalidRule, i, r.Weekday)
		}
		start, err := ParseTimeOfDay(r.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %d: %v", ErrInvalidRule, i, err)
		}
		end, err := ParseTimeOfDay(r.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %d: %v", ErrInvalidRule, i, err)
		}
		if !start.Before(end) {
			return nil, fmt.Errorf("%w: rule %d start %s is not before end %s", ErrInvalidRule, i, start, end)
		}
		rules = append(rules, AvailRule{CoachID: coachID, Weekday: r.Weekday, StartTime: start, EndTime: end})
	}
	return rules, nil
}

func (s *service) ReplaceSchedule(ctx context.Context, coachID int, req ScheduleRequest) ([]AvailRule, error) {
	rules, err := ParseRules(coachID, req.Rules)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(ctx, coachID); err != nil {
		return nil, err
	}

	saved, err := s.repo.ReplaceRules(ctx, coachID, rules)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, coachID)
	logger.Info("coach schedule replaced", "coach_id", coachID, "rules", len(saved))
	return saved, nil
}

func (s *service) AddTimeOff(ctx context.Context, coachID int, req TimeOffRequest) (*TimeOff, error) {
	if !req.EndAt.After(req.StartAt) {
		return nil, ErrInvalidTimeOff
	}

	off, err := s.repo.CreateTimeOff(ctx, TimeOff{
		CoachID: coachID,
		StartAt: req.StartAt,
		EndAt:   req.EndAt,
		Reason:  req.Reason,
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, coachID)
	return off, nil
}

func (s *service) RemoveTimeOff(ctx context.Context, coachID, timeOffID int) error {
	if err := s.repo.DeleteTimeOff(ctx, coachID, timeOffID); err != nil {
		return err
	}
	s.invalidate(ctx, coachID)
	return nil
}

// A failed invalidation leaves stale entries only until the cache TTL expires.
func (s *service) invalidate(ctx context.Context, coachID int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCoach(ctx, coachID); err != nil {
		logger.Warn("availability cache invalidation failed", "coach_id", coachID, "error", err)
	}
}
