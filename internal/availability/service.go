package availability

import (
	"context"
	"errors"
	"time"

	"lessonbook/internal/coach"
	"lessonbook/internal/lesson"
	"lessonbook/internal/logger"
	"lessonbook/internal/metrics"
	"lessonbook/internal/reservation"
)

var (
	ErrCoachNotFound  = errors.New("coach not found")
	ErrLessonNotFound = errors.New("lesson not found")
)

// ScheduleSource is the part of the coach store availability reads.
type ScheduleSource interface {
	GetByID(ctx context.Context, id int) (*coach.Coach, error)
	ListRules(ctx context.Context, coachID int) ([]coach.AvailRule, error)
	ListTimeOffs(ctx context.Context, coachID int, from, to time.Time) ([]coach.TimeOff, error)
}

type ReservationSource interface {
	ListForCoach(ctx context.Context, coachID int, from, to time.Time) ([]reservation.Reservation, error)
}

type LessonSource interface {
	GetByID(ctx context.Context, id int) (*lesson.Lesson, error)
}

type Service interface {
	ForCoach(ctx context.Context, coachID int, date time.Time) (*Result, error)
	ForLesson(ctx context.Context, lessonID int, date time.Time) (*Result, error)
}

type service struct {
	engine       *Engine
	schedules    ScheduleSource
	reservations ReservationSource
	lessons      LessonSource
	cache        *Cache
}

// NewService wires the engine to its data sources. cache may be nil.
func NewService(engine *Engine, schedules ScheduleSource, reservations ReservationSource, lessons LessonSource, cache *Cache) Service {
	return &service{
		engine:       engine,
		schedules:    schedules,
		reservations: reservations,
		lessons:      lessons,
		cache:        cache,
	}
}

func (s *service) ForCoach(ctx context.Context, coachID int, date time.Time) (*Result, error) {
	if _, err := s.schedules.GetByID(ctx, coachID); err != nil {
		if errors.Is(err, coach.ErrCoachNotFound) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}
	return s.compute(ctx, coachID, date)
}

func (s *service) ForLesson(ctx context.Context, lessonID int, date time.Time) (*Result, error) {
	l, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, lesson.ErrLessonNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	return s.compute(ctx, l.CoachID, date)
}

func (s *service) compute(ctx context.Context, coachID int, date time.Time) (*Result, error) {
	from, to := s.engine.Day(date)
	day := from.Format(DateLayout)

	var version int64
	store := s.cache != nil
	if s.cache != nil {
		cached, v, err := s.cache.Lookup(ctx, coachID, day)
		switch {
		case err != nil:
			metrics.RecordCacheResult("error")
			store = false
			logger.Warn("availability cache lookup failed", "coach_id", coachID, "date", day, "error", err)
		case cached != nil:
			metrics.RecordCacheResult("hit")
			return cached, nil
		default:
			metrics.RecordCacheResult("miss")
		}
		version = v
	}

	started := time.Now()

	rules, err := s.schedules.ListRules(ctx, coachID)
	if err != nil {
		return nil, err
	}
	timeOffs, err := s.schedules.ListTimeOffs(ctx, coachID, from, to)
	if err != nil {
		return nil, err
	}
	booked, err := s.reservations.ListForCoach(ctx, coachID, from, to)
	if err != nil {
		return nil, err
	}

	result := s.engine.Calculate(from, rules, timeOffs, booked)
	metrics.ObserveAvailabilityCompute(time.Since(started).Seconds())

	if store {
		if err := s.cache.Store(ctx, coachID, version, &result); err != nil {
			logger.Warn("availability cache store failed", "coach_id", coachID, "date", day, "error", err)
		}
	}
	return &result, nil
}
