package reservation

import (
	"context"
	"errors"
	"time"

	"lessonbook/internal/coach"
	"lessonbook/internal/lesson"
	"lessonbook/internal/logger"
	"lessonbook/internal/membership"
	"lessonbook/internal/metrics"
)

const outcomeCreated = "created"

type Service interface {
	Create(ctx context.Context, userID int, req CreateRequest) (*Reservation, error)
	Cancel(ctx context.Context, userID, id int) (*Reservation, error)
	UpdateStatus(ctx context.Context, actorID, id int, req UpdateStatusRequest) (*Reservation, error)
	ListMine(ctx context.Context, userID int, status Status) ([]ReservationDetail, error)
	ListAll(ctx context.Context, status Status) ([]ReservationDetail, error)
}

type service struct {
	repo    Repository
	lessons lesson.Repository
	cache   coach.Invalidator
	now     func() time.Time
}

func NewService(repo Repository, lessons lesson.Repository, cache coach.Invalidator) Service {
	return &service{repo: repo, lessons: lessons, cache: cache, now: time.Now}
}

// validateRange checks the requested range before anything is read.
func validateRange(start, end time.Time) error {
	if !end.After(start) {
		return ErrInvalidTimeRange
	}
	if end.Sub(start)%SlotStep != 0 {
		return ErrInvalidDuration
	}
	return nil
}

func (s *service) Create(ctx context.Context, userID int, req CreateRequest) (*Reservation, error) {
	res, err := s.create(ctx, userID, req)
	if err != nil {
		outcome := "error"
		if _, code, ok := Classify(err); ok {
			outcome = code
		}
		metrics.RecordReservation(outcome)
		return nil, err
	}

	metrics.RecordReservation(outcomeCreated)
	metrics.RecordLedger(string(membership.ReasonBooking), res.DurationMinutes())
	s.invalidate(ctx, res.CoachID)
	logger.Info("reservation created",
		"reservation_id", res.ID,
		"user_id", userID,
		"coach_id", res.CoachID,
		"start_at", res.StartAt,
		"minutes", res.DurationMinutes(),
	)
	return res, nil
}

func (s *service) create(ctx context.Context, userID int, req CreateRequest) (*Reservation, error) {
	if err := validateRange(req.StartAt, req.EndAt); err != nil {
		return nil, err
	}

	l, err := s.lessons.GetByID(ctx, req.LessonID)
	if errors.Is(err, lesson.ErrLessonNotFound) {
		return nil, ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}

	return s.repo.Book(ctx, &Reservation{
		LessonID:    l.ID,
		UserID:      userID,
		CoachID:     l.CoachID,
		BranchID:    l.BranchID,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		Goal:        req.Goal,
		CategoryTag: req.CategoryTag,
	})
}

// Cancel is the member-facing cancellation: own reservation, still PENDING or
// CONFIRMED, and not yet started.
func (s *service) Cancel(ctx context.Context, userID, id int) (*Reservation, error) {
	now := s.now()
	result, err := s.repo.Transition(ctx, id, StatusCanceled, nil, userID, func(r *Reservation) error {
		switch {
		case r.UserID != userID:
			return ErrForbidden
		case r.Status == StatusCanceled:
			return ErrAlreadyCanceled
		case r.Status != StatusPending && r.Status != StatusConfirmed:
			return ErrCannotCancel
		case !r.StartAt.After(now):
			return ErrPastReservation
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCancel(ctx, result, userID)
	return result.Reservation, nil
}

// UpdateStatus applies an administrator transition. Setting the current
// status again only updates feedback.
func (s *service) UpdateStatus(ctx context.Context, actorID, id int, req UpdateStatusRequest) (*Reservation, error) {
	result, err := s.repo.Transition(ctx, id, req.Status, req.Feedback, actorID, func(r *Reservation) error {
		if r.Status == req.Status {
			return nil
		}
		if !r.Status.CanTransitionTo(req.Status) {
			return ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Previous != req.Status {
		metrics.RecordStatusChange(string(req.Status))
		logger.Info("reservation status changed",
			"reservation_id", id,
			"from", result.Previous,
			"to", req.Status,
			"actor_id", actorID,
		)
		if req.Status == StatusCanceled {
			s.afterCancel(ctx, result, actorID)
		}
	}
	return result.Reservation, nil
}

func (s *service) afterCancel(ctx context.Context, result *TransitionResult, actorID int) {
	res := result.Reservation
	metrics.RecordCancellation(result.Refunded)
	if result.Refunded {
		metrics.RecordLedger(string(membership.ReasonCancelRefund), res.DurationMinutes())
	} else {
		logger.Warn("reservation canceled without refund: no membership for user and coach",
			"reservation_id", res.ID,
			"user_id", res.UserID,
			"coach_id", res.CoachID,
		)
	}
	s.invalidate(ctx, res.CoachID)
	logger.Info("reservation canceled", "reservation_id", res.ID, "actor_id", actorID, "refunded", result.Refunded)
}

func (s *service) ListMine(ctx context.Context, userID int, status Status) ([]ReservationDetail, error) {
	return s.repo.ListByUser(ctx, userID, status)
}

func (s *service) ListAll(ctx context.Context, status Status) ([]ReservationDetail, error) {
	return s.repo.ListAll(ctx, status)
}

func (s *service) invalidate(ctx context.Context, coachID int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCoach(ctx, coachID); err != nil {
		logger.Warn("availability cache invalidation failed", "coach_id", coachID, "error", err)
	}
}
