package membership

import (
	"context"
	"errors"

	"lessonbook/internal/logger"
	"lessonbook/internal/metrics"
)

var (
	ErrMembershipNotFound  = errors.New("membership not found")
	ErrMembershipExists    = errors.New("membership for this coach already exists")
	ErrUnknownReference    = errors.New("user or coach does not exist")
	ErrInsufficientMinutes = errors.New("insufficient remaining minutes")
	ErrZeroAdjustment      = errors.New("adjustment must be non-zero")
	ErrForbidden           = errors.New("membership belongs to another user")
)

type Service interface {
	Issue(ctx context.Context, actorID, userID int, req IssueRequest) (*Membership, error)
	Adjust(ctx context.Context, actorID, id int, req AdjustRequest) (*Membership, *LedgerEntry, error)
	SetActive(ctx context.Context, id int, active bool) (*Membership, error)
	ListMine(ctx context.Context, userID int) ([]MembershipSummary, error)
	Ledger(ctx context.Context, actorID, membershipID int) ([]LedgerEntry, error)
	Audit(ctx context.Context, id int) (*Audit, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Issue(ctx context.Context, actorID, userID int, req IssueRequest) (*Membership, error) {
	m, err := s.repo.Issue(ctx, userID, req, actorID)
	if err != nil {
		return nil, err
	}

	metrics.RecordMembershipIssued()
	if req.RemainingMinutes > 0 {
		metrics.RecordLedger(string(ReasonAllocate), req.RemainingMinutes)
	}
	logger.Info("membership issued",
		"membership_id", m.ID,
		"user_id", userID,
		"coach_id", req.CoachID,
		"minutes", req.RemainingMinutes,
		"actor_id", actorID,
	)
	return m, nil
}

func (s *service) Adjust(ctx context.Context, actorID, id int, req AdjustRequest) (*Membership, *LedgerEntry, error) {
	if req.DeltaMinutes == 0 {
		return nil, nil, ErrZeroAdjustment
	}

	m, entry, err := s.repo.Adjust(ctx, id, req.DeltaMinutes, actorID)
	if err != nil {
		return nil, nil, err
	}

	metrics.RecordLedger(string(ReasonAdjust), req.DeltaMinutes)
	logger.Info("membership adjusted", "membership_id", id, "delta", req.DeltaMinutes, "actor_id", actorID)
	return m, entry, nil
}

func (s *service) SetActive(ctx context.Context, id int, active bool) (*Membership, error) {
	return s.repo.SetActive(ctx, id, active)
}

func (s *service) ListMine(ctx context.Context, userID int) ([]MembershipSummary, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Ledger(ctx context.Context, actorID, membershipID int) ([]LedgerEntry, error) {
	m, err := s.repo.GetByID(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if m.UserID != actorID {
		return nil, ErrForbidden
	}
	return s.repo.ListLedger(ctx, membershipID)
}

func (s *service) Audit(ctx context.Context, id int) (*Audit, error) {
	a, err := s.repo.Audit(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.Consistent {
		logger.Error("membership balance diverges from ledger",
			"membership_id", id,
			"remaining", a.RemainingMinutes,
			"ledger_sum", a.LedgerSum,
		)
	}
	return a, nil
}
