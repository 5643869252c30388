package membership

import "context"

type Repository interface {
	Issue(ctx context.Context, userID int, req IssueRequest, createdBy int) (*Membership, error)
	Adjust(ctx context.Context, id, delta, createdBy int) (*Membership, *LedgerEntry, error)
	SetActive(ctx context.Context, id int, active bool) (*Membership, error)
	GetByID(ctx context.Context, id int) (*Membership, error)
	ListByUser(ctx context.Context, userID int) ([]MembershipSummary, error)
	ListLedger(ctx context.Context, membershipID int) ([]LedgerEntry, error)
	Audit(ctx context.Context, id int) (*Audit, error)
}
