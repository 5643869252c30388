package membership

import "time"

type LedgerReason string

const (
	ReasonAllocate     LedgerReason = "ALLOCATE"
	ReasonBooking      LedgerReason = "BOOKING"
	ReasonCancelRefund LedgerReason = "CANCEL_REFUND"
	ReasonAdjust       LedgerReason = "ADJUST"
)

type Membership struct {
	ID               int       `db:"id" json:"id"`
	UserID           int       `db:"user_id" json:"userId"`
	CoachID          int       `db:"coach_id" json:"coachId"`
	RemainingMinutes int       `db:"remaining_minutes" json:"remainingMinutes"`
	ExpiresAt        time.Time `db:"expires_at" json:"expiresAt"`
	Active           bool      `db:"active" json:"active"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

// Usable reports whether the membership can pay for a lesson starting at start.
func (m *Membership) Usable(start time.Time) bool {
	return m.Active && !m.ExpiresAt.Before(start)
}

type MembershipSummary struct {
	Membership
	CoachName   string `db:"coach_name" json:"coachName"`
	LedgerCount int    `db:"ledger_count" json:"ledgerCount"`
}

type LedgerEntry struct {
	ID              int          `db:"id" json:"id"`
	MembershipID    int          `db:"membership_id" json:"membershipId"`
	DeltaMinutes    int          `db:"delta_minutes" json:"deltaMinutes"`
	Reason          LedgerReason `db:"reason" json:"reason"`
	ReservationID   *int         `db:"reservation_id" json:"reservationId,omitempty"`
	CreatedByUserID int          `db:"created_by_user_id" json:"createdByUserId"`
	CreatedAt       time.Time    `db:"created_at" json:"createdAt"`
}

// Audit compares the stored balance with the ledger it must equal.
type Audit struct {
	MembershipID     int  `db:"membership_id" json:"membershipId"`
	RemainingMinutes int  `db:"remaining_minutes" json:"remainingMinutes"`
	LedgerSum        int  `db:"ledger_sum" json:"ledgerSum"`
	Consistent       bool `db:"-" json:"consistent"`
}

type IssueRequest struct {
	CoachID          int       `json:"coachId" binding:"required,gt=0"`
	RemainingMinutes int       `json:"remainingMinutes" binding:"gte=0"`
	ExpiresAt        time.Time `json:"expiresAt" binding:"required"`
}

type AdjustRequest struct {
	DeltaMinutes int `json:"deltaMinutes" binding:"required"`
}

type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
