package coach

import (
	"time"

	"github.com/lib/pq"
)

const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

type Coach struct {
	ID        int           `db:"id" json:"id"`
	Name      string        `db:"name" json:"name"`
	Gender    string        `db:"gender" json:"gender"`
	Bio       *string       `db:"bio" json:"bio,omitempty"`
	Specialty string        `db:"specialty" json:"specialty"`
	ImageURL  *string       `db:"image_url" json:"imageUrl,omitempty"`
	Phone     *string       `db:"phone" json:"phone,omitempty"`
	BranchIDs pq.Int64Array `db:"branch_ids" json:"branchIds"`
	CreatedAt time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time     `db:"updated_at" json:"updatedAt"`
}

// AvailRule is a recurring weekly window. Weekday follows time.Weekday
// (Sunday = 0) in the reference timezone.
type AvailRule struct {
	ID        int       `db:"id" json:"id"`
	CoachID   int       `db:"coach_id" json:"coachId"`
	Weekday   int       `db:"weekday" json:"weekday"`
	StartTime TimeOfDay `db:"start_time" json:"startTime"`
	EndTime   TimeOfDay `db:"end_time" json:"endTime"`
}

// TimeOff removes [StartAt, EndAt) from the coach's availability.
type TimeOff struct {
	ID        int       `db:"id" json:"id"`
	CoachID   int       `db:"coach_id" json:"coachId"`
	StartAt   time.Time `db:"start_at" json:"startAt"`
	EndAt     time.Time `db:"end_at" json:"endAt"`
	Reason    *string   `db:"reason" json:"reason,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Schedule struct {
	CoachID  int         `json:"coachId"`
	Rules    []AvailRule `json:"rules"`
	TimeOffs []TimeOff   `json:"timeOffs"`
}

type CoachRequest struct {
	Name      string  `json:"name" binding:"required,max=100"`
	Gender    string  `json:"gender" binding:"required,oneof=MALE FEMALE OTHER"`
	Bio       *string `json:"bio"`
	Specialty string  `json:"specialty" binding:"required,max=100"`
	ImageURL  *string `json:"imageUrl" binding:"omitempty,url"`
	Phone     *string `json:"phone" binding:"omitempty,max=30"`
	BranchIDs []int64 `json:"branchIds" binding:"omitempty,dive,gt=0"`
}

type RuleInput struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

type ScheduleRequest struct {
	Rules []RuleInput `json:"rules" binding:"dive"`
}

type TimeOffRequest struct {
	StartAt time.Time `json:"startAt" binding:"required"`
	EndAt   time.Time `json:"endAt" binding:"required"`
	Reason  *string   `json:"reason" binding:"omitempty,max=255"`
}
