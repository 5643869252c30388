package reservation

import "time"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusAttended  Status = "ATTENDED"
	StatusNoShow    Status = "NO_SHOW"
	StatusCanceled  Status = "CANCELED"
	StatusHoliday   Status = "HOLIDAY"
)

const (
	GoalEasy   = "EASY"
	GoalNormal = "NORMAL"
	GoalHard   = "HARD"
)

// SlotStep is the booking granularity. Reservation durations must be a
// positive multiple of it.
const SlotStep = 30 * time.Minute

// HoldsSlot reports whether a reservation in this status occupies the
// coach's time.
func (s Status) HoldsSlot() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusAttended, StatusHoliday:
		return true
	}
	return false
}

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCanceled, StatusHoliday},
	StatusConfirmed: {StatusAttended, StatusNoShow, StatusCanceled, StatusHoliday},
	StatusHoliday:   {StatusCanceled},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Reservation struct {
	ID          int        `db:"id" json:"id"`
	LessonID    int        `db:"lesson_id" json:"lessonId"`
	UserID      int        `db:"user_id" json:"userId"`
	CoachID     int        `db:"coach_id" json:"coachId"`
	BranchID    int        `db:"branch_id" json:"branchId"`
	StartAt     time.Time  `db:"start_at" json:"startAt"`
	EndAt       time.Time  `db:"end_at" json:"endAt"`
	Status      Status     `db:"status" json:"status"`
	Goal        *string    `db:"goal" json:"goal,omitempty"`
	CategoryTag *string    `db:"category_tag" json:"categoryTag,omitempty"`
	Feedback    *string    `db:"feedback" json:"feedback,omitempty"`
	CanceledAt  *time.Time `db:"canceled_at" json:"canceledAt,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

func (r *Reservation) DurationMinutes() int {
	return int(r.EndAt.Sub(r.StartAt) / time.Minute)
}

type ReservationDetail struct {
	Reservation
	LessonName string `db:"lesson_name" json:"lessonName"`
	CoachName  string `db:"coach_name" json:"coachName"`
	BranchName string `db:"branch_name" json:"branchName"`
	UserName   string `db:"user_name" json:"userName"`
}

type CreateRequest struct {
	LessonID    int       `json:"lessonId" binding:"required,gt=0"`
	StartAt     time.Time `json:"startAt" binding:"required"`
	EndAt       time.Time `json:"endAt" binding:"required"`
	Goal        *string   `json:"goal" binding:"omitempty,oneof=EASY NORMAL HARD"`
	CategoryTag *string   `json:"categoryTag" binding:"omitempty,max=50"`
}

type UpdateStatusRequest struct {
	Status   Status  `json:"status" binding:"required,oneof=PENDING CONFIRMED ATTENDED NO_SHOW CANCELED HOLIDAY"`
	Feedback *string `json:"feedback" binding:"omitempty,max=2000"`
}

type ListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED ATTENDED NO_SHOW CANCELED HOLIDAY"`
}

// TransitionResult describes a status change. Refunded is false when the
// reservation was canceled but no membership existed to credit.
type TransitionResult struct {
	Reservation *Reservation
	Previous    Status
	Refunded    bool
}
