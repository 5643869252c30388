package lesson

import "time"

const (
	CategoryFitness  = "FITNESS"
	CategoryYoga     = "YOGA"
	CategoryPilates  = "PILATES"
	CategoryTennis   = "TENNIS"
	CategoryGolf     = "GOLF"
	CategorySwimming = "SWIMMING"
	CategoryOther    = "OTHER"
)

const (
	SearchByLesson = "lesson"
	SearchByCoach  = "coach"
	SearchByBranch = "branch"

	PageSize = 20
)

type Lesson struct {
	ID              int       `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Category        string    `db:"category" json:"category"`
	Description     *string   `db:"description" json:"description,omitempty"`
	DurationMinutes int       `db:"duration_minutes" json:"durationMinutes"`
	MaxParticipants int       `db:"max_participants" json:"maxParticipants"`
	ImageURL        *string   `db:"image_url" json:"imageUrl,omitempty"`
	CoachID         int       `db:"coach_id" json:"coachId"`
	BranchID        int       `db:"branch_id" json:"branchId"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

type LessonDetail struct {
	Lesson
	CoachName  string `db:"coach_name" json:"coachName"`
	BranchName string `db:"branch_name" json:"branchName"`
}

type LessonRequest struct {
	Name            string  `json:"name" binding:"required,max=100"`
	Category        string  `json:"category" binding:"required,oneof=FITNESS YOGA PILATES TENNIS GOLF SWIMMING OTHER"`
	Description     *string `json:"description"`
	DurationMinutes int     `json:"durationMinutes" binding:"required,min=30"`
	MaxParticipants int     `json:"maxParticipants" binding:"required,min=1"`
	ImageURL        *string `json:"imageUrl" binding:"omitempty,url"`
	CoachID         int     `json:"coachId" binding:"required,gt=0"`
	BranchID        int     `json:"branchId" binding:"required,gt=0"`
}

type SearchQuery struct {
	By     string `form:"by" binding:"omitempty,oneof=lesson coach branch"`
	Q      string `form:"q" binding:"max=100"`
	Cursor int    `form:"cursor" binding:"omitempty,gt=0"`
}

type SearchResult struct {
	Items      []LessonDetail `json:"items"`
	NextCursor *int           `json:"nextCursor"`
}
