package branch

import "time"

type Branch struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Address     string    `db:"address" json:"address"`
	Phone       string    `db:"phone" json:"phone"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

type BranchRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Address     string  `json:"address" binding:"required,max=255"`
	Phone       string  `json:"phone" binding:"required,max=30"`
	Description *string `json:"description"`
}
