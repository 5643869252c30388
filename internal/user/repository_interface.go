package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// Search matches name, email or phone, newest first.
	Search(ctx context.Context, search string, limit int) ([]UserSummary, error)
}
