package branch

import "context"

type Repository interface {
	Create(ctx context.Context, req BranchRequest) (*Branch, error)
	GetAll(ctx context.Context) ([]Branch, error)
	GetByID(ctx context.Context, id int) (*Branch, error)
	Update(ctx context.Context, id int, req BranchRequest) (*Branch, error)
	Delete(ctx context.Context, id int) error
}
