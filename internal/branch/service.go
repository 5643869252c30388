package branch

import (
	"context"
	"errors"
)

var (
	ErrBranchNotFound = errors.New("branch not found")
	ErrBranchInUse    = errors.New("branch is referenced by lessons or reservations")
)

type Service interface {
	Create(ctx context.Context, req BranchRequest) (*Branch, error)
	List(ctx context.Context) ([]Branch, error)
	Get(ctx context.Context, id int) (*Branch, error)
	Update(ctx context.Context, id int, req BranchRequest) (*Branch, error)
	Delete(ctx context.Context, id int) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req BranchRequest) (*Branch, error) {
	return s.repo.Create(ctx, req)
}

func (s *service) List(ctx context.Context) ([]Branch, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) Get(ctx context.Context, id int) (*Branch, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id int, req BranchRequest) (*Branch, error) {
	return s.repo.Update(ctx, id, req)
}

func (s *service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
