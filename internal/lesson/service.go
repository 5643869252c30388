package lesson

import (
	"context"
	"errors"
)

var (
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrLessonInUse      = errors.New("lesson has reservations")
	ErrUnknownReference = errors.New("coach or branch does not exist")
)

type Service interface {
	Create(ctx context.Context, req LessonRequest) (*Lesson, error)
	Get(ctx context.Context, id int) (*LessonDetail, error)
	Update(ctx context.Context, id int, req LessonRequest) (*Lesson, error)
	Delete(ctx context.Context, id int) error
	Search(ctx context.Context, query SearchQuery) (*SearchResult, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req LessonRequest) (*Lesson, error) {
	return s.repo.Create(ctx, req)
}

func (s *service) Get(ctx context.Context, id int) (*LessonDetail, error) {
	return s.repo.GetDetail(ctx, id)
}

func (s *service) Update(ctx context.Context, id int, req LessonRequest) (*Lesson, error) {
	return s.repo.Update(ctx, id, req)
}

func (s *service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// Search fetches one extra row to learn whether another page exists.
func (s *service) Search(ctx context.Context, query SearchQuery) (*SearchResult, error) {
	by := query.By
	if by == "" {
		by = SearchByLesson
	}

	items, err := s.repo.Search(ctx, by, query.Q, query.Cursor, PageSize+1)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Items: items}
	if len(items) > PageSize {
		result.Items = items[:PageSize]
		next := result.Items[PageSize-1].ID
		result.NextCursor = &next
	}
	return result, nil
}
