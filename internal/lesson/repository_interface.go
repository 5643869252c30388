package lesson

import "context"

type Repository interface {
	Create(ctx context.Context, req LessonRequest) (*Lesson, error)
	GetByID(ctx context.Context, id int) (*Lesson, error)
	GetDetail(ctx context.Context, id int) (*LessonDetail, error)
	Update(ctx context.Context, id int, req LessonRequest) (*Lesson, error)
	Delete(ctx context.Context, id int) error
	// Search returns up to limit lessons with id < cursor (cursor 0 means
	// from the newest), newest first.
	Search(ctx context.Context, by, q string, cursor, limit int) ([]LessonDetail, error)
}
