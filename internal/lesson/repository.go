package lesson

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"lessonbook/internal/db"

	"github.com/jmoiron/sqlx"
)

const lessonColumns = `id, name, category, description, duration_minutes, max_participants, image_url,
	coach_id, branch_id, created_at, updated_at`

const selectDetail = `
	SELECT l.id, l.name, l.category, l.description, l.duration_minutes, l.max_participants, l.image_url,
	       l.coach_id, l.branch_id, l.created_at, l.updated_at,
	       c.name AS coach_name, b.name AS branch_name
	FROM lessons l
	JOIN coaches c ON c.id = l.coach_id
	JOIN branches b ON b.id = l.branch_id`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req LessonRequest) (*Lesson, error) {
	query := `
		INSERT INTO lessons (name, category, description, duration_minutes, max_participants, image_url, coach_id, branch_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + lessonColumns

	var l Lesson
	err := r.db.GetContext(ctx, &l, query,
		req.Name, req.Category, req.Description, req.DurationMinutes, req.MaxParticipants, req.ImageURL,
		req.CoachID, req.BranchID)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, ErrUnknownReference
		}
		return nil, err
	}
	return &l, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Lesson, error) {
	var l Lesson
	err := r.db.GetContext(ctx, &l, `SELECT `+lessonColumns+` FROM lessons WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) GetDetail(ctx context.Context, id int) (*LessonDetail, error) {
	var d LessonDetail
	err := r.db.GetContext(ctx, &d, selectDetail+` WHERE l.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) Update(ctx context.Context, id int, req LessonRequest) (*Lesson, error) {
	query := `
		UPDATE lessons
		SET name = $1, category = $2, description = $3, duration_minutes = $4, max_participants = $5,
		    image_url = $6, coach_id = $7, branch_id = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING ` + lessonColumns

	var l Lesson
	err := r.db.GetContext(ctx, &l, query,
		req.Name, req.Category, req.Description, req.DurationMinutes, req.MaxParticipants, req.ImageURL,
		req.CoachID, req.BranchID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLessonNotFound
	}
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, ErrUnknownReference
		}
		return nil, err
	}
	return &l, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrLessonInUse
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLessonNotFound
	}
	return nil
}

func (r *repository) Search(ctx context.Context, by, q string, cursor, limit int) ([]LessonDetail, error) {
	var (
		where []string
		args  []interface{}
	)

	if q = strings.TrimSpace(q); q != "" {
		column := "l.name"
		switch by {
		case SearchByCoach:
			column = "c.name"
		case SearchByBranch:
			column = "b.name"
		}
		args = append(args, db.ContainsPattern(q))
		where = append(where, fmt.Sprintf("%s ILIKE $%d", column, len(args)))
	}
	if cursor > 0 {
		args = append(args, cursor)
		where = append(where, fmt.Sprintf("l.id < $%d", len(args)))
	}

	query := selectDetail
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY l.id DESC LIMIT $%d", len(args))

	items := []LessonDetail{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}
