package branch

import (
	"context"
	"database/sql"
	"errors"

	"lessonbook/internal/db"

	"github.com/jmoiron/sqlx"
)

const branchColumns = `id, name, address, phone, description, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req BranchRequest) (*Branch, error) {
	query := `
		INSERT INTO branches (name, address, phone, description)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + branchColumns

	var b Branch
	if err := r.db.GetContext(ctx, &b, query, req.Name, req.Address, req.Phone, req.Description); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Branch, error) {
	branches := []Branch{}
	err := r.db.SelectContext(ctx, &branches, `SELECT `+branchColumns+` FROM branches ORDER BY name`)
	return branches, err
}

func (r *repository) GetByID(ctx context.Context, id int) (*Branch, error) {
	var b Branch
	err := r.db.GetContext(ctx, &b, `SELECT `+branchColumns+` FROM branches WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBranchNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) Update(ctx context.Context, id int, req BranchRequest) (*Branch, error) {
	query := `
		UPDATE branches
		SET name = $1, address = $2, phone = $3, description = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING ` + branchColumns

	var b Branch
	err := r.db.GetContext(ctx, &b, query, req.Name, req.Address, req.Phone, req.Description, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBranchNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM branches WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrBranchInUse
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBranchNotFound
	}
	return nil
}
