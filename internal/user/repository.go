package user

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"lessonbook/internal/db"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, name, email, password_hash, role, phone, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) (*User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	var created User
	err := r.db.GetContext(ctx, &created, query, u.Name, u.Email, u.PasswordHash, u.Role, u.Phone)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return &created, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *repository) findOne(ctx context.Context, query string, arg interface{}) (*User, error) {
	var u User
	if err := r.db.GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *repository) Search(ctx context.Context, search string, limit int) ([]UserSummary, error) {
	query := `
		SELECT u.id, u.name, u.email, u.password_hash, u.role, u.phone, u.created_at,
		       (SELECT COUNT(*) FROM reservations r WHERE r.user_id = u.id) AS reservation_count,
		       (SELECT COUNT(*) FROM memberships m WHERE m.user_id = u.id AND m.active) AS active_memberships
		FROM users u`
	args := []interface{}{}

	if search = strings.TrimSpace(search); search != "" {
		args = append(args, db.ContainsPattern(search))
		query += ` WHERE u.name ILIKE $1 OR u.email ILIKE $1 OR u.phone ILIKE $1`
	}
	args = append(args, limit)
	query += ` ORDER BY u.created_at DESC LIMIT $` + strconv.Itoa(len(args))

	out := []UserSummary{}
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}
