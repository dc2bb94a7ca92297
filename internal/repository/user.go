package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/BMSihlas/dataops-greenflow-sage/internal/model"
)

// ErrDuplicateUsername is returned by Create when the username unique
// constraint is violated. Callers can distinguish it from other storage
// errors without inspecting error text.
var ErrDuplicateUsername = errors.New("username already exists")

// uniqueViolation is the Postgres error code for unique_violation.
const uniqueViolation = pq.ErrorCode("23505")

type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.UserAccount, error)
	Create(ctx context.Context, params model.CreateUserParams) (*model.UserAccount, error)
	UpdateLastLogin(ctx context.Context, username string, lastLogin int64) error
	Count(ctx context.Context) (int, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) UserRepository
}

type userRepo struct {
	db sqlxDB
}

// sqlxDB is an interface satisfied by both *sqlx.DB and *sqlx.Tx
type sqlxDB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) WithTx(tx *sqlx.Tx) UserRepository {
	return &userRepo{db: tx}
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.UserAccount, error) {
	var user model.UserAccount
	err := r.db.GetContext(ctx, &user, `
		SELECT * FROM users WHERE username = $1
	`, username)
	return HandleNotFound(&user, err)
}

func (r *userRepo) Create(ctx context.Context, params model.CreateUserParams) (*model.UserAccount, error) {
	var user model.UserAccount
	err := r.db.GetContext(ctx, &user, `
		INSERT INTO users (username, password_hash, created_at, last_login)
		VALUES ($1, $2, $3, $3)
		RETURNING *
	`, params.Username, params.PasswordHash, params.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, username string, lastLogin int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET last_login = $2 WHERE username = $1
	`, username, lastLogin)
	return err
}

func (r *userRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`)
	return count, err
}
