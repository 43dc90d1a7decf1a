package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/postqms/branch-queue/internal/model"
)

// UserRepo manages visitor accounts in the `users` table.  Visitors are
// identified externally by their Telegram id, which carries a unique key.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new visitor for the Telegram id and returns the stored
// row.  ErrDuplicate is returned when the id is already registered.
func (r *UserRepo) Create(ctx context.Context, telegramID string) (model.User, error) {
	u := model.User{
		ID:         uuid.NewString(),
		TelegramID: telegramID,
		CreatedAt:  time.Now().UTC(),
	}
	const q = `INSERT IGNORE INTO users (id, telegram_id, created_at) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, u.ID, u.TelegramID, u.CreatedAt)
	if err != nil {
		return model.User{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.User{}, err
	}
	if affected == 0 {
		return model.User{}, ErrDuplicate
	}
	return u, nil
}

// GetByTelegramID fetches a visitor by Telegram id, returning ErrNotFound
// when no such visitor exists.
func (r *UserRepo) GetByTelegramID(ctx context.Context, telegramID string) (model.User, error) {
	const q = `SELECT id, telegram_id, created_at FROM users WHERE telegram_id = ?`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, telegramID).Scan(&u.ID, &u.TelegramID, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}
