package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"gymdesk/internal/db"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) (*User, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, full_name, role, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, u.Username, u.PasswordHash, u.FullName, u.Role, u.CreatedAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	created := *u
	created.ID = id
	return &created, nil
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `
		SELECT id, username, password_hash, full_name, role, created_at
		FROM users
		WHERE username = ?
	`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `
		SELECT id, username, password_hash, full_name, role, created_at
		FROM users
		WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`)
	return n, err
}

func (r *repository) GetPreferences(ctx context.Context, userID int64) (*Preferences, error) {
	var p Preferences
	err := r.db.GetContext(ctx, &p, `
		SELECT user_id, language, theme
		FROM user_preferences
		WHERE user_id = ?
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPreferencesNotSet
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePreferences updates the user's row, inserting it on first save.
func (r *repository) SavePreferences(ctx context.Context, p Preferences) error {
	exists, err := db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM user_preferences WHERE user_id = ?)`, p.UserID)
	if err != nil {
		return err
	}
	if exists {
		_, err = r.db.ExecContext(ctx, `
			UPDATE user_preferences SET language = ?, theme = ? WHERE user_id = ?
		`, p.Language, p.Theme, p.UserID)
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO user_preferences (user_id, language, theme) VALUES (?, ?, ?)
	`, p.UserID, p.Language, p.Theme)
	return err
}
