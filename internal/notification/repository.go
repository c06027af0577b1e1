package notification

import (
	"context"

	"github.com/jmoiron/sqlx"

	"gymdesk/internal/civil"
	"gymdesk/internal/db"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) (*Notification, error)
	Exists(ctx context.Context, memberID int64, typ Type, refDate civil.Date) (bool, error)
	ListUnread(ctx context.Context) ([]Notification, error)
	MarkRead(ctx context.Context, id int64) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) (*Notification, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (member_id, type, title, message, ref_date, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, n.MemberID, n.Type, n.Title, n.Message, n.RefDate, n.IsRead, n.CreatedAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	created := *n
	created.ID = id
	return &created, nil
}

func (r *repository) Exists(ctx context.Context, memberID int64, typ Type, refDate civil.Date) (bool, error) {
	return db.Exists(ctx, r.db, `
		SELECT EXISTS(
			SELECT 1 FROM notifications
			WHERE member_id = ? AND type = ? AND ref_date = ?
		)
	`, memberID, typ, refDate)
}

func (r *repository) ListUnread(ctx context.Context) ([]Notification, error) {
	notifications := []Notification{}
	err := r.db.SelectContext(ctx, &notifications, `
		SELECT id, member_id, type, title, message, ref_date, is_read, created_at
		FROM notifications
		WHERE is_read = 0
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *repository) MarkRead(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE id = ? AND is_read = 0`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
