package payment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"gymdesk/internal/civil"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const viewQuery = `
		SELECT p.id, p.member_id, p.plan_id, p.amount, p.payment_date, p.method, p.status,
		       p.reference, p.notes, p.start_date, p.end_date,
		       COALESCE(m.first_name, '') AS member_first_name,
		       COALESCE(m.last_name, '') AS member_last_name
		FROM payments p
		LEFT JOIN members m ON m.id = p.member_id`

func (r *repository) RecordWithRenewal(ctx context.Context, p *Payment) (*Payment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO payments (member_id, plan_id, amount, payment_date, method, status, reference, notes, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.MemberID, p.PlanID, p.Amount, p.PaymentDate, p.Method, p.Status, p.Reference, p.Notes, p.StartDate, p.EndDate)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE members
		SET plan_id = ?, start_date = ?, end_date = ?
		WHERE id = ?
	`, p.PlanID, p.StartDate, p.EndDate, p.MemberID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	recorded := *p
	recorded.ID = id
	return &recorded, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*View, error) {
	var v View
	err := r.db.GetContext(ctx, &v, viewQuery+`
		WHERE p.id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	v.fillName()
	return &v, nil
}

func (r *repository) ListByMember(ctx context.Context, memberID int64) ([]View, error) {
	views := []View{}
	err := r.db.SelectContext(ctx, &views, viewQuery+`
		WHERE p.member_id = ?
		ORDER BY p.payment_date DESC, p.id DESC
	`, memberID)
	if err != nil {
		return nil, err
	}
	for i := range views {
		views[i].fillName()
	}
	return views, nil
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]View, error) {
	if limit <= 0 {
		limit = 50
	}
	views := []View{}
	err := r.db.SelectContext(ctx, &views, viewQuery+`
		ORDER BY p.payment_date DESC, p.id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	for i := range views {
		views[i].fillName()
	}
	return views, nil
}

// UpdateStatus only applies when the payment is still in from.
func (r *repository) UpdateStatus(ctx context.Context, id int64, from, to Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = ?
		WHERE id = ? AND status = ?
	`, to, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// RevenueBetween sums valid payments made in [from, to).
func (r *repository) RevenueBetween(ctx context.Context, from, to civil.Date) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE status = ? AND payment_date >= ? AND payment_date < ?
	`, StatusValid, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
