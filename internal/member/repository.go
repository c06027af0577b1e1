package member

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"gymdesk/internal/civil"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const memberColumns = `id, code, cin, last_name, first_name, phone, email, address, weight, height,
		       objectives, health_issues, plan_id, start_date, end_date, active, registration_date`

func (r *repository) Create(ctx context.Context, m *Member) (*Member, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO members (code, cin, last_name, first_name, phone, email, address, weight, height,
		                     objectives, health_issues, plan_id, start_date, end_date, active, registration_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.Code, m.Cin, m.LastName, m.FirstName, m.Phone, m.Email, m.Address, m.Weight, m.Height,
		m.Objectives, m.HealthIssues, m.PlanID, m.StartDate, m.EndDate, m.Active, m.RegistrationDate)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	created := *m
	created.ID = id
	return &created, nil
}

// Update does not check the affected row count: MySQL reports zero for an
// update that changes nothing.
func (r *repository) Update(ctx context.Context, m *Member) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE members
		SET cin = ?, last_name = ?, first_name = ?, phone = ?, email = ?, address = ?, weight = ?, height = ?,
		    objectives = ?, health_issues = ?, plan_id = ?, start_date = ?, end_date = ?
		WHERE id = ? AND active = 1
	`, m.Cin, m.LastName, m.FirstName, m.Phone, m.Email, m.Address, m.Weight, m.Height,
		m.Objectives, m.HealthIssues, m.PlanID, m.StartDate, m.EndDate, m.ID)
	return err
}

func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE members SET active = 0 WHERE id = ? AND active = 1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Member, error) {
	var m Member
	err := r.db.GetContext(ctx, &m, `
		SELECT `+memberColumns+`
		FROM members
		WHERE id = ? AND active = 1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) ListActive(ctx context.Context) ([]Member, error) {
	members := []Member{}
	err := r.db.SelectContext(ctx, &members, `
		SELECT `+memberColumns+`
		FROM members
		WHERE active = 1
		ORDER BY last_name ASC, first_name ASC
	`)
	if err != nil {
		return nil, err
	}
	return members, nil
}

// Search matches term as a substring of the names, phone or CIN.
func (r *repository) Search(ctx context.Context, term string) ([]Member, error) {
	like := "%" + term + "%"
	members := []Member{}
	err := r.db.SelectContext(ctx, &members, `
		SELECT `+memberColumns+`
		FROM members
		WHERE active = 1
		  AND (last_name LIKE ? OR first_name LIKE ? OR phone LIKE ? OR cin LIKE ?)
		ORDER BY last_name ASC, first_name ASC
	`, like, like, like, like)
	if err != nil {
		return nil, err
	}
	return members, nil
}

// CountRegisteredBetween counts members registered in [from, to), deleted ones
// included.
func (r *repository) CountRegisteredBetween(ctx context.Context, from, to civil.Date) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `
		SELECT COUNT(*)
		FROM members
		WHERE registration_date >= ? AND registration_date < ?
	`, from, to)
	return n, err
}

func (r *repository) ListObjectives(ctx context.Context) ([]Objective, error) {
	objectives := []Objective{}
	err := r.db.SelectContext(ctx, &objectives, `
		SELECT id, name
		FROM objectives
		ORDER BY name ASC
	`)
	return objectives, err
}
