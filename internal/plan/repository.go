package plan

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const planColumns = `id, name, price, activities, availability, duration_value, duration_unit,
		       sessions_per_week, coach_access, active, description, created_at`

func (r *repository) Create(ctx context.Context, p *Plan) (*Plan, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO plans (name, price, activities, availability, duration_value, duration_unit,
		                   sessions_per_week, coach_access, active, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.Name, p.Price, p.Activities, p.Availability, p.DurationValue, p.DurationUnit,
		p.SessionsPerWeek, p.CoachAccess, p.Active, p.Description, p.CreatedAt)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	created := *p
	created.ID = id
	return &created, nil
}

func (r *repository) Update(ctx context.Context, p *Plan) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE plans
		SET name = ?, price = ?, activities = ?, availability = ?, duration_value = ?, duration_unit = ?,
		    sessions_per_week = ?, coach_access = ?, active = ?, description = ?
		WHERE id = ?
	`, p.Name, p.Price, p.Activities, p.Availability, p.DurationValue, p.DurationUnit,
		p.SessionsPerWeek, p.CoachAccess, p.Active, p.Description, p.ID)
	return err
}

// Delete removes the plan row only. Members referencing it keep the id.
func (r *repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Plan, error) {
	var p Plan
	err := r.db.GetContext(ctx, &p, `
		SELECT `+planColumns+`
		FROM plans
		WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, onlyActive bool) ([]Plan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM plans`
	if onlyActive {
		query += `
		WHERE active = 1`
	}
	query += `
		ORDER BY name ASC`

	plans := []Plan{}
	if err := r.db.SelectContext(ctx, &plans, query); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repository) ListActivities(ctx context.Context) ([]Activity, error) {
	activities := []Activity{}
	err := r.db.SelectContext(ctx, &activities, `
		SELECT id, name, description
		FROM activities
		ORDER BY name ASC
	`)
	return activities, err
}

func (r *repository) CreateActivity(ctx context.Context, name, description string) (*Activity, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO activities (name, description)
		VALUES (?, ?)
	`, name, description)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Activity{ID: id, Name: name, Description: description}, nil
}
