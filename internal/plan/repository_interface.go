package plan

import "context"

type Repository interface {
	Create(ctx context.Context, p *Plan) (*Plan, error)
	Update(ctx context.Context, p *Plan) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Plan, error)
	List(ctx context.Context, onlyActive bool) ([]Plan, error)
	ListActivities(ctx context.Context) ([]Activity, error)
	CreateActivity(ctx context.Context, name, description string) (*Activity, error)
}
