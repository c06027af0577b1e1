package member

import (
	"context"

	"gymdesk/internal/civil"
)

type Repository interface {
	Create(ctx context.Context, m *Member) (*Member, error)
	Update(ctx context.Context, m *Member) error
	SoftDelete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Member, error)
	ListActive(ctx context.Context) ([]Member, error)
	Search(ctx context.Context, term string) ([]Member, error)
	CountRegisteredBetween(ctx context.Context, from, to civil.Date) (int, error)
	ListObjectives(ctx context.Context) ([]Objective, error)
}
