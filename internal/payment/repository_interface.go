package payment

import (
	"context"

	"github.com/shopspring/decimal"

	"gymdesk/internal/civil"
)

type Repository interface {
	// RecordWithRenewal stores p and moves the member onto p's plan and
	// window in one transaction.
	RecordWithRenewal(ctx context.Context, p *Payment) (*Payment, error)
	GetByID(ctx context.Context, id int64) (*View, error)
	ListByMember(ctx context.Context, memberID int64) ([]View, error)
	ListRecent(ctx context.Context, limit int) ([]View, error)
	UpdateStatus(ctx context.Context, id int64, from, to Status) error
	RevenueBetween(ctx context.Context, from, to civil.Date) (decimal.Decimal, error)
}
