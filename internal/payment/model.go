package payment

import (
	"strings"

	"github.com/shopspring/decimal"

	"gymdesk/internal/civil"
)

type Method string

const (
	MethodCash     Method = "cash"
	MethodCard     Method = "card"
	MethodTransfer Method = "transfer"
	MethodCheck    Method = "check"
)

type Status string

const (
	StatusValid     Status = "valid"
	StatusCancelled Status = "cancelled"
	StatusRefunded  Status = "refunded"
)

type Payment struct {
	ID          int64           `db:"id" json:"id"`
	MemberID    int64           `db:"member_id" json:"member_id"`
	PlanID      *int64          `db:"plan_id" json:"plan_id"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	PaymentDate civil.Timestamp `db:"payment_date" json:"payment_date"`
	Method      Method          `db:"method" json:"method"`
	Status      Status          `db:"status" json:"status"`
	Reference   string          `db:"reference" json:"reference"`
	Notes       string          `db:"notes" json:"notes"`
	StartDate   *civil.Date     `db:"start_date" json:"start_date"`
	EndDate     *civil.Date     `db:"end_date" json:"end_date"`
}

// View is a payment row joined with the payer's name.
type View struct {
	Payment
	MemberFirstName string `db:"member_first_name" json:"-"`
	MemberLastName  string `db:"member_last_name" json:"-"`
	MemberName      string `db:"-" json:"member_name"`
	PlanName        string `db:"-" json:"plan_name"`
}

func (v *View) fillName() {
	v.MemberName = strings.TrimSpace(v.MemberFirstName + " " + v.MemberLastName)
}

type PaymentRequest struct {
	MemberID  int64           `json:"member_id" binding:"required,min=1"`
	PlanID    *int64          `json:"plan_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    Method          `json:"method" binding:"required,oneof=cash card transfer check"`
	Reference string          `json:"reference" binding:"max=255"`
	Notes     string          `json:"notes"`
	StartDate *civil.Date     `json:"start_date"`
}

type MonthlyRevenue struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}
