package plan

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"gymdesk/internal/civil"
)

type DurationUnit string

const (
	UnitDay   DurationUnit = "day"
	UnitWeek  DurationUnit = "week"
	UnitMonth DurationUnit = "month"
	UnitYear  DurationUnit = "year"
)

// UnlimitedSessions is the sessions_per_week sentinel for no weekly cap.
const UnlimitedSessions = -1

// UnknownPlanName is shown for members whose plan no longer exists.
const UnknownPlanName = "N/A"

type Plan struct {
	ID              int64                       `db:"id" json:"id"`
	Name            string                      `db:"name" json:"name"`
	Price           decimal.Decimal             `db:"price" json:"price"`
	Activities      datatypes.JSONSlice[string] `db:"activities" json:"activities"`
	Availability    string                      `db:"availability" json:"availability"`
	DurationValue   int                         `db:"duration_value" json:"duration_value"`
	DurationUnit    DurationUnit                `db:"duration_unit" json:"duration_unit"`
	SessionsPerWeek int                         `db:"sessions_per_week" json:"sessions_per_week"`
	CoachAccess     bool                        `db:"coach_access" json:"coach_access"`
	Active          bool                        `db:"active" json:"active"`
	Description     string                      `db:"description" json:"description"`
	CreatedAt       civil.Timestamp             `db:"created_at" json:"created_at"`
}

// EndDate is the last covered day of a subscription to p starting on start.
func (p Plan) EndDate(start civil.Date) civil.Date {
	n := p.DurationValue
	switch p.DurationUnit {
	case UnitDay:
		return start.AddDays(n)
	case UnitWeek:
		return start.AddDays(7 * n)
	case UnitYear:
		return start.AddYears(n)
	default:
		return start.AddMonths(n)
	}
}

func (p Plan) Unlimited() bool {
	return p.SessionsPerWeek == UnlimitedSessions
}

type Activity struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

// PlanRequest creates or replaces a plan. An omitted sessions_per_week means
// unlimited (-1); zero is rejected since a plan with no sessions sells
// nothing.
type PlanRequest struct {
	Name            string          `json:"name" binding:"required,max=255"`
	Price           decimal.Decimal `json:"price"`
	Activities      []string        `json:"activities" binding:"dive,required"`
	Availability    string          `json:"availability" binding:"max=255"`
	DurationValue   int             `json:"duration_value" binding:"required,min=1"`
	DurationUnit    DurationUnit    `json:"duration_unit" binding:"required,oneof=day week month year"`
	SessionsPerWeek *int            `json:"sessions_per_week" binding:"omitempty,min=-1,ne=0"`
	CoachAccess     bool            `json:"coach_access"`
	Active          *bool           `json:"active"`
	Description     string          `json:"description"`
}

type ActivityRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}
