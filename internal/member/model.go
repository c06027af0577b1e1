package member

import (
	"strings"

	"gymdesk/internal/civil"
	"gymdesk/internal/lifecycle"
)

type Member struct {
	ID               int64       `db:"id" json:"id"`
	Code             string      `db:"code" json:"code"`
	Cin              string      `db:"cin" json:"cin"`
	LastName         string      `db:"last_name" json:"last_name"`
	FirstName        string      `db:"first_name" json:"first_name"`
	Phone            string      `db:"phone" json:"phone"`
	Email            string      `db:"email" json:"email"`
	Address          string      `db:"address" json:"address"`
	Weight           *float64    `db:"weight" json:"weight,omitempty"`
	Height           *float64    `db:"height" json:"height,omitempty"`
	Objectives       string      `db:"objectives" json:"objectives"`
	HealthIssues     string      `db:"health_issues" json:"health_issues"`
	PlanID           *int64      `db:"plan_id" json:"plan_id"`
	StartDate        *civil.Date `db:"start_date" json:"start_date"`
	EndDate          *civil.Date `db:"end_date" json:"end_date"`
	Active           bool        `db:"active" json:"active"`
	RegistrationDate civil.Date  `db:"registration_date" json:"registration_date"`
}

func (m Member) SubscriptionEnd() *civil.Date { return m.EndDate }
func (m Member) InActivePopulation() bool     { return m.Active }

func (m Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// View is a member as shown to staff: plan name resolved, status computed.
type View struct {
	Member
	PlanName string           `json:"plan_name"`
	Status   lifecycle.Status `json:"status"`
}

type Objective struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type CalendarMember struct {
	ID      int64            `json:"id"`
	Name    string           `json:"name"`
	EndDate *civil.Date      `json:"end_date"`
	Status  lifecycle.Status `json:"status"`
}

type CalendarDay struct {
	Date    *civil.Date        `json:"date"`
	Empty   bool               `json:"empty"`
	State   lifecycle.DayState `json:"state"`
	Members []CalendarMember   `json:"members"`
}

type Calendar struct {
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Days  []CalendarDay `json:"days"`
}

type MemberRequest struct {
	Cin          string      `json:"cin" binding:"max=64"`
	LastName     string      `json:"last_name" binding:"required,max=255"`
	FirstName    string      `json:"first_name" binding:"required,max=255"`
	Phone        string      `json:"phone" binding:"max=64"`
	Email        string      `json:"email" binding:"omitempty,email"`
	Address      string      `json:"address"`
	Weight       *float64    `json:"weight" binding:"omitempty,gte=0"`
	Height       *float64    `json:"height" binding:"omitempty,gte=0"`
	Objectives   string      `json:"objectives"`
	HealthIssues string      `json:"health_issues"`
	PlanID       *int64      `json:"plan_id"`
	StartDate    *civil.Date `json:"start_date"`
	EndDate      *civil.Date `json:"end_date"`
}
