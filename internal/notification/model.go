package notification

import (
	"gymdesk/internal/civil"
)

type Type string

const (
	TypeExpiring Type = "expiring"
	TypeExpired  Type = "expired"
)

type Notification struct {
	ID        int64           `db:"id" json:"id"`
	MemberID  *int64          `db:"member_id" json:"member_id"`
	Type      Type            `db:"type" json:"type"`
	Title     string          `db:"title" json:"title"`
	Message   string          `db:"message" json:"message"`
	RefDate   *civil.Date     `db:"ref_date" json:"ref_date"`
	IsRead    bool            `db:"is_read" json:"is_read"`
	CreatedAt civil.Timestamp `db:"created_at" json:"created_at"`
}

// ScanResult summarizes one pass over the member population.
type ScanResult struct {
	Expiring     int `json:"expiring"`
	Expired      int `json:"expired"`
	EmailsQueued int `json:"emails_queued"`
}
