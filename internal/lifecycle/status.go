// Package lifecycle classifies members by subscription state. Everything
// here is a pure function of the records and a reference date: no I/O, no
// shared state. Callers pass point-in-time snapshots.
package lifecycle

import (
	"slices"

	"gymdesk/internal/civil"
)

type Status string

const (
	StatusActive       Status = "active"
	StatusExpiringSoon Status = "expiring_soon"
	StatusExpired      Status = "expired"
)

// ExpiryWindowDays is the inclusive look-ahead for StatusExpiringSoon.
const ExpiryWindowDays = 7

// Record is anything that carries a subscription end date and a soft-delete
// marker.
type Record interface {
	SubscriptionEnd() *civil.Date
	InActivePopulation() bool
}

// Classify maps an end date to a Status. A missing end date is always
// expired. The end date itself still counts as covered.
func Classify(end *civil.Date, now civil.Date) Status {
	if end == nil {
		return StatusExpired
	}
	if now.After(*end) {
		return StatusExpired
	}
	if !end.After(now.AddDays(ExpiryWindowDays)) {
		return StatusExpiringSoon
	}
	return StatusActive
}

func ClassifyRecord(r Record, now civil.Date) Status {
	return Classify(r.SubscriptionEnd(), now)
}

// FindExpired is the red list: active records classified expired, earliest
// end date first with missing end dates ahead of everything.
func FindExpired[R Record](population []R, now civil.Date) []R {
	out := make([]R, 0)
	for _, r := range population {
		if r.InActivePopulation() && ClassifyRecord(r, now) == StatusExpired {
			out = append(out, r)
		}
	}
	sortByEnd(out)
	return out
}

// FindExpiringSoon returns active records whose end date is within
// [now, now+7], earliest first.
func FindExpiringSoon[R Record](population []R, now civil.Date) []R {
	out := make([]R, 0)
	for _, r := range population {
		if r.InActivePopulation() && ClassifyRecord(r, now) == StatusExpiringSoon {
			out = append(out, r)
		}
	}
	sortByEnd(out)
	return out
}

type Summary struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	ExpiringSoon int `json:"expiring_soon"`
	Expired      int `json:"expired"`
}

// Summarize counts the active population by status.
func Summarize[R Record](population []R, now civil.Date) Summary {
	var s Summary
	for _, r := range population {
		if !r.InActivePopulation() {
			continue
		}
		s.Total++
		switch ClassifyRecord(r, now) {
		case StatusActive:
			s.Active++
		case StatusExpiringSoon:
			s.ExpiringSoon++
		case StatusExpired:
			s.Expired++
		}
	}
	return s
}

func sortByEnd[R Record](records []R) {
	slices.SortStableFunc(records, func(a, b R) int {
		return compareEnd(a.SubscriptionEnd(), b.SubscriptionEnd())
	})
}

func compareEnd(a, b *civil.Date) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}
