package lifecycle

import (
	"time"

	"gymdesk/internal/civil"
)

type DayState string

const (
	DayNone     DayState = "none"
	DayExpiring DayState = "expiring"
	DayExpired  DayState = "expired"
)

// dayLookahead bounds the open interval (date, date+8) used for calendar
// cells, i.e. the seven days after date.
const dayLookahead = 8

// DayStatus reports whether any record ends on date (expired) or within the
// seven following days while not yet expired relative to now (expiring).
// Expired wins when both apply.
func DayStatus[R Record](date civil.Date, population []R, now civil.Date) DayState {
	var expiredOnDay, expiringOnDay int
	for _, r := range population {
		end := r.SubscriptionEnd()
		if end == nil {
			continue
		}
		switch {
		case end.Equal(date):
			expiredOnDay++
		case inLookahead(*end, date) && Classify(end, now) != StatusExpired:
			expiringOnDay++
		}
	}
	return stateFor(expiredOnDay, expiringOnDay)
}

// MembersForDay returns the records whose end date is date or falls in
// (date, date+8), in population order.
func MembersForDay[R Record](date civil.Date, population []R) []R {
	out := make([]R, 0)
	for _, r := range population {
		end := r.SubscriptionEnd()
		if end == nil {
			continue
		}
		if end.Equal(date) || inLookahead(*end, date) {
			out = append(out, r)
		}
	}
	return out
}

func inLookahead(end, date civil.Date) bool {
	return end.After(date) && end.Before(date.AddDays(dayLookahead))
}

func stateFor(expired, expiring int) DayState {
	switch {
	case expired > 0:
		return DayExpired
	case expiring > 0:
		return DayExpiring
	default:
		return DayNone
	}
}

// Cell is one slot of a Monday-first month grid. Empty cells pad the first
// week.
type Cell struct {
	Date  civil.Date
	Empty bool
}

// MonthGrid lays out a month in seven columns, Monday first. Only leading
// padding is emitted.
func MonthGrid(year int, month time.Month) []Cell {
	first := civil.NewDate(year, month, 1)
	leading := first.ISOWeekday() - 1
	days := civil.DaysIn(year, month)

	cells := make([]Cell, 0, leading+days)
	for i := 0; i < leading; i++ {
		cells = append(cells, Cell{Empty: true})
	}
	for d := 0; d < days; d++ {
		cells = append(cells, Cell{Date: first.AddDays(d)})
	}
	return cells
}
