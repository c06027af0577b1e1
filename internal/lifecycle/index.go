package lifecycle

import "gymdesk/internal/civil"

// Index buckets records by end date so that calendar lookups cost one map
// access per day instead of a scan of the whole population. Results match
// DayStatus and MembersForDay; MembersForDay order is by end date here.
type Index[R Record] struct {
	byEnd map[string][]R
}

func NewIndex[R Record](population []R) *Index[R] {
	idx := &Index[R]{byEnd: make(map[string][]R)}
	for _, r := range population {
		end := r.SubscriptionEnd()
		if end == nil {
			continue
		}
		key := end.String()
		idx.byEnd[key] = append(idx.byEnd[key], r)
	}
	return idx
}

func (idx *Index[R]) DayStatus(date, now civil.Date) DayState {
	expired := len(idx.byEnd[date.String()])
	expiring := 0
	for offset := 1; offset < dayLookahead; offset++ {
		end := date.AddDays(offset)
		if Classify(&end, now) == StatusExpired {
			continue
		}
		expiring += len(idx.byEnd[end.String()])
	}
	return stateFor(expired, expiring)
}

func (idx *Index[R]) MembersForDay(date civil.Date) []R {
	out := make([]R, 0)
	for offset := 0; offset < dayLookahead; offset++ {
		out = append(out, idx.byEnd[date.AddDays(offset).String()]...)
	}
	return out
}
