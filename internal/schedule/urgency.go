package schedule

import (
	"sort"
	"time"

	"github.com/mph-llm-experiments/fika/internal/model"
)

// SortByUrgency returns a copy of contacts ordered by days until due,
// most overdue first. Ties keep their input order. The input is untouched.
func SortByUrgency(contacts []model.Contact, tiers model.Tiers, now time.Time) []model.Contact {
	keys := make([]int, len(contacts))
	idx := make([]int, len(contacts))
	for i, c := range contacts {
		keys[i] = DaysUntilDue(c, tiers, now)
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return keys[idx[a]] < keys[idx[b]]
	})

	out := make([]model.Contact, len(contacts))
	for i, j := range idx {
		out[i] = contacts[j]
	}
	return out
}
