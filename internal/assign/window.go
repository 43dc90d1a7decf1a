package assign

import (
	"sort"
	"time"

	"github.com/postqms/branch-queue/internal/model"
)

// DayWindow is an explicit half-open time range [Start, End) bounding
// "today's business".  The engine never derives the window from the wall
// clock itself; callers build one with Today and pass it in, which keeps the
// matching logic pure and testable across time zones.
type DayWindow struct {
	Start time.Time
	End   time.Time
}

// Today returns the calendar-day window containing now, in now's location.
func Today(now time.Time) DayWindow {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return DayWindow{Start: start, End: start.Add(24 * time.Hour)}
}

// Contains reports whether t falls inside the window.
func (w DayWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// SortByCreation orders tickets by creation time ascending, in place.  The
// sort is stable so tickets created at the same instant keep their incoming
// order.  This is the base first-come-first-served order before any
// appointment promotion.
func SortByCreation(tickets []model.Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].CreatedAt.Before(tickets[j].CreatedAt)
	})
}
