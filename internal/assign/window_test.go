package assign

import (
	"testing"
	"time"

	"github.com/postqms/branch-queue/internal/model"
)

func TestTodayBoundsAreHalfOpen(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 30, 0, 0, time.UTC)
	w := Today(now)

	if !w.Start.Equal(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected window start: %v", w.Start)
	}
	if !w.End.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected window end: %v", w.End)
	}

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"midnight start included", w.Start, true},
		{"middle of day", now, true},
		{"last nanosecond", w.End.Add(-time.Nanosecond), true},
		{"next midnight excluded", w.End, false},
		{"previous day excluded", w.Start.Add(-time.Second), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := w.Contains(tc.at); got != tc.want {
				t.Errorf("Contains(%v) = %v, want %v", tc.at, got, tc.want)
			}
		})
	}
}

func TestTodayKeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	now := time.Date(2025, 3, 14, 1, 0, 0, 0, loc)
	w := Today(now)
	if w.Start.Location() != loc {
		t.Fatalf("window start location = %v, want %v", w.Start.Location(), loc)
	}
	if w.Start.Hour() != 0 {
		t.Fatalf("window start hour = %d, want 0 (local midnight)", w.Start.Hour())
	}
}

func TestSortByCreationIsStable(t *testing.T) {
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	tickets := []struct {
		id string
		at time.Time
	}{
		{"t3", base.Add(2 * time.Minute)},
		{"t1", base},
		{"t2", base}, // same instant as t1: incoming order must hold
	}

	list := make([]model.Ticket, 0, len(tickets))
	for _, tc := range tickets {
		list = append(list, walkin(tc.id, "op", tc.at))
	}
	SortByCreation(list)

	want := []string{"t1", "t2", "t3"}
	for i, id := range want {
		if list[i].ID != id {
			t.Fatalf("position %d: got %s, want %s (full order %v)", i, list[i].ID, id, ids(list))
		}
	}
}
