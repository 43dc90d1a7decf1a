package assign

import (
	"reflect"
	"testing"
	"time"

	"github.com/postqms/branch-queue/internal/model"
)

func TestPromoteDueAppointment(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	created := now.Add(-time.Hour)

	cases := []struct {
		name      string
		tickets   []model.Ticket
		wantOrder []string
	}{
		{
			name: "appointment due in under two minutes jumps the queue",
			tickets: []model.Ticket{
				walkin("w1", "op", created),
				walkin("w2", "op", created.Add(time.Minute)),
				appointed("a1", "op", created.Add(2*time.Minute), now.Add(90*time.Second)),
			},
			wantOrder: []string{"a1", "w1", "w2"},
		},
		{
			name: "overdue appointment is promoted",
			tickets: []model.Ticket{
				walkin("w1", "op", created),
				appointed("a1", "op", created.Add(time.Minute), now.Add(-10*time.Minute)),
			},
			wantOrder: []string{"a1", "w1"},
		},
		{
			name: "appointment exactly two minutes away stays put",
			tickets: []model.Ticket{
				walkin("w1", "op", created),
				appointed("a1", "op", created.Add(time.Minute), now.Add(2*time.Minute)),
			},
			wantOrder: []string{"w1", "a1"},
		},
		{
			name: "far appointment stays put",
			tickets: []model.Ticket{
				walkin("w1", "op", created),
				appointed("a1", "op", created.Add(time.Minute), now.Add(time.Hour)),
			},
			wantOrder: []string{"w1", "a1"},
		},
		{
			name: "only the earliest of several due appointments moves",
			tickets: []model.Ticket{
				walkin("w1", "op", created),
				appointed("a1", "op", created.Add(time.Minute), now.Add(time.Minute)),
				appointed("a2", "op", created.Add(2*time.Minute), now.Add(30*time.Second)),
			},
			wantOrder: []string{"a2", "w1", "a1"},
		},
		{
			name: "tied appointments promote the first in list order",
			tickets: []model.Ticket{
				walkin("w1", "op", created),
				appointed("a1", "op", created.Add(time.Minute), now),
				appointed("a2", "op", created.Add(2*time.Minute), now),
			},
			wantOrder: []string{"a1", "w1", "a2"},
		},
		{
			name:      "no tickets",
			tickets:   []model.Ticket{},
			wantOrder: []string{},
		},
		{
			name: "walk-ins only",
			tickets: []model.Ticket{
				walkin("w1", "op", created),
				walkin("w2", "op", created.Add(time.Minute)),
			},
			wantOrder: []string{"w1", "w2"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(PromoteDueAppointment(tc.tickets, now))
			if !reflect.DeepEqual(got, tc.wantOrder) {
				t.Fatalf("order = %v, want %v", got, tc.wantOrder)
			}
		})
	}
}

func TestPromoteDueAppointmentIsIdempotent(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	created := now.Add(-time.Hour)
	tickets := []model.Ticket{
		walkin("w1", "op", created),
		walkin("w2", "op", created.Add(time.Minute)),
		appointed("a1", "op", created.Add(2*time.Minute), now.Add(time.Minute)),
	}

	once := ids(PromoteDueAppointment(tickets, now))
	twice := ids(PromoteDueAppointment(tickets, now))
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second promotion changed the order: %v then %v", once, twice)
	}
	want := []string{"a1", "w1", "w2"}
	if !reflect.DeepEqual(twice, want) {
		t.Fatalf("order = %v, want %v", twice, want)
	}
}
