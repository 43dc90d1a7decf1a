package assign

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/postqms/branch-queue/internal/model"
)

func TestPickEmployeeFirstEligibleInRosterOrder(t *testing.T) {
	roster := []model.Employee{
		employee("e1", "op-pension"),
		employee("e2", "op-parcel"),
		employee("e3", "op-parcel"),
	}
	ticket := walkin("t1", "op-parcel", time.Now())

	got, ok := PickEmployee(ticket, roster)
	if !ok || got != "e2" {
		t.Fatalf("PickEmployee = (%q, %v), want (e2, true)", got, ok)
	}
}

func TestPickEmployeeNobodyEligible(t *testing.T) {
	roster := []model.Employee{employee("e1", "op-pension")}
	ticket := walkin("t1", "op-visa", time.Now())

	if got, ok := PickEmployee(ticket, roster); ok {
		t.Fatalf("PickEmployee = (%q, true), want no match", got)
	}
}

func TestAssignTicketCreatesCallingRecord(t *testing.T) {
	mem := &memAssignments{}
	eng := New(fakeTickets{}, fakeStaff{}, mem)
	roster := []model.Employee{employee("e1", "op-parcel")}
	ticket := walkin("t1", "op-parcel", time.Now())

	rec, ok, err := eng.AssignTicket(context.Background(), ticket, roster)
	if err != nil || !ok {
		t.Fatalf("AssignTicket = (_, %v, %v), want success", ok, err)
	}
	if rec.EmployeeID != "e1" || rec.Status != model.AssignmentCalling {
		t.Fatalf("record = %+v, want e1 CALLING", rec)
	}
}

func TestAssignTicketIdempotentPerTicket(t *testing.T) {
	mem := &memAssignments{}
	eng := New(fakeTickets{}, fakeStaff{}, mem)
	ticket := walkin("t1", "op-parcel", time.Now())

	first, _, err := eng.AssignTicket(context.Background(), ticket, []model.Employee{employee("e1", "op-parcel")})
	if err != nil {
		t.Fatal(err)
	}
	// A rival pass with a different roster resolves to the first record.
	second, ok, err := eng.AssignTicket(context.Background(), ticket, []model.Employee{employee("e2", "op-parcel")})
	if err != nil || !ok {
		t.Fatalf("second AssignTicket = (_, %v, %v), want success", ok, err)
	}
	if second.ID != first.ID || second.EmployeeID != "e1" {
		t.Fatalf("second record = %+v, want the first record (%+v)", second, first)
	}
	if len(mem.records) != 1 {
		t.Fatalf("stored %d records, want 1", len(mem.records))
	}
}

func TestAssignTicketNoEligibleEmployeeIsNotAnError(t *testing.T) {
	mem := &memAssignments{}
	eng := New(fakeTickets{}, fakeStaff{}, mem)
	ticket := walkin("t1", "op-visa", time.Now())

	_, ok, err := eng.AssignTicket(context.Background(), ticket, []model.Employee{employee("e1", "op-parcel")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected no assignment")
	}
	if len(mem.records) != 0 {
		t.Fatalf("stored %d records, want 0", len(mem.records))
	}
}

func TestActiveTicketsOneNewTicketPerIdleEmployee(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	created := now.Add(-time.Hour)

	// Both employees may serve op-a; only e1 may serve op-b. Three waiting
	// tickets: e1 takes t1 (oldest), e2 takes t3 (the next one it can
	// serve), t2 stays queued because everyone is already busy.
	tickets := []model.Ticket{
		walkin("t1", "op-a", created),
		walkin("t2", "op-b", created.Add(time.Minute)),
		walkin("t3", "op-a", created.Add(2*time.Minute)),
	}
	roster := []model.Employee{
		employee("e1", "op-a", "op-b"),
		employee("e2", "op-a"),
	}
	eng := New(
		fakeTickets{ticketsFn: func(ctx context.Context, departmentID string, w DayWindow) ([]model.Ticket, error) {
			return tickets, nil
		}},
		fakeStaff{rosterFn: func(ctx context.Context, departmentID string) ([]model.Employee, error) {
			return roster, nil
		}},
		&memAssignments{},
	)

	got, err := eng.ActiveTickets(context.Background(), "d1", now)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string][]string{
		"e1": {"t1"},
		"e2": {"t3"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ActiveTickets = %v, want %v", got, want)
	}
}

func TestActiveTicketsSeedsFromCallingAssignments(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	created := now.Add(-time.Hour)

	tickets := []model.Ticket{
		walkin("t1", "op-a", created),
		walkin("t2", "op-a", created.Add(time.Minute)),
	}
	roster := []model.Employee{
		employee("e1", "op-a"),
		employee("e2", "op-a"),
	}
	mem := &memAssignments{records: []model.TicketAssignment{
		{ID: "a1", TicketID: "t1", EmployeeID: "e1", Status: model.AssignmentCalling},
	}}
	eng := New(
		fakeTickets{ticketsFn: func(ctx context.Context, departmentID string, w DayWindow) ([]model.Ticket, error) {
			return tickets, nil
		}},
		fakeStaff{rosterFn: func(ctx context.Context, departmentID string) ([]model.Employee, error) {
			return roster, nil
		}},
		mem,
	)

	got, err := eng.ActiveTickets(context.Background(), "d1", now)
	if err != nil {
		t.Fatal(err)
	}
	// e1 is busy with t1, so t1 is not re-listed for e2 and t2 goes to e2.
	want := map[string][]string{
		"e1": {"t1"},
		"e2": {"t2"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ActiveTickets = %v, want %v", got, want)
	}
}

func TestActiveTicketsEachTicketListedOnce(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	tickets := []model.Ticket{walkin("t1", "op-a", now.Add(-time.Hour))}
	roster := []model.Employee{
		employee("e1", "op-a"),
		employee("e2", "op-a"),
	}
	eng := New(
		fakeTickets{ticketsFn: func(ctx context.Context, departmentID string, w DayWindow) ([]model.Ticket, error) {
			return tickets, nil
		}},
		fakeStaff{rosterFn: func(ctx context.Context, departmentID string) ([]model.Employee, error) {
			return roster, nil
		}},
		&memAssignments{},
	)

	got, err := eng.ActiveTickets(context.Background(), "d1", now)
	if err != nil {
		t.Fatal(err)
	}
	seen := 0
	for _, list := range got {
		for _, id := range list {
			if id == "t1" {
				seen++
			}
		}
	}
	if seen != 1 {
		t.Fatalf("t1 listed %d times, want exactly once (result %v)", seen, got)
	}
	if len(got["e2"]) != 0 {
		t.Fatalf("e2 list = %v, want empty", got["e2"])
	}
}

func TestActiveTicketsAppointmentJumpsQueue(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	created := now.Add(-time.Hour)

	tickets := []model.Ticket{
		walkin("w1", "op-a", created),
		appointed("a1", "op-a", created.Add(time.Minute), now.Add(time.Minute)),
	}
	roster := []model.Employee{employee("e1", "op-a")}
	eng := New(
		fakeTickets{ticketsFn: func(ctx context.Context, departmentID string, w DayWindow) ([]model.Ticket, error) {
			return tickets, nil
		}},
		fakeStaff{rosterFn: func(ctx context.Context, departmentID string) ([]model.Employee, error) {
			return roster, nil
		}},
		&memAssignments{},
	)

	got, err := eng.ActiveTickets(context.Background(), "d1", now)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got["e1"], []string{"a1"}) {
		t.Fatalf("e1 list = %v, want [a1] (appointment due in 1m)", got["e1"])
	}
}

func TestActiveTicketsEmptyInputs(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	t.Run("no tickets", func(t *testing.T) {
		eng := New(fakeTickets{}, fakeStaff{rosterFn: func(ctx context.Context, departmentID string) ([]model.Employee, error) {
			return []model.Employee{employee("e1", "op-a")}, nil
		}}, &memAssignments{})
		got, err := eng.ActiveTickets(context.Background(), "d1", now)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Fatalf("ActiveTickets = %v, want empty map", got)
		}
	})

	t.Run("no on-duty employees", func(t *testing.T) {
		eng := New(fakeTickets{ticketsFn: func(ctx context.Context, departmentID string, w DayWindow) ([]model.Ticket, error) {
			return []model.Ticket{walkin("t1", "op-a", now.Add(-time.Hour))}, nil
		}}, fakeStaff{}, &memAssignments{})
		got, err := eng.ActiveTickets(context.Background(), "d1", now)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Fatalf("ActiveTickets = %v, want empty map", got)
		}
	})
}

func TestActiveTicketsUnserviceableOperationSkipped(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	tickets := []model.Ticket{
		walkin("t1", "op-visa", now.Add(-time.Hour)),
		walkin("t2", "op-a", now.Add(-30*time.Minute)),
	}
	roster := []model.Employee{employee("e1", "op-a")}
	eng := New(
		fakeTickets{ticketsFn: func(ctx context.Context, departmentID string, w DayWindow) ([]model.Ticket, error) {
			return tickets, nil
		}},
		fakeStaff{rosterFn: func(ctx context.Context, departmentID string) ([]model.Employee, error) {
			return roster, nil
		}},
		&memAssignments{},
	)

	got, err := eng.ActiveTickets(context.Background(), "d1", now)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got["e1"], []string{"t2"}) {
		t.Fatalf("e1 list = %v, want [t2] (op-visa unserviceable)", got["e1"])
	}
}

func TestActiveTicketsSourceErrorsPropagate(t *testing.T) {
	boom := errors.New("db down")
	eng := New(fakeTickets{ticketsFn: func(ctx context.Context, departmentID string, w DayWindow) ([]model.Ticket, error) {
		return nil, boom
	}}, fakeStaff{}, &memAssignments{})

	if _, err := eng.ActiveTickets(context.Background(), "d1", time.Now()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}
