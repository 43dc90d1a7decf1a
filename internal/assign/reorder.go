package assign

import (
	"time"

	"github.com/postqms/branch-queue/internal/model"
)

// promotionThreshold is how close an appointment must be before its ticket
// jumps the walk-in queue.  Anything under two minutes away, exactly due or
// already overdue is promoted.
const promotionThreshold = 2 * time.Minute

// PromoteDueAppointment moves the single earliest-appointed ticket to the
// front of the list when its appointment is within the promotion threshold
// of now (or already in the past).  The relative order of all other tickets
// is preserved, so running the promotion again on an already promoted list
// changes nothing.  Only one ticket is ever promoted per call, even when
// several appointments are near due: queue order between appointments is
// re-evaluated on the next refresh anyway.
//
// The list is modified in place and returned for convenience.
func PromoteDueAppointment(tickets []model.Ticket, now time.Time) []model.Ticket {
	earliest := -1
	for i, t := range tickets {
		if t.AppointedTime == nil {
			continue
		}
		if earliest == -1 || t.AppointedTime.Before(*tickets[earliest].AppointedTime) {
			earliest = i
		}
	}
	if earliest <= 0 {
		// No appointed ticket, or the candidate already leads the queue.
		return tickets
	}
	if tickets[earliest].AppointedTime.Sub(now) >= promotionThreshold {
		return tickets
	}
	promoted := tickets[earliest]
	copy(tickets[1:earliest+1], tickets[:earliest])
	tickets[0] = promoted
	return tickets
}
