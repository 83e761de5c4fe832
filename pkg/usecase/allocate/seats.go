package allocate

import (
	"github.com/m-mizutani/seatwise/pkg/model"
)

// TableSeating is the per-table breakdown of an allocation
type TableSeating struct {
	TableNo int
	Seats   []model.SeatAssignment
}

// seatingPlan is the outcome of mapping a pairing result onto tables
type seatingPlan struct {
	Assignments []model.SeatAssignment
	Tables      []TableSeating
	Overflow    []model.AttendeeID
}

// placeSeats flattens pairs in orchestration order (pair members
// adjacent) followed by the unallocated remainder, and assigns the
// i-th attendee to table i/capacity, seat i%capacity. Attendees beyond
// the event's capacity are reported as overflow rather than failing
// the run.
func placeSeats(pairing *PairingResult, totalTables, seatsPerTable int) *seatingPlan {
	flattened := make([]model.AttendeeID, 0, len(pairing.Pairs)*2+len(pairing.Unallocated))
	for _, pair := range pairing.Pairs {
		flattened = append(flattened, pair.A, pair.B)
	}
	flattened = append(flattened, pairing.Unallocated...)

	capacity := totalTables * seatsPerTable
	plan := &seatingPlan{}

	for i, id := range flattened {
		if i >= capacity {
			plan.Overflow = append(plan.Overflow, id)
			continue
		}
		plan.Assignments = append(plan.Assignments, model.SeatAssignment{
			AttendeeID: id,
			TableNo:    i / seatsPerTable,
			SeatNo:     i % seatsPerTable,
		})
	}

	for _, seat := range plan.Assignments {
		if seat.TableNo >= len(plan.Tables) {
			plan.Tables = append(plan.Tables, TableSeating{TableNo: seat.TableNo})
		}
		table := &plan.Tables[seat.TableNo]
		table.Seats = append(table.Seats, seat)
	}

	return plan
}
