package allocate

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/seatwise/pkg/model"
)

func TestPlaceSeatsFormula(t *testing.T) {
	pairing := &PairingResult{
		Pairs: []model.Pair{
			{A: "p1", B: "p2"},
			{A: "p3", B: "p4"},
		},
		Unallocated: []model.AttendeeID{"u1"},
	}

	plan := placeSeats(pairing, 2, 3)
	gt.A(t, plan.Assignments).Length(5)
	gt.A(t, plan.Overflow).Length(0)

	// i-th attendee sits at table i/capacity, seat i%capacity
	gt.Equal(t, plan.Assignments[0], model.SeatAssignment{AttendeeID: "p1", TableNo: 0, SeatNo: 0})
	gt.Equal(t, plan.Assignments[1], model.SeatAssignment{AttendeeID: "p2", TableNo: 0, SeatNo: 1})
	gt.Equal(t, plan.Assignments[3], model.SeatAssignment{AttendeeID: "p4", TableNo: 1, SeatNo: 0})
	gt.Equal(t, plan.Assignments[4], model.SeatAssignment{AttendeeID: "u1", TableNo: 1, SeatNo: 1})
}

func TestPlaceSeatsPairsStayAdjacent(t *testing.T) {
	pairing := &PairingResult{
		Pairs: []model.Pair{
			{A: "p1", B: "p2"},
			{A: "p3", B: "p4"},
		},
	}

	plan := placeSeats(pairing, 2, 4)
	for i := 0; i < len(plan.Assignments); i += 2 {
		a, b := plan.Assignments[i], plan.Assignments[i+1]
		gt.Equal(t, a.TableNo, b.TableNo)
		gt.Equal(t, b.SeatNo, a.SeatNo+1)
	}
}

func TestPlaceSeatsOverflow(t *testing.T) {
	pairing := &PairingResult{
		Pairs: []model.Pair{
			{A: "p1", B: "p2"},
			{A: "p3", B: "p4"},
			{A: "p5", B: "p6"},
		},
		Unallocated: []model.AttendeeID{"u1", "u2"},
	}

	// 8 attendees into 2 tables of 3: 6 seated, 2 overflow.
	plan := placeSeats(pairing, 2, 3)
	gt.A(t, plan.Assignments).Length(6)
	gt.A(t, plan.Overflow).Length(2)
	gt.Equal(t, plan.Overflow, []model.AttendeeID{"u1", "u2"})
}

func TestPlaceSeatsTableBreakdown(t *testing.T) {
	pairing := &PairingResult{
		Pairs: []model.Pair{
			{A: "p1", B: "p2"},
			{A: "p3", B: "p4"},
		},
	}

	plan := placeSeats(pairing, 2, 2)
	gt.A(t, plan.Tables).Length(2)
	gt.Equal(t, plan.Tables[0].TableNo, 0)
	gt.A(t, plan.Tables[0].Seats).Length(2)
	gt.Equal(t, plan.Tables[1].TableNo, 1)
	gt.A(t, plan.Tables[1].Seats).Length(2)
}
