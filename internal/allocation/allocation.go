// Package allocation contains the capacity and room-assignment rules for
// the guest house.  Both entry points are pure functions over a snapshot
// of the bookings already persisted for one date; they never read or
// cache state themselves, so callers must supply a fresh snapshot for
// every decision and serialize the surrounding read-decide-write
// sequence per date (see service.BookingService).
package allocation

import (
	"errors"
	"time"

	"github.com/arendsv/guesthouse-booking/internal/model"
)

// ErrNotEnoughRooms is returned by Allocate when fewer free rooms exist
// than were requested.  With Validate called first on the same snapshot
// this cannot happen; the guard catches callers that skip validation or
// snapshots that already violate the capacity invariant.
var ErrNotEnoughRooms = errors.New("not enough free rooms")

// dateKeyLayout is the canonical day-granularity key: no time component,
// so the same calendar day always maps to the same key.
const dateKeyLayout = "2006-01-02"

// Admission is the validator's decision for one request.
type Admission struct {
	Admitted bool // whether the requested rooms fit on the date
	Headroom int  // rooms still available before this request
}

// Validate decides whether a request for requested rooms is admissible
// on a date given the bookings already stored for that date.  When
// excludeID is non-empty the matching booking is left out of the tally,
// so an edit never counts against itself.  Exhaustion is a normal
// outcome, not an error: the caller inspects Admitted and shows
// Headroom to the user on rejection.  An over-capacity request is
// rejected wholesale, never clipped to the remaining headroom.
func Validate(requested int, existing []model.Booking, excludeID string) Admission {
	booked := 0
	for _, b := range existing {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		booked += b.RoomCount
	}
	return Admission{
		Admitted: booked+requested <= model.TotalRooms,
		Headroom: model.TotalRooms - booked,
	}
}

// Allocate picks the room numbers for an admitted request.  Candidate
// rooms are scanned in fixed ascending order 1..TotalRooms and the first
// needed free ones are taken, so identical inputs always produce the
// identical assignment.  The booking identified by excludeID does not
// count as occupying its rooms, which lets an edit reclaim its own
// numbers.  Returns ErrNotEnoughRooms when the snapshot has fewer free
// rooms than requested.
func Allocate(needed int, existing []model.Booking, excludeID string) ([]int, error) {
	used := make(map[int]bool, model.TotalRooms)
	for _, b := range existing {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		for _, n := range b.RoomNumbers {
			used[n] = true
		}
	}
	rooms := make([]int, 0, needed)
	for n := 1; n <= model.TotalRooms && len(rooms) < needed; n++ {
		if !used[n] {
			rooms = append(rooms, n)
		}
	}
	if len(rooms) < needed {
		return nil, ErrNotEnoughRooms
	}
	return rooms, nil
}

// DateKey formats a time as the canonical day key in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateKeyLayout)
}

// ParseDateKey validates that s is a canonical day key and returns the
// corresponding midnight-UTC time.
func ParseDateKey(s string) (time.Time, error) {
	return time.ParseInLocation(dateKeyLayout, s, time.UTC)
}
