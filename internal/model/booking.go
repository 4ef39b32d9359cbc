package model

import (
	"strconv"
	"time"
)

// TotalRooms is the number of physical rooms in the guest house.  The
// property has exactly three rooms; capacity accounting and room
// allocation are both defined in terms of this constant.
const TotalRooms = 3

// Booking records one guest stay on a single calendar date.  A booking
// occupies between one and three rooms; the specific room numbers are
// assigned by the allocator and stored alongside the booking so that
// views and exports never need to re-derive them.
//
// Fields:
//  ID          – opaque unique identifier (UUID, generated when absent).
//  Date        – canonical day key in YYYY-MM-DD form, the partition key
//                for capacity accounting.
//  GuestName   – display name of the guest, never empty.
//  RoomCount   – number of rooms occupied, in [1, TotalRooms].
//  RoomNumbers – assigned room numbers, ascending, len == RoomCount.
//  Remarks     – optional free-text note.
//  CreatedAt   – creation timestamp (UTC).
//  UpdatedAt   – last update timestamp (UTC).
type Booking struct {
	ID          string    `json:"id"`          // bookings.id
	Date        string    `json:"date"`        // bookings.booking_date
	GuestName   string    `json:"name"`        // bookings.guest_name
	RoomCount   int       `json:"rooms"`       // bookings.room_count
	RoomNumbers []int     `json:"roomNumbers"` // booking_rooms.room_number (one row per room)
	Remarks     string    `json:"remarks"`     // bookings.remarks
	CreatedAt   time.Time `json:"createdAt"`   // bookings.created_at
	UpdatedAt   time.Time `json:"updatedAt"`   // bookings.updated_at
}

// RoomSetting is the display configuration for one physical room: a
// human-friendly name and a color used by calendar views and exports.
// Settings are presentation-only; capacity and allocation work purely
// on numeric room identity.
type RoomSetting struct {
	Number int    `json:"number"` // room number in [1, TotalRooms]
	Name   string `json:"name"`   // display name, e.g. "Garden Room"
	Color  string `json:"color"`  // CSS color used by calendar indicators
}

// DefaultRoomSettings returns the settings used when none have been
// stored: "Room N" with a shared default color.
func DefaultRoomSettings() []RoomSetting {
	out := make([]RoomSetting, 0, TotalRooms)
	for n := 1; n <= TotalRooms; n++ {
		out = append(out, RoomSetting{
			Number: n,
			Name:   "Room " + strconv.Itoa(n),
			Color:  "#667eea",
		})
	}
	return out
}
