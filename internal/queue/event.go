// Package queue defines message payloads exchanged over the message broker
// plus the publisher and background consumer for them.
package queue

// Booking event actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// BookingEvent is published whenever a booking is created, updated or
// deleted.  It carries enough information for downstream consumers to
// log or notify without querying the primary store.
type BookingEvent struct {
	Action      string `json:"action"`
	BookingID   string `json:"booking_id"`
	Date        string `json:"date"`
	GuestName   string `json:"guest_name"`
	RoomCount   int    `json:"room_count"`
	RoomNumbers []int  `json:"room_numbers"`
	OccurredAt  string `json:"occurred_at"`
}
