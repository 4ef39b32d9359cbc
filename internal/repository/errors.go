// Package repository defines error types that are reused across the
// storage implementations. These sentinel values allow higher layers
// such as the booking service and handlers to distinguish between
// failure scenarios without inspecting driver-specific errors.
package repository

import "errors"

// ErrBookingNotFound is returned when an update or delete references a
// booking id that does not exist. Handlers translate this into an HTTP
// 404 response.
var ErrBookingNotFound = errors.New("booking not found")

// ErrDuplicateBooking is returned when a create supplies an id that is
// already stored. Ids must be unique on create; a colliding create must
// never replace the existing booking. Handlers translate this into an
// HTTP 409 response.
var ErrDuplicateBooking = errors.New("booking id already exists")

// ErrRoomConflict is returned when persisting a booking would assign a
// room already taken on the same date. The UNIQUE (booking_date,
// room_number) key raises it when a concurrent writer slipped in
// between snapshot and commit; nothing is applied and the caller is
// told to retry.
var ErrRoomConflict = errors.New("room already booked for this date")
