// Package memory provides an in-memory booking store.  It backs the
// server when no database is configured (the standalone, single-machine
// mode) and the service tests.  All methods copy bookings in and out so
// callers can never mutate stored state through a returned slice.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/arendsv/guesthouse-booking/internal/model"
	"github.com/arendsv/guesthouse-booking/internal/repository"
)

// Store keeps bookings in a map guarded by a mutex.  It returns the
// same sentinel errors as the MySQL repository so handlers and the
// service treat both backends identically.
type Store struct {
	mu       sync.Mutex
	bookings map[string]model.Booking
}

// New returns an empty Store.
func New() *Store {
	return &Store{bookings: make(map[string]model.Booking)}
}

func cloneBooking(b model.Booking) model.Booking {
	out := b
	out.RoomNumbers = append([]int(nil), b.RoomNumbers...)
	return out
}

// sortBookings orders by date then creation time then id, the order the
// calendar views expect.
func sortBookings(list []model.Booking) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date < list[j].Date
		}
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
}

// ListAll returns every booking ordered by date then creation time.
func (s *Store) ListAll(ctx context.Context) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, cloneBooking(b))
	}
	sortBookings(out)
	return out, nil
}

// ListByDate returns the bookings for one canonical date key, optionally
// excluding a single id.
func (s *Store) ListByDate(ctx context.Context, date, excludeID string) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Booking, 0)
	for _, b := range s.bookings {
		if b.Date != date {
			continue
		}
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		out = append(out, cloneBooking(b))
	}
	sortBookings(out)
	return out, nil
}

// GetByID returns a single booking or repository.ErrBookingNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	out := cloneBooking(b)
	return &out, nil
}

// Create stores a new booking.  Like the MySQL backend it rejects an id
// that is already stored with ErrDuplicateBooking — a colliding create
// must never replace an existing booking — and a room number already
// taken on the same date with ErrRoomConflict, as a backstop should a
// caller bypass the service's per-date serialization.
func (s *Store) Create(ctx context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[b.ID]; ok {
		return repository.ErrDuplicateBooking
	}
	if s.roomTaken(b.Date, b.RoomNumbers, b.ID) {
		return repository.ErrRoomConflict
	}
	now := time.Now().UTC().Truncate(time.Second)
	b.CreatedAt = now
	b.UpdatedAt = now
	s.bookings[b.ID] = cloneBooking(*b)
	return nil
}

// Update rewrites a booking in place, preserving its creation time.
func (s *Store) Update(ctx context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.bookings[b.ID]
	if !ok {
		return repository.ErrBookingNotFound
	}
	if s.roomTaken(b.Date, b.RoomNumbers, b.ID) {
		return repository.ErrRoomConflict
	}
	b.CreatedAt = old.CreatedAt
	b.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	s.bookings[b.ID] = cloneBooking(*b)
	return nil
}

// Delete removes a booking by id, freeing its rooms for that date.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[id]; !ok {
		return repository.ErrBookingNotFound
	}
	delete(s.bookings, id)
	return nil
}

// roomTaken reports whether any of the given rooms is already assigned
// on the date by a different booking.  Callers must hold s.mu.
func (s *Store) roomTaken(date string, rooms []int, excludeID string) bool {
	for _, b := range s.bookings {
		if b.Date != date || b.ID == excludeID {
			continue
		}
		for _, used := range b.RoomNumbers {
			for _, n := range rooms {
				if used == n {
					return true
				}
			}
		}
	}
	return false
}
