// Package service implements the booking workflow: validate the request,
// check capacity for the target date, assign room numbers and persist,
// as one serialized sequence per date.
package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arendsv/guesthouse-booking/internal/allocation"
	"github.com/arendsv/guesthouse-booking/internal/model"
	"github.com/arendsv/guesthouse-booking/internal/queue"
)

// Store is the persistence boundary the service writes through.  Both
// the MySQL repository and the in-memory store satisfy it.  ListByDate
// must return a fresh snapshot on every call; the service never caches
// bookings across decisions.
type Store interface {
	ListAll(ctx context.Context) ([]model.Booking, error)
	ListByDate(ctx context.Context, date, excludeID string) ([]model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	Create(ctx context.Context, b *model.Booking) error
	Update(ctx context.Context, b *model.Booking) error
	Delete(ctx context.Context, id string) error
}

// PublishFunc publishes a booking lifecycle event.  Delivery is
// best-effort; the service logs and ignores publish failures.
type PublishFunc func(ctx context.Context, event queue.BookingEvent) error

// CapacityError reports that a request would push a date's total above
// the room count.  Headroom is the number of rooms still available, for
// display to the operator.
type CapacityError struct {
	Headroom int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("Only %d room(s) available on this date", e.Headroom)
}

// ValidationError reports missing or malformed input.  It is never
// persisted; the operator corrects the form and retries.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// BookingInput carries the operator-supplied fields of a booking.  ID
// is optional on create; the service generates one when absent.  Field
// names mirror the JSON the web client sends.
type BookingInput struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	GuestName string `json:"name"`
	RoomCount int    `json:"rooms"`
	Remarks   string `json:"remarks"`
}

// BookingService composes the capacity validator and room allocator
// around a Store.  Every create and edit runs as one indivisible
// read-validate-allocate-persist sequence under a per-date mutex, so
// two requests for the same date can never decide against the same
// snapshot.  The store's uniqueness constraint on (date, room) remains
// as a backstop for writers outside this process.
type BookingService struct {
	store     Store
	publish   PublishFunc
	dateLocks sync.Map // canonical date key -> *sync.Mutex
}

// New returns a BookingService writing through the given store.
// publish may be nil to disable event publishing.
func New(store Store, publish PublishFunc) *BookingService {
	if store == nil {
		panic("nil store passed to service.New")
	}
	return &BookingService{store: store, publish: publish}
}

// lockDate acquires the mutex serializing all mutations for one date.
// Mutexes are kept for the lifetime of the process; the set of dates a
// three-room guest house ever sees is small.
func (s *BookingService) lockDate(date string) *sync.Mutex {
	v, _ := s.dateLocks.LoadOrStore(date, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu
}

// normalizeInput validates the operator-supplied fields and returns the
// input with the date canonicalized and the name trimmed.
func normalizeInput(in BookingInput) (BookingInput, error) {
	in.GuestName = strings.TrimSpace(in.GuestName)
	if in.Date == "" || in.GuestName == "" || in.RoomCount == 0 {
		return in, &ValidationError{Message: "Date, guest name, and number of rooms are required."}
	}
	if in.RoomCount < 1 || in.RoomCount > model.TotalRooms {
		return in, &ValidationError{Message: fmt.Sprintf("Number of rooms must be between 1 and %d.", model.TotalRooms)}
	}
	day, err := allocation.ParseDateKey(in.Date)
	if err != nil {
		return in, &ValidationError{Message: "Date must be in YYYY-MM-DD format."}
	}
	in.Date = allocation.DateKey(day)
	return in, nil
}

// Create admits, allocates and persists a new booking.  On a capacity
// rejection it returns a *CapacityError carrying the remaining headroom
// and mutates nothing.  Persistence failures pass through verbatim with
// the computed allocation discarded.
func (s *BookingService) Create(ctx context.Context, in BookingInput) (*model.Booking, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return nil, err
	}
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}

	mu := s.lockDate(in.Date)
	defer mu.Unlock()

	existing, err := s.store.ListByDate(ctx, in.Date, "")
	if err != nil {
		return nil, err
	}
	adm := allocation.Validate(in.RoomCount, existing, "")
	if !adm.Admitted {
		return nil, &CapacityError{Headroom: adm.Headroom}
	}
	rooms, err := allocation.Allocate(in.RoomCount, existing, "")
	if err != nil {
		return nil, err
	}

	b := &model.Booking{
		ID:          id,
		Date:        in.Date,
		GuestName:   in.GuestName,
		RoomCount:   in.RoomCount,
		RoomNumbers: rooms,
		Remarks:     in.Remarks,
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, err
	}
	s.publishEvent(queue.ActionCreated, b)
	return b, nil
}

// Update recomputes the allocation for an edited booking against the
// other bookings on its (possibly new) date and rewrites it in place.
// The booking being edited never counts against its own tally.  Returns
// repository.ErrBookingNotFound untouched when the id is unknown.
func (s *BookingService) Update(ctx context.Context, id string, in BookingInput) (*model.Booking, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return nil, err
	}

	mu := s.lockDate(in.Date)
	defer mu.Unlock()

	existing, err := s.store.ListByDate(ctx, in.Date, id)
	if err != nil {
		return nil, err
	}
	adm := allocation.Validate(in.RoomCount, existing, id)
	if !adm.Admitted {
		return nil, &CapacityError{Headroom: adm.Headroom}
	}
	rooms, err := allocation.Allocate(in.RoomCount, existing, id)
	if err != nil {
		return nil, err
	}

	b := &model.Booking{
		ID:          id,
		Date:        in.Date,
		GuestName:   in.GuestName,
		RoomCount:   in.RoomCount,
		RoomNumbers: rooms,
		Remarks:     in.Remarks,
	}
	if err := s.store.Update(ctx, b); err != nil {
		return nil, err
	}
	s.publishEvent(queue.ActionUpdated, b)
	return b, nil
}

// Delete removes a booking by id.  Its room numbers are free for the
// date as soon as the delete commits.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	mu := s.lockDate(b.Date)
	defer mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.publishEvent(queue.ActionDeleted, b)
	return nil
}

// List returns bookings ordered by date then creation time.  When date
// is non-empty only that day's bookings are returned, for calendar
// views.
func (s *BookingService) List(ctx context.Context, date string) ([]model.Booking, error) {
	if date == "" {
		return s.store.ListAll(ctx)
	}
	day, err := allocation.ParseDateKey(date)
	if err != nil {
		return nil, &ValidationError{Message: "Date must be in YYYY-MM-DD format."}
	}
	return s.store.ListByDate(ctx, allocation.DateKey(day), "")
}

// Get returns a single booking by id.
func (s *BookingService) Get(ctx context.Context, id string) (*model.Booking, error) {
	return s.store.GetByID(ctx, id)
}

func (s *BookingService) publishEvent(action string, b *model.Booking) {
	if s.publish == nil {
		return
	}
	ev := queue.BookingEvent{
		Action:      action,
		BookingID:   b.ID,
		Date:        b.Date,
		GuestName:   b.GuestName,
		RoomCount:   b.RoomCount,
		RoomNumbers: b.RoomNumbers,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}
	// Publishing happens after the store committed; a broker outage must
	// not fail the booking, so the error is logged and dropped.
	if err := s.publish(context.Background(), ev); err != nil {
		log.Printf("booking %s: event publish failed: %v", action, err)
	}
}
