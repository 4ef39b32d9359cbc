package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arendsv/guesthouse-booking/internal/model"
	"github.com/arendsv/guesthouse-booking/internal/queue"
	"github.com/arendsv/guesthouse-booking/internal/repository"
	"github.com/arendsv/guesthouse-booking/internal/service"
	"github.com/arendsv/guesthouse-booking/internal/storage/memory"
)

// eventRecorder collects published events for assertions.
type eventRecorder struct {
	mu     sync.Mutex
	events []queue.BookingEvent
}

func (r *eventRecorder) publish(_ context.Context, ev queue.BookingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func newService() (*service.BookingService, *memory.Store, *eventRecorder) {
	store := memory.New()
	rec := &eventRecorder{}
	return service.New(store, rec.publish), store, rec
}

func input(date, name string, rooms int) service.BookingInput {
	return service.BookingInput{Date: date, GuestName: name, RoomCount: rooms}
}

func TestCreate_EmptyDateAllocatesAscending(t *testing.T) {
	svc, _, rec := newService()

	b, err := svc.Create(context.Background(), input("2025-06-01", "Tanaka", 2))
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, []int{1, 2}, b.RoomNumbers)
	assert.Equal(t, 2, b.RoomCount)

	require.Len(t, rec.events, 1)
	assert.Equal(t, queue.ActionCreated, rec.events[0].Action)
	assert.Equal(t, b.ID, rec.events[0].BookingID)
}

func TestCreate_FillsRemainingRoom(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, input("2025-06-01", "Tanaka", 2))
	require.NoError(t, err)

	b, err := svc.Create(ctx, input("2025-06-01", "Suzuki", 1))
	require.NoError(t, err)
	assert.Equal(t, []int{3}, b.RoomNumbers)
}

func TestCreate_FullDateRejectedWithHeadroom(t *testing.T) {
	svc, _, rec := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, input("2025-06-01", "Tanaka", 2))
	require.NoError(t, err)
	_, err = svc.Create(ctx, input("2025-06-01", "Suzuki", 1))
	require.NoError(t, err)

	_, err = svc.Create(ctx, input("2025-06-01", "Yamada", 1))
	var capErr *service.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 0, capErr.Headroom)
	assert.Len(t, rec.events, 2, "a rejected request publishes nothing")
}

func TestCreate_OverCapacityRejectedWholesale(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, input("2025-06-01", "Tanaka", 2))
	require.NoError(t, err)

	// Only one room left; a request for two is rejected, not clipped.
	_, err = svc.Create(ctx, input("2025-06-01", "Suzuki", 2))
	var capErr *service.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 1, capErr.Headroom)

	list, err := svc.List(ctx, "2025-06-01")
	require.NoError(t, err)
	assert.Len(t, list, 1, "rejection must not mutate stored state")
}

func TestUpdate_ExcludesSelfFromTally(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	b, err := svc.Create(ctx, input("2025-06-01", "Tanaka", 1))
	require.NoError(t, err)
	assert.Equal(t, []int{1}, b.RoomNumbers)

	// Growing the only booking of the day to all three rooms succeeds:
	// its own room does not count against it.
	updated, err := svc.Update(ctx, b.ID, input("2025-06-01", "Tanaka", 3))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, updated.RoomNumbers)
}

func TestUpdate_SameCountAlwaysSucceeds(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	b, err := svc.Create(ctx, input("2025-06-01", "Tanaka", 2))
	require.NoError(t, err)
	_, err = svc.Create(ctx, input("2025-06-01", "Suzuki", 1))
	require.NoError(t, err)

	// The date is full, but re-requesting the count it already holds
	// must succeed regardless of the other bookings.
	updated, err := svc.Update(ctx, b.ID, input("2025-06-01", "Tanaka-sama", 2))
	require.NoError(t, err)
	assert.Equal(t, 2, updated.RoomCount)
	assert.Equal(t, "Tanaka-sama", updated.GuestName)
}

func TestUpdate_MoveToOtherDate(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	b, err := svc.Create(ctx, input("2025-06-01", "Tanaka", 2))
	require.NoError(t, err)

	moved, err := svc.Update(ctx, b.ID, input("2025-06-02", "Tanaka", 2))
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", moved.Date)

	// The old date is free again.
	full, err := svc.Create(ctx, input("2025-06-01", "Suzuki", 3))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, full.RoomNumbers)
}

func TestUpdate_UnknownID(t *testing.T) {
	svc, _, _ := newService()
	_, err := svc.Update(context.Background(), "nope", input("2025-06-01", "Tanaka", 1))
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
}

func TestDelete_FreesRoomsImmediately(t *testing.T) {
	svc, _, rec := newService()
	ctx := context.Background()

	first, err := svc.Create(ctx, input("2025-06-01", "Tanaka", 2))
	require.NoError(t, err)
	_, err = svc.Create(ctx, input("2025-06-01", "Suzuki", 1))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, first.ID))

	// Freed numbers are reused ascending.
	b, err := svc.Create(ctx, input("2025-06-01", "Yamada", 2))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, b.RoomNumbers)

	last := rec.events[len(rec.events)-2]
	assert.Equal(t, queue.ActionDeleted, last.Action)
	assert.Equal(t, first.ID, last.BookingID)
}

func TestDelete_UnknownID(t *testing.T) {
	svc, _, _ := newService()
	err := svc.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
}

func TestValidation(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	cases := []struct {
		name string
		in   service.BookingInput
	}{
		{"missing date", input("", "Tanaka", 1)},
		{"missing name", input("2025-06-01", "", 1)},
		{"blank name", input("2025-06-01", "   ", 1)},
		{"zero rooms", input("2025-06-01", "Tanaka", 0)},
		{"negative rooms", input("2025-06-01", "Tanaka", -1)},
		{"too many rooms", input("2025-06-01", "Tanaka", 4)},
		{"bad date format", input("06/01/2025", "Tanaka", 1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			var valErr *service.ValidationError
			assert.ErrorAs(t, err, &valErr)
		})
	}
}

func TestCreate_KeepsCallerSuppliedID(t *testing.T) {
	svc, _, _ := newService()
	in := input("2025-06-01", "Tanaka", 1)
	in.ID = "client-generated"
	b, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "client-generated", b.ID)
}

func TestCreate_DuplicateIDNeverOverwrites(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	in := input("2025-06-01", "Tanaka", 1)
	in.ID = "dup"
	_, err := svc.Create(ctx, in)
	require.NoError(t, err)

	// Reusing the id on a different date must fail, not replace the
	// stored booking.
	again := input("2025-06-02", "Suzuki", 1)
	again.ID = "dup"
	_, err = svc.Create(ctx, again)
	assert.ErrorIs(t, err, repository.ErrDuplicateBooking)

	kept, err := svc.Get(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", kept.Date)
	assert.Equal(t, "Tanaka", kept.GuestName)
}

// TestConcurrentCreates_CapacityInvariant hammers one date from many
// goroutines and verifies the per-date serialization upholds the
// invariants: total rooms never exceed three and no room is assigned
// twice.
func TestConcurrentCreates_CapacityInvariant(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	const attempts = 32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, input("2025-06-01", "Guest", 1))
			if err != nil {
				var capErr *service.CapacityError
				assert.ErrorAs(t, err, &capErr)
			}
		}()
	}
	wg.Wait()

	list, err := svc.List(ctx, "2025-06-01")
	require.NoError(t, err)

	total := 0
	seen := map[int]bool{}
	for _, b := range list {
		total += b.RoomCount
		for _, n := range b.RoomNumbers {
			assert.False(t, seen[n], "room %d assigned twice", n)
			seen[n] = true
		}
	}
	assert.Equal(t, model.TotalRooms, total)
}

func TestList_OrderedAndFiltered(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, input("2025-06-02", "B", 1))
	require.NoError(t, err)
	_, err = svc.Create(ctx, input("2025-06-01", "A", 1))
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2025-06-01", all[0].Date)

	day, err := svc.List(ctx, "2025-06-02")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, "B", day[0].GuestName)

	_, err = svc.List(ctx, "bad-date")
	var valErr *service.ValidationError
	assert.ErrorAs(t, err, &valErr)
}
