package allocation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arendsv/guesthouse-booking/internal/allocation"
	"github.com/arendsv/guesthouse-booking/internal/model"
)

func booking(id string, count int, rooms ...int) model.Booking {
	return model.Booking{ID: id, Date: "2025-06-01", GuestName: "guest", RoomCount: count, RoomNumbers: rooms}
}

func TestValidate_EmptyDate(t *testing.T) {
	adm := allocation.Validate(2, nil, "")
	assert.True(t, adm.Admitted)
	assert.Equal(t, 3, adm.Headroom)
}

func TestValidate_PartiallyBooked(t *testing.T) {
	existing := []model.Booking{booking("a", 2, 1, 2)}
	adm := allocation.Validate(1, existing, "")
	assert.True(t, adm.Admitted)
	assert.Equal(t, 1, adm.Headroom)
}

func TestValidate_FullDateRejected(t *testing.T) {
	existing := []model.Booking{
		booking("a", 2, 1, 2),
		booking("b", 1, 3),
	}
	adm := allocation.Validate(1, existing, "")
	assert.False(t, adm.Admitted)
	assert.Equal(t, 0, adm.Headroom)
}

func TestValidate_ExactFillAdmitted(t *testing.T) {
	existing := []model.Booking{booking("a", 1, 1)}
	adm := allocation.Validate(2, existing, "")
	assert.True(t, adm.Admitted)
	assert.Equal(t, 2, adm.Headroom)
}

func TestValidate_OverCapacityNotClipped(t *testing.T) {
	existing := []model.Booking{booking("a", 2, 1, 2)}
	adm := allocation.Validate(2, existing, "")
	assert.False(t, adm.Admitted, "a request above headroom is rejected wholesale")
	assert.Equal(t, 1, adm.Headroom)
}

func TestValidate_EditExcludesSelf(t *testing.T) {
	existing := []model.Booking{
		booking("self", 2, 1, 2),
		booking("other", 1, 3),
	}
	// Re-requesting the same count it already holds must always succeed.
	adm := allocation.Validate(2, existing, "self")
	assert.True(t, adm.Admitted)
	assert.Equal(t, 2, adm.Headroom)
}

func TestAllocate_EmptyDate(t *testing.T) {
	rooms, err := allocation.Allocate(2, nil, "")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, rooms)
}

func TestAllocate_SkipsUsedRooms(t *testing.T) {
	existing := []model.Booking{booking("a", 2, 1, 2)}
	rooms, err := allocation.Allocate(1, existing, "")
	require.NoError(t, err)
	assert.Equal(t, []int{3}, rooms)
}

func TestAllocate_LowestNumberFirst(t *testing.T) {
	existing := []model.Booking{booking("a", 1, 1)}
	rooms, err := allocation.Allocate(1, existing, "")
	require.NoError(t, err)
	assert.Equal(t, []int{2}, rooms, "expected room 2, not 3, when both are free")
}

func TestAllocate_EditReclaimsOwnRooms(t *testing.T) {
	existing := []model.Booking{booking("self", 1, 1)}
	rooms, err := allocation.Allocate(3, existing, "self")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, rooms)
}

func TestAllocate_Deterministic(t *testing.T) {
	existing := []model.Booking{booking("a", 1, 2)}
	first, err := allocation.Allocate(2, existing, "")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := allocation.Allocate(2, existing, "")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestAllocate_NotEnoughRooms(t *testing.T) {
	existing := []model.Booking{booking("a", 2, 1, 2)}
	_, err := allocation.Allocate(2, existing, "")
	assert.ErrorIs(t, err, allocation.ErrNotEnoughRooms)
}

func TestDateKey_Canonical(t *testing.T) {
	day, err := allocation.ParseDateKey("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", allocation.DateKey(day))

	// The same calendar day canonicalizes identically regardless of the
	// local clock time attached to it.
	loc := time.FixedZone("UTC+9", 9*60*60)
	evening := time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC).In(loc)
	assert.Equal(t, "2025-06-01", allocation.DateKey(evening))

	_, err = allocation.ParseDateKey("06/01/2025")
	assert.Error(t, err)
	_, err = allocation.ParseDateKey("")
	assert.Error(t, err)
}
