package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelops-backend/models"
)

func occupiedRoom() models.Room {
	return models.Room{
		RoomNumber: "203",
		GuestName:  "Kim",
		CheckIn:    "2024-04-30",
		CheckOut:   "2024-05-02",
		Status:     models.OccupancyCheckedIn,
		Clean:      models.HousekeepingCleaned,
	}
}

func TestCheckoutRequiresElevation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedRoom(t, occupiedRoom())

	_, err := f.rooms.Checkout(ctx, "plain-session", id, CheckoutOptions{})
	assert.ErrorIs(t, err, ErrNotElevated)

	room := f.room(t, id)
	assert.Equal(t, models.OccupancyCheckedIn, room.Status, "rejected checkout issues no write")
	assert.Equal(t, "Kim", room.GuestName)
}

func TestCheckoutClearsGuestFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedRoom(t, occupiedRoom())
	f.elevate(t, "admin")

	_, err := f.rooms.Checkout(ctx, "admin", id, CheckoutOptions{})
	require.NoError(t, err)

	room := f.room(t, id)
	assert.Equal(t, models.OccupancyEmpty, room.Status)
	assert.Empty(t, room.GuestName)
	assert.Empty(t, room.CheckIn)
	assert.Empty(t, room.CheckOut)
	assert.Equal(t, models.HousekeepingCleaned, room.Clean, "housekeeping untouched by checkout")
}

func TestCheckoutRejectsVacantRoom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedRoom(t, models.Room{RoomNumber: "101", Status: models.OccupancyEmpty})
	f.elevate(t, "admin")

	_, err := f.rooms.Checkout(ctx, "admin", id, CheckoutOptions{})
	assert.ErrorIs(t, err, ErrRoomNotOccupied)
}

func TestCheckoutWithPickupRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedRoom(t, occupiedRoom())
	f.elevate(t, "admin")

	result, err := f.rooms.Checkout(ctx, "admin", id, CheckoutOptions{WithPickup: true, PeopleCount: "2"})
	require.NoError(t, err)
	require.NotEmpty(t, result.PickupID)

	req := f.pickup(t, result.PickupID)
	assert.Equal(t, models.ContentCheckout, req.Content)
	assert.Equal(t, models.PickupNew, req.Status)
	assert.Equal(t, "203", req.RoomNumber)
	assert.Equal(t, "Kim", req.GuestName, "pickup carries the guest cleared from the room")
	assert.Equal(t, "2", req.PeopleCount)
	assert.Equal(t, "0", req.WingsCount)

	room := f.room(t, id)
	assert.Empty(t, room.GuestName)
}

func TestCheckoutWithPickupDefaultsPeopleCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedRoom(t, occupiedRoom())
	f.elevate(t, "admin")

	result, err := f.rooms.Checkout(ctx, "admin", id, CheckoutOptions{WithPickup: true})
	require.NoError(t, err)

	req := f.pickup(t, result.PickupID)
	assert.Equal(t, "1", req.PeopleCount)
}

func TestAdvanceHousekeepingCycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStaff(t, "cho@hotel.local", "Cho")
	id := f.seedRoom(t, models.Room{RoomNumber: "101", Status: models.OccupancyEmpty, Clean: models.HousekeepingDirty})

	// VD → VC records cleaning provenance.
	next, err := f.rooms.AdvanceHousekeeping(ctx, "cho@hotel.local", id)
	require.NoError(t, err)
	assert.Equal(t, models.HousekeepingCleaned, next)

	room := f.room(t, id)
	assert.Equal(t, "Cho", room.CleanedBy)
	assert.NotEmpty(t, room.CleanedAt)
	assert.Empty(t, room.InspectedBy)

	// VC → VI records inspection; cleaning provenance untouched.
	next, err = f.rooms.AdvanceHousekeeping(ctx, "cho@hotel.local", id)
	require.NoError(t, err)
	assert.Equal(t, models.HousekeepingInspected, next)

	room = f.room(t, id)
	assert.Equal(t, "Cho", room.CleanedBy)
	assert.Equal(t, "Cho", room.InspectedBy)
	assert.NotEmpty(t, room.InspectedAt)

	// VI → VD closes the cycle and clears all four provenance fields.
	next, err = f.rooms.AdvanceHousekeeping(ctx, "cho@hotel.local", id)
	require.NoError(t, err)
	assert.Equal(t, models.HousekeepingDirty, next)

	room = f.room(t, id)
	assert.Empty(t, room.CleanedAt)
	assert.Empty(t, room.CleanedBy)
	assert.Empty(t, room.InspectedAt)
	assert.Empty(t, room.InspectedBy)
}

func TestAdvanceHousekeepingUnsetRejected(t *testing.T) {
	f := newFixture(t)
	id := f.seedRoom(t, models.Room{RoomNumber: "101", Status: models.OccupancyEmpty})

	_, err := f.rooms.AdvanceHousekeeping(context.Background(), "cho@hotel.local", id)
	assert.ErrorIs(t, err, ErrHousekeepingUnset)
}

func TestAdvanceHousekeepingFallbackName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// No staff profile exists: the email local part is the fallback.
	id := f.seedRoom(t, models.Room{RoomNumber: "101", Status: models.OccupancyEmpty, Clean: models.HousekeepingDirty})

	_, err := f.rooms.AdvanceHousekeeping(ctx, "cho@hotel.local", id)
	require.NoError(t, err)
	assert.Equal(t, "cho", f.room(t, id).CleanedBy)
}

func TestRoomsSectionFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, n := range []string{"101", "105", "106", "301"} {
		f.seedRoom(t, models.Room{RoomNumber: n, Status: models.OccupancyEmpty})
	}

	rooms, err := f.rooms.Rooms(ctx, "1f")
	require.NoError(t, err)
	var numbers []string
	for _, r := range rooms {
		numbers = append(numbers, r.RoomNumber)
	}
	assert.Equal(t, []string{"101", "105"}, numbers)

	all, err := f.rooms.Rooms(ctx, "all")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	everything, err := f.rooms.Rooms(ctx, "")
	require.NoError(t, err)
	assert.Len(t, everything, 4)
}

func TestCheckoutVacancyInvariant(t *testing.T) {
	// occupancy == empty ⟺ guest fields empty, immediately after a
	// checkout, with or without the pickup side effect.
	for _, withPickup := range []bool{false, true} {
		f := newFixture(t)
		ctx := context.Background()
		id := f.seedRoom(t, occupiedRoom())
		f.elevate(t, "admin")

		_, err := f.rooms.Checkout(ctx, "admin", id, CheckoutOptions{WithPickup: withPickup, PeopleCount: "1"})
		require.NoError(t, err)

		room := f.room(t, id)
		vacant := room.Status == models.OccupancyEmpty
		cleared := room.GuestName == "" && room.CheckIn == "" && room.CheckOut == ""
		assert.True(t, vacant && cleared)
	}
}
