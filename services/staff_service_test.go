package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelops-backend/models"
)

func TestResolveDisplayName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStaff(t, "lee@hotel.local", "Lee")

	tests := []struct {
		name     string
		email    string
		expected string
	}{
		{name: "profile name wins", email: "lee@hotel.local", expected: "Lee"},
		{name: "missing profile uses local part", email: "park@hotel.local", expected: "park"},
		{name: "empty identity is unknown", email: "", expected: models.UnknownStaffName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.staff.ResolveDisplayName(ctx, tt.email))
		})
	}
}

func TestResolveDisplayNameEmptyProfileName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStaff(t, "noname@hotel.local", "")

	assert.Equal(t, "noname", f.staff.ResolveDisplayName(ctx, "noname@hotel.local"))
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	profile, err := f.staff.Register(ctx, "Lee@Hotel.Local", "Lee", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, "lee@hotel.local", profile.Email, "email is normalized")
	assert.NotEmpty(t, profile.ID)

	logged, err := f.staff.Login(ctx, "lee@hotel.local", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, "Lee", logged.Name)

	_, err = f.staff.Login(ctx, "lee@hotel.local", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.staff.Login(ctx, "nobody@hotel.local", "secret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.staff.Register(ctx, "lee@hotel.local", "Lee", "pass")
	require.NoError(t, err)

	_, err = f.staff.Register(ctx, "lee@hotel.local", "Lee Again", "pass")
	assert.ErrorIs(t, err, ErrStaffExists)
}

func TestUpdateName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.staff.Register(ctx, "lee@hotel.local", "Lee", "pass")
	require.NoError(t, err)

	profile, err := f.staff.UpdateName(ctx, "lee@hotel.local", "  Lee Min  ")
	require.NoError(t, err)
	assert.Equal(t, "Lee Min", profile.Name, "name is trimmed")

	assert.Equal(t, "Lee Min", f.staff.ResolveDisplayName(ctx, "lee@hotel.local"),
		"later provenance resolution sees the new name")

	_, err = f.staff.UpdateName(ctx, "lee@hotel.local", "   ")
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = f.staff.UpdateName(ctx, "nobody@hotel.local", "Name")
	assert.Error(t, err)
}

func TestPushTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.staff.Register(ctx, "lee@hotel.local", "Lee", "pass")
	require.NoError(t, err)
	_, err = f.staff.Register(ctx, "park@hotel.local", "Park", "pass")
	require.NoError(t, err)

	require.NoError(t, f.staff.SavePushToken(ctx, "lee@hotel.local", "ExponentPushToken[abc]"))

	tokens, err := f.staff.PushTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ExponentPushToken[abc]"}, tokens, "staff without tokens are skipped")

	token, err := f.staff.PushTokenFor(ctx, "lee@hotel.local")
	require.NoError(t, err)
	assert.Equal(t, "ExponentPushToken[abc]", token)
}
