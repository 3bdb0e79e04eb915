package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelops-backend/models"
	"hotelops-backend/store"
)

func TestCreateRoomSetsCreatorAsParticipant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room, err := f.chat.CreateRoom(ctx, "lee@hotel.local", "  front desk  ")
	require.NoError(t, err)
	assert.Equal(t, "front desk", room.Name, "name is trimmed")
	assert.Equal(t, []string{"lee@hotel.local"}, room.Participants)
	assert.Equal(t, "lee@hotel.local", room.CreatedBy)
	assert.NotZero(t, room.ActivityMillis(), "fresh room sorts by its creation time")
}

func TestCreateRoomRequiresName(t *testing.T) {
	f := newFixture(t)

	_, err := f.chat.CreateRoom(context.Background(), "lee@hotel.local", "   ")
	assert.ErrorIs(t, err, ErrRoomNameRequired)

	docs, qerr := f.store.Query(context.Background(), models.ChatRoomsCollection)
	require.NoError(t, qerr)
	assert.Empty(t, docs)
}

func TestRoomsForListsOnlyMemberships(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine, err := f.chat.CreateRoom(ctx, "lee@hotel.local", "housekeeping")
	require.NoError(t, err)
	_, err = f.chat.CreateRoom(ctx, "park@hotel.local", "private")
	require.NoError(t, err)

	rooms, err := f.chat.RoomsFor(ctx, "lee@hotel.local")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, mine.ID, rooms[0].ID)
}

func TestRoomsForOrdersByActivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	older, err := f.chat.CreateRoom(ctx, "lee@hotel.local", "older")
	require.NoError(t, err)
	f.now = f.now.Add(time.Minute)
	newer, err := f.chat.CreateRoom(ctx, "lee@hotel.local", "newer")
	require.NoError(t, err)

	rooms, err := f.chat.RoomsFor(ctx, "lee@hotel.local")
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, newer.ID, rooms[0].ID, "most recently active first")

	// A message in the older room bumps it to the top.
	f.now = f.now.Add(time.Minute)
	_, err = f.chat.SendMessage(ctx, "lee@hotel.local", older.ID, "hello")
	require.NoError(t, err)

	rooms, err = f.chat.RoomsFor(ctx, "lee@hotel.local")
	require.NoError(t, err)
	assert.Equal(t, older.ID, rooms[0].ID)
}

func TestSendMessageStampsRoomPreview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStaff(t, "lee@hotel.local", "Lee")

	room, err := f.chat.CreateRoom(ctx, "lee@hotel.local", "front desk")
	require.NoError(t, err)

	f.now = f.now.Add(time.Minute)
	msg, err := f.chat.SendMessage(ctx, "lee@hotel.local", room.ID, " cart to 203 ")
	require.NoError(t, err)
	assert.Equal(t, "cart to 203", msg.Text)
	assert.Equal(t, "Lee", msg.UserName)
	assert.Equal(t, "lee@hotel.local", msg.UserEmail)

	doc, err := f.store.Get(ctx, models.ChatRoomsCollection, room.ID)
	require.NoError(t, err)
	updated := models.ChatRoomFromDoc(doc)
	assert.Equal(t, "cart to 203", updated.LastMessage)
	assert.Equal(t, msg.CreatedAtMillis(), updated.ActivityMillis())
}

func TestSendMessageRejectsNonParticipant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room, err := f.chat.CreateRoom(ctx, "lee@hotel.local", "front desk")
	require.NoError(t, err)

	_, err = f.chat.SendMessage(ctx, "park@hotel.local", room.ID, "hi")
	assert.ErrorIs(t, err, ErrNotParticipant)

	docs, qerr := f.store.Query(ctx, models.MessagesCollection)
	require.NoError(t, qerr)
	assert.Empty(t, docs, "rejected send writes nothing")
}

func TestSendMessageRequiresText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room, err := f.chat.CreateRoom(ctx, "lee@hotel.local", "front desk")
	require.NoError(t, err)

	_, err = f.chat.SendMessage(ctx, "lee@hotel.local", room.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestMessagesOrderedOldestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room, err := f.chat.CreateRoom(ctx, "lee@hotel.local", "front desk")
	require.NoError(t, err)
	other, err := f.chat.CreateRoom(ctx, "lee@hotel.local", "other")
	require.NoError(t, err)

	for _, text := range []string{"first", "second", "third"} {
		f.now = f.now.Add(time.Minute)
		_, err := f.chat.SendMessage(ctx, "lee@hotel.local", room.ID, text)
		require.NoError(t, err)
	}
	_, err = f.chat.SendMessage(ctx, "lee@hotel.local", other.ID, "elsewhere")
	require.NoError(t, err)

	msgs, err := f.chat.Messages(ctx, "lee@hotel.local", room.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3, "messages are scoped to the room")

	var texts []string
	for _, m := range msgs {
		texts = append(texts, m.Text)
	}
	assert.Equal(t, []string{"first", "second", "third"}, texts)
}

func TestMessagesRejectsNonParticipant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room, err := f.chat.CreateRoom(ctx, "lee@hotel.local", "front desk")
	require.NoError(t, err)

	_, err = f.chat.Messages(ctx, "park@hotel.local", room.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestInviteAddsParticipantOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room, err := f.chat.CreateRoom(ctx, "lee@hotel.local", "front desk")
	require.NoError(t, err)

	require.NoError(t, f.chat.Invite(ctx, "lee@hotel.local", room.ID, "park@hotel.local"))
	// Re-inviting is a no-op, not a duplicate entry.
	require.NoError(t, f.chat.Invite(ctx, "lee@hotel.local", room.ID, "park@hotel.local"))

	doc, err := f.store.Get(ctx, models.ChatRoomsCollection, room.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"lee@hotel.local", "park@hotel.local"}, models.ChatRoomFromDoc(doc).Participants)
}

func TestInviteRequiresMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room, err := f.chat.CreateRoom(ctx, "lee@hotel.local", "front desk")
	require.NoError(t, err)

	err = f.chat.Invite(ctx, "park@hotel.local", room.ID, "cho@hotel.local")
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestLeaveRemovesParticipant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room, err := f.chat.CreateRoom(ctx, "lee@hotel.local", "front desk")
	require.NoError(t, err)
	require.NoError(t, f.chat.Invite(ctx, "lee@hotel.local", room.ID, "park@hotel.local"))

	require.NoError(t, f.chat.Leave(ctx, "lee@hotel.local", room.ID))

	doc, err := f.store.Get(ctx, models.ChatRoomsCollection, room.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"park@hotel.local"}, models.ChatRoomFromDoc(doc).Participants)
}

func TestLastLeaveDeletesRoomAndMessages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room, err := f.chat.CreateRoom(ctx, "lee@hotel.local", "front desk")
	require.NoError(t, err)
	keep, err := f.chat.CreateRoom(ctx, "lee@hotel.local", "keep")
	require.NoError(t, err)

	_, err = f.chat.SendMessage(ctx, "lee@hotel.local", room.ID, "one")
	require.NoError(t, err)
	_, err = f.chat.SendMessage(ctx, "lee@hotel.local", room.ID, "two")
	require.NoError(t, err)
	_, err = f.chat.SendMessage(ctx, "lee@hotel.local", keep.ID, "stays")
	require.NoError(t, err)

	require.NoError(t, f.chat.Leave(ctx, "lee@hotel.local", room.ID))

	_, err = f.store.Get(ctx, models.ChatRoomsCollection, room.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	orphans, err := f.store.Query(ctx, models.MessagesCollection,
		store.Filter{Field: "chatRoomId", Value: room.ID})
	require.NoError(t, err)
	assert.Empty(t, orphans, "room history goes with the room")

	survivors, err := f.store.Query(ctx, models.MessagesCollection,
		store.Filter{Field: "chatRoomId", Value: keep.ID})
	require.NoError(t, err)
	assert.Len(t, survivors, 1, "other rooms keep their messages")
}
