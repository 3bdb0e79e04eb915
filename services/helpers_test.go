package services

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"hotelops-backend/models"
	"hotelops-backend/store"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type notice struct {
	Title string
	Body  string
	Data  map[string]string
}

// recordingNotifier captures dispatched notifications for assertions.
type recordingNotifier struct {
	mu  sync.Mutex
	all []notice
}

func (n *recordingNotifier) NotifyAll(ctx context.Context, title, body string, data map[string]string) {
	n.mu.Lock()
	n.all = append(n.all, notice{Title: title, Body: body, Data: data})
	n.mu.Unlock()
}

func (n *recordingNotifier) NotifyUser(ctx context.Context, email, title, body string, data map[string]string) {
	n.NotifyAll(ctx, title, body, data)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.all)
}

type fixture struct {
	store    *store.MemoryStore
	gate     *AccessGate
	staff    *StaffService
	notifier *recordingNotifier
	pickups  *PickupService
	rooms    *RoomService
	chat     *ChatService
	history  *NotificationService
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := quietLogger()
	st := store.NewMemoryStore()
	gate := NewAccessGate(func(candidate string) bool { return candidate == "hunter2" })
	staff := NewStaffService(st, log)
	notifier := &recordingNotifier{}

	f := &fixture{
		store:    st,
		gate:     gate,
		staff:    staff,
		notifier: notifier,
		now:      time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}

	f.pickups = NewPickupService(st, staff, gate, notifier, log)
	f.pickups.now = func() time.Time { return f.now }
	f.rooms = NewRoomService(st, staff, f.pickups, gate, log)
	f.rooms.now = func() time.Time { return f.now }
	f.chat = NewChatService(st, staff, log)
	f.chat.now = func() time.Time { return f.now }
	f.history = NewNotificationService(st, log)
	return f
}

func (f *fixture) seedStaff(t *testing.T, email, name string) {
	t.Helper()
	_, err := f.store.Create(context.Background(), models.StaffCollection, store.Document{
		"email": email,
		"name":  name,
	})
	require.NoError(t, err)
}

func (f *fixture) seedRoom(t *testing.T, room models.Room) string {
	t.Helper()
	doc := room.Doc()
	if room.CleanedAt != "" {
		doc["cleanedAt"] = room.CleanedAt
	}
	if room.CleanedBy != "" {
		doc["cleanedBy"] = room.CleanedBy
	}
	id, err := f.store.Create(context.Background(), models.RoomsCollection, doc)
	require.NoError(t, err)
	return id
}

func (f *fixture) elevate(t *testing.T, session string) {
	t.Helper()
	require.NoError(t, f.gate.Authorize(session, "hunter2"))
}

func (f *fixture) pickup(t *testing.T, id string) models.PickupRequest {
	t.Helper()
	doc, err := f.store.Get(context.Background(), models.PickupsCollection, id)
	require.NoError(t, err)
	return models.PickupFromDoc(doc)
}

func (f *fixture) room(t *testing.T, id string) models.Room {
	t.Helper()
	doc, err := f.store.Get(context.Background(), models.RoomsCollection, id)
	require.NoError(t, err)
	return models.RoomFromDoc(doc)
}
