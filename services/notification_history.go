package services

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"hotelops-backend/models"
	"hotelops-backend/store"
)

// historyLimit caps how much of the notification backlog the tab loads.
const historyLimit = 50

// HistoryNotifier wraps another Notifier and persists one history entry
// per recipient before delegating. Persistence is best-effort like the
// dispatch itself: a failed write is logged and the push still goes out.
type HistoryNotifier struct {
	store store.Store
	staff *StaffService
	next  Notifier
	log   *logrus.Logger
	now   func() time.Time
}

func NewHistoryNotifier(st store.Store, staff *StaffService, next Notifier, log *logrus.Logger) *HistoryNotifier {
	return &HistoryNotifier{store: st, staff: staff, next: next, log: log, now: time.Now}
}

func (h *HistoryNotifier) NotifyAll(ctx context.Context, title, body string, data map[string]string) {
	docs, err := h.store.Query(ctx, models.StaffCollection)
	if err != nil {
		h.log.WithError(err).Warn("staff lookup failed, skipping notification history")
	} else {
		for _, d := range docs {
			if email := store.StringField(d.Data, "email"); email != "" {
				h.record(ctx, email, title, body, data)
			}
		}
	}
	h.next.NotifyAll(ctx, title, body, data)
}

func (h *HistoryNotifier) NotifyUser(ctx context.Context, email, title, body string, data map[string]string) {
	h.record(ctx, email, title, body, data)
	h.next.NotifyUser(ctx, email, title, body, data)
}

func (h *HistoryNotifier) record(ctx context.Context, email, title, body string, data map[string]string) {
	doc := store.Document{
		"userEmail": email,
		"title":     title,
		"body":      body,
		"read":      false,
		"createdAt": h.now().UnixMilli(),
	}
	if len(data) > 0 {
		doc["data"] = data
	}
	if _, err := h.store.Create(ctx, models.NotificationsCollection, doc); err != nil {
		h.log.WithError(err).WithField("email", email).Warn("failed to persist notification history entry")
	}
}

// NotificationService reads and maintains per-user notification
// history. Every operation is scoped to the owning staff member;
// entries belonging to someone else read as not found.
type NotificationService struct {
	store store.Store
	log   *logrus.Logger
}

func NewNotificationService(st store.Store, log *logrus.Logger) *NotificationService {
	return &NotificationService{store: st, log: log}
}

func (s *NotificationService) owned(ctx context.Context, email, id string) (models.Notification, error) {
	doc, err := s.store.Get(ctx, models.NotificationsCollection, id)
	if err != nil {
		return models.Notification{}, err
	}
	n := models.NotificationFromDoc(doc)
	if n.UserEmail != email {
		return models.Notification{}, store.ErrNotFound
	}
	return n, nil
}

// List returns the staff member's history, newest first, capped at the
// backlog limit.
func (s *NotificationService) List(ctx context.Context, email string) ([]models.Notification, error) {
	docs, err := s.store.Query(ctx, models.NotificationsCollection,
		store.Filter{Field: "userEmail", Value: email})
	if err != nil {
		return nil, err
	}

	items := make([]models.Notification, 0, len(docs))
	for _, d := range docs {
		items = append(items, models.NotificationFromDoc(d))
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAtMillis() > items[j].CreatedAtMillis()
	})
	if len(items) > historyLimit {
		items = items[:historyLimit]
	}
	return items, nil
}

// MarkRead flags one entry as read. Marking an already-read entry is a
// no-op success.
func (s *NotificationService) MarkRead(ctx context.Context, email, id string) error {
	n, err := s.owned(ctx, email, id)
	if err != nil {
		return err
	}
	if n.Read {
		return nil
	}
	return s.store.Update(ctx, models.NotificationsCollection, id, store.Document{"read": true})
}

// MarkAllRead flags every unread entry of the staff member as read and
// reports how many it touched.
func (s *NotificationService) MarkAllRead(ctx context.Context, email string) (int, error) {
	docs, err := s.store.Query(ctx, models.NotificationsCollection,
		store.Filter{Field: "userEmail", Value: email})
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, d := range docs {
		if store.BoolField(d.Data, "read") {
			continue
		}
		if err := s.store.Update(ctx, models.NotificationsCollection, d.ID, store.Document{"read": true}); err != nil {
			return marked, err
		}
		marked++
	}
	return marked, nil
}

// Delete removes one entry from the staff member's history.
func (s *NotificationService) Delete(ctx context.Context, email, id string) error {
	if _, err := s.owned(ctx, email, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, models.NotificationsCollection, id)
}

// DeleteAll clears the staff member's history and reports how many
// entries it removed.
func (s *NotificationService) DeleteAll(ctx context.Context, email string) (int, error) {
	docs, err := s.store.Query(ctx, models.NotificationsCollection,
		store.Filter{Field: "userEmail", Value: email})
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, d := range docs {
		if err := s.store.Delete(ctx, models.NotificationsCollection, d.ID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
