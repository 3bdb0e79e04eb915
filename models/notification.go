package models

import (
	"hotelops-backend/store"
)

const NotificationsCollection = "notifications"

// Notification is one persisted entry in a staff member's notification
// history. The push dispatch and the history write share one path, so
// the tab mirrors what was actually sent.
type Notification struct {
	ID        string            `json:"id"`
	UserEmail string            `json:"userEmail"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	Read      bool              `json:"read"`
	CreatedAt any               `json:"createdAt"`
}

func (n Notification) CreatedAtMillis() int64 {
	return store.TimeValue(n.CreatedAt)
}

func NotificationFromDoc(d store.Doc) Notification {
	return Notification{
		ID:        d.ID,
		UserEmail: store.StringField(d.Data, "userEmail"),
		Title:     store.StringField(d.Data, "title"),
		Body:      store.StringField(d.Data, "body"),
		Data:      store.StringMap(d.Data, "data"),
		Read:      store.BoolField(d.Data, "read"),
		CreatedAt: d.Data["createdAt"],
	}
}
