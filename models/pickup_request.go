package models

import (
	"hotelops-backend/store"
)

const PickupsCollection = "todo"

// PickupStatus is the service lifecycle of a request.
type PickupStatus string

const (
	PickupNew        PickupStatus = "new"
	PickupInProgress PickupStatus = "ing"
	PickupCompleted  PickupStatus = "comp"
)

// PickupContent is the request type. The values are the wire labels the
// staff app displays; they are treated as opaque constants here.
type PickupContent string

const (
	ContentCheckIn    PickupContent = "체크인"
	ContentPickup     PickupContent = "픽업"
	ContentPickupDown PickupContent = "픽업(밑으로)"
	ContentCheckout   PickupContent = "체크아웃"
)

// PickupRequest is one guest transport/service request. HandledBy and
// the completion fields survive a re-request back to New on purpose;
// only the status changes.
type PickupRequest struct {
	ID            string        `json:"id"`
	RoomNumber    string        `json:"roomNumber"`
	GuestName     string        `json:"guestName"`
	PeopleCount   string        `json:"peopleCount"`
	WingsCount    string        `json:"wingsCount"`
	Content       PickupContent `json:"content"`
	Status        PickupStatus  `json:"status"`
	CreatedAt     any           `json:"createdAt"`
	HandledBy     string        `json:"handledBy,omitempty"`
	StartTime     string        `json:"startTime,omitempty"`
	CartCount     string        `json:"cartCount,omitempty"`
	CompletedBy   string        `json:"completedBy,omitempty"`
	CompletedTime string        `json:"completedTime,omitempty"`
}

// CreatedAtMillis normalizes the polymorphic createdAt value (epoch
// seconds, epoch millis or ISO string) to one sortable scalar.
func (p PickupRequest) CreatedAtMillis() int64 {
	return store.TimeValue(p.CreatedAt)
}

func PickupFromDoc(d store.Doc) PickupRequest {
	return PickupRequest{
		ID:            d.ID,
		RoomNumber:    store.StringField(d.Data, "roomNumber"),
		GuestName:     store.StringField(d.Data, "guestName"),
		PeopleCount:   store.StringField(d.Data, "peopleCount"),
		WingsCount:    store.StringField(d.Data, "wingsCount"),
		Content:       PickupContent(store.StringField(d.Data, "content")),
		Status:        PickupStatus(store.StringField(d.Data, "status")),
		CreatedAt:     d.Data["createdAt"],
		HandledBy:     store.StringField(d.Data, "handledBy"),
		StartTime:     store.StringField(d.Data, "startTime"),
		CartCount:     store.StringField(d.Data, "cartCount"),
		CompletedBy:   store.StringField(d.Data, "completedBy"),
		CompletedTime: store.StringField(d.Data, "completedTime"),
	}
}
