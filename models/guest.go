package models

import (
	"hotelops-backend/store"
)

const GuestListCollection = "guestList"

// GuestStatus drives which request types staff may offer for a guest.
type GuestStatus string

const (
	GuestReserved   GuestStatus = "RR"
	GuestCheckedIn  GuestStatus = "CI"
	GuestCheckedOut GuestStatus = "CO"
)

// GuestListEntry is a read-mostly snapshot of an expected or current
// guest, keyed by room.
type GuestListEntry struct {
	ID         string      `json:"id"`
	RoomNumber string      `json:"roomNumber"`
	GuestName  string      `json:"guestName"`
	WingsCount string      `json:"wingsCount"`
	RoomType   string      `json:"roomType"`
	GuestCount string      `json:"guestCount"`
	Status     GuestStatus `json:"status"`
}

// AllowedContents lists the request types offered for the guest's
// current status. A reserved guest can still be checked in; guests
// already on site only get the two pickup variants.
func (g GuestListEntry) AllowedContents() []PickupContent {
	if g.Status == GuestReserved {
		return []PickupContent{ContentCheckIn, ContentPickup, ContentPickupDown}
	}
	return []PickupContent{ContentPickup, ContentPickupDown}
}

func GuestFromDoc(d store.Doc) GuestListEntry {
	status := GuestStatus(store.StringField(d.Data, "status"))
	if status == "" {
		status = GuestCheckedIn
	}
	return GuestListEntry{
		ID:         d.ID,
		RoomNumber: store.StringField(d.Data, "roomNumber"),
		GuestName:  store.StringField(d.Data, "guestName"),
		WingsCount: store.StringField(d.Data, "wingsCount"),
		RoomType:   store.StringField(d.Data, "roomType"),
		GuestCount: store.StringField(d.Data, "guestCount"),
		Status:     status,
	}
}
