package models

import (
	"hotelops-backend/store"
)

const RoomsCollection = "rooms"

// OccupancyStatus is the occupancy half of a room's state. CheckedIn
// and CheckedOut both count as occupied; only Empty is vacant.
type OccupancyStatus string

const (
	OccupancyEmpty      OccupancyStatus = "empty"
	OccupancyCheckedIn  OccupancyStatus = "checked_in"
	OccupancyCheckedOut OccupancyStatus = "checked_out"
)

func (s OccupancyStatus) Occupied() bool {
	return s == OccupancyCheckedIn || s == OccupancyCheckedOut
}

// HousekeepingStatus is the independent housekeeping cycle VD→VC→VI→VD.
// The zero value means housekeeping has never been set for the room.
type HousekeepingStatus string

const (
	HousekeepingUnset     HousekeepingStatus = ""
	HousekeepingDirty     HousekeepingStatus = "VD"
	HousekeepingCleaned   HousekeepingStatus = "VC"
	HousekeepingInspected HousekeepingStatus = "VI"
)

// Room is one physical unit. Occupancy and housekeeping are mutated
// independently; guest fields are empty when the room is vacant.
type Room struct {
	ID          string             `json:"id"`
	RoomNumber  string             `json:"roomNumber"`
	GuestName   string             `json:"guestName"`
	CheckIn     string             `json:"checkIn"`
	CheckOut    string             `json:"checkOut"`
	Status      OccupancyStatus    `json:"status"`
	Clean       HousekeepingStatus `json:"clean"`
	CleanedAt   string             `json:"cleanedAt,omitempty"`
	CleanedBy   string             `json:"cleanedBy,omitempty"`
	InspectedAt string             `json:"inspectedAt,omitempty"`
	InspectedBy string             `json:"inspectedBy,omitempty"`
}

func RoomFromDoc(d store.Doc) Room {
	return Room{
		ID:          d.ID,
		RoomNumber:  store.StringField(d.Data, "roomNumber"),
		GuestName:   store.StringField(d.Data, "guestName"),
		CheckIn:     store.StringField(d.Data, "checkIn"),
		CheckOut:    store.StringField(d.Data, "checkOut"),
		Status:      OccupancyStatus(store.StringField(d.Data, "status")),
		Clean:       HousekeepingStatus(store.StringField(d.Data, "clean")),
		CleanedAt:   store.StringField(d.Data, "cleanedAt"),
		CleanedBy:   store.StringField(d.Data, "cleanedBy"),
		InspectedAt: store.StringField(d.Data, "inspectedAt"),
		InspectedBy: store.StringField(d.Data, "inspectedBy"),
	}
}

func (r Room) Doc() store.Document {
	return store.Document{
		"roomNumber": r.RoomNumber,
		"guestName":  r.GuestName,
		"checkIn":    r.CheckIn,
		"checkOut":   r.CheckOut,
		"status":     string(r.Status),
		"clean":      string(r.Clean),
	}
}
