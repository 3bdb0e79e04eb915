package models

import (
	"strings"

	"hotelops-backend/store"
)

const StaffCollection = "users"

// UnknownStaffName is the sentinel used when display-name resolution
// fails; it must never block a transition.
const UnknownStaffName = "unknown"

// StaffProfile is one staff account. The password hash never leaves
// the backend; PushToken addresses the staff member's device.
type StaffProfile struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	PushToken    string `json:"-"`
}

func StaffFromDoc(d store.Doc) StaffProfile {
	return StaffProfile{
		ID:           d.ID,
		Email:        store.StringField(d.Data, "email"),
		Name:         store.StringField(d.Data, "name"),
		PasswordHash: store.StringField(d.Data, "passwordHash"),
		PushToken:    store.StringField(d.Data, "pushToken"),
	}
}

func (s StaffProfile) Doc() store.Document {
	return store.Document{
		"email":        s.Email,
		"name":         s.Name,
		"passwordHash": s.PasswordHash,
		"pushToken":    s.PushToken,
	}
}

// FallbackName derives a display label from a login identity: the
// portion before the @ separator, or the sentinel when even that is
// empty.
func FallbackName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return UnknownStaffName
	}
	return local
}
