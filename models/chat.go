package models

import (
	"hotelops-backend/store"
)

const (
	ChatRoomsCollection = "chatRooms"
	MessagesCollection  = "messages"
)

// ChatRoom is one staff chat channel. Membership is the participants
// list; a room with no participants left is deleted together with its
// messages.
type ChatRoom struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Participants    []string `json:"participants"`
	CreatedBy       string   `json:"createdBy"`
	CreatedAt       any      `json:"createdAt"`
	LastMessage     string   `json:"lastMessage,omitempty"`
	LastMessageTime any      `json:"lastMessageTime,omitempty"`
}

func ChatRoomFromDoc(d store.Doc) ChatRoom {
	return ChatRoom{
		ID:              d.ID,
		Name:            store.StringField(d.Data, "name"),
		Participants:    store.StringSlice(d.Data, "participants"),
		CreatedBy:       store.StringField(d.Data, "createdBy"),
		CreatedAt:       d.Data["createdAt"],
		LastMessage:     store.StringField(d.Data, "lastMessage"),
		LastMessageTime: d.Data["lastMessageTime"],
	}
}

func (r ChatRoom) HasParticipant(email string) bool {
	for _, p := range r.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// ActivityMillis is the room-list sort key: the last message time, or
// the creation time for rooms nobody has written in yet.
func (r ChatRoom) ActivityMillis() int64 {
	if ts := store.TimeValue(r.LastMessageTime); ts != 0 {
		return ts
	}
	return store.TimeValue(r.CreatedAt)
}

// Message is one chat message, keyed to its room by chatRoomId.
type Message struct {
	ID         string `json:"id"`
	ChatRoomID string `json:"chatRoomId"`
	UserEmail  string `json:"userEmail"`
	UserName   string `json:"userName"`
	Text       string `json:"text"`
	CreatedAt  any    `json:"createdAt"`
}

func (m Message) CreatedAtMillis() int64 {
	return store.TimeValue(m.CreatedAt)
}

func MessageFromDoc(d store.Doc) Message {
	return Message{
		ID:         d.ID,
		ChatRoomID: store.StringField(d.Data, "chatRoomId"),
		UserEmail:  store.StringField(d.Data, "userEmail"),
		UserName:   store.StringField(d.Data, "userName"),
		Text:       store.StringField(d.Data, "text"),
		CreatedAt:  d.Data["createdAt"],
	}
}
