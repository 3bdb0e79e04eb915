package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"hotelops-backend/models"
	"hotelops-backend/store"
)

var (
	ErrRoomNameRequired = errors.New("chat room name is required")
	ErrEmptyMessage     = errors.New("message text is required")

	// ErrNotParticipant rejects chat actions in a room the actor is not
	// a member of.
	ErrNotParticipant = errors.New("not a participant of this chat room")
)

// ChatService owns the staff chat: rooms, membership and messages. A
// room's participant list is the single membership source; the last
// participant leaving removes the room and its messages.
type ChatService struct {
	store store.Store
	staff *StaffService
	log   *logrus.Logger
	now   func() time.Time
}

func NewChatService(st store.Store, staff *StaffService, log *logrus.Logger) *ChatService {
	return &ChatService{store: st, staff: staff, log: log, now: time.Now}
}

func (s *ChatService) room(ctx context.Context, id string) (models.ChatRoom, error) {
	doc, err := s.store.Get(ctx, models.ChatRoomsCollection, id)
	if err != nil {
		return models.ChatRoom{}, err
	}
	return models.ChatRoomFromDoc(doc), nil
}

// CreateRoom opens a new chat room with the creator as its only
// participant. The last-message time starts at creation so the room
// sorts like one that was just written in.
func (s *ChatService) CreateRoom(ctx context.Context, actorEmail, name string) (models.ChatRoom, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.ChatRoom{}, ErrRoomNameRequired
	}

	now := s.now().UnixMilli()
	room := models.ChatRoom{
		Name:            name,
		Participants:    []string{actorEmail},
		CreatedBy:       actorEmail,
		CreatedAt:       now,
		LastMessageTime: now,
	}
	id, err := s.store.Create(ctx, models.ChatRoomsCollection, store.Document{
		"name":            room.Name,
		"participants":    room.Participants,
		"createdBy":       room.CreatedBy,
		"createdAt":       now,
		"lastMessageTime": now,
	})
	if err != nil {
		return models.ChatRoom{}, fmt.Errorf("create chat room: %w", err)
	}
	room.ID = id
	return room, nil
}

// RoomsFor lists the rooms the staff member participates in, most
// recently active first.
func (s *ChatService) RoomsFor(ctx context.Context, email string) ([]models.ChatRoom, error) {
	docs, err := s.store.Query(ctx, models.ChatRoomsCollection)
	if err != nil {
		return nil, err
	}

	rooms := make([]models.ChatRoom, 0, len(docs))
	for _, d := range docs {
		room := models.ChatRoomFromDoc(d)
		if room.HasParticipant(email) {
			rooms = append(rooms, room)
		}
	}
	sort.SliceStable(rooms, func(i, j int) bool {
		return rooms[i].ActivityMillis() > rooms[j].ActivityMillis()
	})
	return rooms, nil
}

// Invite adds a staff member to the room. Inviting an existing
// participant is a no-op success.
func (s *ChatService) Invite(ctx context.Context, actorEmail, roomID, email string) error {
	room, err := s.room(ctx, roomID)
	if err != nil {
		return err
	}
	if !room.HasParticipant(actorEmail) {
		return ErrNotParticipant
	}
	if room.HasParticipant(email) {
		return nil
	}

	return s.store.Update(ctx, models.ChatRoomsCollection, roomID, store.Document{
		"participants": append(room.Participants, email),
	})
}

// Leave removes the staff member from the room. When the last
// participant leaves, the room and every message in it are deleted.
func (s *ChatService) Leave(ctx context.Context, actorEmail, roomID string) error {
	room, err := s.room(ctx, roomID)
	if err != nil {
		return err
	}
	if !room.HasParticipant(actorEmail) {
		return ErrNotParticipant
	}

	remaining := make([]string, 0, len(room.Participants))
	for _, p := range room.Participants {
		if p != actorEmail {
			remaining = append(remaining, p)
		}
	}

	if len(remaining) > 0 {
		return s.store.Update(ctx, models.ChatRoomsCollection, roomID, store.Document{
			"participants": remaining,
		})
	}

	// Last one out: the room and its history go together.
	messages, err := s.store.Query(ctx, models.MessagesCollection,
		store.Filter{Field: "chatRoomId", Value: roomID})
	if err != nil {
		return err
	}
	for _, msg := range messages {
		if err := s.store.Delete(ctx, models.MessagesCollection, msg.ID); err != nil {
			return fmt.Errorf("delete chat messages for room %s: %w", roomID, err)
		}
	}
	return s.store.Delete(ctx, models.ChatRoomsCollection, roomID)
}

// SendMessage appends a message to the room and stamps the room's
// last-message preview. Participants only.
func (s *ChatService) SendMessage(ctx context.Context, actorEmail, roomID, text string) (models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Message{}, ErrEmptyMessage
	}

	room, err := s.room(ctx, roomID)
	if err != nil {
		return models.Message{}, err
	}
	if !room.HasParticipant(actorEmail) {
		return models.Message{}, ErrNotParticipant
	}

	now := s.now().UnixMilli()
	msg := models.Message{
		ChatRoomID: roomID,
		UserEmail:  actorEmail,
		UserName:   s.staff.ResolveDisplayName(ctx, actorEmail),
		Text:       text,
		CreatedAt:  now,
	}
	id, err := s.store.Create(ctx, models.MessagesCollection, store.Document{
		"chatRoomId": msg.ChatRoomID,
		"userEmail":  msg.UserEmail,
		"userName":   msg.UserName,
		"text":       msg.Text,
		"createdAt":  now,
	})
	if err != nil {
		return models.Message{}, fmt.Errorf("send message: %w", err)
	}
	msg.ID = id

	if err := s.store.Update(ctx, models.ChatRoomsCollection, roomID, store.Document{
		"lastMessage":     text,
		"lastMessageTime": now,
	}); err != nil {
		// The message is in; a stale preview corrects itself on the
		// next send.
		s.log.WithError(err).WithField("room", roomID).Warn("failed to stamp last message on chat room")
	}
	return msg, nil
}

// Messages returns the room's history, oldest first. Participants only.
func (s *ChatService) Messages(ctx context.Context, actorEmail, roomID string) ([]models.Message, error) {
	room, err := s.room(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(actorEmail) {
		return nil, ErrNotParticipant
	}

	docs, err := s.store.Query(ctx, models.MessagesCollection,
		store.Filter{Field: "chatRoomId", Value: roomID})
	if err != nil {
		return nil, err
	}

	msgs := make([]models.Message, 0, len(docs))
	for _, d := range docs {
		msgs = append(msgs, models.MessageFromDoc(d))
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAtMillis() < msgs[j].CreatedAtMillis()
	})
	return msgs, nil
}
