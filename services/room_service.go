package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"hotelops-backend/models"
	"hotelops-backend/store"
	"hotelops-backend/utils"
)

var (
	// ErrRoomNotOccupied rejects checkout of a room that is already
	// vacant.
	ErrRoomNotOccupied = errors.New("room is not occupied")

	// ErrHousekeepingUnset rejects advancing the housekeeping cycle on
	// a room whose housekeeping status has never been initialized.
	ErrHousekeepingUnset = errors.New("housekeeping status not set for room")
)

// CheckoutOptions controls the optional pickup-request side effect of
// a checkout.
type CheckoutOptions struct {
	WithPickup  bool
	PeopleCount string
}

// CheckoutResult reports which halves of the two-step checkout ran.
// The room write and the pickup-request write are deliberately not
// atomic: a failed request write leaves the checkout committed.
type CheckoutResult struct {
	PickupID string `json:"pickupId,omitempty"`
}

// RoomService owns both per-room state machines: occupancy and the
// housekeeping cycle. The two are mutated independently; concurrent
// edits resolve last-write-wins with no version check, and every
// client's mirror is corrected by the next change-feed snapshot.
type RoomService struct {
	store   store.Store
	staff   *StaffService
	pickups *PickupService
	gate    *AccessGate
	log     *logrus.Logger
	now     func() time.Time
}

func NewRoomService(st store.Store, staff *StaffService, pickups *PickupService, gate *AccessGate, log *logrus.Logger) *RoomService {
	return &RoomService{store: st, staff: staff, pickups: pickups, gate: gate, log: log, now: time.Now}
}

func (s *RoomService) get(ctx context.Context, id string) (models.Room, error) {
	doc, err := s.store.Get(ctx, models.RoomsCollection, id)
	if err != nil {
		return models.Room{}, err
	}
	return models.RoomFromDoc(doc), nil
}

// Checkout clears the guest from an occupied room. Gated: callable
// only in elevated mode. Housekeeping fields are untouched. When
// opts.WithPickup is set, a checkout pickup request is created after
// the room write; a failure there is reported but does not roll the
// checkout back.
func (s *RoomService) Checkout(ctx context.Context, session, roomID string, opts CheckoutOptions) (CheckoutResult, error) {
	if !s.gate.Elevated(session) {
		return CheckoutResult{}, ErrNotElevated
	}

	room, err := s.get(ctx, roomID)
	if err != nil {
		return CheckoutResult{}, err
	}
	if !room.Status.Occupied() {
		return CheckoutResult{}, ErrRoomNotOccupied
	}

	if err := s.store.Update(ctx, models.RoomsCollection, roomID, store.Document{
		"status":    string(models.OccupancyEmpty),
		"guestName": "",
		"checkIn":   "",
		"checkOut":  "",
	}); err != nil {
		return CheckoutResult{}, fmt.Errorf("checkout room %s: %w", room.RoomNumber, err)
	}

	if !opts.WithPickup {
		return CheckoutResult{}, nil
	}

	pickupID, err := s.pickups.CreateCheckout(ctx, room, opts.PeopleCount)
	if err != nil {
		// The room write already committed; no compensating
		// transaction.
		return CheckoutResult{}, fmt.Errorf("checkout committed but pickup request failed: %w", err)
	}
	return CheckoutResult{PickupID: pickupID}, nil
}

// AdvanceHousekeeping moves the room one step around the cycle
// VD→VC→VI→VD and records provenance. Ungated: any authenticated
// staff member may advance it.
func (s *RoomService) AdvanceHousekeeping(ctx context.Context, actorEmail, roomID string) (models.HousekeepingStatus, error) {
	room, err := s.get(ctx, roomID)
	if err != nil {
		return "", err
	}

	update := store.Document{}
	var next models.HousekeepingStatus

	switch room.Clean {
	case models.HousekeepingDirty:
		next = models.HousekeepingCleaned
		update["clean"] = string(next)
		update["cleanedAt"] = s.now().UTC().Format(time.RFC3339)
		update["cleanedBy"] = s.staff.ResolveDisplayName(ctx, actorEmail)
	case models.HousekeepingCleaned:
		next = models.HousekeepingInspected
		update["clean"] = string(next)
		update["inspectedAt"] = s.now().UTC().Format(time.RFC3339)
		update["inspectedBy"] = s.staff.ResolveDisplayName(ctx, actorEmail)
	case models.HousekeepingInspected:
		next = models.HousekeepingDirty
		update["clean"] = string(next)
		update["cleanedAt"] = nil
		update["cleanedBy"] = nil
		update["inspectedAt"] = nil
		update["inspectedBy"] = nil
	default:
		return "", ErrHousekeepingUnset
	}

	if err := s.store.Update(ctx, models.RoomsCollection, roomID, update); err != nil {
		return "", err
	}
	return next, nil
}

// Rooms lists rooms, optionally restricted to one floor section, in
// room-number order.
func (s *RoomService) Rooms(ctx context.Context, section string) ([]models.Room, error) {
	docs, err := s.store.Query(ctx, models.RoomsCollection)
	if err != nil {
		return nil, err
	}

	rooms := make([]models.Room, 0, len(docs))
	for _, d := range docs {
		room := models.RoomFromDoc(d)
		if section != "" && section != utils.SectionAll && !utils.InSection(section, room.RoomNumber) {
			continue
		}
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].RoomNumber < rooms[j].RoomNumber })
	return rooms, nil
}
