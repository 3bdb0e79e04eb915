package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"hotelops-backend/models"
	"hotelops-backend/store"
)

var (
	// ErrInvalidTransition rejects a lifecycle action that does not
	// apply to the request's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotHandler rejects completion by someone other than the staff
	// member who took the request, absent elevated mode.
	ErrNotHandler = errors.New("only the handling staff member may complete this request")

	// ErrPeopleCountRequired rejects request submission without a
	// people count. Checked before any backend call.
	ErrPeopleCountRequired = errors.New("people count is required")
)

// PickupService owns the pickup-request lifecycle:
// new → ing → comp, with ing and comp able to revert to new.
type PickupService struct {
	store    store.Store
	staff    *StaffService
	gate     *AccessGate
	notifier Notifier
	log      *logrus.Logger
	now      func() time.Time
}

func NewPickupService(st store.Store, staff *StaffService, gate *AccessGate, notifier Notifier, log *logrus.Logger) *PickupService {
	return &PickupService{store: st, staff: staff, gate: gate, notifier: notifier, log: log, now: time.Now}
}

func (s *PickupService) get(ctx context.Context, id string) (models.PickupRequest, error) {
	doc, err := s.store.Get(ctx, models.PickupsCollection, id)
	if err != nil {
		return models.PickupRequest{}, err
	}
	return models.PickupFromDoc(doc), nil
}

// CreateFromGuest submits a request on behalf of a guest-list entry,
// copying room, name and wings count from the entry.
func (s *PickupService) CreateFromGuest(ctx context.Context, entry models.GuestListEntry, content models.PickupContent, peopleCount string) (string, error) {
	if peopleCount == "" {
		return "", ErrPeopleCountRequired
	}

	wings := entry.WingsCount
	if wings == "" {
		wings = "0"
	}

	id, err := s.create(ctx, store.Document{
		"roomNumber":  entry.RoomNumber,
		"guestName":   entry.GuestName,
		"peopleCount": peopleCount,
		"content":     string(content),
		"status":      string(models.PickupNew),
		"createdAt":   s.now().UnixMilli(),
		"wingsCount":  wings,
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// CreateCheckout is the checkout-with-pickup side effect of the room
// engine. The guest has already been cleared from the room; a blank
// people count defaults to one.
func (s *PickupService) CreateCheckout(ctx context.Context, room models.Room, peopleCount string) (string, error) {
	if peopleCount == "" {
		peopleCount = "1"
	}

	return s.create(ctx, store.Document{
		"roomNumber":  room.RoomNumber,
		"guestName":   room.GuestName,
		"peopleCount": peopleCount,
		"content":     string(models.ContentCheckout),
		"status":      string(models.PickupNew),
		"createdAt":   s.now().UnixMilli(),
		"wingsCount":  "0",
	})
}

func (s *PickupService) create(ctx context.Context, doc store.Document) (string, error) {
	id, err := s.store.Create(ctx, models.PickupsCollection, doc)
	if err != nil {
		return "", fmt.Errorf("create pickup request: %w", err)
	}

	body := fmt.Sprintf("%s호 %s %s",
		store.StringField(doc, "roomNumber"),
		store.StringField(doc, "guestName"),
		store.StringField(doc, "content"))
	s.notifier.NotifyAll(ctx, "새로운 픽업 요청", body, map[string]string{"todoId": id})
	return id, nil
}

// Process advances a new request to in-progress, recording the acting
// staff member as handler. The cart count defaults to "0".
func (s *PickupService) Process(ctx context.Context, actorEmail, id, cartCount string) error {
	req, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if req.Status != models.PickupNew {
		return ErrInvalidTransition
	}

	if cartCount == "" {
		cartCount = "0"
	}
	handledBy := s.staff.ResolveDisplayName(ctx, actorEmail)

	return s.store.Update(ctx, models.PickupsCollection, id, store.Document{
		"status":    string(models.PickupInProgress),
		"handledBy": handledBy,
		"startTime": s.now().UTC().Format(time.RFC3339),
		"cartCount": cartCount,
	})
}

// Complete finishes an in-progress request. Permitted for the handler
// who took it, or for anyone in elevated mode. The authorization check
// happens before any write.
func (s *PickupService) Complete(ctx context.Context, session, actorEmail, id string) error {
	req, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if req.Status != models.PickupInProgress {
		return ErrInvalidTransition
	}

	actor := s.staff.ResolveDisplayName(ctx, actorEmail)
	if actor != req.HandledBy && !s.gate.Elevated(session) {
		return ErrNotHandler
	}

	if err := s.store.Update(ctx, models.PickupsCollection, id, store.Document{
		"status":        string(models.PickupCompleted),
		"completedBy":   actor,
		"completedTime": s.now().UTC().Format(time.RFC3339),
	}); err != nil {
		return err
	}

	body := fmt.Sprintf("%s호 %s %s", req.RoomNumber, req.GuestName, req.Content)
	s.notifier.NotifyAll(ctx, "픽업 요청 완료", body, map[string]string{"todoId": id})
	return nil
}

// Reset reverts an in-progress or completed request to new. Nothing
// but the status changes: handler, cart and completion fields persist
// through a re-request on purpose. Resetting a request already in new
// is rejected.
func (s *PickupService) Reset(ctx context.Context, id string) error {
	req, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if req.Status == models.PickupNew {
		return ErrInvalidTransition
	}

	return s.store.Update(ctx, models.PickupsCollection, id, store.Document{
		"status": string(models.PickupNew),
	})
}

// Delete removes a single completed request. The caller is responsible
// for the user-facing confirmation; requests in any other state cannot
// be deleted.
func (s *PickupService) Delete(ctx context.Context, id string) error {
	req, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if req.Status != models.PickupCompleted {
		return ErrInvalidTransition
	}
	return s.store.Delete(ctx, models.PickupsCollection, id)
}

// BulkDeleteCompleted purges every completed request. Requires
// elevated mode. The deletes run in parallel and are not atomic at the
// backend: any failure is reported as an overall failure even when
// other deletions went through, and the next snapshot is the sole
// source of truth for what actually happened.
func (s *PickupService) BulkDeleteCompleted(ctx context.Context, session string) (int, error) {
	if !s.gate.Elevated(session) {
		return 0, ErrNotElevated
	}

	docs, err := s.store.Query(ctx, models.PickupsCollection,
		store.Filter{Field: "status", Value: string(models.PickupCompleted)})
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, doc := range docs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := s.store.Delete(ctx, models.PickupsCollection, id); err != nil {
				s.log.WithError(err).WithField("id", id).Error("bulk delete: deletion failed")
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}(doc.ID)
	}
	wg.Wait()

	deleted := len(docs) - failed
	if failed > 0 {
		return deleted, fmt.Errorf("bulk delete: %d of %d deletions failed", failed, len(docs))
	}
	return deleted, nil
}

// ByStatus returns the requests in one lifecycle tab, oldest first.
func (s *PickupService) ByStatus(ctx context.Context, status models.PickupStatus) ([]models.PickupRequest, error) {
	docs, err := s.store.Query(ctx, models.PickupsCollection,
		store.Filter{Field: "status", Value: string(status)})
	if err != nil {
		return nil, err
	}

	reqs := make([]models.PickupRequest, 0, len(docs))
	for _, d := range docs {
		reqs = append(reqs, models.PickupFromDoc(d))
	}
	sort.SliceStable(reqs, func(i, j int) bool {
		return reqs[i].CreatedAtMillis() < reqs[j].CreatedAtMillis()
	})
	return reqs, nil
}
