package services

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"hotelops-backend/models"
	"hotelops-backend/store"
)

// GuestService reads the guest-list snapshot staff initiate pickup
// requests from.
type GuestService struct {
	store store.Store
	log   *logrus.Logger
}

func NewGuestService(st store.Store, log *logrus.Logger) *GuestService {
	return &GuestService{store: st, log: log}
}

// List returns the guest list sorted by guest name.
func (s *GuestService) List(ctx context.Context) ([]models.GuestListEntry, error) {
	docs, err := s.store.Query(ctx, models.GuestListCollection)
	if err != nil {
		return nil, err
	}

	entries := make([]models.GuestListEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, models.GuestFromDoc(d))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].GuestName < entries[j].GuestName })
	return entries, nil
}

// Get returns one guest-list entry by id.
func (s *GuestService) Get(ctx context.Context, id string) (models.GuestListEntry, error) {
	doc, err := s.store.Get(ctx, models.GuestListCollection, id)
	if err != nil {
		return models.GuestListEntry{}, err
	}
	return models.GuestFromDoc(doc), nil
}
