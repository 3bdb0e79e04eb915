package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"hotelops-backend/models"
	"hotelops-backend/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStaffExists        = errors.New("staff account already exists")
	ErrNameRequired       = errors.New("display name is required")
)

// StaffService owns the staff directory: accounts, credentials, push
// tokens and display-name resolution for provenance fields.
type StaffService struct {
	store store.Store
	log   *logrus.Logger
}

func NewStaffService(st store.Store, log *logrus.Logger) *StaffService {
	return &StaffService{store: st, log: log}
}

func (s *StaffService) byEmail(ctx context.Context, email string) (models.StaffProfile, error) {
	docs, err := s.store.Query(ctx, models.StaffCollection, store.Filter{Field: "email", Value: email})
	if err != nil {
		return models.StaffProfile{}, err
	}
	if len(docs) == 0 {
		return models.StaffProfile{}, store.ErrNotFound
	}
	return models.StaffFromDoc(docs[0]), nil
}

// ResolveDisplayName maps a login identity to the name stored on the
// staff profile. The lookup is best-effort: a missing profile falls
// back to the email local part, a failed lookup to the sentinel. It
// never returns an error because provenance resolution must not block
// the transition that asked for it.
func (s *StaffService) ResolveDisplayName(ctx context.Context, email string) string {
	if email == "" {
		return models.UnknownStaffName
	}

	profile, err := s.byEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return models.FallbackName(email)
	}
	if err != nil {
		s.log.WithError(err).WithField("email", email).Warn("display-name lookup failed")
		return models.UnknownStaffName
	}
	if profile.Name == "" {
		return models.FallbackName(email)
	}
	return profile.Name
}

func (s *StaffService) Register(ctx context.Context, email, name, password string) (models.StaffProfile, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return models.StaffProfile{}, ErrInvalidCredentials
	}

	if _, err := s.byEmail(ctx, email); err == nil {
		return models.StaffProfile{}, ErrStaffExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return models.StaffProfile{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.StaffProfile{}, err
	}

	profile := models.StaffProfile{Email: email, Name: strings.TrimSpace(name), PasswordHash: string(hash)}
	id, err := s.store.Create(ctx, models.StaffCollection, profile.Doc())
	if err != nil {
		return models.StaffProfile{}, fmt.Errorf("create staff profile: %w", err)
	}
	profile.ID = id
	return profile, nil
}

func (s *StaffService) Login(ctx context.Context, email, password string) (models.StaffProfile, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	profile, err := s.byEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return models.StaffProfile{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.StaffProfile{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return models.StaffProfile{}, ErrInvalidCredentials
	}
	return profile, nil
}

// UpdateName changes the staff member's display name. The new name
// shows up in provenance fields on later transitions; past entries keep
// the name they were stamped with.
func (s *StaffService) UpdateName(ctx context.Context, email, name string) (models.StaffProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.StaffProfile{}, ErrNameRequired
	}

	profile, err := s.byEmail(ctx, email)
	if err != nil {
		return models.StaffProfile{}, err
	}
	if err := s.store.Update(ctx, models.StaffCollection, profile.ID, store.Document{"name": name}); err != nil {
		return models.StaffProfile{}, err
	}
	profile.Name = name
	return profile, nil
}

// SavePushToken records the device token that push delivery will
// address for this staff member.
func (s *StaffService) SavePushToken(ctx context.Context, email, token string) error {
	profile, err := s.byEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.store.Update(ctx, models.StaffCollection, profile.ID, store.Document{"pushToken": token})
}

// PushTokens returns every registered device token. Staff without a
// token are skipped.
func (s *StaffService) PushTokens(ctx context.Context) ([]string, error) {
	docs, err := s.store.Query(ctx, models.StaffCollection)
	if err != nil {
		return nil, err
	}

	var tokens []string
	for _, d := range docs {
		if token := store.StringField(d.Data, "pushToken"); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens, nil
}

// PushTokenFor returns the token of one staff member, or "" when none
// is registered.
func (s *StaffService) PushTokenFor(ctx context.Context, email string) (string, error) {
	profile, err := s.byEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return profile.PushToken, nil
}
