package contact

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/ignite/campaign-console/internal/domain"
	"github.com/ignite/campaign-console/internal/pkg/logger"
)

// Service implements contact business logic on top of the repository.
type Service struct {
	repo Repository
	log  *logger.Logger
}

// NewService creates a contact service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, log: logger.With("contact")}
}

// Get returns a single contact.
func (s *Service) Get(ctx context.Context, userID, id string) (*domain.Contact, error) {
	return s.repo.Get(ctx, userID, id)
}

// List returns contacts matching the filter.
func (s *Service) List(ctx context.Context, userID string, f ListFilter) ([]domain.Contact, int, error) {
	return s.repo.List(ctx, userID, f)
}

// CreateInput holds the fields for adding a contact.
type CreateInput struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ListID    string `json:"list_id"`
}

// Create validates and persists a new active contact.
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*domain.Contact, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}

	c := &domain.Contact{
		ID:        uuid.New().String(),
		UserID:    userID,
		Email:     email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Status:    domain.ContactActive,
	}
	if input.ListID != "" {
		c.ListID = &input.ListID
	}

	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return c, nil
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Import adds many contacts at once. Rows with invalid emails are skipped
// rather than failing the whole batch; duplicates are skipped by the
// repository.
func (s *Service) Import(ctx context.Context, userID, listID string, inputs []CreateInput) (*ImportResult, error) {
	contacts := make([]domain.Contact, 0, len(inputs))
	skipped := 0
	for _, in := range inputs {
		email, err := normalizeEmail(in.Email)
		if err != nil {
			skipped++
			continue
		}
		c := domain.Contact{
			ID:        uuid.New().String(),
			UserID:    userID,
			Email:     email,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Status:    domain.ContactActive,
		}
		if listID != "" {
			c.ListID = &listID
		}
		contacts = append(contacts, c)
	}

	inserted, err := s.repo.CreateBatch(ctx, contacts)
	if err != nil {
		return nil, err
	}
	skipped += len(contacts) - inserted

	s.log.Info("contact import finished", "imported", inserted, "skipped", skipped)
	return &ImportResult{Imported: inserted, Skipped: skipped}, nil
}

// Update modifies mutable contact fields.
func (s *Service) Update(ctx context.Context, userID, id string, u UpdateFields) error {
	return s.repo.Update(ctx, userID, id, u)
}

// Delete removes a contact entirely.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// Unsubscribe marks a contact as unsubscribed. Idempotent.
func (s *Service) Unsubscribe(ctx context.Context, userID, id string) error {
	return s.repo.UpdateStatus(ctx, userID, id, domain.ContactUnsubscribed)
}

// Resubscribe reactivates an unsubscribed contact. Bounced or complained
// contacts stay as they are; those states come from the delivery backend.
func (s *Service) Resubscribe(ctx context.Context, userID, id string) error {
	c, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if c.Status != domain.ContactUnsubscribed {
		return nil
	}
	return s.repo.UpdateStatus(ctx, userID, id, domain.ContactActive)
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}
