package contact

import (
	"context"

	"github.com/ignite/campaign-console/internal/domain"
)

// Repository defines the data access contract for contacts.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns a single contact. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, userID, id string) (*domain.Contact, error)

	// List returns contacts matching the filter, ordered by created_at DESC,
	// plus the unpaginated total.
	List(ctx context.Context, userID string, filter ListFilter) ([]domain.Contact, int, error)

	// Create inserts a new contact. Returns ErrDuplicateEmail when the email
	// already exists for the user and list.
	Create(ctx context.Context, c *domain.Contact) (string, error)

	// CreateBatch inserts many contacts in one transaction, skipping
	// duplicates. Returns the number inserted.
	CreateBatch(ctx context.Context, contacts []domain.Contact) (int, error)

	// Update modifies a contact. Only non-nil fields are applied.
	Update(ctx context.Context, userID, id string, u UpdateFields) error

	// Delete removes a contact.
	Delete(ctx context.Context, userID, id string) error

	// UpdateStatus changes a contact's subscription state.
	UpdateStatus(ctx context.Context, userID, id string, status domain.ContactStatus) error
}

// ListFilter controls pagination and filtering for contact lists.
type ListFilter struct {
	ListID string
	Status string
	Search string
	Limit  int
	Offset int
}

// UpdateFields holds the mutable fields for a contact update.
// Nil fields are not applied.
type UpdateFields struct {
	FirstName *string
	LastName  *string
	ListID    *string
}
