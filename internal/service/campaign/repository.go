package campaign

import (
	"context"
	"time"

	"github.com/ignite/campaign-console/internal/domain"
)

// Repository defines the data access contract for campaigns.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns a single campaign. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, userID, id string) (*domain.Campaign, error)

	// List returns campaigns matching the given filter, ordered by
	// created_at DESC, plus the unpaginated total.
	List(ctx context.Context, userID string, filter ListFilter) ([]domain.Campaign, int, error)

	// Create inserts a new campaign and returns its ID.
	Create(ctx context.Context, c *domain.Campaign) (string, error)

	// Update modifies a campaign. Only non-nil fields in the update are applied.
	Update(ctx context.Context, userID, id string, u UpdateFields) error

	// Delete removes a campaign. Only draft/cancelled campaigns can be deleted.
	Delete(ctx context.Context, userID, id string) error

	// UpdateStatus transitions a campaign's status and optionally sets the
	// schedule time. Returns ErrInvalidTransition if the move is not allowed.
	UpdateStatus(ctx context.Context, userID, id string, status domain.CampaignStatus, scheduledAt *time.Time) error
}

// ListFilter controls pagination and filtering for campaign lists.
type ListFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}

// UpdateFields holds the mutable fields for a campaign update.
// Nil fields are not applied.
type UpdateFields struct {
	Name        *string
	Subject     *string
	FromName    *string
	FromEmail   *string
	ReplyTo     *string
	HTMLContent *string
	PreviewText *string
	ListID      *string
}
