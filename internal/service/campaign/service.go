package campaign

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/campaign-console/internal/domain"
	"github.com/ignite/campaign-console/internal/pkg/logger"
)

// Notifier publishes a refresh signal after mutations that change reported
// numbers. Implemented by realtime.Source; nil when realtime is disabled.
type Notifier interface {
	Notify(ctx context.Context, userID string) error
}

// Service implements campaign business logic on top of the repository.
// All public methods are safe for concurrent use if the underlying
// repository is concurrency-safe.
type Service struct {
	repo     Repository
	notifier Notifier
	log      *logger.Logger
}

// NewService creates a campaign service. notifier may be nil.
func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier, log: logger.With("campaign")}
}

// Get returns a single campaign.
func (s *Service) Get(ctx context.Context, userID, id string) (*domain.Campaign, error) {
	return s.repo.Get(ctx, userID, id)
}

// List returns campaigns matching the filter.
func (s *Service) List(ctx context.Context, userID string, f ListFilter) ([]domain.Campaign, int, error) {
	return s.repo.List(ctx, userID, f)
}

// CreateInput holds the fields for creating a new campaign.
type CreateInput struct {
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	FromName    string `json:"from_name"`
	FromEmail   string `json:"from_email"`
	ReplyTo     string `json:"reply_to"`
	HTMLContent string `json:"html_content"`
	PreviewText string `json:"preview_text"`
	ListID      string `json:"list_id"`
}

// Create validates and persists a new campaign in draft status.
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*domain.Campaign, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if input.Subject == "" {
		return nil, fmt.Errorf("subject is required")
	}

	c := &domain.Campaign{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        input.Name,
		Subject:     input.Subject,
		FromName:    input.FromName,
		FromEmail:   input.FromEmail,
		ReplyTo:     input.ReplyTo,
		HTMLContent: input.HTMLContent,
		PreviewText: input.PreviewText,
		Status:      domain.CampaignDraft,
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

// Update modifies mutable campaign fields. Content edits are only allowed
// while the campaign is still editable.
func (s *Service) Update(ctx context.Context, userID, id string, u UpdateFields) error {
	c, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if !c.Editable() {
		return ErrNotEditable
	}
	return s.repo.Update(ctx, userID, id, u)
}

// Delete removes a campaign. Only drafts and cancelled campaigns may go.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	c, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if c.Status != domain.CampaignDraft && c.Status != domain.CampaignCancelled {
		return ErrInvalidTransition
	}
	return s.repo.Delete(ctx, userID, id)
}

// Schedule moves an editable campaign to scheduled at the given time.
func (s *Service) Schedule(ctx context.Context, userID, id string, at time.Time) error {
	c, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if !c.Editable() {
		return ErrNotEditable
	}
	if at.Before(time.Now()) {
		return ErrScheduleInPast
	}
	return s.repo.UpdateStatus(ctx, userID, id, domain.CampaignScheduled, &at)
}

// Send hands a draft or scheduled campaign to the delivery backend by
// transitioning it to sending. Delivery and counter updates happen in the
// managed backend; a refresh signal nudges any open dashboard.
func (s *Service) Send(ctx context.Context, userID, id string) error {
	c, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if c.Status != domain.CampaignDraft && c.Status != domain.CampaignScheduled {
		return ErrAlreadySending
	}

	if err := s.repo.UpdateStatus(ctx, userID, id, domain.CampaignSending, nil); err != nil {
		return fmt.Errorf("transition to sending: %w", err)
	}

	s.log.Info("campaign handed off for delivery", "campaign_id", id)
	s.notify(ctx, userID)
	return nil
}

// Cancel stops a scheduled or paused campaign before delivery.
func (s *Service) Cancel(ctx context.Context, userID, id string) error {
	c, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	switch c.Status {
	case domain.CampaignScheduled, domain.CampaignPaused, domain.CampaignDraft:
		return s.repo.UpdateStatus(ctx, userID, id, domain.CampaignCancelled, nil)
	}
	return ErrInvalidTransition
}

func (s *Service) notify(ctx context.Context, userID string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID); err != nil {
		s.log.Warn("refresh signal not delivered", "error", err)
	}
}
