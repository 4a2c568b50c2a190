package contact_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/campaign-console/internal/domain"
	"github.com/ignite/campaign-console/internal/service/contact"
)

// memRepo is an in-memory contact repository for unit testing.
type memRepo struct {
	mu       sync.Mutex
	contacts map[string]*domain.Contact
}

func newMemRepo() *memRepo {
	return &memRepo{contacts: make(map[string]*domain.Contact)}
}

func (m *memRepo) Get(_ context.Context, userID, id string) (*domain.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contacts[id]
	if !ok || c.UserID != userID {
		return nil, contact.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) List(_ context.Context, userID string, f contact.ListFilter) ([]domain.Contact, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Contact
	for _, c := range m.contacts {
		if c.UserID != userID {
			continue
		}
		if f.Status != "" && string(c.Status) != f.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *memRepo) Create(_ context.Context, c *domain.Contact) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.contacts {
		if existing.UserID == c.UserID && existing.Email == c.Email {
			return "", contact.ErrDuplicateEmail
		}
	}
	cp := *c
	m.contacts[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memRepo) CreateBatch(ctx context.Context, contacts []domain.Contact) (int, error) {
	inserted := 0
	for i := range contacts {
		if _, err := m.Create(ctx, &contacts[i]); err == nil {
			inserted++
		}
	}
	return inserted, nil
}

func (m *memRepo) Update(_ context.Context, userID, id string, u contact.UpdateFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contacts[id]
	if !ok || c.UserID != userID {
		return contact.ErrNotFound
	}
	if u.FirstName != nil {
		c.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		c.LastName = *u.LastName
	}
	return nil
}

func (m *memRepo) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contacts[id]
	if !ok || c.UserID != userID {
		return contact.ErrNotFound
	}
	delete(m.contacts, id)
	return nil
}

func (m *memRepo) UpdateStatus(_ context.Context, userID, id string, status domain.ContactStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contacts[id]
	if !ok || c.UserID != userID {
		return contact.ErrNotFound
	}
	c.Status = status
	return nil
}

func TestCreateNormalizesEmail(t *testing.T) {
	svc := contact.NewService(newMemRepo())

	c, err := svc.Create(context.Background(), "u1", contact.CreateInput{
		Email: "  Jamie.Doe@Example.COM ", FirstName: "Jamie",
	})
	require.NoError(t, err)
	assert.Equal(t, "jamie.doe@example.com", c.Email)
	assert.Equal(t, domain.ContactActive, c.Status)
}

func TestCreateRejectsInvalidEmail(t *testing.T) {
	svc := contact.NewService(newMemRepo())

	_, err := svc.Create(context.Background(), "u1", contact.CreateInput{Email: "not-an-email"})
	assert.ErrorIs(t, err, contact.ErrInvalidEmail)
}

func TestCreateRejectsDuplicate(t *testing.T) {
	svc := contact.NewService(newMemRepo())

	_, err := svc.Create(context.Background(), "u1", contact.CreateInput{Email: "a@example.com"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "u1", contact.CreateInput{Email: "a@example.com"})
	assert.ErrorIs(t, err, contact.ErrDuplicateEmail)
}

func TestImportSkipsBadRowsAndDuplicates(t *testing.T) {
	repo := newMemRepo()
	svc := contact.NewService(repo)

	_, err := svc.Create(context.Background(), "u1", contact.CreateInput{Email: "dup@example.com"})
	require.NoError(t, err)

	res, err := svc.Import(context.Background(), "u1", "list-1", []contact.CreateInput{
		{Email: "one@example.com"},
		{Email: "bogus"},
		{Email: "dup@example.com"},
		{Email: "two@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 2, res.Skipped)
}

func TestUnsubscribeAndResubscribe(t *testing.T) {
	repo := newMemRepo()
	svc := contact.NewService(repo)

	c, err := svc.Create(context.Background(), "u1", contact.CreateInput{Email: "a@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Unsubscribe(context.Background(), "u1", c.ID))
	got, err := svc.Get(context.Background(), "u1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ContactUnsubscribed, got.Status)
	assert.False(t, got.Mailable())

	require.NoError(t, svc.Resubscribe(context.Background(), "u1", c.ID))
	got, err = svc.Get(context.Background(), "u1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ContactActive, got.Status)
}

func TestResubscribeLeavesBouncedAlone(t *testing.T) {
	repo := newMemRepo()
	svc := contact.NewService(repo)

	c, err := svc.Create(context.Background(), "u1", contact.CreateInput{Email: "a@example.com"})
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(context.Background(), "u1", c.ID, domain.ContactBounced))

	require.NoError(t, svc.Resubscribe(context.Background(), "u1", c.ID))
	got, err := svc.Get(context.Background(), "u1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ContactBounced, got.Status)
}
