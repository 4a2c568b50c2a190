package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/campaign-console/internal/domain"
	"github.com/ignite/campaign-console/internal/service/contact"
)

func contactRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "list_id", "email",
		"first_name", "last_name", "status",
		"total_opens", "total_clicks", "last_open_at", "created_at", "updated_at",
	}).AddRow(
		"ct1", "u1", nil, "a@example.com",
		"Jamie", "Doe", "active",
		3, 1, nil, now, now,
	)
}

func TestContactGet(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM contacts").
		WithArgs("ct1", "u1").
		WillReturnRows(contactRows())

	c, err := NewContactRepo(db).Get(context.Background(), "u1", "ct1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", c.Email)
	assert.Equal(t, domain.ContactActive, c.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM contacts").
		WithArgs("missing", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = NewContactRepo(db).Get(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, contact.ErrNotFound)
}

func TestContactCreateDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO contacts").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err = NewContactRepo(db).Create(context.Background(), &domain.Contact{
		UserID: "u1", Email: "a@example.com", Status: domain.ContactActive,
	})
	assert.ErrorIs(t, err, contact.ErrDuplicateEmail)
}

func TestContactCreateBatchCountsInserted(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO contacts").WillReturnResult(sqlmock.NewResult(0, 1))
	// Duplicate hits ON CONFLICT DO NOTHING and affects no rows.
	mock.ExpectExec("INSERT INTO contacts").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	n, err := NewContactRepo(db).CreateBatch(context.Background(), []domain.Contact{
		{UserID: "u1", Email: "one@example.com", Status: domain.ContactActive},
		{UserID: "u1", Email: "dup@example.com", Status: domain.ContactActive},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactCreateBatchEmpty(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	n, err := NewContactRepo(db).CreateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactUpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE contacts SET status").
		WithArgs(string(domain.ContactUnsubscribed), "ct1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewContactRepo(db).UpdateStatus(context.Background(), "u1", "ct1", domain.ContactUnsubscribed)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactListSearchFilter(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM contacts").
		WithArgs("u1", "%jamie%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM contacts").
		WithArgs("u1", "%jamie%", 50, 0).
		WillReturnRows(contactRows())

	out, total, err := NewContactRepo(db).List(context.Background(), "u1", contact.ListFilter{Search: "jamie"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, out, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
