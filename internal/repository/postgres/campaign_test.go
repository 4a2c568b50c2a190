package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/campaign-console/internal/domain"
	"github.com/ignite/campaign-console/internal/service/campaign"
)

func campaignRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "list_id", "name", "subject", "from_name", "from_email",
		"reply_to", "html_content", "preview_text",
		"status", "scheduled_at", "sent_count", "open_count", "click_count",
		"bounce_count", "complaint_count", "unsubscribe_count", "created_at", "updated_at",
	}).AddRow(
		"c1", "u1", nil, "Welcome", "Hi", "Acme", "hello@acme.com",
		"", "<p>hi</p>", "",
		"draft", nil, 0, 0, 0, 0, 0, 0, now, now,
	)
}

func TestCampaignGet(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM campaigns").
		WithArgs("c1", "u1").
		WillReturnRows(campaignRows())

	c, err := NewCampaignRepo(db).Get(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "Welcome", c.Name)
	assert.Equal(t, domain.CampaignDraft, c.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM campaigns").
		WithArgs("missing", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = NewCampaignRepo(db).Get(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, campaign.ErrNotFound)
}

func TestCampaignListWithStatusFilter(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM campaigns").
		WithArgs("u1", "draft").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM campaigns").
		WithArgs("u1", "draft", 50, 0).
		WillReturnRows(campaignRows())

	out, total, err := NewCampaignRepo(db).List(context.Background(), "u1", campaign.ListFilter{Status: "draft"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, out, 1)
	assert.Equal(t, "c1", out[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignUpdateNoFieldsIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	err = NewCampaignRepo(db).Update(context.Background(), "u1", "c1", campaign.UpdateFields{})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignUpdateNotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	name := "Renamed"
	mock.ExpectExec("UPDATE campaigns SET").
		WithArgs(name, "c1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewCampaignRepo(db).Update(context.Background(), "u1", "c1", campaign.UpdateFields{Name: &name})
	assert.ErrorIs(t, err, campaign.ErrNotFound)
}

func TestCampaignUpdateStatusWithSchedule(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	at := time.Now().Add(time.Hour)
	mock.ExpectExec("UPDATE campaigns").
		WithArgs(string(domain.CampaignScheduled), &at, "c1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewCampaignRepo(db).UpdateStatus(context.Background(), "u1", "c1", domain.CampaignScheduled, &at)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignDeleteGuardsStatus(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	// The status guard lives in the SQL; a sending campaign matches no rows.
	mock.ExpectExec("DELETE FROM campaigns").
		WithArgs("c1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewCampaignRepo(db).Delete(context.Background(), "u1", "c1")
	assert.ErrorIs(t, err, campaign.ErrNotFound)
}
