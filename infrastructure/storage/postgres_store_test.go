package storage

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"formpilot/domain/entities"

	"github.com/pashagolub/pgxmock/v3"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flexibleSQLMatcher makes a whitespace-insensitive regex for a query.
func flexibleSQLMatcher(sql string) string {
	trimmed := strings.TrimSpace(sql)
	return regexp.MustCompile(`\s+`).ReplaceAllString(regexp.QuoteMeta(trimmed), `\s+`)
}

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	mockPool.ExpectPing()
	logger, _ := logtest.NewNullLogger()
	store, err := NewPostgresStore(context.Background(), mockPool, logger)
	require.NoError(t, err)
	return store, mockPool
}

func TestNewPostgresStore_PingFails(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	pingErr := errors.New("database unavailable")
	mockPool.ExpectPing().WillReturnError(pingErr)

	logger, _ := logtest.NewNullLogger()
	_, err = NewPostgresStore(context.Background(), mockPool, logger)
	require.Error(t, err)
	assert.ErrorIs(t, err, pingErr)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresStore_GetTemplate(t *testing.T) {
	store, mockPool := newMockStore(t)

	rows := pgxmock.NewRows([]string{"id", "name", "fields", "metadata"}).
		AddRow("app-1", "Application",
			[]byte(`[{"id": "first_name", "label": "First name", "type": "text"}]`),
			[]byte(`{"version": 2}`))
	mockPool.ExpectQuery(flexibleSQLMatcher(sqlSelectTemplate)).
		WithArgs("app-1").
		WillReturnRows(rows)

	tmpl, err := store.GetTemplate(context.Background(), "app-1")
	require.NoError(t, err)

	assert.Equal(t, "app-1", tmpl.ID)
	assert.Equal(t, "Application", tmpl.Name)
	require.Len(t, tmpl.Fields, 1)
	assert.Equal(t, "First name", tmpl.Fields[0].Label)
	assert.Equal(t, float64(2), tmpl.Metadata["version"])
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresStore_GetTemplateNotFound(t *testing.T) {
	store, mockPool := newMockStore(t)

	mockPool.ExpectQuery(flexibleSQLMatcher(sqlSelectTemplate)).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "fields", "metadata"}))

	_, err := store.GetTemplate(context.Background(), "missing")
	assert.ErrorIs(t, err, entities.ErrTemplateNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresStore_GetTemplateQueryError(t *testing.T) {
	store, mockPool := newMockStore(t)

	queryErr := errors.New("connection reset")
	mockPool.ExpectQuery(flexibleSQLMatcher(sqlSelectTemplate)).
		WithArgs("app-1").
		WillReturnError(queryErr)

	_, err := store.GetTemplate(context.Background(), "app-1")
	assert.ErrorIs(t, err, queryErr)
	assert.NotErrorIs(t, err, entities.ErrTemplateNotFound)
}

func TestPostgresStore_GetAnswers(t *testing.T) {
	store, mockPool := newMockStore(t)

	mockPool.ExpectQuery(flexibleSQLMatcher(sqlSelectAnswers)).
		WithArgs("school-a", "u1").
		WillReturnRows(pgxmock.NewRows([]string{"answers"}).
			AddRow([]byte(`{"first_name": "Ada"}`)))
	mockPool.ExpectQuery(flexibleSQLMatcher(sqlSelectAnswers)).
		WithArgs("school-a", "u2").
		WillReturnRows(pgxmock.NewRows([]string{"answers"}))

	answers, err := store.GetAnswers(context.Background(), "school-a", "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"first_name": "Ada"}, answers)

	none, err := store.GetAnswers(context.Background(), "school-a", "u2")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, none)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresStore_GetAccount(t *testing.T) {
	store, mockPool := newMockStore(t)

	mockPool.ExpectQuery(flexibleSQLMatcher(sqlSelectAccount)).
		WithArgs("school-a", "u1").
		WillReturnRows(pgxmock.NewRows([]string{"email", "username"}).
			AddRow("ada@example.com", ""))
	mockPool.ExpectQuery(flexibleSQLMatcher(sqlSelectAccount)).
		WithArgs("school-b", "u1").
		WillReturnRows(pgxmock.NewRows([]string{"email", "username"}))

	account, err := store.GetAccount(context.Background(), "school-a", "u1")
	require.NoError(t, err)
	assert.Equal(t, &entities.AccountRecord{Email: "ada@example.com"}, account)

	none, err := store.GetAccount(context.Background(), "school-b", "u1")
	require.NoError(t, err)
	assert.Nil(t, none)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
