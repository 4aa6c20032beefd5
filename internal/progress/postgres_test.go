package progress

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockReporter(t *testing.T) (*PostgresReporter, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresWithPool(mock), mock
}

func TestPostgresReporter_Update(t *testing.T) {
	r, mock := newMockReporter(t)

	mock.ExpectExec(`INSERT INTO crawl_jobs`).
		WithArgs("job-1", 42.5, "crawling", "fc-abc").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := r.Update(context.Background(), "job-1", 42.5, "crawling", "fc-abc")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReporter_ClampsPercent(t *testing.T) {
	r, mock := newMockReporter(t)

	mock.ExpectExec(`INSERT INTO crawl_jobs`).
		WithArgs("job-1", 100.0, "", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := r.Update(context.Background(), "job-1", 250, "", "")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReporter_EmptyJobIDSkips(t *testing.T) {
	r, mock := newMockReporter(t)

	err := r.Update(context.Background(), "", 50, "", "")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReporter_ExecErrorWrapped(t *testing.T) {
	r, mock := newMockReporter(t)

	mock.ExpectExec(`INSERT INTO crawl_jobs`).
		WithArgs("job-2", 10.0, "", "").
		WillReturnError(assert.AnError)

	err := r.Update(context.Background(), "job-2", 10, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job-2")
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5))
	assert.Equal(t, 55.0, Clamp(55))
	assert.Equal(t, 100.0, Clamp(101))
}

func TestNopReporter(t *testing.T) {
	assert.NoError(t, NopReporter{}.Update(context.Background(), "x", 10, "", ""))
}
