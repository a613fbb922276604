package database

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macroplay/internal/command"
	"macroplay/internal/executor"
	"macroplay/internal/logger"
)

func newMock(t *testing.T) (*DatabaseManager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDatabaseManager(db, logger.Nop()), mock
}

func TestEnsureSchema(t *testing.T) {
	h, mock := newMock(t)
	for _, table := range []string{"macro_runs", "macro_steps", "actions"} {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS " + table).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, h.EnsureSchema())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchemaError(t *testing.T) {
	h, mock := newMock(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS macro_runs").WillReturnError(errors.New("denied"))

	assert.Error(t, h.EnsureSchema())
}

func TestRunLifecycle(t *testing.T) {
	h, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO macro_runs (total_steps)")).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO macro_steps")).
		WithArgs(int64(42), 0, "mouse_click", sqlmock.AnyArg(), "done", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO macro_steps")).
		WithArgs(int64(42), 1, "mouse_move", sqlmock.AnyArg(), "skipped", "изображение не найдено на экране: a.png").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE macro_runs SET status")).
		WithArgs("completed", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := h.StartRun(2)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	require.NoError(t, h.RecordStep(id, executor.StepResult{
		Index: 0, Command: command.NewMouseClick(1, 1), Outcome: executor.OutcomeDone,
	}))
	require.NoError(t, h.RecordStep(id, executor.StepResult{
		Index: 1, Command: command.NewMouseMoveToImage("a.png", 2), Outcome: executor.OutcomeSkipped,
		Err: errors.New("изображение не найдено на экране: a.png"),
	}))
	require.NoError(t, h.FinishRun(id, executor.RunCompleted))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStopRequested(t *testing.T) {
	h, mock := newMock(t)
	rows := sqlmock.NewRows([]string{"id", "action", "created_at"}).AddRow(5, "stop", time.Now())
	mock.ExpectQuery("SELECT id, action, created_at FROM actions").WillReturnRows(rows)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE actions SET executed = TRUE")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	stop, err := h.StopRequested()
	require.NoError(t, err)
	assert.True(t, stop)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStopRequestedOtherAction(t *testing.T) {
	h, mock := newMock(t)
	rows := sqlmock.NewRows([]string{"id", "action", "created_at"}).AddRow(6, "start", time.Now())
	mock.ExpectQuery("SELECT id, action, created_at FROM actions").WillReturnRows(rows)

	stop, err := h.StopRequested()
	require.NoError(t, err)
	assert.False(t, stop)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStopRequestedNoActions(t *testing.T) {
	h, mock := newMock(t)
	mock.ExpectQuery("SELECT id, action, created_at FROM actions").
		WillReturnRows(sqlmock.NewRows([]string{"id", "action", "created_at"}))

	stop, err := h.StopRequested()
	require.NoError(t, err)
	assert.False(t, stop)
}

func TestRecentRuns(t *testing.T) {
	h, mock := newMock(t)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "total_steps", "status", "started_at", "finished_at"}).
		AddRow(int64(2), 3, "running", now, nil).
		AddRow(int64(1), 4, "completed", now, now)
	mock.ExpectQuery("SELECT id, total_steps, status, started_at, finished_at FROM macro_runs").
		WithArgs(10).
		WillReturnRows(rows)

	runs, err := h.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Nil(t, runs[0].FinishedAt)
	require.NotNil(t, runs[1].FinishedAt)
	assert.Equal(t, "completed", runs[1].Status)
}

func TestOpenRejectsBadDSN(t *testing.T) {
	_, err := Open("not a dsn")
	assert.Error(t, err)
}
