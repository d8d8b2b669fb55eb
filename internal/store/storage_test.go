package store

import (
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

const testWorkspace = "sefaz"

var testTime = time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)

// statementLog records every statement sent to the mock.
type statementLog struct {
	mu   sync.Mutex
	sqls []string
}

func (l *statementLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.sqls...)
}

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock, *statementLog) {
	t.Helper()

	log := &statementLog{}
	matcher := sqlmock.QueryMatcherFunc(func(expected, actual string) error {
		log.mu.Lock()
		log.sqls = append(log.sqls, actual)
		log.mu.Unlock()
		return sqlmock.QueryMatcherRegexp.Match(expected, actual)
	})

	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(matcher))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mockDB.Close()
	})

	return NewStorage(sqlx.NewDb(mockDB, "postgres")), mock, log
}
