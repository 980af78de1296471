package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Payphone-Digital/addressbook/pkg/database"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), database.GormConfig())
	require.NoError(t, err)
	return db, mock
}

// pgError marshals like a driver error carrying a SQLSTATE, which is what
// the postgres dialector inspects when translating errors.
type pgError struct {
	Code string
}

func (e *pgError) Error() string { return "pq: " + e.Code }
