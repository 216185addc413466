package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/dezx-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestAuditLogRepository_ListFiltersByEntityType(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuditLogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "audit_logs" WHERE entity_type = $1`)).
		WithArgs("project").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "audit_logs" WHERE entity_type = $1 ORDER BY created_at DESC`)).
		WithArgs("project").
		WillReturnRows(sqlmock.NewRows([]string{"id", "actor_id", "action_type", "entity_type"}).
			AddRow("a1", "admin", "delete", "project"))

	entityType := models.EntityProject
	entries, total, err := repo.List(context.Background(), AuditLogFilter{EntityType: &entityType})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	require.Equal(t, models.AuditActionDelete, entries[0].ActionType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLogRepository_ListPropagatesErrors(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuditLogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "audit_logs"`)).
		WillReturnError(errors.New("connection reset"))

	_, _, err := repo.List(context.Background(), AuditLogFilter{})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
