package database

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type compositeIndex struct {
	table   string
	name    string
	columns []string
}

// Indexes backing the hot listing queries. Single-column indexes live in the
// model tags; these span columns the tags cannot order.
var compositeIndexes = []compositeIndex{
	{"notifications", "idx_notifications_recipient_created", []string{"to_user_id", "created_at"}},
	{"audit_logs", "idx_audit_logs_entity_created", []string{"entity_type", "created_at"}},
	{"projects", "idx_projects_status_created", []string{"status", "created_at"}},
	{"competitions", "idx_competitions_status_created", []string{"status", "created_at"}},
	{"proposals", "idx_proposals_project_status", []string{"project_id", "status"}},
}

// AddIndexes creates the composite indexes that do not exist yet. It is safe to run repeatedly.
func AddIndexes(db *gorm.DB, log logrus.FieldLogger) error {
	migrator := db.Migrator()

	for _, idx := range compositeIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.WithField("index", idx.name).Debug("Index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.WithFields(logrus.Fields{
			"index": idx.name,
			"table": idx.table,
		}).Info("Created index")
	}

	return nil
}
