package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns string
}

// Composite indexes that gorm struct tags do not express
var indexes = []index{
	// Message polling scans by task then id
	{"task_messages", "idx_task_messages_task_cursor", "task_id, id"},
	// Keyset pagination over employees
	{"employees", "idx_employees_created_cursor", "created_at, id"},
	{"notifications", "idx_notifications_recipient_read", "recipient_id, read_at"},
	{"payments", "idx_payments_employee_created", "employee_id, created_at"},
	{"tasks", "idx_tasks_status_due", "status, due_date"},
}

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB, log logrus.FieldLogger) error {
	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.WithField("index", idx.name).Debug("Index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
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
