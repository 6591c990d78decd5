package repository

import (
	"github.com/yukikurage/hr-operations-api/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate adds SELECT ... FOR UPDATE. SQLite serializes writers on its own
// and rejects the clause, so it is skipped there.
func forUpdate(db *gorm.DB) *gorm.DB {
	if database.IsSQLite(db) {
		return db
	}
	return db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}
