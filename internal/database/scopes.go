package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/hr-operations-api/internal/utils"
)

// Paginate applies offset pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// IsSQLite reports whether db talks to sqlite, which has no row locking
func IsSQLite(db *gorm.DB) bool {
	return db.Dialector.Name() == "sqlite"
}
