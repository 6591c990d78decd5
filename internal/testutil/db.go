package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/hr-operations-api/internal/database"
	"github.com/yukikurage/hr-operations-api/internal/logger"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database that is closed when the
// test ends. A single connection keeps every query on the same database.
// Foreign keys are not created so fixtures can reference absent employees.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db, logger.Discard()))
	return db
}

// CreateEmployee inserts an employee with the given id, role and password
func CreateEmployee(t *testing.T, db *gorm.DB, id uint64, name string, role models.Role, password string) *models.Employee {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	employee := &models.Employee{
		ID:           id,
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, db.Create(employee).Error)
	return employee
}

// CreateTask inserts a task managed by assignedBy and assigned to assignedTo,
// with any extra assignees
func CreateTask(t *testing.T, db *gorm.DB, id, assignedBy, assignedTo uint64, extra ...uint64) *models.Task {
	t.Helper()

	task := &models.Task{
		ID:         id,
		Title:      "Quarterly review",
		Status:     models.TaskStatusPending,
		Priority:   models.TaskPriorityMedium,
		AssignedBy: assignedBy,
		AssignedTo: assignedTo,
	}
	require.NoError(t, db.Create(task).Error)

	for _, employeeID := range extra {
		require.NoError(t, db.Create(&models.TaskAssignee{TaskID: id, EmployeeID: employeeID}).Error)
	}
	return task
}
