package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/logger"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/repository"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func TestCreateTaskMessage_StoreFaultIsUnexpected(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `tasks` .* FOR UPDATE").
		WillReturnError(errors.New("dial tcp 10.0.0.5:3306: connection reset by peer"))
	mock.ExpectRollback()

	service := NewTaskMessageService(repository.NewTaskMessageRepository(db), nil, nil, nil, logger.Discard())
	_, err := service.CreateTaskMessage(context.Background(), CreateTaskMessageInput{
		TaskID:   1,
		SenderID: 10,
		Content:  "hello",
	})

	require.Error(t, err)
	assert.Equal(t, apierrors.KindUnexpected, apierrors.KindOf(err))
	assert.Equal(t, apierrors.UnexpectedReason, apierrors.ReasonOf(err))
	assert.NotContains(t, apierrors.ReasonOf(err), "10.0.0.5")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTaskMessage_AssigneeLookupFault(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `tasks`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "assigned_by", "assigned_to"}).
			AddRow(1, "Quarterly review", 10, 20))
	mock.ExpectQuery("SELECT `employee_id` FROM `task_assignees`").
		WillReturnError(errors.New("deadlock found"))
	mock.ExpectRollback()

	service := NewTaskMessageService(repository.NewTaskMessageRepository(db), nil, nil, nil, logger.Discard())
	_, err := service.CreateTaskMessage(context.Background(), CreateTaskMessageInput{
		TaskID:   1,
		SenderID: 30,
		Content:  "hello",
	})

	require.Error(t, err)
	assert.Equal(t, apierrors.KindUnexpected, apierrors.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMessagesForTask_StoreFaultIsUnexpected(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT .* FROM `task_messages`").
		WillReturnError(errors.New("server has gone away"))

	service := NewTaskMessageService(repository.NewTaskMessageRepository(db), nil, nil, nil, logger.Discard())
	_, err := service.GetMessagesForTask(context.Background(), 1)

	require.Error(t, err)
	assert.Equal(t, apierrors.KindUnexpected, apierrors.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAccessibleTask_StoreFaultIsUnexpected(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT .* FROM `tasks`").
		WillReturnError(errors.New("too many connections"))

	service := NewTaskService(repository.NewTaskRepository(db), repository.NewEmployeeRepository(db), nil, logger.Discard())
	_, err := service.GetAccessibleTask(context.Background(), models.Actor{UserID: 10, Role: models.RoleManager}, 1)

	require.Error(t, err)
	assert.Equal(t, apierrors.KindUnexpected, apierrors.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
