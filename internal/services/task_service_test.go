package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/logger"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/repository"
	"github.com/yukikurage/hr-operations-api/internal/testutil"
	"gorm.io/gorm"
)

type TaskServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *TaskService
	ctx     context.Context
}

var (
	managerActor  = models.Actor{UserID: 10, Role: models.RoleManager}
	assigneeActor = models.Actor{UserID: 20, Role: models.RoleEmployee}
	helperActor   = models.Actor{UserID: 30, Role: models.RoleEmployee}
	outsiderActor = models.Actor{UserID: 40, Role: models.RoleEmployee}
	hrActor       = models.Actor{UserID: 50, Role: models.RoleHR}
)

func (s *TaskServiceTestSuite) SetupTest() {
	s.db = testutil.NewDB(s.T())
	s.ctx = context.Background()

	notifications := NewNotificationService(repository.NewNotificationRepository(s.db))
	s.service = NewTaskService(repository.NewTaskRepository(s.db), repository.NewEmployeeRepository(s.db), notifications, logger.Discard())

	testutil.CreateEmployee(s.T(), s.db, 10, "manager", models.RoleManager, "password123")
	testutil.CreateEmployee(s.T(), s.db, 20, "assignee", models.RoleEmployee, "password123")
	testutil.CreateEmployee(s.T(), s.db, 30, "helper", models.RoleEmployee, "password123")
	testutil.CreateEmployee(s.T(), s.db, 40, "outsider", models.RoleEmployee, "password123")
	testutil.CreateEmployee(s.T(), s.db, 50, "hr", models.RoleHR, "password123")
}

func (s *TaskServiceTestSuite) TestGetAccessibleTask() {
	testutil.CreateTask(s.T(), s.db, 1, 10, 20, 30)

	for _, actor := range []models.Actor{managerActor, assigneeActor, helperActor, hrActor} {
		task, err := s.service.GetAccessibleTask(s.ctx, actor, 1)
		s.Require().NoError(err, "actor %d", actor.UserID)
		s.Equal(uint64(1), task.ID)
	}

	_, err := s.service.GetAccessibleTask(s.ctx, outsiderActor, 1)
	s.ErrorIs(err, ErrTaskNotFound)

	_, err = s.service.GetAccessibleTask(s.ctx, hrActor, 999)
	s.ErrorIs(err, ErrTaskNotFound)
}

func (s *TaskServiceTestSuite) TestCreateTask() {
	task, err := s.service.CreateTask(s.ctx, managerActor, CreateTaskInput{
		Title:       "  Onboard new hire  ",
		AssignedTo:  20,
		AssigneeIDs: []uint64{30, 30, 20, 10},
	})
	s.Require().NoError(err)
	s.Equal("Onboard new hire", task.Title)
	s.Equal(uint64(10), task.AssignedBy)
	s.Equal(models.TaskPriorityMedium, task.Priority)
	s.Equal(models.TaskStatusPending, task.Status)

	ids, err := s.service.ListAssigneeIDs(s.ctx, task.ID)
	s.Require().NoError(err)
	s.Equal([]uint64{30}, ids)

	var notified []uint64
	s.Require().NoError(s.db.Model(&models.Notification{}).Order("recipient_id").Pluck("recipient_id", &notified).Error)
	s.Equal([]uint64{20, 30}, notified)
}

func (s *TaskServiceTestSuite) TestCreateTask_Rejections() {
	_, err := s.service.CreateTask(s.ctx, assigneeActor, CreateTaskInput{Title: "x", AssignedTo: 30})
	s.ErrorIs(err, ErrTaskCreationForbidden)

	_, err = s.service.CreateTask(s.ctx, managerActor, CreateTaskInput{Title: " ", AssignedTo: 20})
	s.ErrorIs(err, ErrTitleRequired)

	_, err = s.service.CreateTask(s.ctx, managerActor, CreateTaskInput{Title: "x", AssignedTo: 999})
	s.ErrorIs(err, ErrUnknownEmployees)

	_, err = s.service.CreateTask(s.ctx, managerActor, CreateTaskInput{Title: "x", AssignedTo: 20, Priority: "whenever"})
	s.ErrorIs(err, ErrInvalidTaskPriority)
}

func (s *TaskServiceTestSuite) TestListTasks_OnlyParticipating() {
	testutil.CreateTask(s.T(), s.db, 1, 10, 20, 30)
	testutil.CreateTask(s.T(), s.db, 2, 10, 40)

	tasks, total, err := s.service.ListTasks(s.ctx, helperActor, ListTasksInput{Page: 1, PageSize: 20})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(tasks, 1)
	s.Equal(uint64(1), tasks[0].ID)

	// scope=all is ignored for regular employees
	_, total, err = s.service.ListTasks(s.ctx, helperActor, ListTasksInput{All: true, Page: 1, PageSize: 20})
	s.Require().NoError(err)
	s.Equal(int64(1), total)

	_, total, err = s.service.ListTasks(s.ctx, hrActor, ListTasksInput{All: true, Page: 1, PageSize: 20})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
}

func (s *TaskServiceTestSuite) TestUpdateStatus() {
	task := testutil.CreateTask(s.T(), s.db, 1, 10, 20, 30)

	updated, err := s.service.UpdateStatus(s.ctx, helperActor, *task, models.TaskStatusInProgress)
	s.Require().NoError(err)
	s.Equal(models.TaskStatusInProgress, updated.Status)

	_, err = s.service.UpdateStatus(s.ctx, outsiderActor, *task, models.TaskStatusCompleted)
	s.ErrorIs(err, ErrTaskStatusForbidden)

	_, err = s.service.UpdateStatus(s.ctx, managerActor, *task, "archived")
	s.ErrorIs(err, ErrInvalidTaskStatus)
}

func (s *TaskServiceTestSuite) TestAssignees() {
	task := testutil.CreateTask(s.T(), s.db, 1, 10, 20)

	ids, err := s.service.AddAssignees(s.ctx, managerActor, *task, []uint64{30, 40})
	s.Require().NoError(err)
	s.Equal([]uint64{30, 40}, ids)

	_, err = s.service.AddAssignees(s.ctx, assigneeActor, *task, []uint64{50})
	s.ErrorIs(err, ErrTaskManageForbidden)

	s.Require().NoError(s.service.RemoveAssignee(s.ctx, hrActor, *task, 40))
	err = s.service.RemoveAssignee(s.ctx, managerActor, *task, 40)
	s.ErrorIs(err, ErrAssigneeNotOnTask)
	s.Equal(apierrors.KindNotFound, apierrors.KindOf(err))

	ids, err = s.service.ListAssigneeIDs(s.ctx, task.ID)
	s.Require().NoError(err)
	s.Equal([]uint64{30}, ids)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
