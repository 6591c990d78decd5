package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/hr-operations-api/internal/constants"
	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/logger"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/repository"
	"github.com/yukikurage/hr-operations-api/internal/testutil"
	"gorm.io/gorm"
)

// countingMessageRepo records how often assignee rows are loaded
type countingMessageRepo struct {
	repository.TaskMessageRepository
	mu              *sync.Mutex
	assigneeLookups *int
}

func (r countingMessageRepo) Transaction(ctx context.Context, fn func(repo repository.TaskMessageRepository) error) error {
	return r.TaskMessageRepository.Transaction(ctx, func(tx repository.TaskMessageRepository) error {
		return fn(countingMessageRepo{TaskMessageRepository: tx, mu: r.mu, assigneeLookups: r.assigneeLookups})
	})
}

func (r countingMessageRepo) ListAssigneeIDs(ctx context.Context, taskID uint64) ([]uint64, error) {
	r.mu.Lock()
	*r.assigneeLookups++
	r.mu.Unlock()
	return r.TaskMessageRepository.ListAssigneeIDs(ctx, taskID)
}

type recordingInvalidator struct {
	calls []uint64
	err   error
}

func (i *recordingInvalidator) TaskMessagesChanged(_ context.Context, _ uint64, messageID uint64) error {
	i.calls = append(i.calls, messageID)
	return i.err
}

type TaskMessageServiceTestSuite struct {
	suite.Suite
	db              *gorm.DB
	service         *TaskMessageService
	invalidator     *recordingInvalidator
	assigneeLookups int
}

func (s *TaskMessageServiceTestSuite) SetupTest() {
	s.db = testutil.NewDB(s.T())
	s.invalidator = &recordingInvalidator{}
	s.assigneeLookups = 0

	repo := countingMessageRepo{
		TaskMessageRepository: repository.NewTaskMessageRepository(s.db),
		mu:                    &sync.Mutex{},
		assigneeLookups:       &s.assigneeLookups,
	}
	s.service = NewTaskMessageService(repo, s.invalidator, nil, nil, logger.Discard())

	testutil.CreateEmployee(s.T(), s.db, 10, "manager", models.RoleManager, "password123")
	testutil.CreateEmployee(s.T(), s.db, 20, "assignee", models.RoleEmployee, "password123")
	testutil.CreateEmployee(s.T(), s.db, 30, "helper", models.RoleEmployee, "password123")
	testutil.CreateEmployee(s.T(), s.db, 40, "outsider", models.RoleEmployee, "password123")
	testutil.CreateTask(s.T(), s.db, 1, 10, 20, 30)
}

func (s *TaskMessageServiceTestSuite) post(sender uint64, content string) (*CreateTaskMessageResult, error) {
	return s.service.CreateTaskMessage(context.Background(), CreateTaskMessageInput{
		TaskID:   1,
		SenderID: sender,
		Content:  content,
	})
}

func (s *TaskMessageServiceTestSuite) TestOutsiderIsRejected() {
	_, err := s.post(40, "Hello")

	s.Require().Error(err)
	s.Equal(apierrors.KindForbidden, apierrors.KindOf(err))
	s.Equal("Only assigned employees or the manager can post messages", apierrors.ReasonOf(err))

	var count int64
	s.Require().NoError(s.db.Model(&models.TaskMessage{}).Count(&count).Error)
	s.Zero(count)
	s.Empty(s.invalidator.calls)
}

func (s *TaskMessageServiceTestSuite) TestAdditionalAssigneeCanPostAndPollingStops() {
	result, err := s.post(30, "Working on it")
	s.Require().NoError(err)
	s.Equal(MessageSentConfirmation, result.Confirmation)
	s.NotZero(result.Message.ID)
	s.Equal("Working on it", result.Message.Content)

	all, err := s.service.GetMessagesForTask(context.Background(), 1)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal(result.Message.ID, all[0].ID)
	s.Require().NotNil(all[0].SenderName)
	s.Equal("helper", *all[0].SenderName)

	since, err := s.service.GetMessagesForTaskSince(context.Background(), 1, all[0].ID)
	s.Require().NoError(err)
	s.Empty(since)

	s.Equal([]uint64{result.Message.ID}, s.invalidator.calls)
}

func (s *TaskMessageServiceTestSuite) TestUnknownTask() {
	_, err := s.service.CreateTaskMessage(context.Background(), CreateTaskMessageInput{
		TaskID:   999,
		SenderID: 10,
		Content:  "Hello",
	})

	s.Require().Error(err)
	s.Equal(apierrors.KindNotFound, apierrors.KindOf(err))
	s.Equal("Task not found", apierrors.ReasonOf(err))
}

func (s *TaskMessageServiceTestSuite) TestPrimaryParticipantsSkipAssigneeLookup() {
	_, err := s.post(10, "Kickoff")
	s.Require().NoError(err)
	_, err = s.post(20, "Ack")
	s.Require().NoError(err)
	s.Zero(s.assigneeLookups)

	_, err = s.post(30, "Me too")
	s.Require().NoError(err)
	s.Equal(1, s.assigneeLookups)
}

func (s *TaskMessageServiceTestSuite) TestValidation() {
	_, err := s.post(10, "   \n\t ")
	s.ErrorIs(err, ErrMessageContentRequired)

	_, err = s.service.CreateTaskMessage(context.Background(), CreateTaskMessageInput{TaskID: 1, Content: "hi"})
	s.ErrorIs(err, ErrInvalidSender)

	_, err = s.post(10, strings.Repeat("x", constants.MaxMessageLength+1))
	s.ErrorIs(err, ErrMessageTooLong)

	result, err := s.post(10, "  padded  ")
	s.Require().NoError(err)
	s.Equal("padded", result.Message.Content)
}

func (s *TaskMessageServiceTestSuite) TestOrderingRecentAndSince() {
	var ids []uint64
	for i := 0; i < 5; i++ {
		result, err := s.post(10, "message")
		s.Require().NoError(err)
		ids = append(ids, result.Message.ID)
	}

	all, err := s.service.GetMessagesForTask(context.Background(), 1)
	s.Require().NoError(err)
	s.Require().Len(all, 5)
	for i := 1; i < len(all); i++ {
		s.Less(all[i-1].ID, all[i].ID)
	}

	recent, err := s.service.GetRecentMessagesForTask(context.Background(), 1, 2)
	s.Require().NoError(err)
	s.Require().Len(recent, 2)
	s.Equal(ids[3], recent[0].ID)
	s.Equal(ids[4], recent[1].ID)

	// since(k) is exactly the suffix of the full list after k
	for _, k := range append([]uint64{0}, ids...) {
		since, err := s.service.GetMessagesForTaskSince(context.Background(), 1, k)
		s.Require().NoError(err)
		var expected []uint64
		for _, m := range all {
			if m.ID > k {
				expected = append(expected, m.ID)
			}
		}
		var got []uint64
		for _, m := range since {
			got = append(got, m.ID)
		}
		s.Equal(expected, got)
	}
}

func (s *TaskMessageServiceTestSuite) TestRemovedAssigneeCannotPostButHistoryStays() {
	_, err := s.post(30, "before removal")
	s.Require().NoError(err)

	removed, err := repository.NewTaskRepository(s.db).RemoveAssignee(context.Background(), 1, 30)
	s.Require().NoError(err)
	s.True(removed)

	_, err = s.post(30, "after removal")
	s.ErrorIs(err, ErrNotTaskParticipant)

	all, err := s.service.GetMessagesForTask(context.Background(), 1)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal("before removal", all[0].Content)
}

func (s *TaskMessageServiceTestSuite) TestMissingSenderKeepsMessage() {
	_, err := s.post(20, "hello")
	s.Require().NoError(err)
	s.Require().NoError(s.db.Unscoped().Delete(&models.Employee{}, 20).Error)

	all, err := s.service.GetMessagesForTask(context.Background(), 1)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Nil(all[0].SenderName)
	s.Nil(all[0].SenderEmail)
}

func (s *TaskMessageServiceTestSuite) TestInvalidationFailureDoesNotFailPost() {
	s.invalidator.err = errors.New("redis down")

	result, err := s.post(10, "still stored")
	s.Require().NoError(err)
	s.NotZero(result.Message.ID)
}

func (s *TaskMessageServiceTestSuite) TestSummarizeWithoutAI() {
	task := models.Task{ID: 1}
	_, err := s.service.SummarizeThread(context.Background(), task)
	s.ErrorIs(err, ErrAIServiceNotConfigured)
}

func TestTaskMessageServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskMessageServiceTestSuite))
}

func TestNormalizeMessageLimit(t *testing.T) {
	assert.Equal(t, constants.DefaultRecentMessages, NormalizeMessageLimit(0))
	assert.Equal(t, constants.DefaultRecentMessages, NormalizeMessageLimit(-5))
	assert.Equal(t, 10, NormalizeMessageLimit(10))
	assert.Equal(t, constants.MaxRecentMessages, NormalizeMessageLimit(constants.MaxRecentMessages+1))
}

func TestTaskMessageService_NotifiesOtherParticipants(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateTask(t, db, 1, 10, 20, 30)

	// Employee 30 opted out of task message notifications
	require.NoError(t, db.Create(&models.NotificationPreference{
		EmployeeID:   30,
		InAppEnabled: true,
	}).Error)

	notifications := NewNotificationService(repository.NewNotificationRepository(db))
	service := NewTaskMessageService(repository.NewTaskMessageRepository(db), nil, notifications, nil, logger.Discard())

	_, err := service.CreateTaskMessage(context.Background(), CreateTaskMessageInput{TaskID: 1, SenderID: 20, Content: "done"})
	require.NoError(t, err)

	var rows []models.Notification
	require.NoError(t, db.Order("recipient_id").Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, uint64(10), rows[0].RecipientID)
	assert.Equal(t, models.NotificationTaskMessage, rows[0].Type)
}
