package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/hr-operations-api/internal/constants"
	"github.com/yukikurage/hr-operations-api/internal/events"
	"github.com/yukikurage/hr-operations-api/internal/logger"
	"github.com/yukikurage/hr-operations-api/internal/repository"
	"github.com/yukikurage/hr-operations-api/internal/services"
	"github.com/yukikurage/hr-operations-api/internal/storage"
	"github.com/yukikurage/hr-operations-api/internal/testutil"
	"gorm.io/gorm"
)

const testPassword = "password123"

// apiTestEnv serves the full API over an in-memory database
type apiTestEnv struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

func newAPITestEnv(t *testing.T) *apiTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	log := logger.Discard()
	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	employeeRepo := repository.NewEmployeeRepository(db)
	authService := services.NewAuthService(employeeRepo)
	notificationService := services.NewNotificationService(repository.NewNotificationRepository(db))
	taskService := services.NewTaskService(repository.NewTaskRepository(db), employeeRepo, notificationService, log)
	messageService := services.NewTaskMessageService(
		repository.NewTaskMessageRepository(db), events.NoopInvalidator{}, notificationService, nil, log)

	routes := Routes{
		Auth:          NewAuthHandler(authService, log),
		Employees:     NewEmployeeHandler(services.NewEmployeeService(employeeRepo), log),
		Tasks:         NewTaskHandler(taskService, log),
		Messages:      NewTaskMessageHandler(messageService, log),
		Notifications: NewNotificationHandler(notificationService, log),
		Milestones: NewMilestoneHandler(
			services.NewMilestoneService(repository.NewMilestoneRepository(db), employeeRepo), log),
		Leave: NewLeaveHandler(
			services.NewLeaveService(repository.NewLeaveRepository(db), notificationService, log), log),
		Payroll: NewPayrollHandler(
			services.NewPayrollService(repository.NewPayrollRepository(db), employeeRepo), log),
		Payments: NewPaymentHandler(
			services.NewPaymentService(repository.NewPaymentRepository(db), employeeRepo, notificationService, log), log),
		Documents: NewDocumentHandler(
			services.NewDocumentService(repository.NewDocumentRepository(db), employeeRepo, blobs, notificationService, log), log),
		Identity:   authService,
		TaskLoader: taskService,
	}

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	routes.Register(r)

	return &apiTestEnv{t: t, db: db, router: r}
}

// login signs in as the employee named name and returns the session cookies
func (e *apiTestEnv) login(name string) []*http.Cookie {
	e.t.Helper()

	w := e.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    name + "@example.com",
		"password": testPassword,
	}, nil)
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	require.NotEmpty(e.t, cookies)
	return cookies
}

func (e *apiTestEnv) do(method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
