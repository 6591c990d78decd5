package handlers

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/hr-operations-api/internal/dto"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/testutil"
)

func TestTaskHandler_CreateAndGet(t *testing.T) {
	env := newAPITestEnv(t)
	testutil.CreateEmployee(t, env.db, 10, "manager", models.RoleManager, testPassword)
	testutil.CreateEmployee(t, env.db, 20, "assignee", models.RoleEmployee, testPassword)
	testutil.CreateEmployee(t, env.db, 30, "helper", models.RoleEmployee, testPassword)
	manager := env.login("manager")

	w := env.do(http.MethodPost, "/api/tasks", map[string]interface{}{
		"title":        "Prepare onboarding",
		"assigned_to":  20,
		"assignee_ids": []uint64{30},
	}, manager)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created dto.TaskDTO
	decode(t, w, &created)
	assert.Equal(t, uint64(10), created.AssignedBy)
	assert.Equal(t, models.TaskPriorityMedium, created.Priority)
	assert.Equal(t, models.TaskStatusPending, created.Status)

	w = env.do(http.MethodGet, "/api/tasks/"+strconv.FormatUint(created.ID, 10), nil, env.login("helper"))
	require.Equal(t, http.StatusOK, w.Code)
	var fetched dto.TaskDTO
	decode(t, w, &fetched)
	assert.Equal(t, []uint64{30}, fetched.AssigneeIDs)

	w = env.do(http.MethodGet, "/api/tasks", nil, env.login("assignee"))
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.TaskListResponse
	decode(t, w, &list)
	assert.Equal(t, int64(1), list.TotalCount)
}

func TestTaskHandler_CreateRequiresManagerRole(t *testing.T) {
	env := newAPITestEnv(t)
	testutil.CreateEmployee(t, env.db, 20, "assignee", models.RoleEmployee, testPassword)

	w := env.do(http.MethodPost, "/api/tasks", map[string]interface{}{
		"title":       "Not allowed",
		"assigned_to": 20,
	}, env.login("assignee"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTaskHandler_StatusAndAssignees(t *testing.T) {
	env := newAPITestEnv(t)
	testutil.CreateEmployee(t, env.db, 10, "manager", models.RoleManager, testPassword)
	testutil.CreateEmployee(t, env.db, 20, "assignee", models.RoleEmployee, testPassword)
	testutil.CreateEmployee(t, env.db, 30, "helper", models.RoleEmployee, testPassword)
	testutil.CreateTask(t, env.db, 1, 10, 20)

	w := env.do(http.MethodPatch, "/api/tasks/1/status", map[string]string{"status": "in_progress"}, env.login("assignee"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodPatch, "/api/tasks/1/status", map[string]string{"status": "done"}, env.login("assignee"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Only the manager changes assignees
	w = env.do(http.MethodPost, "/api/tasks/1/assignees", map[string][]uint64{"employee_ids": {30}}, env.login("assignee"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPost, "/api/tasks/1/assignees", map[string][]uint64{"employee_ids": {30}}, env.login("manager"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodDelete, "/api/tasks/1/assignees/20", nil, env.login("manager"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/api/tasks/1", nil, env.login("helper"))
	assert.Equal(t, http.StatusOK, w.Code)
}
