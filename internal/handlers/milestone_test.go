package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/testutil"
)

type milestoneListBody struct {
	Milestones []models.Milestone `json:"milestones"`
}

func TestMilestoneHandler_Lifecycle(t *testing.T) {
	env := newAPITestEnv(t)
	testutil.CreateEmployee(t, env.db, 20, "emma", models.RoleEmployee, testPassword)
	testutil.CreateEmployee(t, env.db, 50, "hana", models.RoleHR, testPassword)
	hr := env.login("hana")
	emma := env.login("emma")

	w := env.do(http.MethodPost, "/api/milestones", map[string]interface{}{
		"employee_id": 20,
		"title":       "Probation review",
		"due_date":    "2026-06-30T00:00:00Z",
	}, hr)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Milestone
	decode(t, w, &created)
	require.NotNil(t, created.DueDate)
	assert.Nil(t, created.AchievedAt)

	w = env.do(http.MethodGet, "/api/milestones", nil, emma)
	require.Equal(t, http.StatusOK, w.Code)
	var list milestoneListBody
	decode(t, w, &list)
	require.Len(t, list.Milestones, 1)
	assert.Equal(t, "Probation review", list.Milestones[0].Title)

	w = env.do(http.MethodPatch, fmt.Sprintf("/api/milestones/%d", created.ID), map[string]bool{"achieved": true}, hr)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var achieved models.Milestone
	decode(t, w, &achieved)
	assert.NotNil(t, achieved.AchievedAt)

	w = env.do(http.MethodDelete, fmt.Sprintf("/api/milestones/%d", created.ID), nil, hr)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(http.MethodGet, "/api/milestones?employee_id=20", nil, hr)
	require.Equal(t, http.StatusOK, w.Code)
	list = milestoneListBody{}
	decode(t, w, &list)
	assert.Empty(t, list.Milestones)
}

func TestMilestoneHandler_Rejections(t *testing.T) {
	env := newAPITestEnv(t)
	testutil.CreateEmployee(t, env.db, 20, "emma", models.RoleEmployee, testPassword)
	testutil.CreateEmployee(t, env.db, 50, "hana", models.RoleHR, testPassword)
	hr := env.login("hana")
	emma := env.login("emma")

	w := env.do(http.MethodPost, "/api/milestones", map[string]interface{}{"employee_id": 20}, hr)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/milestones", map[string]interface{}{
		"employee_id": 999,
		"title":       "Ghost",
	}, hr)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodPost, "/api/milestones", map[string]interface{}{
		"employee_id": 20,
		"title":       "Self-awarded",
	}, emma)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodGet, "/api/milestones?employee_id=50", nil, emma)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodGet, "/api/milestones?employee_id=x", nil, emma)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodDelete, "/api/milestones/999", nil, hr)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
