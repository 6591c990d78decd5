package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/testutil"
)

type LeaveHandlerTestSuite struct {
	suite.Suite
	env *apiTestEnv
}

func (suite *LeaveHandlerTestSuite) SetupTest() {
	suite.env = newAPITestEnv(suite.T())
	testutil.CreateEmployee(suite.T(), suite.env.db, 20, "emma", models.RoleEmployee, testPassword)
	testutil.CreateEmployee(suite.T(), suite.env.db, 50, "hana", models.RoleHR, testPassword)

	w := suite.env.do(http.MethodPut, "/api/leave-balances", map[string]interface{}{
		"employee_id": 20,
		"leave_type":  "annual",
		"year":        2026,
		"total_days":  5,
	}, suite.env.login("hana"))
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
}

func (suite *LeaveHandlerTestSuite) requestLeave(start, end string) (int, models.LeaveRequest, apierrors.APIError) {
	w := suite.env.do(http.MethodPost, "/api/leave-requests", map[string]string{
		"leave_type": "annual",
		"start_date": start,
		"end_date":   end,
	}, suite.env.login("emma"))

	var created models.LeaveRequest
	var failure apierrors.APIError
	if w.Code == http.StatusCreated {
		decode(suite.T(), w, &created)
	} else {
		decode(suite.T(), w, &failure)
	}
	return w.Code, created, failure
}

func (suite *LeaveHandlerTestSuite) TestRequestApproveAndBalance() {
	code, created, _ := suite.requestLeave("2026-03-02", "2026-03-04")
	suite.Require().Equal(http.StatusCreated, code)
	suite.Equal(float64(3), created.Days)
	suite.Equal(models.LeaveStatusPending, created.Status)

	w := suite.env.do(http.MethodPost, fmt.Sprintf("/api/leave-requests/%d/approve", created.ID), nil, suite.env.login("hana"))
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var approved models.LeaveRequest
	decode(suite.T(), w, &approved)
	suite.Equal(models.LeaveStatusApproved, approved.Status)

	w = suite.env.do(http.MethodGet, "/api/leave-balances?year=2026", nil, suite.env.login("emma"))
	suite.Require().Equal(http.StatusOK, w.Code)
	var body struct {
		Balances []models.LeaveBalance `json:"balances"`
	}
	decode(suite.T(), w, &body)
	suite.Require().Len(body.Balances, 1)
	suite.Equal(float64(3), body.Balances[0].UsedDays)

	// The allowance cannot drop below what was already taken
	w = suite.env.do(http.MethodPut, "/api/leave-balances", map[string]interface{}{
		"employee_id": 20,
		"leave_type":  "annual",
		"year":        2026,
		"total_days":  2,
	}, suite.env.login("hana"))
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *LeaveHandlerTestSuite) TestRejectsMalformedDates() {
	code, _, failure := suite.requestLeave("03/02/2026", "2026-03-04")
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("start_date must be formatted as YYYY-MM-DD", failure.Message)

	code, _, failure = suite.requestLeave("2026-03-02", "2026-3-4")
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("end_date must be formatted as YYYY-MM-DD", failure.Message)

	code, _, failure = suite.requestLeave("2026-03-04", "2026-03-02")
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("end_date must not be before start_date", failure.Message)
}

func (suite *LeaveHandlerTestSuite) TestAccessRules() {
	emma := suite.env.login("emma")

	w := suite.env.do(http.MethodPut, "/api/leave-balances", map[string]interface{}{
		"employee_id": 20,
		"leave_type":  "annual",
		"year":        2026,
		"total_days":  30,
	}, emma)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.env.do(http.MethodGet, "/api/leave-balances?employee_id=50", nil, emma)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.env.do(http.MethodGet, "/api/leave-balances?employee_id=abc", nil, emma)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(http.MethodGet, "/api/leave-balances?year=last", nil, emma)
	suite.Equal(http.StatusBadRequest, w.Code)

	_, created, _ := suite.requestLeave("2026-03-02", "2026-03-02")
	w = suite.env.do(http.MethodPost, fmt.Sprintf("/api/leave-requests/%d/approve", created.ID), nil, emma)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.env.do(http.MethodPost, fmt.Sprintf("/api/leave-requests/%d/cancel", created.ID), nil, emma)
	suite.Require().Equal(http.StatusOK, w.Code)
	var cancelled models.LeaveRequest
	decode(suite.T(), w, &cancelled)
	suite.Equal(models.LeaveStatusCancelled, cancelled.Status)
}

func TestLeaveHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(LeaveHandlerTestSuite))
}
