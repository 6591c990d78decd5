package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/hr-operations-api/internal/logger"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/repository"
	"github.com/yukikurage/hr-operations-api/internal/testutil"
	"github.com/yukikurage/hr-operations-api/internal/utils"
)

func TestPayrollService_Upsert(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateEmployee(t, db, 20, "bob", models.RoleEmployee, "password123")
	employees := repository.NewEmployeeRepository(db)
	service := NewPayrollService(repository.NewPayrollRepository(db), employees)
	ctx := context.Background()

	_, err := service.Get(ctx, assigneeActor, 20)
	assert.ErrorIs(t, err, ErrPayrollNotFound)

	structure, err := service.Upsert(ctx, hrActor, 20, UpsertPayrollInput{
		Currency:   "eur",
		BaseSalary: 400000,
		Allowances: 25000,
		Deductions: 90000,
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", structure.Currency)
	assert.Equal(t, int64(335000), structure.NetPay())

	structure, err = service.Upsert(ctx, hrActor, 20, UpsertPayrollInput{Currency: "EUR", BaseSalary: 410000})
	require.NoError(t, err)
	assert.Equal(t, int64(410000), structure.NetPay())

	var rows int64
	require.NoError(t, db.Model(&models.PayrollStructure{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	_, err = service.Get(ctx, helperActor, 20)
	assert.ErrorIs(t, err, ErrPayrollAccessDenied)

	_, err = service.Upsert(ctx, hrActor, 20, UpsertPayrollInput{Currency: "EURO", BaseSalary: 1})
	assert.ErrorIs(t, err, ErrInvalidCurrency)
	_, err = service.Upsert(ctx, hrActor, 20, UpsertPayrollInput{Currency: "ABC", BaseSalary: 1})
	assert.ErrorIs(t, err, ErrInvalidCurrency)
	_, err = service.Upsert(ctx, hrActor, 20, UpsertPayrollInput{Currency: "EUR", BaseSalary: 1, Deductions: 2})
	assert.ErrorIs(t, err, ErrNegativeNetPay)
	_, err = service.Upsert(ctx, assigneeActor, 20, UpsertPayrollInput{Currency: "EUR"})
	assert.ErrorIs(t, err, ErrHROnly)
}

func TestPaymentService_Lifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateEmployee(t, db, 20, "bob", models.RoleEmployee, "password123")
	notifications := NewNotificationService(repository.NewNotificationRepository(db))
	service := NewPaymentService(repository.NewPaymentRepository(db), repository.NewEmployeeRepository(db), notifications, logger.Discard())
	ctx := context.Background()

	payment, err := service.Create(ctx, hrActor, CreatePaymentInput{
		EmployeeID: 20,
		Amount:     335000,
		Currency:   "eur",
		Reference:  "PAY-2026-03",
		Period:     "2026-03",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Nil(t, payment.PaidAt)

	paid, err := service.UpdateStatus(ctx, hrActor, payment.ID, models.PaymentStatusPaid)
	require.NoError(t, err)
	assert.NotNil(t, paid.PaidAt)

	failed, err := service.UpdateStatus(ctx, hrActor, payment.ID, models.PaymentStatusFailed)
	require.NoError(t, err)
	assert.Nil(t, failed.PaidAt)

	count, err := notifications.UnreadCount(ctx, assigneeActor)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	payments, total, err := service.List(ctx, assigneeActor, nil, utils.NewPaginationParams(1, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, payments, 1)

	other := uint64(20)
	_, _, err = service.List(ctx, helperActor, &other, utils.NewPaginationParams(1, 20))
	assert.ErrorIs(t, err, ErrPaymentAccessDenied)

	_, err = service.Create(ctx, hrActor, CreatePaymentInput{EmployeeID: 20, Amount: 1, Currency: "EUR", Period: "2026-13"})
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	_, err = service.Create(ctx, hrActor, CreatePaymentInput{EmployeeID: 20, Amount: 1, Currency: "EUR", Period: "March 2026"})
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	_, err = service.Create(ctx, hrActor, CreatePaymentInput{EmployeeID: 20, Amount: 0, Currency: "EUR"})
	assert.ErrorIs(t, err, ErrInvalidPaymentAmount)
	_, err = service.UpdateStatus(ctx, hrActor, 999, models.PaymentStatusPaid)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestMilestoneService(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateEmployee(t, db, 20, "bob", models.RoleEmployee, "password123")
	service := NewMilestoneService(repository.NewMilestoneRepository(db), repository.NewEmployeeRepository(db))
	ctx := context.Background()

	milestone, err := service.Create(ctx, hrActor, CreateMilestoneInput{EmployeeID: 20, Title: "Probation review"})
	require.NoError(t, err)

	achieved := true
	updated, err := service.Update(ctx, hrActor, milestone.ID, UpdateMilestoneInput{Achieved: &achieved})
	require.NoError(t, err)
	assert.NotNil(t, updated.AchievedAt)

	own, err := service.List(ctx, assigneeActor, 0)
	require.NoError(t, err)
	assert.Len(t, own, 1)

	_, err = service.List(ctx, helperActor, 20)
	assert.ErrorIs(t, err, ErrMilestoneAccessDenied)
	_, err = service.Create(ctx, assigneeActor, CreateMilestoneInput{EmployeeID: 20, Title: "x"})
	assert.ErrorIs(t, err, ErrHROnly)
	_, err = service.Create(ctx, hrActor, CreateMilestoneInput{EmployeeID: 999, Title: "x"})
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	require.NoError(t, service.Delete(ctx, hrActor, milestone.ID))
	assert.ErrorIs(t, service.Delete(ctx, hrActor, milestone.ID), ErrMilestoneNotFound)
}
