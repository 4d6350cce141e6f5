package service_test

import (
	"context"
	"errors"
	"testing"

	"urlaubsplanner/internal/model"
	"urlaubsplanner/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVacationService(f *fixture) service.VacationService {
	return service.NewVacationService(f.users, f.vacations, f.audits, f.txm, nil, testClock())
}

func TestCreateRequest_CountsDaysInclusive(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "max", model.RoleEmployee, nil, 30, 0)
	svc := newVacationService(f)

	resp, err := svc.Create(context.Background(), service.CreateVacationRequestDTO{
		EmployeeName: "max",
		StartDate:    "2025-06-09",
		EndDate:      "2025-06-13",
		AbsenceType:  "VACATION",
	})
	require.NoError(t, err)

	// Monday through Friday, both ends inclusive.
	assert.Equal(t, 5, resp.DaysRequested)
	assert.Equal(t, "PENDING", resp.Status)
}

func TestCreateRequest_SingleDay(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "max", model.RoleEmployee, nil, 30, 0)
	svc := newVacationService(f)

	resp, err := svc.Create(context.Background(), service.CreateVacationRequestDTO{
		EmployeeName: "max",
		StartDate:    "2025-06-09",
		EndDate:      "2025-06-09",
		AbsenceType:  "SICK_LEAVE",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.DaysRequested)
}

func TestCreateRequest_EndBeforeStart(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "max", model.RoleEmployee, nil, 30, 0)
	svc := newVacationService(f)

	_, err := svc.Create(context.Background(), service.CreateVacationRequestDTO{
		EmployeeName: "max",
		StartDate:    "2025-06-13",
		EndDate:      "2025-06-09",
		AbsenceType:  "VACATION",
	})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestCreateRequest_UnknownEmployee(t *testing.T) {
	f := newFixture(t)
	svc := newVacationService(f)

	_, err := svc.Create(context.Background(), service.CreateVacationRequestDTO{
		EmployeeName: "ghost",
		StartDate:    "2025-06-09",
		EndDate:      "2025-06-10",
		AbsenceType:  "VACATION",
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCreateRequest_InsufficientBalance(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "max", model.RoleEmployee, nil, 30, 28) // 2 days left
	svc := newVacationService(f)

	_, err := svc.Create(context.Background(), service.CreateVacationRequestDTO{
		EmployeeName: "max",
		StartDate:    "2025-06-09",
		EndDate:      "2025-06-11", // 3 days
		AbsenceType:  "VACATION",
	})
	require.ErrorIs(t, err, service.ErrInsufficientBalance)

	var balanceErr *service.InsufficientBalanceError
	require.True(t, errors.As(err, &balanceErr))
	assert.Equal(t, "max", balanceErr.Employee)
	assert.Equal(t, 2, balanceErr.Available)
	assert.Equal(t, 3, balanceErr.Requested)

	// Nothing may survive the failed transaction.
	var requestCount int64
	require.NoError(t, f.db.Model(&model.VacationRequest{}).Count(&requestCount).Error)
	assert.Zero(t, requestCount)
	assert.Empty(t, f.auditRows(t, model.ActionCreateRequest))
}

func TestCreateRequest_LeavesBalanceUntouched(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "max", model.RoleEmployee, nil, 30, 5)
	svc := newVacationService(f)

	_, err := svc.Create(context.Background(), service.CreateVacationRequestDTO{
		EmployeeName: "max",
		StartDate:    "2025-06-09",
		EndDate:      "2025-06-13",
		AbsenceType:  "VACATION",
	})
	require.NoError(t, err)

	// Days are only booked at approval time.
	assert.Equal(t, 5, f.reloadUser(t, "max").UsedVacationDays)

	rows := f.auditRows(t, model.ActionCreateRequest)
	require.Len(t, rows, 1)
	assert.Equal(t, "max", rows[0].PerformedBy)
	assert.Contains(t, rows[0].Details, "5 days")
}

func TestApprove_BooksDaysAgainstBalance(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "max", model.RoleEmployee, nil, 30, 0)
	req := f.seedRequest(t, "max", model.StatusPending, model.AbsenceVacation, "2025-06-09", "2025-06-13")
	svc := newVacationService(f)

	resp, err := svc.Approve(context.Background(), req.ID.String(), "manager.dortmund", "ok")
	require.NoError(t, err)

	assert.Equal(t, "APPROVED", resp.Status)
	assert.Equal(t, "manager.dortmund", resp.ApprovedBy)
	assert.Equal(t, "ok", resp.ApprovalReason)

	user := f.reloadUser(t, "max")
	assert.Equal(t, 5, user.UsedVacationDays)
	assert.Equal(t, 25, user.RemainingVacationDays())

	rows := f.auditRows(t, model.ActionApproveRequest)
	require.Len(t, rows, 1)
	assert.Equal(t, "manager.dortmund", rows[0].PerformedBy)
	require.NotNil(t, rows[0].RequestID)
	assert.Equal(t, req.ID, *rows[0].RequestID)
}

func TestApprove_Twice(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "max", model.RoleEmployee, nil, 30, 0)
	req := f.seedRequest(t, "max", model.StatusPending, model.AbsenceVacation, "2025-06-09", "2025-06-13")
	svc := newVacationService(f)

	_, err := svc.Approve(context.Background(), req.ID.String(), "manager.dortmund", "")
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), req.ID.String(), "manager.dortmund", "")
	assert.ErrorIs(t, err, service.ErrInvalidState)

	// The balance is charged exactly once.
	assert.Equal(t, 5, f.reloadUser(t, "max").UsedVacationDays)
}

func TestReject_DoesNotTouchBalance(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "max", model.RoleEmployee, nil, 30, 3)
	req := f.seedRequest(t, "max", model.StatusPending, model.AbsenceVacation, "2025-06-09", "2025-06-13")
	svc := newVacationService(f)

	resp, err := svc.Reject(context.Background(), req.ID.String(), "manager.dortmund", "team is shorthanded")
	require.NoError(t, err)

	assert.Equal(t, "REJECTED", resp.Status)
	assert.Equal(t, 3, f.reloadUser(t, "max").UsedVacationDays)

	rows := f.auditRows(t, model.ActionRejectRequest)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].Details, "team is shorthanded")
}

func TestApprove_AfterReject(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "max", model.RoleEmployee, nil, 30, 0)
	req := f.seedRequest(t, "max", model.StatusRejected, model.AbsenceVacation, "2025-06-09", "2025-06-13")
	svc := newVacationService(f)

	_, err := svc.Approve(context.Background(), req.ID.String(), "manager.dortmund", "")
	assert.ErrorIs(t, err, service.ErrInvalidState)
	assert.Zero(t, f.reloadUser(t, "max").UsedVacationDays)
}

func TestApprove_UnknownRequest(t *testing.T) {
	f := newFixture(t)
	svc := newVacationService(f)

	_, err := svc.Approve(context.Background(), "9f4a7e58-0000-4000-8000-000000000000", "manager.dortmund", "")
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = svc.Approve(context.Background(), "not-a-uuid", "manager.dortmund", "")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestListByEmployee(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "max", model.RoleEmployee, nil, 30, 0)
	f.seedUser(t, "erika", model.RoleEmployee, nil, 30, 0)
	f.seedRequest(t, "max", model.StatusPending, model.AbsenceVacation, "2025-06-09", "2025-06-13")
	f.seedRequest(t, "erika", model.StatusPending, model.AbsenceVacation, "2025-07-01", "2025-07-04")
	svc := newVacationService(f)

	requests, err := svc.ListByEmployee(context.Background(), "max")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "max", requests[0].EmployeeName)
	assert.Equal(t, "Urlaub", requests[0].AbsenceDisplayName)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
