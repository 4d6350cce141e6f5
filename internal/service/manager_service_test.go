package service_test

import (
	"context"
	"testing"

	"urlaubsplanner/internal/model"
	"urlaubsplanner/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanViewRegion(t *testing.T) {
	regionA := uuid.New()
	regionB := uuid.New()

	tests := []struct {
		name         string
		role         model.Role
		actorRegion  *uuid.UUID
		targetRegion *uuid.UUID
		want         bool
	}{
		{"super manager sees everything", model.RoleSuperManager, nil, &regionA, true},
		{"same region", model.RoleManager, &regionA, &regionA, true},
		{"different region", model.RoleManager, &regionA, &regionB, false},
		{"manager without region fails closed", model.RoleManager, nil, &regionA, false},
		{"target without region fails closed", model.RoleManager, &regionA, nil, false},
		{"both without region fails closed", model.RoleManager, nil, nil, false},
		{"employee same region", model.RoleEmployee, &regionA, &regionA, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.CanViewRegion(tt.role, tt.actorRegion, tt.targetRegion))
		})
	}
}

func TestHasAccessToRequest(t *testing.T) {
	f := newFixture(t)
	dortmund := f.seedRegion(t, "Dortmund")
	hamburg := f.seedRegion(t, "Hamburg")
	f.seedUser(t, "manager.dortmund", model.RoleManager, dortmund, 30, 0)
	f.seedUser(t, "manager.hamburg", model.RoleManager, hamburg, 30, 0)
	f.seedUser(t, "admin", model.RoleSuperManager, nil, 30, 0)
	f.seedUser(t, "max", model.RoleEmployee, dortmund, 30, 0)
	req := f.seedRequest(t, "max", model.StatusPending, model.AbsenceVacation, "2025-06-09", "2025-06-13")
	svc := service.NewManagerService(f.users, f.vacations)

	allowed, err := svc.HasAccessToRequest(context.Background(), "manager.dortmund", req.ID.String())
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = svc.HasAccessToRequest(context.Background(), "manager.hamburg", req.ID.String())
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = svc.HasAccessToRequest(context.Background(), "admin", req.ID.String())
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestHasAccessToRequest_DanglingEmployee(t *testing.T) {
	f := newFixture(t)
	dortmund := f.seedRegion(t, "Dortmund")
	f.seedUser(t, "manager.dortmund", model.RoleManager, dortmund, 30, 0)
	req := f.seedRequest(t, "deleted.employee", model.StatusPending, model.AbsenceVacation, "2025-06-09", "2025-06-13")
	svc := service.NewManagerService(f.users, f.vacations)

	// The request stays invisible instead of erroring.
	allowed, err := svc.HasAccessToRequest(context.Background(), "manager.dortmund", req.ID.String())
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestEmployeesInRegion_ManagerWithoutRegion(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "regionless", model.RoleManager, nil, 30, 0)
	svc := service.NewManagerService(f.users, f.vacations)

	_, err := svc.EmployeesInRegion(context.Background(), "regionless")
	assert.ErrorIs(t, err, service.ErrInvalidState)
}

func TestEmployeesInRegion_Scoping(t *testing.T) {
	f := newFixture(t)
	dortmund := f.seedRegion(t, "Dortmund")
	hamburg := f.seedRegion(t, "Hamburg")
	f.seedUser(t, "manager.dortmund", model.RoleManager, dortmund, 30, 0)
	f.seedUser(t, "admin", model.RoleSuperManager, nil, 30, 0)
	f.seedUser(t, "max", model.RoleEmployee, dortmund, 30, 0)
	f.seedUser(t, "anna", model.RoleEmployee, hamburg, 30, 0)
	svc := service.NewManagerService(f.users, f.vacations)

	team, err := svc.EmployeesInRegion(context.Background(), "manager.dortmund")
	require.NoError(t, err)
	require.Len(t, team, 2) // manager + max, anna is out of scope

	all, err := svc.EmployeesInRegion(context.Background(), "admin")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestRequestsForRegion(t *testing.T) {
	f := newFixture(t)
	dortmund := f.seedRegion(t, "Dortmund")
	hamburg := f.seedRegion(t, "Hamburg")
	f.seedUser(t, "manager.dortmund", model.RoleManager, dortmund, 30, 0)
	f.seedUser(t, "max", model.RoleEmployee, dortmund, 30, 0)
	f.seedUser(t, "anna", model.RoleEmployee, hamburg, 30, 0)
	f.seedRequest(t, "max", model.StatusPending, model.AbsenceVacation, "2025-06-09", "2025-06-13")
	f.seedRequest(t, "anna", model.StatusPending, model.AbsenceVacation, "2025-06-09", "2025-06-13")
	svc := service.NewManagerService(f.users, f.vacations)

	requests, err := svc.RequestsForRegion(context.Background(), "manager.dortmund")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "max", requests[0].EmployeeName)
}

func TestTeamStatistics_ApprovedDaysOnly(t *testing.T) {
	f := newFixture(t)
	dortmund := f.seedRegion(t, "Dortmund")
	f.seedUser(t, "manager.dortmund", model.RoleManager, dortmund, 30, 0)
	f.seedUser(t, "max", model.RoleEmployee, dortmund, 30, 5)
	f.seedRequest(t, "max", model.StatusApproved, model.AbsenceSickLeave, "2025-06-09", "2025-06-10") // 2 days
	f.seedRequest(t, "max", model.StatusPending, model.AbsenceSickLeave, "2025-07-01", "2025-07-04")  // must not count
	f.seedRequest(t, "max", model.StatusApproved, model.AbsenceHomeOffice, "2025-06-16", "2025-06-16")
	svc := service.NewManagerService(f.users, f.vacations)

	stats, err := svc.TeamStatistics(context.Background(), "manager.dortmund")
	require.NoError(t, err)
	require.Len(t, stats, 2)

	var max *service.TeamStatisticsEntry
	for i := range stats {
		if stats[i].Username == "max" {
			max = &stats[i]
		}
	}
	require.NotNil(t, max)
	assert.Equal(t, 2, max.SickDays)
	assert.Equal(t, 1, max.HomeOfficeDays)
	assert.Equal(t, 25, max.RemainingVacationDays)
	assert.Equal(t, "Dortmund", max.RegionName)
}

func TestTeamStatistics_GlobalRegionFallback(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "admin", model.RoleSuperManager, nil, 30, 0)
	f.seedUser(t, "floating", model.RoleEmployee, nil, 30, 0)
	svc := service.NewManagerService(f.users, f.vacations)

	stats, err := svc.TeamStatistics(context.Background(), "admin")
	require.NoError(t, err)
	// The super manager itself is excluded from the roster.
	require.Len(t, stats, 1)
	assert.Equal(t, "Global", stats[0].RegionName)
}

func TestTeamCalendar_WindowFilter(t *testing.T) {
	f := newFixture(t)
	dortmund := f.seedRegion(t, "Dortmund")
	f.seedUser(t, "manager.dortmund", model.RoleManager, dortmund, 30, 0)
	f.seedUser(t, "max", model.RoleEmployee, dortmund, 30, 0)
	f.seedRequest(t, "max", model.StatusApproved, model.AbsenceVacation, "2025-06-09", "2025-06-13")
	f.seedRequest(t, "max", model.StatusPending, model.AbsenceHomeOffice, "2025-06-30", "2025-07-02")
	f.seedRequest(t, "max", model.StatusRejected, model.AbsenceVacation, "2025-06-10", "2025-06-11")
	f.seedRequest(t, "max", model.StatusApproved, model.AbsenceVacation, "2025-08-01", "2025-08-05")
	svc := service.NewManagerService(f.users, f.vacations)

	events, err := svc.TeamCalendar(context.Background(), "manager.dortmund", "2025-06-01", "2025-06-30")
	require.NoError(t, err)
	// Rejected and out-of-window requests are dropped. The request
	// crossing the window edge still counts.
	require.Len(t, events, 2)
	for _, event := range events {
		assert.Equal(t, "Test max", event.EmployeeFullName)
		assert.NotEmpty(t, event.AbsenceColor)
	}
}

func TestTeamCalendar_OpenWindow(t *testing.T) {
	f := newFixture(t)
	dortmund := f.seedRegion(t, "Dortmund")
	f.seedUser(t, "manager.dortmund", model.RoleManager, dortmund, 30, 0)
	f.seedUser(t, "max", model.RoleEmployee, dortmund, 30, 0)
	f.seedRequest(t, "max", model.StatusApproved, model.AbsenceVacation, "2025-06-09", "2025-06-13")
	svc := service.NewManagerService(f.users, f.vacations)

	events, err := svc.TeamCalendar(context.Background(), "manager.dortmund", "", "")
	require.NoError(t, err)
	assert.Len(t, events, 1)

	_, err = svc.TeamCalendar(context.Background(), "manager.dortmund", "bogus", "")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestOverloadWarnings(t *testing.T) {
	f := newFixture(t)
	dortmund := f.seedRegion(t, "Dortmund")
	f.seedUser(t, "manager.dortmund", model.RoleManager, dortmund, 30, 0)
	f.seedUser(t, "max", model.RoleEmployee, dortmund, 30, 0)
	f.seedUser(t, "erika", model.RoleEmployee, dortmund, 30, 0)
	f.seedUser(t, "hans", model.RoleEmployee, dortmund, 30, 0)
	// Team of 4, threshold 2. Two absences overlap on June 10 only.
	f.seedRequest(t, "max", model.StatusApproved, model.AbsenceVacation, "2025-06-09", "2025-06-10")
	f.seedRequest(t, "erika", model.StatusPending, model.AbsenceVacation, "2025-06-10", "2025-06-11")
	svc := service.NewManagerService(f.users, f.vacations)

	warnings, err := svc.OverloadWarnings(context.Background(), "manager.dortmund")
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, 2, warnings["2025-06-10"])
}

func TestOverloadWarnings_SmallestTeam(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "admin", model.RoleSuperManager, nil, 30, 0)
	// A dangling request is still visible to the super manager. Team
	// size 1 gives threshold 1, so every absent day qualifies.
	f.seedRequest(t, "former.employee", model.StatusApproved, model.AbsenceVacation, "2025-06-09", "2025-06-09")
	svc := service.NewManagerService(f.users, f.vacations)

	warnings, err := svc.OverloadWarnings(context.Background(), "admin")
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, 1, warnings["2025-06-09"])
}

func TestOverloadWarnings_RejectedIgnored(t *testing.T) {
	f := newFixture(t)
	dortmund := f.seedRegion(t, "Dortmund")
	f.seedUser(t, "manager.dortmund", model.RoleManager, dortmund, 30, 0)
	f.seedUser(t, "max", model.RoleEmployee, dortmund, 30, 0)
	f.seedRequest(t, "max", model.StatusRejected, model.AbsenceVacation, "2025-06-09", "2025-06-10")
	svc := service.NewManagerService(f.users, f.vacations)

	warnings, err := svc.OverloadWarnings(context.Background(), "manager.dortmund")
	require.NoError(t, err)
	assert.Empty(t, warnings)
}
