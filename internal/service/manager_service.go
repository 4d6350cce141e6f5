package service

import (
	"context"
	"math"
	"time"

	"urlaubsplanner/internal/model"
	"urlaubsplanner/internal/repository"

	"github.com/google/uuid"
)

// CanViewRegion is the pure region visibility rule. A super manager
// sees everything; everyone else sees a target only when both regions
// are set and equal. Missing region data fails closed: a manager with
// no assigned region sees nothing rather than everything.
func CanViewRegion(actorRole model.Role, actorRegion, targetRegion *uuid.UUID) bool {
	if actorRole.CanBypassRegionScope() {
		return true
	}
	if actorRegion == nil || targetRegion == nil {
		return false
	}
	return *actorRegion == *targetRegion
}

// --- DTOs ---

type TeamStatisticsEntry struct {
	UserID                string `json:"user_id"`
	Username              string `json:"username"`
	FullName              string `json:"full_name"`
	TotalVacationDays     int    `json:"total_vacation_days"`
	UsedVacationDays      int    `json:"used_vacation_days"`
	RemainingVacationDays int    `json:"remaining_vacation_days"`
	SickDays              int    `json:"sick_days"`
	HomeOfficeDays        int    `json:"home_office_days"`
	BusinessTripDays      int    `json:"business_trip_days"`
	TrainingDays          int    `json:"training_days"`
	RegionName            string `json:"region_name"`
}

type TeamCalendarEvent struct {
	ID                 string `json:"id"`
	EmployeeName       string `json:"employee_name"`
	EmployeeFullName   string `json:"employee_full_name"`
	StartDate          string `json:"start_date"`
	EndDate            string `json:"end_date"`
	AbsenceType        string `json:"absence_type"`
	AbsenceDisplayName string `json:"absence_display_name"`
	AbsenceColor       string `json:"absence_color"`
	Status             string `json:"status"`
	RepresentativeName string `json:"representative_name,omitempty"`
	DaysRequested      int    `json:"days_requested"`
}

// --- Interface ---

// ManagerService derives region-scoped views for managers. It only
// reads; every mutation goes through VacationService or AdminService.
type ManagerService interface {
	EmployeesInRegion(ctx context.Context, managerUsername string) ([]UserResponse, error)
	RequestsForRegion(ctx context.Context, managerUsername string) ([]VacationRequestResponse, error)
	HasAccessToRequest(ctx context.Context, managerUsername, requestID string) (bool, error)
	TeamStatistics(ctx context.Context, managerUsername string) ([]TeamStatisticsEntry, error)
	TeamCalendar(ctx context.Context, managerUsername, startDate, endDate string) ([]TeamCalendarEvent, error)
	OverloadWarnings(ctx context.Context, managerUsername string) (map[string]int, error)
}

type managerService struct {
	users     repository.UserRepository
	vacations repository.VacationRepository
}

func NewManagerService(users repository.UserRepository, vacations repository.VacationRepository) ManagerService {
	return &managerService{users: users, vacations: vacations}
}

// --- Implementation ---

// scopedManager loads the manager and fails when a regular manager has
// no region assigned.
func (s *managerService) scopedManager(ctx context.Context, managerUsername string) (*model.User, error) {
	manager, err := s.users.GetByUsername(ctx, managerUsername)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("manager", managerUsername)
		}
		return nil, err
	}
	if !manager.Role.CanBypassRegionScope() && manager.RegionID == nil {
		return nil, statef("manager must be assigned to a region: %s", managerUsername)
	}
	return manager, nil
}

func (s *managerService) employeesInScope(ctx context.Context, managerUsername string) ([]model.User, error) {
	manager, err := s.scopedManager(ctx, managerUsername)
	if err != nil {
		return nil, err
	}
	if manager.Role.CanBypassRegionScope() {
		return s.users.List(ctx)
	}
	return s.users.ListByRegion(ctx, *manager.RegionID)
}

func (s *managerService) requestsInScope(ctx context.Context, managerUsername string) ([]model.VacationRequest, error) {
	manager, err := s.scopedManager(ctx, managerUsername)
	if err != nil {
		return nil, err
	}
	if manager.Role.CanBypassRegionScope() {
		return s.vacations.ListAll(ctx)
	}
	return s.vacations.ListByRegion(ctx, *manager.RegionID)
}

func (s *managerService) EmployeesInRegion(ctx context.Context, managerUsername string) ([]UserResponse, error) {
	employees, err := s.employeesInScope(ctx, managerUsername)
	if err != nil {
		return nil, err
	}
	return toUserResponses(employees), nil
}

func (s *managerService) RequestsForRegion(ctx context.Context, managerUsername string) ([]VacationRequestResponse, error) {
	requests, err := s.requestsInScope(ctx, managerUsername)
	if err != nil {
		return nil, err
	}
	return toVacationResponses(requests), nil
}

// HasAccessToRequest resolves the request's owning employee and checks
// region equality. A dangling employee reference denies access instead
// of erroring: the request is simply invisible to the manager.
func (s *managerService) HasAccessToRequest(ctx context.Context, managerUsername, requestID string) (bool, error) {
	id, err := uuid.Parse(requestID)
	if err != nil {
		return false, validationf("invalid request id %q", requestID)
	}

	manager, err := s.users.GetByUsername(ctx, managerUsername)
	if err != nil {
		if isRecordNotFound(err) {
			return false, notFound("manager", managerUsername)
		}
		return false, err
	}

	request, err := s.vacations.GetByID(ctx, id)
	if err != nil {
		if isRecordNotFound(err) {
			return false, notFound("vacation request", requestID)
		}
		return false, err
	}

	if manager.Role.CanBypassRegionScope() {
		return true, nil
	}

	employee, err := s.users.GetByUsername(ctx, request.EmployeeName)
	if err != nil {
		if isRecordNotFound(err) {
			return false, nil
		}
		return false, err
	}

	return CanViewRegion(manager.Role, manager.RegionID, employee.RegionID), nil
}

func (s *managerService) TeamStatistics(ctx context.Context, managerUsername string) ([]TeamStatisticsEntry, error) {
	employees, err := s.employeesInScope(ctx, managerUsername)
	if err != nil {
		return nil, err
	}

	stats := make([]TeamStatisticsEntry, 0, len(employees))
	for i := range employees {
		emp := &employees[i]
		if emp.Role != model.RoleEmployee && emp.Role != model.RoleManager {
			continue
		}

		requests, err := s.vacations.ListByEmployee(ctx, emp.Username)
		if err != nil {
			return nil, err
		}

		daysByType := make(map[model.AbsenceType]int, len(model.AbsenceTypes))
		for _, req := range requests {
			if req.Status == model.StatusApproved {
				daysByType[req.AbsenceType] += req.DaysRequested()
			}
		}

		regionName := "Global"
		if emp.Region != nil {
			regionName = emp.Region.Name
		}

		stats = append(stats, TeamStatisticsEntry{
			UserID:                emp.ID.String(),
			Username:              emp.Username,
			FullName:              emp.FullName,
			TotalVacationDays:     emp.TotalVacationDays,
			UsedVacationDays:      emp.UsedVacationDays,
			RemainingVacationDays: emp.RemainingVacationDays(),
			SickDays:              daysByType[model.AbsenceSickLeave],
			HomeOfficeDays:        daysByType[model.AbsenceHomeOffice],
			BusinessTripDays:      daysByType[model.AbsenceBusinessTrip],
			TrainingDays:          daysByType[model.AbsenceTraining],
			RegionName:            regionName,
		})
	}
	return stats, nil
}

func (s *managerService) TeamCalendar(ctx context.Context, managerUsername, startDate, endDate string) ([]TeamCalendarEvent, error) {
	var windowStart, windowEnd time.Time
	if startDate != "" {
		parsed, err := parseDate("start_date", startDate)
		if err != nil {
			return nil, err
		}
		windowStart = parsed
	}
	if endDate != "" {
		parsed, err := parseDate("end_date", endDate)
		if err != nil {
			return nil, err
		}
		windowEnd = parsed
	}

	requests, err := s.requestsInScope(ctx, managerUsername)
	if err != nil {
		return nil, err
	}

	events := make([]TeamCalendarEvent, 0, len(requests))
	for i := range requests {
		req := &requests[i]
		if req.Status != model.StatusApproved && req.Status != model.StatusPending {
			continue
		}
		if !req.Overlaps(windowStart, windowEnd) {
			continue
		}

		fullName := req.EmployeeName
		if employee, err := s.users.GetByUsername(ctx, req.EmployeeName); err == nil {
			fullName = employee.FullName
		}

		events = append(events, TeamCalendarEvent{
			ID:                 req.ID.String(),
			EmployeeName:       req.EmployeeName,
			EmployeeFullName:   fullName,
			StartDate:          req.StartDate.Format(dateLayout),
			EndDate:            req.EndDate.Format(dateLayout),
			AbsenceType:        string(req.AbsenceType),
			AbsenceDisplayName: req.AbsenceType.DisplayName(),
			AbsenceColor:       req.AbsenceType.Color(),
			Status:             string(req.Status),
			RepresentativeName: req.RepresentativeName,
			DaysRequested:      req.DaysRequested(),
		})
	}
	return events, nil
}

// OverloadWarnings counts absent employees per calendar day over all
// approved and pending requests in scope, and returns the days where
// the count reaches half the team, rounded up. An empty team yields a
// threshold of zero, so every absent day qualifies.
func (s *managerService) OverloadWarnings(ctx context.Context, managerUsername string) (map[string]int, error) {
	requests, err := s.requestsInScope(ctx, managerUsername)
	if err != nil {
		return nil, err
	}
	team, err := s.employeesInScope(ctx, managerUsername)
	if err != nil {
		return nil, err
	}

	absencesPerDay := make(map[string]int)
	for i := range requests {
		req := &requests[i]
		if req.Status != model.StatusApproved && req.Status != model.StatusPending {
			continue
		}
		for day := req.StartDate; !day.After(req.EndDate); day = day.AddDate(0, 0, 1) {
			absencesPerDay[day.Format(dateLayout)]++
		}
	}

	threshold := int(math.Ceil(float64(len(team)) * 0.5))
	warnings := make(map[string]int)
	for day, count := range absencesPerDay {
		if count >= threshold {
			warnings[day] = count
		}
	}
	return warnings, nil
}
