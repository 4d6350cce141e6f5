package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"urlaubsplanner/internal/model"
	"urlaubsplanner/internal/repository"
	"urlaubsplanner/internal/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type clientIPKey struct{}

// ContextWithClientIP attaches the caller's source address so audit
// rows written further down can record it.
func ContextWithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func clientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// --- DTOs ---

type CreateVacationRequestDTO struct {
	EmployeeName       string `json:"employee_name" binding:"required"`
	StartDate          string `json:"start_date" binding:"required"` // 2006-01-02
	EndDate            string `json:"end_date" binding:"required"`   // 2006-01-02
	AbsenceType        string `json:"absence_type" binding:"required,oneof=VACATION SICK_LEAVE HOME_OFFICE BUSINESS_TRIP TRAINING"`
	Notes              string `json:"notes"`
	RepresentativeName string `json:"representative_name"`
}

type VacationRequestResponse struct {
	ID                 string `json:"id"`
	EmployeeName       string `json:"employee_name"`
	StartDate          string `json:"start_date"`
	EndDate            string `json:"end_date"`
	DaysRequested      int    `json:"days_requested"`
	Status             string `json:"status"`
	AbsenceType        string `json:"absence_type"`
	AbsenceDisplayName string `json:"absence_display_name"`
	AbsenceColor       string `json:"absence_color"`
	Notes              string `json:"notes,omitempty"`
	RepresentativeName string `json:"representative_name,omitempty"`
	ApprovalReason     string `json:"approval_reason,omitempty"`
	ApprovedBy         string `json:"approved_by,omitempty"`
	CreatedAt          string `json:"created_at"`
}

// --- Interface ---

// VacationService owns the request lifecycle and the employee's
// vacation balance bookkeeping.
type VacationService interface {
	Create(ctx context.Context, dto CreateVacationRequestDTO) (VacationRequestResponse, error)
	Approve(ctx context.Context, id string, approverName, reason string) (VacationRequestResponse, error)
	Reject(ctx context.Context, id string, rejecterName, reason string) (VacationRequestResponse, error)
	ListByEmployee(ctx context.Context, employeeName string) ([]VacationRequestResponse, error)
	ListAll(ctx context.Context) ([]VacationRequestResponse, error)
}

type vacationService struct {
	users     repository.UserRepository
	vacations repository.VacationRepository
	audits    repository.AuditRepository
	txm       repository.TransactionManager
	hub       *websocket.Hub
	now       func() time.Time
}

// NewVacationService wires the ledger. The clock is injected so tests
// can pin creation dates and audit timestamps.
func NewVacationService(
	users repository.UserRepository,
	vacations repository.VacationRepository,
	audits repository.AuditRepository,
	txm repository.TransactionManager,
	hub *websocket.Hub,
	now func() time.Time,
) VacationService {
	if now == nil {
		now = time.Now
	}
	return &vacationService{
		users:     users,
		vacations: vacations,
		audits:    audits,
		txm:       txm,
		hub:       hub,
		now:       now,
	}
}

// --- Implementation ---

const dateLayout = "2006-01-02"

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, validationf("invalid %s %q, expected YYYY-MM-DD", field, value)
	}
	return model.TruncateToDay(t), nil
}

func (s *vacationService) Create(ctx context.Context, dto CreateVacationRequestDTO) (VacationRequestResponse, error) {
	start, err := parseDate("start_date", dto.StartDate)
	if err != nil {
		return VacationRequestResponse{}, err
	}
	end, err := parseDate("end_date", dto.EndDate)
	if err != nil {
		return VacationRequestResponse{}, err
	}
	if end.Before(start) {
		return VacationRequestResponse{}, validationf("end date cannot be before start date")
	}

	absenceType := model.AbsenceType(dto.AbsenceType)
	if !absenceType.Valid() {
		return VacationRequestResponse{}, validationf("unknown absence type %q", dto.AbsenceType)
	}

	request := model.VacationRequest{
		EmployeeName:       dto.EmployeeName,
		StartDate:          start,
		EndDate:            end,
		Status:             model.StatusPending,
		AbsenceType:        absenceType,
		Notes:              dto.Notes,
		RepresentativeName: dto.RepresentativeName,
		CreatedAt:          model.TruncateToDay(s.now()),
	}
	daysRequested := request.DaysRequested()

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		user, err := s.users.GetByUsername(txCtx, dto.EmployeeName)
		if err != nil {
			if isRecordNotFound(err) {
				return notFound("user", dto.EmployeeName)
			}
			return err
		}

		if user.RemainingVacationDays() < daysRequested {
			return &InsufficientBalanceError{
				Employee:  user.Username,
				Available: user.RemainingVacationDays(),
				Requested: daysRequested,
			}
		}

		if err := s.vacations.Create(txCtx, &request); err != nil {
			return fmt.Errorf("failed to create vacation request: %w", err)
		}

		return s.audits.Create(txCtx, &model.AuditLog{
			Action:      model.ActionCreateRequest,
			PerformedBy: dto.EmployeeName,
			TargetUser:  dto.EmployeeName,
			RequestID:   &request.ID,
			Details: fmt.Sprintf("Created %s request from %s to %s (%d days)",
				absenceType.DisplayName(), dto.StartDate, dto.EndDate, daysRequested),
			IPAddress: clientIP(ctx),
			Timestamp: s.now(),
		})
	})
	if err != nil {
		return VacationRequestResponse{}, err
	}

	s.broadcast("REQUEST_CREATED", &request)
	return toVacationResponse(&request), nil
}

func (s *vacationService) Approve(ctx context.Context, id string, approverName, reason string) (VacationRequestResponse, error) {
	return s.transition(ctx, id, approverName, reason, model.StatusApproved)
}

func (s *vacationService) Reject(ctx context.Context, id string, rejecterName, reason string) (VacationRequestResponse, error) {
	return s.transition(ctx, id, rejecterName, reason, model.StatusRejected)
}

// transition moves a request out of PENDING. The row is locked for the
// whole transaction, so concurrent approvals of the same request
// cannot both pass the status check, and the balance increment commits
// together with the status change.
func (s *vacationService) transition(ctx context.Context, id string, actorName, reason string, target model.VacationStatus) (VacationRequestResponse, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return VacationRequestResponse{}, validationf("invalid request id %q", id)
	}

	var request *model.VacationRequest
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		request, err = s.vacations.GetByIDForUpdate(txCtx, requestID)
		if err != nil {
			if isRecordNotFound(err) {
				return notFound("vacation request", id)
			}
			return err
		}

		if request.Status != model.StatusPending {
			if target == model.StatusApproved {
				return statef("only pending requests can be approved")
			}
			return statef("only pending requests can be rejected")
		}

		request.Status = target
		request.ApprovedBy = actorName
		request.ApprovalReason = reason

		action := model.ActionRejectRequest
		details := fmt.Sprintf("Rejected %s request for %s",
			request.AbsenceType.DisplayName(), request.EmployeeName)

		if target == model.StatusApproved {
			user, err := s.users.GetByUsernameForUpdate(txCtx, request.EmployeeName)
			if err != nil {
				if isRecordNotFound(err) {
					return notFound("user", request.EmployeeName)
				}
				return err
			}
			user.UsedVacationDays += request.DaysRequested()
			if err := s.users.Update(txCtx, user); err != nil {
				return fmt.Errorf("failed to update vacation balance: %w", err)
			}
			action = model.ActionApproveRequest
			details = fmt.Sprintf("Approved %s request for %s (%d days)",
				request.AbsenceType.DisplayName(), request.EmployeeName, request.DaysRequested())
		}

		if reason != "" {
			details += " - Reason: " + reason
		}

		if err := s.vacations.Update(txCtx, request); err != nil {
			return fmt.Errorf("failed to update vacation request: %w", err)
		}

		return s.audits.Create(txCtx, &model.AuditLog{
			Action:      action,
			PerformedBy: actorName,
			TargetUser:  request.EmployeeName,
			RequestID:   &request.ID,
			Details:     details,
			IPAddress:   clientIP(ctx),
			Timestamp:   s.now(),
		})
	})
	if err != nil {
		return VacationRequestResponse{}, err
	}

	if target == model.StatusApproved {
		s.broadcast("REQUEST_APPROVED", request)
	} else {
		s.broadcast("REQUEST_REJECTED", request)
	}
	return toVacationResponse(request), nil
}

func (s *vacationService) ListByEmployee(ctx context.Context, employeeName string) ([]VacationRequestResponse, error) {
	requests, err := s.vacations.ListByEmployee(ctx, employeeName)
	if err != nil {
		return nil, err
	}
	return toVacationResponses(requests), nil
}

func (s *vacationService) ListAll(ctx context.Context) ([]VacationRequestResponse, error) {
	requests, err := s.vacations.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toVacationResponses(requests), nil
}

func (s *vacationService) broadcast(eventType string, req *model.VacationRequest) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastEvent(websocket.Event{
		Type:         eventType,
		RequestID:    req.ID.String(),
		EmployeeName: req.EmployeeName,
		Status:       string(req.Status),
		AbsenceType:  string(req.AbsenceType),
	})
}

// --- Helpers ---

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func toVacationResponse(req *model.VacationRequest) VacationRequestResponse {
	return VacationRequestResponse{
		ID:                 req.ID.String(),
		EmployeeName:       req.EmployeeName,
		StartDate:          req.StartDate.Format(dateLayout),
		EndDate:            req.EndDate.Format(dateLayout),
		DaysRequested:      req.DaysRequested(),
		Status:             string(req.Status),
		AbsenceType:        string(req.AbsenceType),
		AbsenceDisplayName: req.AbsenceType.DisplayName(),
		AbsenceColor:       req.AbsenceType.Color(),
		Notes:              req.Notes,
		RepresentativeName: req.RepresentativeName,
		ApprovalReason:     req.ApprovalReason,
		ApprovedBy:         req.ApprovedBy,
		CreatedAt:          req.CreatedAt.Format(dateLayout),
	}
}

func toVacationResponses(requests []model.VacationRequest) []VacationRequestResponse {
	result := make([]VacationRequestResponse, 0, len(requests))
	for i := range requests {
		result = append(result, toVacationResponse(&requests[i]))
	}
	return result
}
