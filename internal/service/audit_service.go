package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"urlaubsplanner/internal/model"
	"urlaubsplanner/internal/repository"
)

type AuditLogResponse struct {
	ID          string `json:"id"`
	Action      string `json:"action"`
	PerformedBy string `json:"performed_by"`
	TargetUser  string `json:"target_user,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
	Details     string `json:"details,omitempty"`
	IPAddress   string `json:"ip_address,omitempty"`
	Timestamp   string `json:"timestamp"`
}

// AuditService is the read side of the audit trail. Writes happen
// inside the mutating services' transactions; this service only
// queries and exports.
type AuditService interface {
	List(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error)
	ListByPerformer(ctx context.Context, username string) ([]AuditLogResponse, error)
	ListByTarget(ctx context.Context, username string) ([]AuditLogResponse, error)
	ListByAction(ctx context.Context, action string) ([]AuditLogResponse, error)
	ListByTimeRange(ctx context.Context, start, end string) ([]AuditLogResponse, error)
	ExportCSV(ctx context.Context) (string, error)
}

type auditService struct {
	audits repository.AuditRepository
}

func NewAuditService(audits repository.AuditRepository) AuditService {
	return &auditService{audits: audits}
}

func (s *auditService) List(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error) {
	logs, total, err := s.audits.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toAuditResponses(logs), total, nil
}

func (s *auditService) ListByPerformer(ctx context.Context, username string) ([]AuditLogResponse, error) {
	logs, err := s.audits.ListByPerformer(ctx, username)
	if err != nil {
		return nil, err
	}
	return toAuditResponses(logs), nil
}

func (s *auditService) ListByTarget(ctx context.Context, username string) ([]AuditLogResponse, error) {
	logs, err := s.audits.ListByTarget(ctx, username)
	if err != nil {
		return nil, err
	}
	return toAuditResponses(logs), nil
}

func (s *auditService) ListByAction(ctx context.Context, action string) ([]AuditLogResponse, error) {
	logs, err := s.audits.ListByAction(ctx, action)
	if err != nil {
		return nil, err
	}
	return toAuditResponses(logs), nil
}

func (s *auditService) ListByTimeRange(ctx context.Context, start, end string) ([]AuditLogResponse, error) {
	from, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return nil, validationf("invalid start time %q, expected RFC3339", start)
	}
	to, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return nil, validationf("invalid end time %q, expected RFC3339", end)
	}
	if to.Before(from) {
		return nil, validationf("end time cannot be before start time")
	}

	logs, err := s.audits.ListByTimeRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return toAuditResponses(logs), nil
}

// ExportCSV renders the full audit trail. Commas inside details are
// replaced to keep the rows parseable without a quoting-aware reader.
func (s *auditService) ExportCSV(ctx context.Context) (string, error) {
	logs, err := s.audits.ListAll(ctx)
	if err != nil {
		return "", err
	}

	var csv strings.Builder
	csv.WriteString("ID,Timestamp,Action,Performed By,Target User,Request ID,Details\n")
	for i := range logs {
		entry := &logs[i]
		requestID := ""
		if entry.RequestID != nil {
			requestID = entry.RequestID.String()
		}
		fmt.Fprintf(&csv, "%s,%s,%s,%s,%s,%s,%s\n",
			entry.ID,
			entry.Timestamp.Format(time.RFC3339),
			entry.Action,
			entry.PerformedBy,
			entry.TargetUser,
			requestID,
			strings.ReplaceAll(entry.Details, ",", ";"),
		)
	}
	return csv.String(), nil
}

func toAuditResponses(logs []model.AuditLog) []AuditLogResponse {
	result := make([]AuditLogResponse, 0, len(logs))
	for i := range logs {
		entry := &logs[i]
		resp := AuditLogResponse{
			ID:          entry.ID.String(),
			Action:      entry.Action,
			PerformedBy: entry.PerformedBy,
			TargetUser:  entry.TargetUser,
			Details:     entry.Details,
			IPAddress:   entry.IPAddress,
			Timestamp:   entry.Timestamp.Format(time.RFC3339),
		}
		if entry.RequestID != nil {
			resp.RequestID = entry.RequestID.String()
		}
		result = append(result, resp)
	}
	return result
}
