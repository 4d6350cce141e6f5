package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"urlaubsplanner/internal/model"
	"urlaubsplanner/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAudit(t *testing.T, f *fixture, action, performedBy, details string, at time.Time) {
	t.Helper()
	require.NoError(t, f.db.Create(&model.AuditLog{
		Action:      action,
		PerformedBy: performedBy,
		TargetUser:  "max",
		Details:     details,
		Timestamp:   at,
	}).Error)
}

func TestAuditList_Pagination(t *testing.T) {
	f := newFixture(t)
	base := testClock()()
	for i := 0; i < 5; i++ {
		seedAudit(t, f, model.ActionCreateRequest, "max", "entry", base.Add(time.Duration(i)*time.Minute))
	}
	svc := service.NewAuditService(f.audits)

	logs, total, err := svc.List(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, logs, 2)

	// Newest first.
	first, err := time.Parse(time.RFC3339, logs[0].Timestamp)
	require.NoError(t, err)
	second, err := time.Parse(time.RFC3339, logs[1].Timestamp)
	require.NoError(t, err)
	assert.True(t, first.After(second))
}

func TestAuditListByFilters(t *testing.T) {
	f := newFixture(t)
	now := testClock()()
	seedAudit(t, f, model.ActionCreateRequest, "max", "a", now)
	seedAudit(t, f, model.ActionApproveRequest, "manager.dortmund", "b", now.Add(time.Hour))
	svc := service.NewAuditService(f.audits)

	byPerformer, err := svc.ListByPerformer(context.Background(), "max")
	require.NoError(t, err)
	assert.Len(t, byPerformer, 1)

	byAction, err := svc.ListByAction(context.Background(), model.ActionApproveRequest)
	require.NoError(t, err)
	assert.Len(t, byAction, 1)

	byTarget, err := svc.ListByTarget(context.Background(), "max")
	require.NoError(t, err)
	assert.Len(t, byTarget, 2)
}

func TestAuditListByTimeRange(t *testing.T) {
	f := newFixture(t)
	now := testClock()()
	seedAudit(t, f, model.ActionCreateRequest, "max", "inside", now)
	seedAudit(t, f, model.ActionCreateRequest, "max", "outside", now.Add(48*time.Hour))
	svc := service.NewAuditService(f.audits)

	logs, err := svc.ListByTimeRange(context.Background(),
		now.Add(-time.Hour).Format(time.RFC3339), now.Add(time.Hour).Format(time.RFC3339))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "inside", logs[0].Details)

	_, err = svc.ListByTimeRange(context.Background(), "not-a-time", now.Format(time.RFC3339))
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.ListByTimeRange(context.Background(),
		now.Format(time.RFC3339), now.Add(-time.Hour).Format(time.RFC3339))
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestAuditExportCSV(t *testing.T) {
	f := newFixture(t)
	seedAudit(t, f, model.ActionApproveRequest, "manager.dortmund",
		"Approved Urlaub request for max, with comment", testClock()())
	svc := service.NewAuditService(f.audits)

	csv, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,Timestamp,Action,Performed By,Target User,Request ID,Details", lines[0])
	// Commas inside details must not break the row layout.
	assert.Contains(t, lines[1], "Approved Urlaub request for max; with comment")
	assert.Len(t, strings.Split(lines[1], ","), 7)
}
