package repository

import (
	"context"
	"time"

	"urlaubsplanner/internal/model"

	"gorm.io/gorm"
)

// AuditRepository appends and queries audit log rows. There is no
// update or delete: the log is append-only.
type AuditRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error)
	ListByPerformer(ctx context.Context, username string) ([]model.AuditLog, error)
	ListByTarget(ctx context.Context, username string) ([]model.AuditLog, error)
	ListByAction(ctx context.Context, action string) ([]model.AuditLog, error)
	ListByTimeRange(ctx context.Context, start, end time.Time) ([]model.AuditLog, error)
	ListAll(ctx context.Context) ([]model.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&model.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	var logs []model.AuditLog
	if err := GetDB(ctx, r.db).Order("timestamp desc").
		Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *auditRepository) ListByPerformer(ctx context.Context, username string) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	if err := GetDB(ctx, r.db).Where("performed_by = ?", username).
		Order("timestamp desc").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *auditRepository) ListByTarget(ctx context.Context, username string) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	if err := GetDB(ctx, r.db).Where("target_user = ?", username).
		Order("timestamp desc").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *auditRepository) ListByAction(ctx context.Context, action string) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	if err := GetDB(ctx, r.db).Where("action = ?", action).
		Order("timestamp desc").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *auditRepository) ListByTimeRange(ctx context.Context, start, end time.Time) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	if err := GetDB(ctx, r.db).Where("timestamp BETWEEN ? AND ?", start, end).
		Order("timestamp desc").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *auditRepository) ListAll(ctx context.Context) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	if err := GetDB(ctx, r.db).Order("timestamp desc").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
