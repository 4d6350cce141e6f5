package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit action tags. Free-form strings by design, but every mutating
// operation in the system uses one of these.
const (
	ActionCreateRequest  = "CREATE_REQUEST"
	ActionApproveRequest = "APPROVE_REQUEST"
	ActionRejectRequest  = "REJECT_REQUEST"

	ActionCreateUser     = "CREATE_USER"
	ActionUpdateUser     = "UPDATE_USER"
	ActionDeactivateUser = "DEACTIVATE_USER"
	ActionDeleteUser     = "DELETE_USER"
	ActionUpdateQuota    = "UPDATE_QUOTA"
)

// AuditLog tracks who did what and when. Rows are append-only; nothing
// in the system updates or deletes them once written.
type AuditLog struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Action      string     `gorm:"type:varchar(50);not null;index" json:"action"`
	PerformedBy string     `gorm:"type:varchar(255);not null;index" json:"performed_by"`
	TargetUser  string     `gorm:"type:varchar(255);index" json:"target_user,omitempty"`
	RequestID   *uuid.UUID `gorm:"type:uuid" json:"request_id,omitempty"`
	Details     string     `gorm:"type:text" json:"details,omitempty"`
	IPAddress   string     `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	Timestamp   time.Time  `gorm:"not null;index" json:"timestamp"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
