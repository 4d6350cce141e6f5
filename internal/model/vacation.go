package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VacationStatus enum constants. Transitions are one-way:
// PENDING -> APPROVED or PENDING -> REJECTED, never back.
type VacationStatus string

const (
	StatusPending  VacationStatus = "PENDING"
	StatusApproved VacationStatus = "APPROVED"
	StatusRejected VacationStatus = "REJECTED"
)

// AbsenceType enum constants.
type AbsenceType string

const (
	AbsenceVacation     AbsenceType = "VACATION"
	AbsenceSickLeave    AbsenceType = "SICK_LEAVE"
	AbsenceHomeOffice   AbsenceType = "HOME_OFFICE"
	AbsenceBusinessTrip AbsenceType = "BUSINESS_TRIP"
	AbsenceTraining     AbsenceType = "TRAINING"
)

// AbsenceTypes lists all known absence types in display order.
var AbsenceTypes = []AbsenceType{
	AbsenceVacation,
	AbsenceSickLeave,
	AbsenceHomeOffice,
	AbsenceBusinessTrip,
	AbsenceTraining,
}

func (t AbsenceType) Valid() bool {
	switch t {
	case AbsenceVacation, AbsenceSickLeave, AbsenceHomeOffice, AbsenceBusinessTrip, AbsenceTraining:
		return true
	}
	return false
}

// DisplayName returns the German label shown in dashboards and reports.
func (t AbsenceType) DisplayName() string {
	switch t {
	case AbsenceVacation:
		return "Urlaub"
	case AbsenceSickLeave:
		return "Krankmeldung"
	case AbsenceHomeOffice:
		return "Home Office"
	case AbsenceBusinessTrip:
		return "Dienstreise"
	case AbsenceTraining:
		return "Schulung"
	}
	return string(t)
}

// Color returns the calendar color for the absence type.
func (t AbsenceType) Color() string {
	switch t {
	case AbsenceVacation:
		return "#3B82F6"
	case AbsenceSickLeave:
		return "#EF4444"
	case AbsenceHomeOffice:
		return "#10B981"
	case AbsenceBusinessTrip:
		return "#F59E0B"
	case AbsenceTraining:
		return "#8B5CF6"
	}
	return "#6B7280"
}

// VacationRequest represents an absence request for a date range.
// EmployeeName links to User by username as a soft reference; callers
// must resolve it explicitly and handle dangling names.
type VacationRequest struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeName       string         `gorm:"type:varchar(255);not null;index" json:"employee_name"`
	StartDate          time.Time      `gorm:"type:date;not null" json:"start_date"`
	EndDate            time.Time      `gorm:"type:date;not null" json:"end_date"`
	Status             VacationStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	AbsenceType        AbsenceType    `gorm:"type:varchar(20);not null;default:'VACATION'" json:"absence_type"`
	Notes              string         `gorm:"type:text" json:"notes,omitempty"`
	RepresentativeName string         `gorm:"type:varchar(255)" json:"representative_name,omitempty"` // colleague covering during absence
	ApprovalReason     string         `gorm:"type:text" json:"approval_reason,omitempty"`
	ApprovedBy         string         `gorm:"type:varchar(255)" json:"approved_by,omitempty"`
	CreatedAt          time.Time      `gorm:"type:date;not null" json:"created_at"`
}

// DaysRequested counts whole days in [StartDate, EndDate], both ends
// inclusive. Dates are stored normalized to midnight UTC.
func (v *VacationRequest) DaysRequested() int {
	return int(v.EndDate.Sub(v.StartDate)/(24*time.Hour)) + 1
}

// Overlaps reports whether the request touches the [start, end] window.
// A zero bound leaves that side of the window open.
func (v *VacationRequest) Overlaps(start, end time.Time) bool {
	if !start.IsZero() && v.EndDate.Before(start) {
		return false
	}
	if !end.IsZero() && v.StartDate.After(end) {
		return false
	}
	return true
}

func (v *VacationRequest) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TruncateToDay normalizes a timestamp to midnight UTC, the canonical
// form for all request dates.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
