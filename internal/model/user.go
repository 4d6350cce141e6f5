package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of user roles. There is no hierarchy between
// them beyond explicit permission checks.
type Role string

const (
	RoleEmployee     Role = "EMPLOYEE"      // Can create and view own requests
	RoleManager      Role = "MANAGER"       // Can view and approve/reject requests in own region
	RoleSuperManager Role = "SUPER_MANAGER" // Full admin rights + audit log access
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleSuperManager:
		return true
	}
	return false
}

// CanBypassRegionScope reports whether the role sees across all regions.
// Region visibility checks must go through this predicate instead of
// comparing role strings in place.
func (r Role) CanBypassRegionScope() bool {
	return r == RoleSuperManager
}

// User represents an employee, manager or super manager account.
// Vacation requests reference users by username, not by foreign key.
type User struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username          string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Password          string     `gorm:"type:varchar(255);not null" json:"-"`
	FullName          string     `gorm:"type:varchar(255);not null" json:"full_name"`
	Role              Role       `gorm:"type:varchar(20);not null" json:"role"`
	TotalVacationDays int        `gorm:"not null;default:30" json:"total_vacation_days"`
	UsedVacationDays  int        `gorm:"not null;default:0" json:"used_vacation_days"`
	Active            bool       `gorm:"not null;default:true" json:"active"`
	RegionID          *uuid.UUID `gorm:"type:uuid;index" json:"region_id"`
	Region            *Region    `gorm:"foreignKey:RegionID" json:"region,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// RemainingVacationDays is derived from quota and usage, never stored.
func (u *User) RemainingVacationDays() int {
	return u.TotalVacationDays - u.UsedVacationDays
}

// BeforeCreate assigns the primary key in the application so the same
// model works on postgres and on the sqlite test store.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
