package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Region represents a regional office used to scope manager visibility.
// Regions form a flat set, there is no hierarchy.
type Region struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	City      string    `gorm:"type:varchar(100)" json:"city"`
	Country   string    `gorm:"type:varchar(100);default:'Deutschland'" json:"country"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *Region) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Country == "" {
		r.Country = "Deutschland"
	}
	return nil
}
