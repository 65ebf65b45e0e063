package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	ContractCDI   = "CDI"
	ContractCDD   = "CDD"
	ContractArt60 = "Art.60"

	// FallbackLeaveHours applies to contract types outside the known table
	// when no default has been configured.
	FallbackLeaveHours = 160
)

type Employee struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(120);not null"`
	StartDate    time.Time `gorm:"type:date;not null"`
	ContractType string    `gorm:"type:varchar(20);not null;index"`

	TotalLeaveHours int `gorm:"type:int;not null;default:0"`
	UsedLeaveHours  int `gorm:"type:int;not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RemainingLeaveHours is always derived from the two stored fields, never
// trusted from storage. A manual balance override can make it negative.
func (e *Employee) RemainingLeaveHours() int {
	return e.TotalLeaveHours - e.UsedLeaveHours
}

// DefaultLeaveHours resolves the initial entitlement for a contract type.
// Unknown contract types get the configured fallback; a non-positive
// fallback falls through to FallbackLeaveHours.
func DefaultLeaveHours(contractType string, fallback int) int {
	switch contractType {
	case ContractCDI:
		return 200
	case ContractCDD:
		return 160
	case ContractArt60:
		return 120
	default:
		if fallback > 0 {
			return fallback
		}
		return FallbackLeaveHours
	}
}
