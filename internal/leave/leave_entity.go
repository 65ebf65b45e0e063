package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	// StatusInProgress is the only status ever produced: records are
	// cancelled (deleted) rather than transitioned to a terminal state.
	StatusInProgress = "in progress"

	DefaultLeaveType = "paid leave"
)

type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_employee_dates"`
	// EmployeeName is a snapshot taken at booking time; it is not kept in
	// sync with later renames.
	EmployeeName string `gorm:"type:varchar(120);not null"`

	StartDate time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`

	// DaysCount is informational (business days in the range); the balance
	// check runs on hours only.
	DaysCount  int    `gorm:"type:int;not null;default:0"`
	HoursCount int    `gorm:"type:int;not null;default:0"`
	LeaveType  string `gorm:"type:varchar(50);not null;default:'paid leave'"`
	Status     string `gorm:"type:varchar(20);not null;default:'in progress';index"`

	CreatedAt time.Time
}
