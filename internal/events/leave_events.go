package events

import "time"

const (
	LeaveBookedTopic    = "brigade.leave.booked"
	LeaveCancelledTopic = "brigade.leave.cancelled"
)

type LeaveBookedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	LeaveID    string    `json:"leave_id"`
	EmployeeID string    `json:"employee_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	HoursCount int       `json:"hours_count"`
	OccurredAt time.Time `json:"occurred_at"`
}

type LeaveCancelledEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	LeaveID       string    `json:"leave_id"`
	EmployeeID    string    `json:"employee_id"`
	HoursRefunded int       `json:"hours_refunded"`
	OccurredAt    time.Time `json:"occurred_at"`
}
