package events

import "time"

const EmployeeCreatedTopic = "brigade.employee.created"

type EmployeeCreatedEvent struct {
	EventType       string    `json:"event_type"`
	RequestID       string    `json:"request_id,omitempty"`
	EmployeeID      string    `json:"employee_id"`
	ContractType    string    `json:"contract_type"`
	TotalLeaveHours int       `json:"total_leave_hours"`
	OccurredAt      time.Time `json:"occurred_at"`
}
