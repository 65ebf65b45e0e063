package leave

type CreateLeaveRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	HoursCount int    `json:"hours_count" binding:"gte=0"`
	LeaveType  string `json:"leave_type"`
}

type LeaveResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DaysCount    int    `json:"days_count"`
	HoursCount   int    `json:"hours_count"`
	LeaveType    string `json:"leave_type"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}
