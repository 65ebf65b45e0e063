package employee

type CreateEmployeeRequest struct {
	Name         string `json:"name" binding:"required"`
	StartDate    string `json:"start_date" binding:"required"`
	ContractType string `json:"contract_type" binding:"required"`
	// Optional explicit entitlement; zero means "use the contract-type table".
	TotalLeaveHours int `json:"total_leave_hours" binding:"omitempty,gte=0"`
}

// UpdateEmployeeRequest carries a sparse update: nil means "unchanged".
type UpdateEmployeeRequest struct {
	Name            *string `json:"name"`
	StartDate       *string `json:"start_date"`
	ContractType    *string `json:"contract_type"`
	TotalLeaveHours *int    `json:"total_leave_hours" binding:"omitempty,gte=0"`
	UsedLeaveHours  *int    `json:"used_leave_hours" binding:"omitempty,gte=0"`
}

// AdjustBalanceRequest is the administrative direct-set of balance fields.
type AdjustBalanceRequest struct {
	TotalLeaveHours *int `json:"total_leave_hours" binding:"omitempty,gte=0"`
	UsedLeaveHours  *int `json:"used_leave_hours" binding:"omitempty,gte=0"`
}

type EmployeeResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	StartDate           string `json:"start_date"`
	ContractType        string `json:"contract_type"`
	TotalLeaveHours     int    `json:"total_leave_hours"`
	UsedLeaveHours      int    `json:"used_leave_hours"`
	RemainingLeaveHours int    `json:"remaining_leave_hours"`
}
