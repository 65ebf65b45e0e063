package dashboard

type StatsResponse struct {
	TotalEmployees     int64 `json:"total_employees"`
	CurrentLeaves      int64 `json:"current_leaves"`
	AvailableEmployees int64 `json:"available_employees"`
	EmployeesOnLeave   int64 `json:"employees_on_leave"`
}
