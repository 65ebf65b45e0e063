package cache

// DashboardStatsKey is shared between the dashboard read side (which fills
// it) and the employee/leave write sides (which invalidate it).
const DashboardStatsKey = "dashboard:stats"
