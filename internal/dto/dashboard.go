package dto

// Widget wraps one dashboard section. Exactly one of Data or Error is set.
type Widget struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Failed reports whether the widget could not be loaded.
func (w Widget) Failed() bool {
	return w.Error != ""
}

// DashboardResponse mirrors the landing page of the admin dashboard.
type DashboardResponse struct {
	TotalStudents       Widget `json:"totalStudents"`
	TotalClasses        Widget `json:"totalClasses"`
	TodaySchedule       Widget `json:"todaySchedule"`
	RecentAbsences      Widget `json:"recentAbsences"`
	UpcomingAssignments Widget `json:"upcomingAssignments"`
	RecentGrades        Widget `json:"recentGrades"`
	AttendanceRate      Widget `json:"attendanceRate"`
}
