package models

// AttendanceCount holds the raw numerator and denominator of an attendance rate.
type AttendanceCount struct {
	Present int `db:"present_count" json:"present_count"`
	Total   int `db:"total_count" json:"total_count"`
}

// AttendanceBreakdown counts each attendance status within a scope (a student, or a class session).
type AttendanceBreakdown struct {
	Total           int `db:"total" json:"total"`
	Present         int `db:"present_count" json:"present_count"`
	Absent          int `db:"absent_count" json:"absent_count"`
	AuthorizedLeave int `db:"authorized_count" json:"authorized_count"`
	Medical         int `db:"medical_count" json:"medical_count"`
	Unauthorized    int `db:"unauthorized_count" json:"unauthorized_count"`
	AttendanceRate  int `db:"-" json:"attendanceRate"`
}

// SquadronCount is one bucket of the squadron distribution.
type SquadronCount struct {
	Squadron string `db:"squadron" json:"squadron"`
	Count    int    `db:"count" json:"count"`
}

// YearCount is one bucket of the year distribution.
type YearCount struct {
	Year  int `db:"year" json:"year"`
	Count int `db:"count" json:"count"`
}

// RankCount is one bucket of the rank distribution.
type RankCount struct {
	Rank  string `db:"rank" json:"rank"`
	Count int    `db:"count" json:"count"`
}

// InstructorCount is one bucket of the instructor distribution.
type InstructorCount struct {
	Instructor string `db:"instructor" json:"instructor"`
	Count      int    `db:"count" json:"count"`
}

// StudentAttendanceRank is a student's attendance totals used by the top-N ranking.
type StudentAttendanceRank struct {
	ID           int64   `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Rank         *string `db:"rank" json:"rank"`
	PresentCount int     `db:"present_count" json:"present_count"`
	TotalCount   int     `db:"total_count" json:"total_count"`
	Rate         int     `db:"-" json:"rate"`
}

// ClassAttendanceRank is a class's attendance totals used by the top-N ranking.
type ClassAttendanceRank struct {
	ID           int64  `db:"id" json:"id"`
	Title        string `db:"title" json:"title"`
	StudentCount int    `db:"student_count" json:"student_count"`
	PresentCount int    `db:"present_count" json:"present_count"`
	TotalCount   int    `db:"total_count" json:"total_count"`
	Rate         int    `db:"-" json:"rate"`
}

// PercentageCount is how many grades share one percentage value.
type PercentageCount struct {
	Percentage float64 `db:"percentage"`
	Count      int     `db:"count"`
}

// GradeBucket is one letter of the grade distribution.
type GradeBucket struct {
	Letter string `json:"grade_letter"`
	Count  int    `json:"count"`
}

// StudentGradeAverage is a student's mean percentage used by the top performer ranking.
type StudentGradeAverage struct {
	ID               int64   `db:"id" json:"id"`
	Name             string  `db:"name" json:"name"`
	AverageGrade     float64 `db:"average_grade" json:"average_grade"`
	AssignmentsCount int     `db:"assignments_count" json:"assignments_count"`
}

// GradeSummary aggregates one student's grades.
type GradeSummary struct {
	TotalAssignments  int     `db:"total_assignments" json:"total_assignments"`
	AveragePercentage float64 `db:"average_percentage" json:"average_percentage"`
}
