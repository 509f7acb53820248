package dto

import "github.com/noah-isme/cadet-admin-api/internal/models"

// AttendanceRateResponse is the trailing-window attendance rate with its trend.
type AttendanceRateResponse struct {
	Days         int     `json:"days"`
	Rate         float64 `json:"rate"`
	Change       float64 `json:"change"`
	PresentCount int     `json:"present_count"`
	TotalCount   int     `json:"total_count"`
}

// StudentStatsResponse summarises the student roster.
type StudentStatsResponse struct {
	Total         int                            `json:"total"`
	Squadrons     []models.SquadronCount         `json:"squadrons"`
	Years         []models.YearCount             `json:"years"`
	Ranks         []models.RankCount             `json:"ranks"`
	TopAttendance []models.StudentAttendanceRank `json:"topAttendance"`
}

// ClassStatsResponse summarises the class catalogue.
type ClassStatsResponse struct {
	Total         int                          `json:"total"`
	TopAttendance []models.ClassAttendanceRank `json:"topAttendance"`
	Instructors   []models.InstructorCount     `json:"instructors"`
}

// TopStudent is a ranked performer with a rounded average.
type TopStudent struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	AverageGrade     int    `json:"average_grade"`
	AssignmentsCount int    `json:"assignments_count"`
}

// GradeStatsResponse summarises all recorded grades.
type GradeStatsResponse struct {
	Total        int                  `json:"total"`
	Average      int                  `json:"average"`
	Distribution []models.GradeBucket `json:"distribution"`
	TopStudents  []TopStudent         `json:"topStudents"`
}

// StudentAttendanceResponse is a student's recent attendance with totals.
type StudentAttendanceResponse struct {
	Records []models.StudentAttendanceRecord `json:"records"`
	Stats   models.AttendanceBreakdown       `json:"stats"`
}

// StudentGradeStats summarises a student's grades with a rounded average.
type StudentGradeStats struct {
	TotalAssignments  int `json:"total_assignments"`
	AveragePercentage int `json:"average_percentage"`
}

// StudentGradesResponse is a student's recent grades with totals.
type StudentGradesResponse struct {
	Grades []models.StudentGrade `json:"grades"`
	Stats  StudentGradeStats     `json:"stats"`
}

// ClassStudentsResponse lists the students marked in a class session.
type ClassStudentsResponse struct {
	Students []models.ClassStudent     `json:"students"`
	Stats    models.AttendanceBreakdown `json:"stats"`
	Date     string                    `json:"date"`
}
