package models

// Class represents a course taught in the programme.
type Class struct {
	ID          int64   `db:"id" json:"id"`
	Title       string  `db:"title" json:"title"`
	Description *string `db:"description" json:"description"`
	Instructor  *string `db:"instructor" json:"instructor"`
	Room        *string `db:"room" json:"room"`
}

// ClassDetail extends Class with its weekly schedule and enrolment count.
type ClassDetail struct {
	Class
	Schedule      []ClassSchedule `json:"schedule"`
	EnrolledCount int             `json:"enrolled_count"`
}

// ClassFilter defines filter criteria for listing classes.
type ClassFilter struct {
	Search string
}

// ClassStudent is a student row annotated with attendance for one class session.
type ClassStudent struct {
	Student
	Status AttendanceStatus `db:"status" json:"status"`
	Notes  *string          `db:"notes" json:"notes"`
}
