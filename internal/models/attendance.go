package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent         AttendanceStatus = "present"
	AttendanceStatusAbsent          AttendanceStatus = "absent"
	AttendanceStatusAuthorizedLeave AttendanceStatus = "authorized_leave"
	AttendanceStatusMedical         AttendanceStatus = "medical"
	AttendanceStatusUnauthorized    AttendanceStatus = "unauthorized"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusAuthorizedLeave, AttendanceStatusMedical, AttendanceStatusUnauthorized:
		return true
	default:
		return false
	}
}

// Attendance is one student's status for one class on one date.
type Attendance struct {
	ID        int64            `db:"id" json:"id"`
	StudentID int64            `db:"student_id" json:"student_id"`
	ClassID   int64            `db:"class_id" json:"class_id"`
	Date      time.Time        `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
	Notes     *string          `db:"notes" json:"notes"`
}

// AttendanceRecord joins the student and class labels shown in lists.
type AttendanceRecord struct {
	Attendance
	Name       string  `db:"name" json:"name"`
	Rank       *string `db:"rank" json:"rank"`
	ClassTitle string  `db:"class_title" json:"class_title"`
}

// StudentAttendanceRecord is an attendance row from a student's history.
type StudentAttendanceRecord struct {
	Attendance
	ClassTitle string  `db:"class_title" json:"class_title"`
	Instructor *string `db:"instructor" json:"instructor"`
}

// AttendanceFilter scopes attendance listings.
type AttendanceFilter struct {
	Date    time.Time
	ClassID int64
}
