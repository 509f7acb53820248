package models

import "time"

// Grade is a student's mark for an assignment.
type Grade struct {
	ID           int64      `db:"id" json:"id"`
	StudentID    int64      `db:"student_id" json:"student_id"`
	AssignmentID int64      `db:"assignment_id" json:"assignment_id"`
	Grade        string     `db:"grade" json:"grade"`
	Percentage   float64    `db:"percentage" json:"percentage"`
	Feedback     *string    `db:"feedback" json:"feedback"`
	SubmittedAt  *time.Time `db:"submitted_at" json:"submitted_at"`
}

// GradeDetail joins the student, assignment and class labels.
type GradeDetail struct {
	Grade
	StudentName     string `db:"student_name" json:"student_name"`
	AssignmentTitle string `db:"assignment_title" json:"assignment_title"`
	ClassTitle      string `db:"class_title" json:"class_title"`
}

// StudentGrade is a grade row from a student's history.
type StudentGrade struct {
	Grade
	AssignmentTitle string     `db:"assignment_title" json:"assignment_title"`
	DueDate         *time.Time `db:"due_date" json:"due_date"`
	ClassTitle      string     `db:"class_title" json:"class_title"`
}

// GradeFilter scopes grade listings. RecentSince, when set, keeps grades submitted on or after it.
type GradeFilter struct {
	StudentID    int64
	AssignmentID int64
	ClassID      int64
	RecentSince  *time.Time
	Limit        int
}
