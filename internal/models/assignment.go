package models

import "time"

// Placeholder progress labels attached to upcoming assignments.
const (
	AssignmentNotStarted = "Not Started"
	AssignmentInProgress = "In Progress"
)

// Assignment is coursework attached to a class.
type Assignment struct {
	ID          int64      `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	ClassID     int64      `db:"class_id" json:"class_id"`
	Description *string    `db:"description" json:"description"`
	DueDate     *time.Time `db:"due_date" json:"due_date"`
}

// AssignmentDetail adds the owning class title and, for upcoming lists, a progress label.
type AssignmentDetail struct {
	Assignment
	ClassTitle  string `db:"class_title" json:"class_title"`
	GradedCount int    `db:"graded_count" json:"-"`
	Status      string `db:"-" json:"status,omitempty"`
}

// AssignmentFilter scopes assignment listings. Upcoming restricts to due dates in [From, To].
type AssignmentFilter struct {
	ClassID  int64
	Upcoming bool
	From     time.Time
	To       time.Time
}
