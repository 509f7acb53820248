package models

// ClassSchedule is a weekly time slot of a class. DayOfWeek runs from 1 (Monday) to 7 (Sunday).
type ClassSchedule struct {
	ID        int64  `db:"id" json:"id"`
	ClassID   int64  `db:"class_id" json:"class_id"`
	DayOfWeek int    `db:"day_of_week" json:"day_of_week"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
}

// ClassScheduleDetail joins the class fields shown alongside a slot.
type ClassScheduleDetail struct {
	ClassSchedule
	Title      string  `db:"title" json:"title"`
	Room       *string `db:"room" json:"room"`
	Instructor *string `db:"instructor" json:"instructor"`
}

// ScheduleSlot is a schedule entry enriched with today's attendance for its class.
type ScheduleSlot struct {
	ClassScheduleDetail
	Attendance int    `json:"attendance"`
	Total      int    `json:"total"`
	Time       string `json:"time"`
}

// ScheduleDay groups the slots of one weekday for the week view.
type ScheduleDay struct {
	Day     int            `json:"day"`
	DayName string         `json:"dayName"`
	Classes []ScheduleSlot `json:"classes"`
}

// ScheduleFilter describes query params for listing schedule entries.
type ScheduleFilter struct {
	DayOfWeek int
	ClassID   int64
}

// Weekdays maps ISO weekday numbers to display names.
var Weekdays = [...]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
