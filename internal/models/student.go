package models

// Student represents a cadet enrolled in the programme.
type Student struct {
	ID       int64   `db:"id" json:"id"`
	Name     string  `db:"name" json:"name"`
	Rank     *string `db:"rank" json:"rank"`
	Squadron *string `db:"squadron" json:"squadron"`
	Year     *int    `db:"year" json:"year"`
	Email    *string `db:"email" json:"email"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search   string
	Squadron string
	Year     *int
}
