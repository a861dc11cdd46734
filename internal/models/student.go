package models

import "time"

// Student is a directory entry for an enrolled student.
type Student struct {
	ID               string    `db:"id" json:"id"`
	FullName         string    `db:"full_name" json:"full_name"`
	Email            string    `db:"email" json:"email"`
	Department       string    `db:"department" json:"department"`
	Semester         int       `db:"semester" json:"semester"`
	EnrollmentNumber string    `db:"enrollment_number" json:"enrollment_number"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
