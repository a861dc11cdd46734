package models

import "time"

// ApplicationStatus tracks an internship application through the hiring funnel.
type ApplicationStatus string

const (
	ApplicationStatusApplied     ApplicationStatus = "applied"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusAccepted    ApplicationStatus = "accepted"
	ApplicationStatusOffered     ApplicationStatus = "offered"
	ApplicationStatusCompleted   ApplicationStatus = "completed"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

// PassportEligible reports whether a passport may be opened against the
// application.
func (s ApplicationStatus) PassportEligible() bool {
	switch s {
	case ApplicationStatusAccepted, ApplicationStatusOffered, ApplicationStatusCompleted:
		return true
	}
	return false
}

// Application is the read contract the workflow core consumes from the
// applications store.
type Application struct {
	ID           string            `db:"id" json:"id"`
	StudentID    string            `db:"student_id" json:"student_id"`
	InternshipID string            `db:"internship_id" json:"internship_id"`
	Status       ApplicationStatus `db:"status" json:"status"`
	StartDate    *time.Time        `db:"start_date" json:"start_date,omitempty"`
	EndDate      *time.Time        `db:"end_date" json:"end_date,omitempty"`
	PassportID   *string           `db:"passport_id" json:"passport_id,omitempty"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time         `db:"updated_at" json:"updated_at"`
}
