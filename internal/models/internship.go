package models

import "time"

// Internship describes a posted internship role.
type Internship struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Company   string    `db:"company" json:"company"`
	Domain    string    `db:"domain" json:"domain"`
	Location  string    `db:"location" json:"location"`
	WorkMode  WorkMode  `db:"work_mode" json:"work_mode"`
	Duration  string    `db:"duration" json:"duration"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Snapshot copies the fields frozen onto a passport at creation time. The
// application's own dates win when present, matching what the student agreed to.
func (i Internship) Snapshot(app Application) InternshipDetails {
	details := InternshipDetails{
		Company:   i.Company,
		Role:      i.Title,
		Domain:    i.Domain,
		StartDate: i.StartDate,
		EndDate:   i.EndDate,
		Duration:  i.Duration,
		Location:  i.Location,
		WorkMode:  i.WorkMode,
	}
	if app.StartDate != nil {
		details.StartDate = *app.StartDate
	}
	if app.EndDate != nil {
		details.EndDate = *app.EndDate
	}
	return details
}
