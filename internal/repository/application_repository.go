package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-pms-api/internal/models"
)

// ApplicationRepository provides the read contract onto the applications store.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs the repository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// FindByID returns an application by its ID.
func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*models.Application, error) {
	const query = `SELECT id, student_id, internship_id, status, start_date, end_date, passport_id, created_at, updated_at
        FROM applications WHERE id = $1`
	var application models.Application
	if err := r.db.GetContext(ctx, &application, query, id); err != nil {
		return nil, err
	}
	return &application, nil
}

// FindEligible returns the passport-eligible application for a student and
// internship, when one exists.
func (r *ApplicationRepository) FindEligible(ctx context.Context, studentID, internshipID string) (*models.Application, error) {
	const query = `SELECT id, student_id, internship_id, status, start_date, end_date, passport_id, created_at, updated_at
        FROM applications WHERE student_id = $1 AND internship_id = $2 AND status IN ($3, $4, $5)
        ORDER BY updated_at DESC LIMIT 1`
	var application models.Application
	err := r.db.GetContext(ctx, &application, query, studentID, internshipID,
		models.ApplicationStatusAccepted, models.ApplicationStatusOffered, models.ApplicationStatusCompleted)
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// LinkPassport records the passport opened against the application.
func (r *ApplicationRepository) LinkPassport(ctx context.Context, id, ippID string) error {
	const query = `UPDATE applications SET passport_id = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ippID, time.Now().UTC()); err != nil {
		return fmt.Errorf("link passport to application: %w", err)
	}
	return nil
}
