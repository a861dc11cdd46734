package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-pms-api/internal/models"
)

// InternshipRepository reads posted internships.
type InternshipRepository struct {
	db *sqlx.DB
}

// NewInternshipRepository constructs the repository.
func NewInternshipRepository(db *sqlx.DB) *InternshipRepository {
	return &InternshipRepository{db: db}
}

// FindByID returns an internship by its ID.
func (r *InternshipRepository) FindByID(ctx context.Context, id string) (*models.Internship, error) {
	const query = `SELECT id, title, company, domain, location, work_mode, duration, start_date, end_date, created_at
        FROM internships WHERE id = $1`
	var internship models.Internship
	if err := r.db.GetContext(ctx, &internship, query, id); err != nil {
		return nil, err
	}
	return &internship, nil
}
