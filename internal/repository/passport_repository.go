package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/campus-pms-api/internal/models"
)

// ErrDuplicate is returned when a unique constraint rejects an insert.
var ErrDuplicate = errors.New("duplicate record")

// ErrStaleState is returned when a conditional update matched no row, meaning
// the record moved on (or a token was consumed) between read and write.
var ErrStaleState = errors.New("stale state")

const passportColumns = `id, ipp_id, student_id, internship_id, application_id, status,
        details, evaluation, submission, assessment, verification, summary, sharing, certificate,
        mentor_token, mentor_token_expires_at, created_at, updated_at, published_at`

// PassportRepository handles persistence of internship performance passports.
type PassportRepository struct {
	db *sqlx.DB
}

// NewPassportRepository constructs the repository.
func NewPassportRepository(db *sqlx.DB) *PassportRepository {
	return &PassportRepository{db: db}
}

// Create persists a new passport in draft. A unique index on
// (student_id, internship_id) makes the at-most-one invariant hold even when
// two create requests race.
func (r *PassportRepository) Create(ctx context.Context, passport *models.Passport) error {
	if passport.ID == "" {
		passport.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if passport.CreatedAt.IsZero() {
		passport.CreatedAt = now
	}
	passport.UpdatedAt = now
	const query = `INSERT INTO passports (id, ipp_id, student_id, internship_id, application_id, status,
        details, evaluation, submission, assessment, verification, summary, sharing, certificate,
        mentor_token, mentor_token_expires_at, created_at, updated_at, published_at)
        VALUES (:id, :ipp_id, :student_id, :internship_id, :application_id, :status,
        :details, :evaluation, :submission, :assessment, :verification, :summary, :sharing, :certificate,
        :mentor_token, :mentor_token_expires_at, :created_at, :updated_at, :published_at)`
	if _, err := r.db.NamedExecContext(ctx, query, passport); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("create passport: %w", err)
	}
	return nil
}

// FindByIppID returns a passport by its public identifier.
func (r *PassportRepository) FindByIppID(ctx context.Context, ippID string) (*models.Passport, error) {
	query := fmt.Sprintf(`SELECT %s FROM passports WHERE ipp_id = $1`, passportColumns)
	var passport models.Passport
	if err := r.db.GetContext(ctx, &passport, query, ippID); err != nil {
		return nil, err
	}
	return &passport, nil
}

// ExistsForStudentAndInternship checks the one-passport-per-pair invariant.
func (r *PassportRepository) ExistsForStudentAndInternship(ctx context.Context, studentID, internshipID string) (bool, error) {
	const query = `SELECT 1 FROM passports WHERE student_id = $1 AND internship_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, internshipID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check passport existence: %w", err)
	}
	return true, nil
}

// List returns passports joined with student directory info.
func (r *PassportRepository) List(ctx context.Context, filter models.PassportFilter) ([]models.PassportDetail, int, error) {
	base := `FROM passports p LEFT JOIN students s ON s.id = p.student_id`
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("p.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Company != "" {
		conditions = append(conditions, fmt.Sprintf("p.details->>'company' ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Company+"%")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT p.id, p.ipp_id, p.student_id, p.internship_id, p.application_id, p.status,
        p.details, p.evaluation, p.submission, p.assessment, p.verification, p.summary, p.sharing, p.certificate,
        p.mentor_token, p.mentor_token_expires_at, p.created_at, p.updated_at, p.published_at,
        COALESCE(s.full_name, '') AS student_name, COALESCE(s.email, '') AS student_email,
        COALESCE(s.department, '') AS student_department
        %s ORDER BY p.updated_at DESC LIMIT %d OFFSET %d`, base+clause, size, offset)

	var passports []models.PassportDetail
	if err := r.db.SelectContext(ctx, &passports, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list passports: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count passports: %w", err)
	}
	return passports, total, nil
}

// ListByStudent returns all passports belonging to one student.
func (r *PassportRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Passport, error) {
	query := fmt.Sprintf(`SELECT %s FROM passports WHERE student_id = $1 ORDER BY created_at DESC`, passportColumns)
	var passports []models.Passport
	if err := r.db.SelectContext(ctx, &passports, query, studentID); err != nil {
		return nil, fmt.Errorf("list student passports: %w", err)
	}
	return passports, nil
}

// Transition writes the full mutable state of a passport, guarded by the
// expected pre-state. A zero row count means the guard failed: another request
// advanced the record first and nothing was written.
func (r *PassportRepository) Transition(ctx context.Context, passport *models.Passport, from models.PassportStatus) error {
	passport.UpdatedAt = time.Now().UTC()
	const query = `UPDATE passports SET status = $3, evaluation = $4, submission = $5, assessment = $6,
        verification = $7, summary = $8, sharing = $9, certificate = $10,
        mentor_token = $11, mentor_token_expires_at = $12, updated_at = $13, published_at = $14
        WHERE ipp_id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, query,
		passport.IppID, from,
		passport.Status, passport.Evaluation, passport.Submission, passport.Assessment,
		passport.Verification, passport.Summary, passport.Sharing, passport.Certificate,
		nullableString(passport.MentorToken), passport.MentorTokenExpiresAt,
		passport.UpdatedAt, passport.PublishedAt,
	)
	if err != nil {
		return fmt.Errorf("transition passport: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("transition passport rows: %w", err)
	}
	if affected == 0 {
		return ErrStaleState
	}
	return nil
}

// TransitionConsumingToken behaves like Transition but additionally guards on
// the stored mentor token, clearing it in the same statement. Consumption and
// transition are therefore a single atomic write: a raced duplicate submit
// matches no row.
func (r *PassportRepository) TransitionConsumingToken(ctx context.Context, passport *models.Passport, from models.PassportStatus, token string) error {
	passport.UpdatedAt = time.Now().UTC()
	const query = `UPDATE passports SET status = $4, evaluation = $5, verification = $6,
        mentor_token = NULL, mentor_token_expires_at = NULL, updated_at = $7
        WHERE ipp_id = $1 AND status = $2 AND mentor_token = $3`
	res, err := r.db.ExecContext(ctx, query,
		passport.IppID, from, token,
		passport.Status, passport.Evaluation, passport.Verification,
		passport.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("consume mentor token: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("consume mentor token rows: %w", err)
	}
	if affected == 0 {
		return ErrStaleState
	}
	passport.MentorToken = ""
	passport.MentorTokenExpiresAt = nil
	return nil
}

// CreateAuditLog records a workflow audit entry.
func (r *PassportRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_logs (id, user_id, action, resource, resource_id, old_values, new_values, ip_address, user_agent, created_at)
        VALUES (:id, :user_id, :action, :resource, :resource_id, :old_values, :new_values, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
