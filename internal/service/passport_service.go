package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-pms-api/internal/models"
	"github.com/noah-isme/campus-pms-api/internal/repository"
	appErrors "github.com/noah-isme/campus-pms-api/pkg/errors"
	"github.com/noah-isme/campus-pms-api/pkg/magiclink"
)

type passportStore interface {
	Create(ctx context.Context, passport *models.Passport) error
	FindByIppID(ctx context.Context, ippID string) (*models.Passport, error)
	ExistsForStudentAndInternship(ctx context.Context, studentID, internshipID string) (bool, error)
	List(ctx context.Context, filter models.PassportFilter) ([]models.PassportDetail, int, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Passport, error)
	Transition(ctx context.Context, passport *models.Passport, from models.PassportStatus) error
	TransitionConsumingToken(ctx context.Context, passport *models.Passport, from models.PassportStatus, token string) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type applicationStore interface {
	FindByID(ctx context.Context, id string) (*models.Application, error)
	FindEligible(ctx context.Context, studentID, internshipID string) (*models.Application, error)
	LinkPassport(ctx context.Context, id, ippID string) error
}

type internshipStore interface {
	FindByID(ctx context.Context, id string) (*models.Internship, error)
}

type studentStore interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type linkSigner interface {
	Generate(ippID string) (string, time.Time, error)
	Parse(token string) (string, time.Time, error)
}

type certificateIssuer interface {
	Generate(passport models.Passport, studentName string) (models.Certificate, error)
}

// workflowNotifier receives fire-and-forget workflow events. Implementations
// must never block the request path on delivery.
type workflowNotifier interface {
	EvaluationRequested(ctx context.Context, notice EvaluationNotice)
	PassportAdvanced(ctx context.Context, notice StatusNotice)
}

type publicViewCache interface {
	GetPublicView(ctx context.Context, ippID string) (*models.PublicPassportView, error)
	SetPublicView(ctx context.Context, view *models.PublicPassportView) error
	IncrementViewCount(ctx context.Context, ippID string) (int64, error)
}

type transitionObserver interface {
	ObservePassportTransition(from, to string)
	ObservePublicView()
}

// PassportServiceDeps bundles the collaborators of the passport workflow.
// Notifier, PublicViews and Metrics are optional.
type PassportServiceDeps struct {
	Passports    passportStore
	Applications applicationStore
	Internships  internshipStore
	Students     studentStore
	Links        linkSigner
	Certificates certificateIssuer
	Notifier     workflowNotifier
	PublicViews  publicViewCache
	Metrics      transitionObserver
	LinkBaseURL  string
	Validator    *validator.Validate
	Logger       *zap.Logger
}

// PassportService owns the Internship Performance Passport lifecycle. All
// transitions go through conditional writes keyed on the expected pre-state,
// so concurrent submissions resolve to exactly one winner.
type PassportService struct {
	passports    passportStore
	applications applicationStore
	internships  internshipStore
	students     studentStore
	links        linkSigner
	certificates certificateIssuer
	notifier     workflowNotifier
	publicViews  publicViewCache
	metrics      transitionObserver
	linkBaseURL  string
	validator    *validator.Validate
	logger       *zap.Logger
	now          func() time.Time
}

// NewPassportService constructs the workflow service.
func NewPassportService(deps PassportServiceDeps) *PassportService {
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &PassportService{
		passports:    deps.Passports,
		applications: deps.Applications,
		internships:  deps.Internships,
		students:     deps.Students,
		links:        deps.Links,
		certificates: deps.Certificates,
		notifier:     deps.Notifier,
		publicViews:  deps.PublicViews,
		metrics:      deps.Metrics,
		linkBaseURL:  deps.LinkBaseURL,
		validator:    deps.Validator,
		logger:       deps.Logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CreatePassportRequest opens a passport against a completed placement.
type CreatePassportRequest struct {
	StudentID     string `json:"student_id"`
	InternshipID  string `json:"internship_id" validate:"required"`
	ApplicationID string `json:"application_id"`
}

// EvaluationRequestInput names the company mentor who will receive the
// evaluation link.
type EvaluationRequestInput struct {
	MentorName        string `json:"mentor_name" validate:"required"`
	MentorEmail       string `json:"mentor_email" validate:"required,email"`
	MentorDesignation string `json:"mentor_designation"`
}

// EvaluationRequestResult is returned to the staff member who issued the link.
type EvaluationRequestResult struct {
	Passport       *models.Passport `json:"passport"`
	EvaluationLink string           `json:"evaluation_link"`
	TokenExpiresAt time.Time        `json:"token_expires_at"`
}

// MentorEvaluationInput is the company mentor's submission payload.
type MentorEvaluationInput struct {
	MentorName          string                     `json:"mentor_name"`
	MentorEmail         string                     `json:"mentor_email" validate:"omitempty,email"`
	MentorDesignation   string                     `json:"mentor_designation"`
	TechnicalSkills     models.TechnicalSkills     `json:"technical_skills"`
	SoftSkills          models.SoftSkills          `json:"soft_skills"`
	Strengths           []string                   `json:"strengths"`
	AreasForImprovement []string                   `json:"areas_for_improvement"`
	WouldRehire         bool                       `json:"would_rehire"`
	RecommendationLevel models.RecommendationLevel `json:"recommendation_level" validate:"omitempty,oneof='Highly Recommended' 'Recommended' 'Neutral' 'Not Recommended'"`
	DetailedFeedback    string                     `json:"detailed_feedback"`
}

// StudentSubmissionInput is the student documentation payload.
type StudentSubmissionInput struct {
	ReportURL      string                   `json:"report_url" validate:"required,url"`
	ProjectDocsURL string                   `json:"project_docs_url" validate:"omitempty,url"`
	CertificateURL string                   `json:"certificate_url" validate:"omitempty,url"`
	OfferLetterURL string                   `json:"offer_letter_url" validate:"omitempty,url"`
	Reflection     models.StudentReflection `json:"reflection"`
}

// FacultyAssessmentInput is the faculty sign-off payload.
type FacultyAssessmentInput struct {
	FacultyName       string                   `json:"faculty_name"`
	LearningOutcomes  models.LearningOutcomes  `json:"learning_outcomes"`
	AcademicAlignment models.AcademicAlignment `json:"academic_alignment"`
	Remarks           string                   `json:"remarks"`
	CreditsAwarded    int                      `json:"credits_awarded" validate:"min=0,max=30"`
	Grade             string                   `json:"grade"`
	ApprovalStatus    models.ApprovalStatus    `json:"approval_status" validate:"required,oneof=approved rejected"`
}

// Create opens a passport in draft for an eligible placement. At most one
// passport exists per (student, internship) pair.
func (s *PassportService) Create(ctx context.Context, actor models.Actor, req CreatePassportRequest) (*models.Passport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	var studentID string
	switch actor.Role {
	case models.RoleStudent:
		if actor.StudentID == "" {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "account is not linked to a student record")
		}
		if req.StudentID != "" && req.StudentID != actor.StudentID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "students may only open their own passport")
		}
		studentID = actor.StudentID
	case models.RoleAdmin:
		if req.StudentID == "" {
			return nil, appErrors.Clone(appErrors.ErrMissingRequiredField, "student_id is required")
		}
		studentID = req.StudentID
	default:
		return nil, appErrors.ErrForbidden
	}

	application, err := s.resolveApplication(ctx, studentID, req)
	if err != nil {
		return nil, err
	}

	exists, err := s.passports.ExistsForStudentAndInternship(ctx, studentID, req.InternshipID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "check existing passport")
	}
	if exists {
		return nil, appErrors.ErrConflict
	}

	internship, err := s.internships.FindByID(ctx, req.InternshipID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "internship not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load internship")
	}

	now := s.now()
	passport := &models.Passport{
		IppID:         buildIppID(studentID, req.InternshipID, now),
		StudentID:     studentID,
		InternshipID:  req.InternshipID,
		ApplicationID: application.ID,
		Status:        models.PassportStatusDraft,
		Details:       internship.Snapshot(*application),
		CreatedAt:     now,
	}

	if err := s.passports.Create(ctx, passport); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.ErrConflict
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "create passport")
	}

	if err := s.applications.LinkPassport(ctx, application.ID, passport.IppID); err != nil {
		s.logger.Warn("failed to link passport to application",
			zap.String("ipp_id", passport.IppID), zap.String("application_id", application.ID), zap.Error(err))
	}

	s.audit(ctx, &actor, models.AuditActionPassportCreate, passport.IppID, map[string]interface{}{
		"student_id":    studentID,
		"internship_id": req.InternshipID,
	})

	return passport, nil
}

func (s *PassportService) resolveApplication(ctx context.Context, studentID string, req CreatePassportRequest) (*models.Application, error) {
	if req.ApplicationID != "" {
		application, err := s.applications.FindByID(ctx, req.ApplicationID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load application")
		}
		if application.StudentID != studentID || application.InternshipID != req.InternshipID {
			return nil, appErrors.Clone(appErrors.ErrNotEligible, "application does not belong to this student and internship")
		}
		if !application.Status.PassportEligible() {
			return nil, appErrors.ErrNotEligible
		}
		return application, nil
	}

	application, err := s.applications.FindEligible(ctx, studentID, req.InternshipID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotEligible
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "find eligible application")
	}
	return application, nil
}

// RequestEvaluation issues a single-use mentor link and moves the passport to
// pending_mentor_eval. Re-issuing while already pending replaces the stored
// token, which invalidates any previously mailed link.
func (s *PassportService) RequestEvaluation(ctx context.Context, actor models.Actor, ippID string, req EvaluationRequestInput) (*EvaluationRequestResult, error) {
	if !actor.IsStaff() {
		return nil, appErrors.ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	passport, err := s.load(ctx, ippID)
	if err != nil {
		return nil, err
	}

	from := passport.Status
	if from != models.PassportStatusDraft && from != models.PassportStatusPendingMentorEval {
		return nil, s.invalidState(from, models.PassportStatusPendingMentorEval)
	}

	token, expiresAt, err := s.links.Generate(passport.IppID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "generate evaluation token")
	}

	passport.MentorToken = token
	passport.MentorTokenExpiresAt = &expiresAt
	passport.Evaluation.MentorName = req.MentorName
	passport.Evaluation.MentorEmail = req.MentorEmail
	passport.Evaluation.MentorDesignation = req.MentorDesignation
	passport.Status = models.PassportStatusPendingMentorEval

	if err := s.applyTransition(ctx, passport, from, "store evaluation request"); err != nil {
		return nil, err
	}

	s.observe(from, passport.Status)
	s.audit(ctx, &actor, models.AuditActionMentorLinkIssued, passport.IppID, map[string]interface{}{
		"mentor_email": req.MentorEmail,
		"expires_at":   expiresAt,
	})

	link := magiclink.EvaluationLink(s.linkBaseURL, passport.IppID, token)
	if s.notifier != nil {
		s.notifier.EvaluationRequested(ctx, EvaluationNotice{
			MentorName:     req.MentorName,
			MentorEmail:    req.MentorEmail,
			StudentID:      passport.StudentID,
			Company:        passport.Details.Company,
			Role:           passport.Details.Role,
			EvaluationLink: link,
			ExpiresAt:      expiresAt,
		})
	}

	return &EvaluationRequestResult{
		Passport:       passport,
		EvaluationLink: link,
		TokenExpiresAt: expiresAt,
	}, nil
}

// SubmitCompanyEvaluation records the mentor's ratings. The token is consumed
// in the same write that advances the status, so a replayed or raced submit
// fails with an invalid token.
func (s *PassportService) SubmitCompanyEvaluation(ctx context.Context, ippID, token string, input MentorEvaluationInput) (*models.Passport, error) {
	if token == "" {
		return nil, appErrors.ErrInvalidToken
	}
	boundID, _, err := s.links.Parse(token)
	if err != nil || boundID != ippID {
		return nil, appErrors.ErrInvalidToken
	}
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	passport, err := s.load(ctx, ippID)
	if err != nil {
		return nil, err
	}
	if passport.MentorToken == "" || passport.MentorToken != token {
		return nil, appErrors.ErrInvalidToken
	}
	if passport.Status != models.PassportStatusPendingMentorEval {
		return nil, s.invalidState(passport.Status, models.PassportStatusPendingStudentSub)
	}
	now := s.now()
	if passport.MentorTokenExpiresAt != nil && now.After(*passport.MentorTokenExpiresAt) {
		return nil, appErrors.ErrInvalidToken
	}

	evaluation := models.MentorEvaluation{
		MentorName:          firstNonEmpty(input.MentorName, passport.Evaluation.MentorName),
		MentorEmail:         firstNonEmpty(input.MentorEmail, passport.Evaluation.MentorEmail),
		MentorDesignation:   firstNonEmpty(input.MentorDesignation, passport.Evaluation.MentorDesignation),
		TechnicalSkills:     input.TechnicalSkills,
		SoftSkills:          input.SoftSkills,
		Strengths:           input.Strengths,
		AreasForImprovement: input.AreasForImprovement,
		WouldRehire:         input.WouldRehire,
		RecommendationLevel: input.RecommendationLevel,
		DetailedFeedback:    input.DetailedFeedback,
		SubmittedAt:         &now,
	}

	from := passport.Status
	passport.Evaluation = evaluation
	passport.Verification.CompanyVerified = true
	passport.Verification.CompanyVerifiedBy = evaluation.MentorEmail
	passport.Verification.CompanyVerifiedAt = &now
	passport.Status = models.PassportStatusPendingStudentSub

	if !models.CanTransition(from, passport.Status) {
		return nil, s.invalidState(from, passport.Status)
	}
	if err := s.passports.TransitionConsumingToken(ctx, passport, from, token); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, appErrors.ErrInvalidToken
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "store mentor evaluation")
	}

	s.observe(from, passport.Status)
	s.audit(ctx, nil, models.AuditActionPassportTransition, passport.IppID, map[string]interface{}{
		"from": from,
		"to":   passport.Status,
	})
	s.notifyAdvance(ctx, passport, "Your company mentor has submitted the evaluation. Please upload your internship documentation.")

	return passport, nil
}

// SubmitStudentDocumentation records the owning student's report and
// reflection and forwards the passport to faculty.
func (s *PassportService) SubmitStudentDocumentation(ctx context.Context, actor models.Actor, ippID string, input StudentSubmissionInput) (*models.Passport, error) {
	passport, err := s.load(ctx, ippID)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(passport.StudentID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the owning student may submit documentation")
	}
	if passport.Status != models.PassportStatusPendingStudentSub {
		return nil, s.invalidState(passport.Status, models.PassportStatusPendingFacultyAppr)
	}
	if input.ReportURL == "" {
		return nil, appErrors.Clone(appErrors.ErrMissingRequiredField, "report_url is required")
	}
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	now := s.now()
	from := passport.Status
	passport.Submission = models.StudentSubmission{
		ReportURL:      input.ReportURL,
		ProjectDocsURL: input.ProjectDocsURL,
		CertificateURL: input.CertificateURL,
		OfferLetterURL: input.OfferLetterURL,
		Reflection:     input.Reflection,
		SubmittedAt:    &now,
	}
	passport.Status = models.PassportStatusPendingFacultyAppr

	if err := s.applyTransition(ctx, passport, from, "store student submission"); err != nil {
		return nil, err
	}

	s.observe(from, passport.Status)
	s.audit(ctx, &actor, models.AuditActionPassportTransition, passport.IppID, map[string]interface{}{
		"from": from,
		"to":   passport.Status,
	})

	return passport, nil
}

// SubmitFacultyAssessment records the faculty verdict. Approval computes the
// performance summary and moves the passport to verified; rejection closes it.
func (s *PassportService) SubmitFacultyAssessment(ctx context.Context, actor models.Actor, ippID string, input FacultyAssessmentInput) (*models.Passport, error) {
	if !actor.IsStaff() {
		return nil, appErrors.ErrForbidden
	}
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	passport, err := s.load(ctx, ippID)
	if err != nil {
		return nil, err
	}
	if passport.Status != models.PassportStatusPendingFacultyAppr {
		return nil, s.invalidState(passport.Status, models.PassportStatusVerified)
	}

	now := s.now()
	from := passport.Status
	passport.Assessment = models.FacultyAssessment{
		FacultyID:         actor.UserID,
		FacultyName:       input.FacultyName,
		LearningOutcomes:  input.LearningOutcomes,
		AcademicAlignment: input.AcademicAlignment,
		Remarks:           input.Remarks,
		CreditsAwarded:    input.CreditsAwarded,
		Grade:             input.Grade,
		ApprovalStatus:    input.ApprovalStatus,
		SubmittedAt:       &now,
	}

	if input.ApprovalStatus == models.ApprovalApproved {
		passport.Verification.FacultyApproved = true
		passport.Verification.FacultyApprovedBy = actor.UserID
		passport.Verification.FacultyApprovedAt = &now
		passport.Summary = SummarizeEvaluation(passport.Evaluation)
		passport.Status = models.PassportStatusVerified
	} else {
		passport.Status = models.PassportStatusRejected
	}

	if err := s.applyTransition(ctx, passport, from, "store faculty assessment"); err != nil {
		return nil, err
	}

	s.observe(from, passport.Status)
	s.audit(ctx, &actor, models.AuditActionPassportTransition, passport.IppID, map[string]interface{}{
		"from":    from,
		"to":      passport.Status,
		"verdict": input.ApprovalStatus,
	})

	if passport.Status == models.PassportStatusVerified {
		s.notifyAdvance(ctx, passport, "Your internship passport has been verified by faculty and awaits publication.")
	} else {
		s.notifyAdvance(ctx, passport, "Your internship passport was rejected by faculty. Contact the placement cell for details.")
	}

	return passport, nil
}

// Publish makes a verified passport publicly visible and generates the
// completion certificate.
func (s *PassportService) Publish(ctx context.Context, actor models.Actor, ippID string) (*models.Passport, error) {
	if actor.Role != models.RoleAdmin {
		return nil, appErrors.ErrForbidden
	}

	passport, err := s.load(ctx, ippID)
	if err != nil {
		return nil, err
	}
	if passport.Status != models.PassportStatusVerified {
		return nil, s.invalidState(passport.Status, models.PassportStatusPublished)
	}

	studentName := passport.StudentID
	if student, err := s.students.FindByID(ctx, passport.StudentID); err == nil {
		studentName = student.FullName
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load student")
	}

	certificate, err := s.certificates.Generate(*passport, studentName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "generate certificate")
	}

	now := s.now()
	from := passport.Status
	passport.Certificate = certificate
	passport.Sharing.IsPublic = true
	passport.PublishedAt = &now
	passport.Status = models.PassportStatusPublished

	if err := s.applyTransition(ctx, passport, from, "publish passport"); err != nil {
		return nil, err
	}

	s.observe(from, passport.Status)
	s.audit(ctx, &actor, models.AuditActionPassportTransition, passport.IppID, map[string]interface{}{
		"from": from,
		"to":   passport.Status,
	})
	s.notifyAdvance(ctx, passport, "Your internship passport has been published. Your completion certificate is ready.")

	if s.publicViews != nil {
		view := s.buildPublicView(passport, studentName)
		if err := s.publicViews.SetPublicView(ctx, view); err != nil {
			s.logger.Warn("failed to prime public view cache", zap.String("ipp_id", passport.IppID), zap.Error(err))
		}
	}

	return passport, nil
}

// Get returns a passport to its owner or to staff. Anyone else gets not found
// so unpublished passports do not leak their existence.
func (s *PassportService) Get(ctx context.Context, actor models.Actor, ippID string) (*models.Passport, error) {
	passport, err := s.load(ctx, ippID)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && !actor.Owns(passport.StudentID) {
		return nil, appErrors.ErrNotFound
	}
	return passport, nil
}

// List returns a filtered page of passports for staff.
func (s *PassportService) List(ctx context.Context, actor models.Actor, filter models.PassportFilter) ([]models.PassportDetail, *models.Pagination, error) {
	if !actor.IsStaff() {
		return nil, nil, appErrors.ErrForbidden
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	passports, total, err := s.passports.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list passports")
	}
	return passports, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// ListByStudent returns all passports of one student, for staff or the
// student themselves.
func (s *PassportService) ListByStudent(ctx context.Context, actor models.Actor, studentID string) ([]models.Passport, error) {
	if !actor.IsStaff() && !actor.Owns(studentID) {
		return nil, appErrors.ErrForbidden
	}
	passports, err := s.passports.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list student passports")
	}
	return passports, nil
}

// GetPublic returns the unauthenticated projection of a published passport.
// Non-published passports are indistinguishable from missing ones.
func (s *PassportService) GetPublic(ctx context.Context, ippID string) (*models.PublicPassportView, error) {
	if s.publicViews != nil {
		view, err := s.publicViews.GetPublicView(ctx, ippID)
		if err != nil {
			s.logger.Debug("public view cache read failed", zap.String("ipp_id", ippID), zap.Error(err))
		}
		if view != nil {
			view.ViewCount = s.countView(ctx, ippID, view.ViewCount)
			s.observePublicView()
			return view, nil
		}
	}

	passport, err := s.load(ctx, ippID)
	if err != nil {
		return nil, err
	}
	if passport.Status != models.PassportStatusPublished || !passport.Sharing.IsPublic {
		return nil, appErrors.ErrNotFound
	}

	studentName := passport.StudentID
	if student, err := s.students.FindByID(ctx, passport.StudentID); err == nil {
		studentName = student.FullName
	}

	view := s.buildPublicView(passport, studentName)
	view.ViewCount = s.countView(ctx, ippID, int64(passport.Sharing.ViewCount))

	if s.publicViews != nil {
		if err := s.publicViews.SetPublicView(ctx, view); err != nil {
			s.logger.Debug("public view cache write failed", zap.String("ipp_id", ippID), zap.Error(err))
		}
	}
	s.observePublicView()
	return view, nil
}

func (s *PassportService) buildPublicView(passport *models.Passport, studentName string) *models.PublicPassportView {
	evaluation := passport.Evaluation
	evaluation.MentorEmail = ""
	return &models.PublicPassportView{
		IppID:       passport.IppID,
		StudentName: studentName,
		Details:     passport.Details,
		Summary:     passport.Summary,
		Evaluation:  evaluation,
		Certificate: passport.Certificate,
		PublishedAt: passport.PublishedAt,
	}
}

func (s *PassportService) countView(ctx context.Context, ippID string, fallback int64) int64 {
	if s.publicViews == nil {
		return fallback
	}
	count, err := s.publicViews.IncrementViewCount(ctx, ippID)
	if err != nil {
		s.logger.Debug("view counter increment failed", zap.String("ipp_id", ippID), zap.Error(err))
		return fallback
	}
	return count
}

func (s *PassportService) load(ctx context.Context, ippID string) (*models.Passport, error) {
	passport, err := s.passports.FindByIppID(ctx, ippID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load passport")
	}
	return passport, nil
}

// applyTransition checks the move against the lifecycle table and performs the
// conditional write. Re-issues keep the same status and skip the table check.
func (s *PassportService) applyTransition(ctx context.Context, passport *models.Passport, from models.PassportStatus, label string) error {
	if passport.Status != from && !models.CanTransition(from, passport.Status) {
		return s.invalidState(from, passport.Status)
	}
	if err := s.passports.Transition(ctx, passport, from); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return appErrors.Clone(appErrors.ErrInvalidState, "passport was updated concurrently")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, label)
	}
	return nil
}

func (s *PassportService) invalidState(from, to models.PassportStatus) *appErrors.Error {
	if from.Terminal() {
		return appErrors.Clone(appErrors.ErrInvalidState, fmt.Sprintf("passport is %s and can no longer change", from))
	}
	return appErrors.Clone(appErrors.ErrInvalidState, fmt.Sprintf("cannot move from %s to %s", from, to))
}

func (s *PassportService) observe(from, to models.PassportStatus) {
	if s.metrics != nil {
		s.metrics.ObservePassportTransition(string(from), string(to))
	}
}

func (s *PassportService) observePublicView() {
	if s.metrics != nil {
		s.metrics.ObservePublicView()
	}
}

func (s *PassportService) audit(ctx context.Context, actor *models.Actor, action, ippID string, values map[string]interface{}) {
	entry := &models.AuditLog{
		Action:     action,
		Resource:   "passport",
		ResourceID: &ippID,
	}
	if actor != nil && actor.UserID != "" {
		userID := actor.UserID
		entry.UserID = &userID
	}
	if values != nil {
		if raw, err := json.Marshal(values); err == nil {
			entry.NewValues = raw
		}
	}
	if err := s.passports.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("failed to write audit log", zap.String("ipp_id", ippID), zap.String("action", action), zap.Error(err))
	}
}

func (s *PassportService) notifyAdvance(ctx context.Context, passport *models.Passport, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.PassportAdvanced(ctx, StatusNotice{
		IppID:     passport.IppID,
		StudentID: passport.StudentID,
		Status:    passport.Status,
		Message:   message,
	})
}

func buildIppID(studentID, internshipID string, at time.Time) string {
	return fmt.Sprintf("IPP-%s-%s-%d", sanitizeIDComponent(studentID), sanitizeIDComponent(internshipID), at.Year())
}

// sanitizeIDComponent keeps the full alphanumeric content of the source ID.
// Truncating here would let distinct students collide on the same ippId.
func sanitizeIDComponent(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String())
}

func firstNonEmpty(values ...string) string {
	if len(values) == 0 {
		return ""
	}
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
