package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-pms-api/internal/models"
	"github.com/noah-isme/campus-pms-api/internal/repository"
	appErrors "github.com/noah-isme/campus-pms-api/pkg/errors"
	"github.com/noah-isme/campus-pms-api/pkg/magiclink"
)

type mockPassportStore struct {
	passports map[string]*models.Passport
	audits    []*models.AuditLog

	createErr error
	listErr   error
}

func newMockPassportStore() *mockPassportStore {
	return &mockPassportStore{passports: make(map[string]*models.Passport)}
}

func (m *mockPassportStore) put(p models.Passport) {
	clone := p
	m.passports[p.IppID] = &clone
}

func (m *mockPassportStore) Create(ctx context.Context, passport *models.Passport) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.put(*passport)
	return nil
}

func (m *mockPassportStore) FindByIppID(ctx context.Context, ippID string) (*models.Passport, error) {
	stored, ok := m.passports[ippID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (m *mockPassportStore) ExistsForStudentAndInternship(ctx context.Context, studentID, internshipID string) (bool, error) {
	for _, p := range m.passports {
		if p.StudentID == studentID && p.InternshipID == internshipID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockPassportStore) List(ctx context.Context, filter models.PassportFilter) ([]models.PassportDetail, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var out []models.PassportDetail
	for _, p := range m.passports {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, models.PassportDetail{Passport: *p})
	}
	return out, len(out), nil
}

func (m *mockPassportStore) ListByStudent(ctx context.Context, studentID string) ([]models.Passport, error) {
	var out []models.Passport
	for _, p := range m.passports {
		if p.StudentID == studentID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockPassportStore) Transition(ctx context.Context, passport *models.Passport, from models.PassportStatus) error {
	stored, ok := m.passports[passport.IppID]
	if !ok || stored.Status != from {
		return repository.ErrStaleState
	}
	m.put(*passport)
	return nil
}

func (m *mockPassportStore) TransitionConsumingToken(ctx context.Context, passport *models.Passport, from models.PassportStatus, token string) error {
	stored, ok := m.passports[passport.IppID]
	if !ok || stored.Status != from || stored.MentorToken == "" || stored.MentorToken != token {
		return repository.ErrStaleState
	}
	passport.MentorToken = ""
	passport.MentorTokenExpiresAt = nil
	m.put(*passport)
	return nil
}

func (m *mockPassportStore) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.audits = append(m.audits, log)
	return nil
}

type mockApplicationStore struct {
	byID     map[string]*models.Application
	eligible *models.Application
	linked   map[string]string
}

func (m *mockApplicationStore) FindByID(ctx context.Context, id string) (*models.Application, error) {
	app, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return app, nil
}

func (m *mockApplicationStore) FindEligible(ctx context.Context, studentID, internshipID string) (*models.Application, error) {
	if m.eligible == nil || m.eligible.StudentID != studentID || m.eligible.InternshipID != internshipID {
		return nil, sql.ErrNoRows
	}
	return m.eligible, nil
}

func (m *mockApplicationStore) LinkPassport(ctx context.Context, id, ippID string) error {
	if m.linked == nil {
		m.linked = make(map[string]string)
	}
	m.linked[id] = ippID
	return nil
}

type mockInternshipStore struct {
	internship *models.Internship
}

func (m *mockInternshipStore) FindByID(ctx context.Context, id string) (*models.Internship, error) {
	if m.internship == nil || m.internship.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.internship, nil
}

type mockStudentStore struct {
	student *models.Student
}

func (m *mockStudentStore) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if m.student == nil || m.student.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.student, nil
}

type stubCertificateIssuer struct {
	generated int
	fail      bool
}

func (s *stubCertificateIssuer) Generate(passport models.Passport, studentName string) (models.Certificate, error) {
	if s.fail {
		return models.Certificate{}, assert.AnError
	}
	s.generated++
	now := time.Now().UTC()
	return models.Certificate{
		CertificateID:  "CERT-test",
		CertificateURL: "http://localhost:8080/certificates/" + passport.IppID + ".pdf",
		GeneratedAt:    &now,
	}, nil
}

type recordingNotifier struct {
	evaluations []EvaluationNotice
	advances    []StatusNotice
}

func (r *recordingNotifier) EvaluationRequested(ctx context.Context, notice EvaluationNotice) {
	r.evaluations = append(r.evaluations, notice)
}

func (r *recordingNotifier) PassportAdvanced(ctx context.Context, notice StatusNotice) {
	r.advances = append(r.advances, notice)
}

type recordingObserver struct {
	transitions [][2]string
	publicViews int
}

func (r *recordingObserver) ObservePassportTransition(from, to string) {
	r.transitions = append(r.transitions, [2]string{from, to})
}

func (r *recordingObserver) ObservePublicView() {
	r.publicViews++
}

type fakeViewCache struct {
	views  map[string]*models.PublicPassportView
	counts map[string]int64
}

func newFakeViewCache() *fakeViewCache {
	return &fakeViewCache{views: make(map[string]*models.PublicPassportView), counts: make(map[string]int64)}
}

func (f *fakeViewCache) GetPublicView(ctx context.Context, ippID string) (*models.PublicPassportView, error) {
	view, ok := f.views[ippID]
	if !ok {
		return nil, nil
	}
	clone := *view
	return &clone, nil
}

func (f *fakeViewCache) SetPublicView(ctx context.Context, view *models.PublicPassportView) error {
	clone := *view
	f.views[view.IppID] = &clone
	return nil
}

func (f *fakeViewCache) IncrementViewCount(ctx context.Context, ippID string) (int64, error) {
	f.counts[ippID]++
	return f.counts[ippID], nil
}

type passportFixture struct {
	service      *PassportService
	store        *mockPassportStore
	applications *mockApplicationStore
	notifier     *recordingNotifier
	certificates *stubCertificateIssuer
	cache        *fakeViewCache
	metrics      *recordingObserver
	signer       *magiclink.Signer
}

func newPassportFixture(t *testing.T) *passportFixture {
	t.Helper()
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 26, 0, 0, 0, 0, time.UTC)

	store := newMockPassportStore()
	applications := &mockApplicationStore{
		byID: map[string]*models.Application{},
		eligible: &models.Application{
			ID:           "app-1",
			StudentID:    "stu-1",
			InternshipID: "int-1",
			Status:       models.ApplicationStatusCompleted,
		},
	}
	internships := &mockInternshipStore{
		internship: &models.Internship{
			ID:        "int-1",
			Title:     "Backend Engineering Intern",
			Company:   "Acme Corp",
			Domain:    "Backend",
			Location:  "Bengaluru",
			WorkMode:  models.WorkModeHybrid,
			Duration:  "6 months",
			StartDate: start,
			EndDate:   end,
		},
	}
	students := &mockStudentStore{
		student: &models.Student{
			ID:       "stu-1",
			FullName: "Priya Sharma",
			Email:    "priya@example.edu",
		},
	}
	notifier := &recordingNotifier{}
	certificates := &stubCertificateIssuer{}
	cache := newFakeViewCache()
	metrics := &recordingObserver{}
	signer := magiclink.NewSigner("test-secret", time.Hour)

	svc := NewPassportService(PassportServiceDeps{
		Passports:    store,
		Applications: applications,
		Internships:  internships,
		Students:     students,
		Links:        signer,
		Certificates: certificates,
		Notifier:     notifier,
		PublicViews:  cache,
		Metrics:      metrics,
		LinkBaseURL:  "http://localhost:5174",
	})

	return &passportFixture{
		service:      svc,
		store:        store,
		applications: applications,
		notifier:     notifier,
		certificates: certificates,
		cache:        cache,
		metrics:      metrics,
		signer:       signer,
	}
}

func studentActor() models.Actor {
	return models.Actor{UserID: "user-stu", Role: models.RoleStudent, StudentID: "stu-1"}
}

func facultyActor() models.Actor {
	return models.Actor{UserID: "user-fac", Role: models.RoleFaculty}
}

func adminActor() models.Actor {
	return models.Actor{UserID: "user-adm", Role: models.RoleAdmin}
}

func fullEvaluationInput() MentorEvaluationInput {
	return MentorEvaluationInput{
		MentorName:  "Rahul Verma",
		MentorEmail: "rahul@acme.example",
		TechnicalSkills: models.TechnicalSkills{
			DomainKnowledge: 8, ProblemSolving: 9, CodeQuality: 8, LearningAgility: 9, ToolProficiency: 8,
		},
		SoftSkills: models.SoftSkills{
			Punctuality: 9, Teamwork: 8, Communication: 8, Leadership: 7, Adaptability: 8, WorkEthic: 9,
		},
		WouldRehire:         true,
		RecommendationLevel: models.RecommendationHigh,
	}
}

// advance walks a passport through the workflow up to the requested status.
func (f *passportFixture) advance(t *testing.T, target models.PassportStatus) *models.Passport {
	t.Helper()
	ctx := context.Background()

	passport, err := f.service.Create(ctx, studentActor(), CreatePassportRequest{InternshipID: "int-1"})
	require.NoError(t, err)
	if target == models.PassportStatusDraft {
		return passport
	}

	result, err := f.service.RequestEvaluation(ctx, facultyActor(), passport.IppID, EvaluationRequestInput{
		MentorName:  "Rahul Verma",
		MentorEmail: "rahul@acme.example",
	})
	require.NoError(t, err)
	passport = result.Passport
	if target == models.PassportStatusPendingMentorEval {
		return passport
	}

	token := f.store.passports[passport.IppID].MentorToken
	passport, err = f.service.SubmitCompanyEvaluation(ctx, passport.IppID, token, fullEvaluationInput())
	require.NoError(t, err)
	if target == models.PassportStatusPendingStudentSub {
		return passport
	}

	passport, err = f.service.SubmitStudentDocumentation(ctx, studentActor(), passport.IppID, StudentSubmissionInput{
		ReportURL: "https://docs.example.edu/report.pdf",
	})
	require.NoError(t, err)
	if target == models.PassportStatusPendingFacultyAppr {
		return passport
	}

	passport, err = f.service.SubmitFacultyAssessment(ctx, facultyActor(), passport.IppID, FacultyAssessmentInput{
		LearningOutcomes: models.LearningOutcomes{
			ObjectivesMet: true, IndustryExposure: 9, ProfessionalGrowth: 8,
		},
		AcademicAlignment: models.AcademicAlignment{
			RelevanceToCurriculum: 8, PracticalApplication: 9, CareerReadiness: 8,
		},
		CreditsAwarded: 4,
		ApprovalStatus: models.ApprovalApproved,
	})
	require.NoError(t, err)
	if target == models.PassportStatusVerified {
		return passport
	}

	passport, err = f.service.Publish(ctx, adminActor(), passport.IppID)
	require.NoError(t, err)
	return passport
}

func TestCreatePassport(t *testing.T) {
	f := newPassportFixture(t)

	passport, err := f.service.Create(context.Background(), studentActor(), CreatePassportRequest{InternshipID: "int-1"})
	require.NoError(t, err)

	assert.Equal(t, models.PassportStatusDraft, passport.Status)
	assert.True(t, strings.HasPrefix(passport.IppID, "IPP-STU1-INT1-"))
	assert.Equal(t, "Acme Corp", passport.Details.Company)
	assert.Equal(t, "app-1", passport.ApplicationID)
	assert.Equal(t, passport.IppID, f.applications.linked["app-1"])
	require.Len(t, f.store.audits, 1)
	assert.Equal(t, models.AuditActionPassportCreate, f.store.audits[0].Action)
}

func TestCreatePassportDuplicate(t *testing.T) {
	f := newPassportFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, studentActor(), CreatePassportRequest{InternshipID: "int-1"})
	require.NoError(t, err)

	_, err = f.service.Create(ctx, studentActor(), CreatePassportRequest{InternshipID: "int-1"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestCreatePassportNotEligible(t *testing.T) {
	f := newPassportFixture(t)
	f.applications.eligible = nil

	_, err := f.service.Create(context.Background(), studentActor(), CreatePassportRequest{InternshipID: "int-1"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotEligible.Code, appErr.Code)
}

func TestCreatePassportForOtherStudentForbidden(t *testing.T) {
	f := newPassportFixture(t)

	_, err := f.service.Create(context.Background(), studentActor(), CreatePassportRequest{
		StudentID:    "stu-2",
		InternshipID: "int-1",
	})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestRequestEvaluationIssuesLink(t *testing.T) {
	f := newPassportFixture(t)
	passport := f.advance(t, models.PassportStatusDraft)

	result, err := f.service.RequestEvaluation(context.Background(), facultyActor(), passport.IppID, EvaluationRequestInput{
		MentorName:  "Rahul Verma",
		MentorEmail: "rahul@acme.example",
	})
	require.NoError(t, err)

	assert.Equal(t, models.PassportStatusPendingMentorEval, result.Passport.Status)
	assert.Contains(t, result.EvaluationLink, passport.IppID)
	assert.True(t, result.TokenExpiresAt.After(time.Now()))

	stored := f.store.passports[passport.IppID]
	assert.NotEmpty(t, stored.MentorToken)
	assert.Equal(t, "rahul@acme.example", stored.Evaluation.MentorEmail)

	require.Len(t, f.notifier.evaluations, 1)
	assert.Equal(t, "rahul@acme.example", f.notifier.evaluations[0].MentorEmail)
	assert.Equal(t, result.EvaluationLink, f.notifier.evaluations[0].EvaluationLink)
}

func TestRequestEvaluationReissueReplacesToken(t *testing.T) {
	f := newPassportFixture(t)
	passport := f.advance(t, models.PassportStatusPendingMentorEval)
	firstToken := f.store.passports[passport.IppID].MentorToken

	_, err := f.service.RequestEvaluation(context.Background(), facultyActor(), passport.IppID, EvaluationRequestInput{
		MentorName:  "Rahul Verma",
		MentorEmail: "rahul@acme.example",
	})
	require.NoError(t, err)

	secondToken := f.store.passports[passport.IppID].MentorToken
	assert.NotEqual(t, firstToken, secondToken)

	// The replaced link no longer works.
	_, err = f.service.SubmitCompanyEvaluation(context.Background(), passport.IppID, firstToken, fullEvaluationInput())
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidToken.Code, appErr.Code)
}

func TestRequestEvaluationForbiddenForStudents(t *testing.T) {
	f := newPassportFixture(t)
	passport := f.advance(t, models.PassportStatusDraft)

	_, err := f.service.RequestEvaluation(context.Background(), studentActor(), passport.IppID, EvaluationRequestInput{
		MentorName:  "Rahul Verma",
		MentorEmail: "rahul@acme.example",
	})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestSubmitCompanyEvaluation(t *testing.T) {
	f := newPassportFixture(t)
	passport := f.advance(t, models.PassportStatusPendingMentorEval)
	token := f.store.passports[passport.IppID].MentorToken

	updated, err := f.service.SubmitCompanyEvaluation(context.Background(), passport.IppID, token, fullEvaluationInput())
	require.NoError(t, err)

	assert.Equal(t, models.PassportStatusPendingStudentSub, updated.Status)
	assert.True(t, updated.Verification.CompanyVerified)
	assert.Equal(t, "rahul@acme.example", updated.Verification.CompanyVerifiedBy)
	assert.True(t, updated.Evaluation.Submitted())
	assert.Empty(t, updated.MentorToken)
	assert.Empty(t, f.store.passports[passport.IppID].MentorToken)
	require.Len(t, f.notifier.advances, 1)
}

func TestSubmitCompanyEvaluationTokenSingleUse(t *testing.T) {
	f := newPassportFixture(t)
	passport := f.advance(t, models.PassportStatusPendingMentorEval)
	token := f.store.passports[passport.IppID].MentorToken

	_, err := f.service.SubmitCompanyEvaluation(context.Background(), passport.IppID, token, fullEvaluationInput())
	require.NoError(t, err)

	_, err = f.service.SubmitCompanyEvaluation(context.Background(), passport.IppID, token, fullEvaluationInput())
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidToken.Code, appErr.Code)
}

func TestSubmitCompanyEvaluationForeignToken(t *testing.T) {
	f := newPassportFixture(t)
	passport := f.advance(t, models.PassportStatusPendingMentorEval)

	foreign, _, err := f.signer.Generate("IPP-OTHER-INT1-2026")
	require.NoError(t, err)

	_, err = f.service.SubmitCompanyEvaluation(context.Background(), passport.IppID, foreign, fullEvaluationInput())
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidToken.Code, appErr.Code)
}

func TestSubmitCompanyEvaluationRejectsBadRatings(t *testing.T) {
	f := newPassportFixture(t)
	passport := f.advance(t, models.PassportStatusPendingMentorEval)
	token := f.store.passports[passport.IppID].MentorToken

	input := fullEvaluationInput()
	input.TechnicalSkills.CodeQuality = 11

	_, err := f.service.SubmitCompanyEvaluation(context.Background(), passport.IppID, token, input)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestSubmitStudentDocumentation(t *testing.T) {
	f := newPassportFixture(t)
	passport := f.advance(t, models.PassportStatusPendingStudentSub)

	updated, err := f.service.SubmitStudentDocumentation(context.Background(), studentActor(), passport.IppID, StudentSubmissionInput{
		ReportURL: "https://docs.example.edu/report.pdf",
		Reflection: models.StudentReflection{
			KeyLearnings: []string{"production debugging"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.PassportStatusPendingFacultyAppr, updated.Status)
	assert.True(t, updated.Submission.Submitted())
}

func TestSubmitStudentDocumentationRequiresReport(t *testing.T) {
	f := newPassportFixture(t)
	passport := f.advance(t, models.PassportStatusPendingStudentSub)

	_, err := f.service.SubmitStudentDocumentation(context.Background(), studentActor(), passport.IppID, StudentSubmissionInput{})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrMissingRequiredField.Code, appErr.Code)
}

func TestSubmitStudentDocumentationOwnerOnly(t *testing.T) {
	f := newPassportFixture(t)
	passport := f.advance(t, models.PassportStatusPendingStudentSub)

	other := models.Actor{UserID: "user-x", Role: models.RoleStudent, StudentID: "stu-2"}
	_, err := f.service.SubmitStudentDocumentation(context.Background(), other, passport.IppID, StudentSubmissionInput{
		ReportURL: "https://docs.example.edu/report.pdf",
	})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestSubmitFacultyAssessmentApproval(t *testing.T) {
	f := newPassportFixture(t)
	passport := f.advance(t, models.PassportStatusVerified)

	assert.Equal(t, models.PassportStatusVerified, passport.Status)
	assert.True(t, passport.Verification.FacultyApproved)
	assert.True(t, passport.Summary.Computed())
	assert.Equal(t, 8.3, passport.Summary.OverallRating)
	assert.Equal(t, models.GradeA, passport.Summary.PerformanceGrade)
}

func TestSubmitFacultyAssessmentRejection(t *testing.T) {
	f := newPassportFixture(t)
	passport := f.advance(t, models.PassportStatusPendingFacultyAppr)

	updated, err := f.service.SubmitFacultyAssessment(context.Background(), facultyActor(), passport.IppID, FacultyAssessmentInput{
		LearningOutcomes: models.LearningOutcomes{
			ObjectivesMet: false, IndustryExposure: 3, ProfessionalGrowth: 2,
		},
		AcademicAlignment: models.AcademicAlignment{
			RelevanceToCurriculum: 2, PracticalApplication: 2, CareerReadiness: 2,
		},
		ApprovalStatus: models.ApprovalRejected,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PassportStatusRejected, updated.Status)
	assert.False(t, updated.Summary.Computed())

	// Terminal: nothing moves a rejected passport.
	_, err = f.service.SubmitStudentDocumentation(context.Background(), studentActor(), passport.IppID, StudentSubmissionInput{
		ReportURL: "https://docs.example.edu/report.pdf",
	})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErr.Code)
}

func TestSubmitFacultyAssessmentConcurrentVerdicts(t *testing.T) {
	f := newPassportFixture(t)
	passport := f.advance(t, models.PassportStatusPendingFacultyAppr)

	input := FacultyAssessmentInput{
		LearningOutcomes: models.LearningOutcomes{
			ObjectivesMet: true, IndustryExposure: 8, ProfessionalGrowth: 8,
		},
		AcademicAlignment: models.AcademicAlignment{
			RelevanceToCurriculum: 8, PracticalApplication: 8, CareerReadiness: 8,
		},
		ApprovalStatus: models.ApprovalApproved,
	}

	_, err := f.service.SubmitFacultyAssessment(context.Background(), facultyActor(), passport.IppID, input)
	require.NoError(t, err)

	_, err = f.service.SubmitFacultyAssessment(context.Background(), facultyActor(), passport.IppID, input)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErr.Code)
}

func TestPublish(t *testing.T) {
	f := newPassportFixture(t)
	passport := f.advance(t, models.PassportStatusPublished)

	assert.Equal(t, models.PassportStatusPublished, passport.Status)
	assert.True(t, passport.Sharing.IsPublic)
	assert.NotNil(t, passport.PublishedAt)
	assert.Equal(t, "CERT-test", passport.Certificate.CertificateID)
	assert.Equal(t, 1, f.certificates.generated)

	// Cache primed with the redacted projection.
	view := f.cache.views[passport.IppID]
	require.NotNil(t, view)
	assert.Equal(t, "Priya Sharma", view.StudentName)
	assert.Empty(t, view.Evaluation.MentorEmail)
}

func TestPublishRequiresAdmin(t *testing.T) {
	f := newPassportFixture(t)
	passport := f.advance(t, models.PassportStatusVerified)

	_, err := f.service.Publish(context.Background(), facultyActor(), passport.IppID)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestPublishRequiresVerified(t *testing.T) {
	f := newPassportFixture(t)
	passport := f.advance(t, models.PassportStatusPendingFacultyAppr)

	_, err := f.service.Publish(context.Background(), adminActor(), passport.IppID)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErr.Code)
}

func TestGetHidesFromStrangers(t *testing.T) {
	f := newPassportFixture(t)
	passport := f.advance(t, models.PassportStatusDraft)

	_, err := f.service.Get(context.Background(), studentActor(), passport.IppID)
	require.NoError(t, err)

	_, err = f.service.Get(context.Background(), facultyActor(), passport.IppID)
	require.NoError(t, err)

	other := models.Actor{UserID: "user-x", Role: models.RoleStudent, StudentID: "stu-2"}
	_, err = f.service.Get(context.Background(), other, passport.IppID)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)

	recruiter := models.Actor{UserID: "user-r", Role: models.RoleRecruiter}
	_, err = f.service.Get(context.Background(), recruiter, passport.IppID)
	appErr = appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestListRequiresStaff(t *testing.T) {
	f := newPassportFixture(t)
	f.advance(t, models.PassportStatusDraft)

	passports, pagination, err := f.service.List(context.Background(), adminActor(), models.PassportFilter{})
	require.NoError(t, err)
	assert.Len(t, passports, 1)
	assert.Equal(t, 1, pagination.TotalCount)

	_, _, err = f.service.List(context.Background(), studentActor(), models.PassportFilter{})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestListByStudentOwnership(t *testing.T) {
	f := newPassportFixture(t)
	f.advance(t, models.PassportStatusDraft)

	passports, err := f.service.ListByStudent(context.Background(), studentActor(), "stu-1")
	require.NoError(t, err)
	assert.Len(t, passports, 1)

	other := models.Actor{UserID: "user-x", Role: models.RoleStudent, StudentID: "stu-2"}
	_, err = f.service.ListByStudent(context.Background(), other, "stu-1")
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestGetPublicOnlyPublished(t *testing.T) {
	f := newPassportFixture(t)
	passport := f.advance(t, models.PassportStatusVerified)

	_, err := f.service.GetPublic(context.Background(), passport.IppID)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)

	_, err = f.service.GetPublic(context.Background(), "IPP-MISSING-X-2026")
	appErr = appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestGetPublicRedactsAndCounts(t *testing.T) {
	f := newPassportFixture(t)
	passport := f.advance(t, models.PassportStatusPublished)

	first, err := f.service.GetPublic(context.Background(), passport.IppID)
	require.NoError(t, err)
	assert.Equal(t, "Priya Sharma", first.StudentName)
	assert.Empty(t, first.Evaluation.MentorEmail)
	assert.Equal(t, "Rahul Verma", first.Evaluation.MentorName)
	assert.True(t, first.Summary.Computed())

	second, err := f.service.GetPublic(context.Background(), passport.IppID)
	require.NoError(t, err)
	assert.Greater(t, second.ViewCount, first.ViewCount)
	assert.Equal(t, 2, f.metrics.publicViews)
}

func TestBuildIppIDKeepsFullIdentifiers(t *testing.T) {
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	first := buildIppID("IEEE-RANCHI-001", "INT-01", at)
	second := buildIppID("IEEE-RANCHI-002", "INT-01", at)

	assert.Equal(t, "IPP-IEEERANCHI001-INT01-2026", first)
	assert.Equal(t, "IPP-IEEERANCHI002-INT01-2026", second)
	assert.NotEqual(t, first, second)
}

func TestWorkflowTransitionsFollowLifecycleTable(t *testing.T) {
	f := newPassportFixture(t)
	f.advance(t, models.PassportStatusPublished)

	require.NotEmpty(t, f.metrics.transitions)
	for _, move := range f.metrics.transitions {
		from := models.PassportStatus(move[0])
		to := models.PassportStatus(move[1])
		if from == to {
			continue
		}
		assert.True(t, models.CanTransition(from, to), "illegal move %s -> %s", from, to)
	}
}
