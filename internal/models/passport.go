package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PassportStatus is the closed set of lifecycle states for a passport.
type PassportStatus string

const (
	PassportStatusDraft              PassportStatus = "draft"
	PassportStatusPendingMentorEval  PassportStatus = "pending_mentor_eval"
	PassportStatusPendingStudentSub  PassportStatus = "pending_student_submission"
	PassportStatusPendingFacultyAppr PassportStatus = "pending_faculty_approval"
	PassportStatusVerified           PassportStatus = "verified"
	PassportStatusPublished          PassportStatus = "published"
	PassportStatusRejected           PassportStatus = "rejected"
)

// Valid reports whether the status belongs to the closed set.
func (s PassportStatus) Valid() bool {
	switch s {
	case PassportStatusDraft, PassportStatusPendingMentorEval, PassportStatusPendingStudentSub,
		PassportStatusPendingFacultyAppr, PassportStatusVerified, PassportStatusPublished,
		PassportStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from the status.
func (s PassportStatus) Terminal() bool {
	return s == PassportStatusPublished || s == PassportStatusRejected
}

// PerformanceGrade is the ordinal letter grade derived from the overall rating.
type PerformanceGrade string

const (
	GradeOutstanding PerformanceGrade = "O"
	GradeAPlus       PerformanceGrade = "A+"
	GradeA           PerformanceGrade = "A"
	GradeBPlus       PerformanceGrade = "B+"
	GradeB           PerformanceGrade = "B"
	GradeC           PerformanceGrade = "C"
	GradePass        PerformanceGrade = "P"
	GradeFail        PerformanceGrade = "F"
)

// RecommendationLevel captures the mentor's hiring recommendation.
type RecommendationLevel string

const (
	RecommendationHigh    RecommendationLevel = "Highly Recommended"
	RecommendationNormal  RecommendationLevel = "Recommended"
	RecommendationNeutral RecommendationLevel = "Neutral"
	RecommendationNone    RecommendationLevel = "Not Recommended"
)

// TechnicalSkills holds the five mentor-rated technical dimensions (1-10).
type TechnicalSkills struct {
	DomainKnowledge int `json:"domain_knowledge" validate:"required,min=1,max=10"`
	ProblemSolving  int `json:"problem_solving" validate:"required,min=1,max=10"`
	CodeQuality     int `json:"code_quality" validate:"required,min=1,max=10"`
	LearningAgility int `json:"learning_agility" validate:"required,min=1,max=10"`
	ToolProficiency int `json:"tool_proficiency" validate:"required,min=1,max=10"`
}

// SoftSkills holds the six mentor-rated soft dimensions (1-10).
type SoftSkills struct {
	Punctuality   int `json:"punctuality" validate:"required,min=1,max=10"`
	Teamwork      int `json:"teamwork" validate:"required,min=1,max=10"`
	Communication int `json:"communication" validate:"required,min=1,max=10"`
	Leadership    int `json:"leadership" validate:"required,min=1,max=10"`
	Adaptability  int `json:"adaptability" validate:"required,min=1,max=10"`
	WorkEthic     int `json:"work_ethic" validate:"required,min=1,max=10"`
}

// MentorEvaluation is the company mentor's submission.
type MentorEvaluation struct {
	MentorName          string              `json:"mentor_name"`
	MentorEmail         string              `json:"mentor_email"`
	MentorDesignation   string              `json:"mentor_designation,omitempty"`
	TechnicalSkills     TechnicalSkills     `json:"technical_skills"`
	SoftSkills          SoftSkills          `json:"soft_skills"`
	Strengths           []string            `json:"strengths,omitempty"`
	AreasForImprovement []string            `json:"areas_for_improvement,omitempty"`
	WouldRehire         bool                `json:"would_rehire"`
	RecommendationLevel RecommendationLevel `json:"recommendation_level,omitempty"`
	DetailedFeedback    string              `json:"detailed_feedback,omitempty"`
	SubmittedAt         *time.Time          `json:"submitted_at,omitempty"`
}

// Submitted reports whether an evaluation has been recorded.
func (e MentorEvaluation) Submitted() bool { return e.SubmittedAt != nil }

// StudentReflection is the student's free-form retrospective.
type StudentReflection struct {
	KeyLearnings []string `json:"key_learnings,omitempty"`
	Challenges   []string `json:"challenges,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
	FutureGoals  string   `json:"future_goals,omitempty"`
}

// StudentSubmission is the student's documentation package.
type StudentSubmission struct {
	ReportURL      string            `json:"report_url"`
	ProjectDocsURL string            `json:"project_docs_url,omitempty"`
	CertificateURL string            `json:"certificate_url,omitempty"`
	OfferLetterURL string            `json:"offer_letter_url,omitempty"`
	Reflection     StudentReflection `json:"reflection"`
	SubmittedAt    *time.Time        `json:"submitted_at,omitempty"`
}

// Submitted reports whether the student documentation has been recorded.
func (s StudentSubmission) Submitted() bool { return s.SubmittedAt != nil }

// LearningOutcomes captures the faculty view of what the internship delivered.
type LearningOutcomes struct {
	ObjectivesMet      bool     `json:"objectives_met"`
	SkillsAcquired     []string `json:"skills_acquired,omitempty"`
	IndustryExposure   int      `json:"industry_exposure" validate:"required,min=1,max=10"`
	ProfessionalGrowth int      `json:"professional_growth" validate:"required,min=1,max=10"`
}

// AcademicAlignment rates how the internship maps onto the curriculum.
type AcademicAlignment struct {
	RelevanceToCurriculum int `json:"relevance_to_curriculum" validate:"required,min=1,max=10"`
	PracticalApplication  int `json:"practical_application" validate:"required,min=1,max=10"`
	CareerReadiness       int `json:"career_readiness" validate:"required,min=1,max=10"`
}

// ApprovalStatus is the faculty verdict on an assessment.
type ApprovalStatus string

const (
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// FacultyAssessment translates the internship into academic credit.
type FacultyAssessment struct {
	FacultyID         string            `json:"faculty_id"`
	FacultyName       string            `json:"faculty_name,omitempty"`
	LearningOutcomes  LearningOutcomes  `json:"learning_outcomes"`
	AcademicAlignment AcademicAlignment `json:"academic_alignment"`
	Remarks           string            `json:"remarks,omitempty"`
	CreditsAwarded    int               `json:"credits_awarded"`
	Grade             string            `json:"grade,omitempty"`
	ApprovalStatus    ApprovalStatus    `json:"approval_status"`
	SubmittedAt       *time.Time        `json:"submitted_at,omitempty"`
}

// Verification tracks per-party sign-off on the passport.
type Verification struct {
	CompanyVerified   bool       `json:"company_verified"`
	CompanyVerifiedBy string     `json:"company_verified_by,omitempty"`
	CompanyVerifiedAt *time.Time `json:"company_verified_at,omitempty"`
	FacultyApproved   bool       `json:"faculty_approved"`
	FacultyApprovedBy string     `json:"faculty_approved_by,omitempty"`
	FacultyApprovedAt *time.Time `json:"faculty_approved_at,omitempty"`
}

// PassportSummary carries the derived performance figures. It is computed once
// at verification and never hand-edited afterwards.
type PassportSummary struct {
	OverallRating      float64          `json:"overall_rating"`
	PerformanceGrade   PerformanceGrade `json:"performance_grade"`
	EmployabilityScore int              `json:"employability_score"`
}

// Computed reports whether the summary has been derived.
func (s PassportSummary) Computed() bool { return s.PerformanceGrade != "" }

// Sharing controls public exposure of the passport.
type Sharing struct {
	IsPublic  bool `json:"is_public"`
	ViewCount int  `json:"view_count,omitempty"`
}

// Certificate references the generated completion artifact.
type Certificate struct {
	CertificateID  string     `json:"certificate_id,omitempty"`
	CertificateURL string     `json:"certificate_url,omitempty"`
	GeneratedAt    *time.Time `json:"generated_at,omitempty"`
}

// WorkMode enumerates where the internship was performed.
type WorkMode string

const (
	WorkModeRemote WorkMode = "Remote"
	WorkModeOnsite WorkMode = "On-site"
	WorkModeHybrid WorkMode = "Hybrid"
)

// InternshipDetails is the snapshot copied from the internship at passport
// creation. It never changes afterwards, so later internship edits cannot
// rewrite history.
type InternshipDetails struct {
	Company   string    `json:"company"`
	Role      string    `json:"role"`
	Domain    string    `json:"domain,omitempty"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Duration  string    `json:"duration,omitempty"`
	Location  string    `json:"location,omitempty"`
	WorkMode  WorkMode  `json:"work_mode,omitempty"`
}

// Passport is the Internship Performance Passport record.
type Passport struct {
	ID            string         `db:"id" json:"-"`
	IppID         string         `db:"ipp_id" json:"ipp_id"`
	StudentID     string         `db:"student_id" json:"student_id"`
	InternshipID  string         `db:"internship_id" json:"internship_id"`
	ApplicationID string         `db:"application_id" json:"application_id"`
	Status        PassportStatus `db:"status" json:"status"`

	Details      InternshipDetails `db:"details" json:"internship_details"`
	Evaluation   MentorEvaluation  `db:"evaluation" json:"company_mentor_evaluation,omitempty"`
	Submission   StudentSubmission `db:"submission" json:"student_submission,omitempty"`
	Assessment   FacultyAssessment `db:"assessment" json:"faculty_assessment,omitempty"`
	Verification Verification      `db:"verification" json:"verification"`
	Summary      PassportSummary   `db:"summary" json:"summary,omitempty"`
	Sharing      Sharing           `db:"sharing" json:"sharing"`
	Certificate  Certificate       `db:"certificate" json:"certificate,omitempty"`

	MentorToken          string     `db:"mentor_token" json:"-"`
	MentorTokenExpiresAt *time.Time `db:"mentor_token_expires_at" json:"-"`

	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	PublishedAt *time.Time `db:"published_at" json:"published_at,omitempty"`
}

// passportTransitions is the single source of truth for legal moves.
var passportTransitions = map[PassportStatus][]PassportStatus{
	PassportStatusDraft:              {PassportStatusPendingMentorEval, PassportStatusRejected},
	PassportStatusPendingMentorEval:  {PassportStatusPendingStudentSub, PassportStatusRejected},
	PassportStatusPendingStudentSub:  {PassportStatusPendingFacultyAppr, PassportStatusRejected},
	PassportStatusPendingFacultyAppr: {PassportStatusVerified, PassportStatusRejected},
	PassportStatusVerified:           {PassportStatusPublished, PassportStatusRejected},
}

// CanTransition reports whether moving from -> to is allowed by the lifecycle.
func CanTransition(from, to PassportStatus) bool {
	for _, next := range passportTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PassportFilter narrows passport listings.
type PassportFilter struct {
	StudentID string
	Status    PassportStatus
	Company   string
	Page      int
	PageSize  int
}

// PassportDetail joins a passport with its student directory entry.
type PassportDetail struct {
	Passport
	StudentName       string `db:"student_name" json:"student_name,omitempty"`
	StudentEmail      string `db:"student_email" json:"student_email,omitempty"`
	StudentDepartment string `db:"student_department" json:"student_department,omitempty"`
}

// PublicPassportView is the unauthenticated projection of a published passport.
// The mentor's personal email is redacted.
type PublicPassportView struct {
	IppID       string            `json:"ipp_id"`
	StudentName string            `json:"student_name"`
	Details     InternshipDetails `json:"internship_details"`
	Summary     PassportSummary   `json:"summary"`
	Evaluation  MentorEvaluation  `json:"company_mentor_evaluation"`
	Certificate Certificate       `json:"certificate"`
	PublishedAt *time.Time        `json:"published_at,omitempty"`
	ViewCount   int64             `json:"view_count,omitempty"`
}

// jsonValue marshals a sub-document for a JSONB column.
func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// jsonScan unmarshals a JSONB column into a sub-document, tolerating NULL.
func jsonScan(src, dst interface{}) error {
	if src == nil {
		return nil
	}
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, dst)
	case string:
		return json.Unmarshal([]byte(data), dst)
	default:
		return fmt.Errorf("unsupported jsonb source %T", src)
	}
}

func (d InternshipDetails) Value() (driver.Value, error) { return jsonValue(d) }
func (d *InternshipDetails) Scan(src interface{}) error  { return jsonScan(src, d) }

func (e MentorEvaluation) Value() (driver.Value, error) { return jsonValue(e) }
func (e *MentorEvaluation) Scan(src interface{}) error  { return jsonScan(src, e) }

func (s StudentSubmission) Value() (driver.Value, error) { return jsonValue(s) }
func (s *StudentSubmission) Scan(src interface{}) error  { return jsonScan(src, s) }

func (a FacultyAssessment) Value() (driver.Value, error) { return jsonValue(a) }
func (a *FacultyAssessment) Scan(src interface{}) error  { return jsonScan(src, a) }

func (v Verification) Value() (driver.Value, error) { return jsonValue(v) }
func (v *Verification) Scan(src interface{}) error  { return jsonScan(src, v) }

func (s PassportSummary) Value() (driver.Value, error) { return jsonValue(s) }
func (s *PassportSummary) Scan(src interface{}) error  { return jsonScan(src, s) }

func (s Sharing) Value() (driver.Value, error) { return jsonValue(s) }
func (s *Sharing) Scan(src interface{}) error  { return jsonScan(src, s) }

func (c Certificate) Value() (driver.Value, error) { return jsonValue(c) }
func (c *Certificate) Scan(src interface{}) error  { return jsonScan(src, c) }
