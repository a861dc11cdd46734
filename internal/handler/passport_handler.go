package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-pms-api/internal/middleware"
	"github.com/noah-isme/campus-pms-api/internal/models"
	"github.com/noah-isme/campus-pms-api/internal/service"
	appErrors "github.com/noah-isme/campus-pms-api/pkg/errors"
	"github.com/noah-isme/campus-pms-api/pkg/response"
)

// PassportHandler wires the authenticated passport endpoints.
type PassportHandler struct {
	service *service.PassportService
}

// NewPassportHandler creates a new handler.
func NewPassportHandler(svc *service.PassportService) *PassportHandler {
	return &PassportHandler{service: svc}
}

// Create godoc
// @Summary Create internship passport
// @Description Open a passport in draft for an eligible placement
// @Tags Passports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreatePassportRequest true "Passport payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /passports [post]
func (h *PassportHandler) Create(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreatePassportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid passport payload"))
		return
	}

	passport, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, passport)
}

// List godoc
// @Summary List passports
// @Description List passports with filters, staff only
// @Tags Passports
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param student_id query string false "Filter by student"
// @Param company query string false "Filter by company name"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /passports [get]
func (h *PassportHandler) List(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.PassportFilter{
		StudentID: c.Query("student_id"),
		Status:    models.PassportStatus(c.Query("status")),
		Company:   c.Query("company"),
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "page_size", 20),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown status filter"))
		return
	}

	passports, pagination, err := h.service.List(c.Request.Context(), actor, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, passports, pagination)
}

// ListByStudent godoc
// @Summary List a student's passports
// @Description List all passports of one student, for staff or the student
// @Tags Passports
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /passports/student/{studentId} [get]
func (h *PassportHandler) ListByStudent(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	passports, err := h.service.ListByStudent(c.Request.Context(), actor, c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, passports, nil)
}

// Get godoc
// @Summary Get passport
// @Description Fetch one passport, owner or staff only
// @Tags Passports
// @Produce json
// @Security BearerAuth
// @Param ippId path string true "Passport ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /passports/{ippId} [get]
func (h *PassportHandler) Get(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	passport, err := h.service.Get(c.Request.Context(), actor, c.Param("ippId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, passport, nil)
}

// RequestEvaluation godoc
// @Summary Request mentor evaluation
// @Description Issue a single-use evaluation link for the company mentor
// @Tags Passports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ippId path string true "Passport ID"
// @Param payload body service.EvaluationRequestInput true "Mentor contact"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /passports/{ippId}/evaluation-request [post]
func (h *PassportHandler) RequestEvaluation(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.EvaluationRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid evaluation request payload"))
		return
	}

	result, err := h.service.RequestEvaluation(c.Request.Context(), actor, c.Param("ippId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// SubmitStudentDocumentation godoc
// @Summary Submit student documentation
// @Description The owning student uploads report links and reflection
// @Tags Passports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ippId path string true "Passport ID"
// @Param payload body service.StudentSubmissionInput true "Documentation payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /passports/{ippId}/student-submission [put]
func (h *PassportHandler) SubmitStudentDocumentation(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.StudentSubmissionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid submission payload"))
		return
	}

	passport, err := h.service.SubmitStudentDocumentation(c.Request.Context(), actor, c.Param("ippId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, passport, nil)
}

// SubmitFacultyAssessment godoc
// @Summary Submit faculty assessment
// @Description Faculty approves or rejects the passport
// @Tags Passports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ippId path string true "Passport ID"
// @Param payload body service.FacultyAssessmentInput true "Assessment payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /passports/{ippId}/faculty-assessment [put]
func (h *PassportHandler) SubmitFacultyAssessment(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.FacultyAssessmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assessment payload"))
		return
	}

	passport, err := h.service.SubmitFacultyAssessment(c.Request.Context(), actor, c.Param("ippId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, passport, nil)
}

// Publish godoc
// @Summary Publish passport
// @Description Make a verified passport public and generate the certificate
// @Tags Passports
// @Produce json
// @Security BearerAuth
// @Param ippId path string true "Passport ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /passports/{ippId}/publish [post]
func (h *PassportHandler) Publish(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	passport, err := h.service.Publish(c.Request.Context(), actor, c.Param("ippId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, passport, nil)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
