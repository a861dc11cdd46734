package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-pms-api/internal/service"
	appErrors "github.com/noah-isme/campus-pms-api/pkg/errors"
	"github.com/noah-isme/campus-pms-api/pkg/response"
)

// PublicHandler serves the unauthenticated surface: the mentor evaluation
// form endpoint and the public passport view.
type PublicHandler struct {
	service *service.PassportService
}

// NewPublicHandler creates a new handler.
func NewPublicHandler(svc *service.PassportService) *PublicHandler {
	return &PublicHandler{service: svc}
}

// companyEvaluationRequest is the mentor's submission with its access token.
type companyEvaluationRequest struct {
	Token string `json:"token"`
	service.MentorEvaluationInput
}

// SubmitCompanyEvaluation godoc
// @Summary Submit company mentor evaluation
// @Description Submit the mentor's ratings using the emailed single-use token
// @Tags Public
// @Accept json
// @Produce json
// @Param ippId path string true "Passport ID"
// @Param payload body companyEvaluationRequest true "Evaluation payload with token"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /passports/{ippId}/company-evaluation [put]
func (h *PublicHandler) SubmitCompanyEvaluation(c *gin.Context) {
	var req companyEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid evaluation payload"))
		return
	}

	token := req.Token
	if token == "" {
		token = c.Query("token")
	}

	passport, err := h.service.SubmitCompanyEvaluation(c.Request.Context(), c.Param("ippId"), token, req.MentorEvaluationInput)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, passport, nil)
}

// GetPublic godoc
// @Summary Public passport view
// @Description Fetch the public projection of a published passport
// @Tags Public
// @Produce json
// @Param ippId path string true "Passport ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /public/passports/{ippId} [get]
func (h *PublicHandler) GetPublic(c *gin.Context) {
	view, err := h.service.GetPublic(c.Request.Context(), c.Param("ippId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, view, nil)
}
