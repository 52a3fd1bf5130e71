package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"github.com/SAP-F-2025/evaluation-service/internal/services"
	"github.com/SAP-F-2025/evaluation-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type EvaluationHandler struct {
	BaseHandler
	evaluationService services.EvaluationService
}

func NewEvaluationHandler(evaluationService services.EvaluationService, logger utils.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		BaseHandler:       NewBaseHandler(logger),
		evaluationService: evaluationService,
	}
}

// SubmitEvaluation records the calling student's evaluation of a teacher
// @Summary Submit evaluation
// @Tags evaluations
// @Accept json
// @Produce json
// @Param evaluation body services.SubmitEvaluationRequest true "Answers and comments"
// @Success 201 {object} SuccessResponse{data=models.Evaluation}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /evaluations [post]
func (h *EvaluationHandler) SubmitEvaluation(c *gin.Context) {
	identity, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	var req services.SubmitEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	h.LogRequest(c, "Submitting evaluation", "teacher_id", req.TeacherID)

	evaluation, err := h.evaluationService.Submit(c.Request.Context(), identity.UserID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Evaluation submitted", evaluation,
		"evaluation_id", evaluation.ID, "teacher_id", evaluation.TeacherID)
}

// GetEvaluation retrieves an evaluation by ID
// @Summary Get evaluation
// @Tags evaluations
// @Produce json
// @Param id path string true "Evaluation ID"
// @Success 200 {object} SuccessResponse{data=models.Evaluation}
// @Failure 404 {object} ErrorResponse
// @Router /evaluations/{id} [get]
func (h *EvaluationHandler) GetEvaluation(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	evaluation, err := h.evaluationService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Evaluation retrieved", Data: evaluation})
}

// DeleteEvaluation removes an evaluation
// @Summary Delete evaluation
// @Tags evaluations
// @Param id path string true "Evaluation ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /evaluations/{id} [delete]
func (h *EvaluationHandler) DeleteEvaluation(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	identity, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	if err := h.evaluationService.Delete(c.Request.Context(), id, identity.UserID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Evaluation deleted", nil, "evaluation_id", id)
}

// ListTeacherEvaluations lists the evaluations submitted for one teacher
// @Summary List evaluations of a teacher
// @Tags evaluations
// @Produce json
// @Param id path string true "Teacher ID"
// @Param student_id query string false "Student ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} SuccessResponse{data=services.EvaluationListResponse}
// @Failure 404 {object} ErrorResponse
// @Router /teachers/{id}/evaluations [get]
func (h *EvaluationHandler) ListTeacherEvaluations(c *gin.Context) {
	teacherID := ParseStringIDParam(c, "id")
	if teacherID == "" {
		return
	}

	filters := repositories.EvaluationFilters{
		StudentID: optionalQuery(c, "student_id"),
		Limit:     parseIntQuery(c, "limit", 20),
		Offset:    parseIntQuery(c, "offset", 0),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	response, err := h.evaluationService.ListByTeacher(c.Request.Context(), teacherID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Evaluations retrieved", Data: response})
}
