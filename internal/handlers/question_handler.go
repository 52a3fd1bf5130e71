package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"github.com/SAP-F-2025/evaluation-service/internal/services"
	"github.com/SAP-F-2025/evaluation-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// maxImportFileSize bounds the multipart upload of a question catalog
const maxImportFileSize = 5 << 20

type QuestionHandler struct {
	BaseHandler
	questionService services.QuestionService
	importService   services.ImportService
	exportService   services.ExportService
}

func NewQuestionHandler(
	questionService services.QuestionService,
	importService services.ImportService,
	exportService services.ExportService,
	logger utils.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:     NewBaseHandler(logger),
		questionService: questionService,
		importService:   importService,
		exportService:   exportService,
	}
}

// CreateQuestion creates a new question
// @Summary Create question
// @Tags questions
// @Accept json
// @Produce json
// @Param question body services.CreateQuestionRequest true "Question data"
// @Success 201 {object} SuccessResponse{data=models.Question}
// @Failure 400 {object} ErrorResponse
// @Router /questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	h.LogRequest(c, "Creating question")

	identity, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	question, err := h.questionService.Create(c.Request.Context(), &req, identity.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Question created", question, "question_id", question.ID)
}

// ListQuestions returns the active evaluation form to students and the filtered catalog to admins
// @Summary List questions
// @Tags questions
// @Produce json
// @Param category query string false "Category code"
// @Param is_active query bool false "Active flag"
// @Param search query string false "Text search"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} SuccessResponse{data=services.QuestionListResponse}
// @Router /questions [get]
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	identity, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	if !identity.IsAdmin() {
		questions, err := h.questionService.ListActive(c.Request.Context())
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, SuccessResponse{
			Message: "Questions retrieved",
			Data: services.QuestionListResponse{
				Questions: questions,
				Total:     int64(len(questions)),
				Limit:     len(questions),
			},
		})
		return
	}

	filters := repositories.QuestionFilters{
		Category:  optionalQuery(c, "category"),
		IsActive:  parseBoolQuery(c, "is_active"),
		Search:    c.Query("search"),
		Limit:     parseIntQuery(c, "limit", 20),
		Offset:    parseIntQuery(c, "offset", 0),
		SortBy:    c.DefaultQuery("sort_by", "order"),
		SortOrder: c.DefaultQuery("sort_order", "asc"),
	}

	response, err := h.questionService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Questions retrieved", Data: response})
}

// GetQuestion retrieves a question by ID
// @Summary Get question
// @Tags questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} SuccessResponse{data=models.Question}
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id} [get]
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	question, err := h.questionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Question retrieved", Data: question})
}

// UpdateQuestion updates an existing question
// @Summary Update question
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param question body services.UpdateQuestionRequest true "Question update data"
// @Success 200 {object} SuccessResponse{data=models.Question}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id} [put]
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Updating question", "question_id", id)

	identity, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), id, &req, identity.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Question updated", question, "question_id", id)
}

// DeleteQuestion removes a question from the catalog
// @Summary Delete question
// @Tags questions
// @Param id path string true "Question ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Deleting question", "question_id", id)

	identity, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), id, identity.UserID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Question deleted", nil, "question_id", id)
}

// ImportQuestions bulk-creates questions from an uploaded CSV or xlsx file
// @Summary Import questions
// @Tags questions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or xlsx catalog"
// @Success 200 {object} SuccessResponse{data=models.ImportResult}
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /questions/import [post]
func (h *QuestionHandler) ImportQuestions(c *gin.Context) {
	identity, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportFileSize)
	header, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "A catalog file is required", err, err.Error())
		return
	}

	file, err := header.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Could not read uploaded file", err)
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing questions", "filename", header.Filename, "size", header.Size)

	result, err := h.importService.ImportQuestionsFromFile(c.Request.Context(), file, header.Filename, identity.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if result.Status == models.ImportValidationFailed {
		h.RespondWithError(c, http.StatusUnprocessableEntity, "No valid questions in file", nil, result)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Questions imported", result,
		"success_count", result.SuccessCount, "error_count", result.ErrorCount)
}

// ExportQuestions downloads the active form in the import layout
// @Summary Export questions
// @Tags questions
// @Produce text/csv
// @Param format query string false "xlsx or csv"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Router /questions/export [get]
func (h *QuestionHandler) ExportQuestions(c *gin.Context) {
	format := models.ExportFormat(c.DefaultQuery("format", string(models.ExportXLSX)))

	var buf bytes.Buffer
	if err := h.exportService.ExportQuestions(c.Request.Context(), format, &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "questions."+string(format)))
	c.Data(http.StatusOK, contentTypeFor(format), buf.Bytes())
}
