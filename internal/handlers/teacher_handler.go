package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"github.com/SAP-F-2025/evaluation-service/internal/services"
	"github.com/SAP-F-2025/evaluation-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type TeacherHandler struct {
	BaseHandler
	teacherService services.TeacherService
}

func NewTeacherHandler(teacherService services.TeacherService, logger utils.Logger) *TeacherHandler {
	return &TeacherHandler{
		BaseHandler:    NewBaseHandler(logger),
		teacherService: teacherService,
	}
}

// CreateTeacher creates a new teacher
// @Summary Create teacher
// @Tags teachers
// @Accept json
// @Produce json
// @Param teacher body services.CreateTeacherRequest true "Teacher data"
// @Success 201 {object} SuccessResponse{data=models.Teacher}
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /teachers [post]
func (h *TeacherHandler) CreateTeacher(c *gin.Context) {
	h.LogRequest(c, "Creating teacher")

	identity, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	var req services.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	teacher, err := h.teacherService.Create(c.Request.Context(), &req, identity.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Teacher created", teacher, "teacher_id", teacher.ID)
}

// ListTeachers lists teachers with filters
// @Summary List teachers
// @Tags teachers
// @Produce json
// @Param department query string false "Department"
// @Param is_active query bool false "Active flag"
// @Param search query string false "Name search"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} SuccessResponse{data=services.TeacherListResponse}
// @Router /teachers [get]
func (h *TeacherHandler) ListTeachers(c *gin.Context) {
	filters := repositories.TeacherFilters{
		Department: optionalQuery(c, "department"),
		IsActive:   parseBoolQuery(c, "is_active"),
		Search:     c.Query("search"),
		Limit:      parseIntQuery(c, "limit", 20),
		Offset:     parseIntQuery(c, "offset", 0),
		SortBy:     c.DefaultQuery("sort_by", "name"),
		SortOrder:  c.DefaultQuery("sort_order", "asc"),
	}

	response, err := h.teacherService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Teachers retrieved", Data: response})
}

// GetTeacher retrieves a teacher by ID
// @Summary Get teacher
// @Tags teachers
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} SuccessResponse{data=models.Teacher}
// @Failure 404 {object} ErrorResponse
// @Router /teachers/{id} [get]
func (h *TeacherHandler) GetTeacher(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	teacher, err := h.teacherService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Teacher retrieved", Data: teacher})
}

// UpdateTeacher updates an existing teacher
// @Summary Update teacher
// @Tags teachers
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param teacher body services.UpdateTeacherRequest true "Teacher update data"
// @Success 200 {object} SuccessResponse{data=models.Teacher}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /teachers/{id} [put]
func (h *TeacherHandler) UpdateTeacher(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Updating teacher", "teacher_id", id)

	identity, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	var req services.UpdateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	teacher, err := h.teacherService.Update(c.Request.Context(), id, &req, identity.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Teacher updated", teacher, "teacher_id", id)
}

// DeleteTeacher removes a teacher without evaluations
// @Summary Delete teacher
// @Tags teachers
// @Param id path string true "Teacher ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /teachers/{id} [delete]
func (h *TeacherHandler) DeleteTeacher(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Deleting teacher", "teacher_id", id)

	identity, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	if err := h.teacherService.Delete(c.Request.Context(), id, identity.UserID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Teacher deleted", nil, "teacher_id", id)
}
