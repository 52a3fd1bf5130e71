package handlers

import (
	"net/http"
	"time"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/services"
	"github.com/SAP-F-2025/evaluation-service/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	auth              *AuthMiddleware
	teacherHandler    *TeacherHandler
	questionHandler   *QuestionHandler
	evaluationHandler *EvaluationHandler
	reportHandler     *ReportHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	auth *AuthMiddleware,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		auth:              auth,
		teacherHandler:    NewTeacherHandler(serviceManager.Teacher(), logger),
		questionHandler:   NewQuestionHandler(serviceManager.Question(), serviceManager.Import(), serviceManager.Export(), logger),
		evaluationHandler: NewEvaluationHandler(serviceManager.Evaluation(), logger),
		reportHandler:     NewReportHandler(serviceManager.Report(), serviceManager.Export(), logger),
	}
}

// NewRouter builds the gin engine with the shared middleware stack and every route
func NewRouter(hm *HandlerManager, allowedOrigins []string, logger utils.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ContextLogger(logger))
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(cors.New(corsConfig(allowedOrigins)))

	hm.SetupRoutes(router)
	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	config := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", userIDHeader, userRoleHeader, "X-Request-ID"},
		ExposeHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = allowedOrigins
		config.AllowCredentials = true
	}
	return config
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	adminOnly := hm.auth.RequireRole(models.RoleAdmin)
	studentOnly := hm.auth.RequireRole(models.RoleStudent)

	v1 := router.Group("/api/v1")
	v1.Use(hm.auth.Authenticate())
	{
		teachers := v1.Group("/teachers", adminOnly)
		{
			teachers.POST("", hm.teacherHandler.CreateTeacher)
			teachers.GET("", hm.teacherHandler.ListTeachers)
			teachers.GET("/:id", hm.teacherHandler.GetTeacher)
			teachers.PUT("/:id", hm.teacherHandler.UpdateTeacher)
			teachers.DELETE("/:id", hm.teacherHandler.DeleteTeacher)
			teachers.GET("/:id/evaluations", hm.evaluationHandler.ListTeacherEvaluations)
		}

		questions := v1.Group("/questions")
		{
			// students read the active form, everything else is admin
			questions.GET("", hm.questionHandler.ListQuestions)
			questions.POST("", adminOnly, hm.questionHandler.CreateQuestion)
			questions.POST("/import", adminOnly, hm.questionHandler.ImportQuestions)
			questions.GET("/export", adminOnly, hm.questionHandler.ExportQuestions)
			questions.GET("/:id", adminOnly, hm.questionHandler.GetQuestion)
			questions.PUT("/:id", adminOnly, hm.questionHandler.UpdateQuestion)
			questions.DELETE("/:id", adminOnly, hm.questionHandler.DeleteQuestion)
		}

		evaluations := v1.Group("/evaluations")
		{
			evaluations.POST("", studentOnly, hm.evaluationHandler.SubmitEvaluation)
			evaluations.GET("/:id", adminOnly, hm.evaluationHandler.GetEvaluation)
			evaluations.DELETE("/:id", adminOnly, hm.evaluationHandler.DeleteEvaluation)
		}

		reports := v1.Group("/reports", adminOnly)
		{
			reports.GET("/teachers", hm.reportHandler.GetOverview)
			reports.GET("/teachers/:id", hm.reportHandler.GetTeacherReport)
			reports.GET("/teachers/:id/export", hm.reportHandler.ExportTeacher)
			reports.GET("/export", hm.reportHandler.ExportOverview)
		}
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "evaluation-service",
	})
}
