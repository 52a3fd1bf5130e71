package services

import (
	"log/slog"

	"github.com/SAP-F-2025/evaluation-service/internal/cache"
	"github.com/SAP-F-2025/evaluation-service/internal/events"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"github.com/SAP-F-2025/evaluation-service/internal/validator"
)

// ServiceManager gives handlers access to every service
type ServiceManager interface {
	Teacher() TeacherService
	Question() QuestionService
	Evaluation() EvaluationService
	Report() ReportService
	Export() ExportService
	Import() ImportService
}

type ServiceManagerConfig struct {
	Repository repositories.Repository
	Cache      cache.CacheService
	Publisher  events.EventPublisher
	Validator  *validator.Validator
	Logger     *slog.Logger
	Reports    ReportConfig
}

type serviceManager struct {
	teacher    TeacherService
	question   QuestionService
	evaluation EvaluationService
	report     ReportService
	export     ExportService
	importer   ImportService
}

func NewServiceManager(cfg ServiceManagerConfig) ServiceManager {
	notifier := NewEventNotifier(cfg.Publisher, cfg.Logger)
	readThrough := cache.NewReadThrough(cfg.Cache, cfg.Logger)
	reports := NewReportService(cfg.Repository, readThrough, cfg.Reports, cfg.Logger, cfg.Validator)

	return &serviceManager{
		teacher:    NewTeacherService(cfg.Repository, notifier, cfg.Logger, cfg.Validator),
		question:   NewQuestionService(cfg.Repository, notifier, cfg.Logger, cfg.Validator),
		evaluation: NewEvaluationService(cfg.Repository, notifier, cfg.Logger, cfg.Validator),
		report:     reports,
		export:     NewExportService(cfg.Repository, reports, cfg.Reports, cfg.Logger),
		importer:   NewImportService(cfg.Repository, notifier, cfg.Logger, cfg.Validator),
	}
}

func (m *serviceManager) Teacher() TeacherService       { return m.teacher }
func (m *serviceManager) Question() QuestionService     { return m.question }
func (m *serviceManager) Evaluation() EvaluationService { return m.evaluation }
func (m *serviceManager) Report() ReportService         { return m.report }
func (m *serviceManager) Export() ExportService         { return m.export }
func (m *serviceManager) Import() ImportService         { return m.importer }
