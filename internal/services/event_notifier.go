package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/evaluation-service/internal/events"
	"github.com/SAP-F-2025/evaluation-service/internal/models"
)

// EventNotifier publishes domain events after successful mutations.
// Publishing is best effort: a failed publish is logged and never fails the caller.
type EventNotifier interface {
	EvaluationSubmitted(ctx context.Context, evaluation *models.Evaluation)
	EvaluationDeleted(ctx context.Context, evaluation *models.Evaluation, actorID string)
	QuestionChanged(ctx context.Context, eventType events.EventType, question *models.Question)
	QuestionsImported(ctx context.Context, count int, actorID string)
	TeacherChanged(ctx context.Context, eventType events.EventType, teacher *models.Teacher)
}

type eventNotifier struct {
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewEventNotifier(publisher events.EventPublisher, logger *slog.Logger) EventNotifier {
	if publisher == nil {
		publisher = events.NewMockEventPublisher(logger)
	}
	return &eventNotifier{
		publisher: publisher,
		logger:    logger,
	}
}

func (n *eventNotifier) EvaluationSubmitted(ctx context.Context, evaluation *models.Evaluation) {
	n.publish(ctx, events.NewEvent(events.EventEvaluationSubmitted, events.EvaluationSubmittedEvent{
		EvaluationID: evaluation.ID,
		TeacherID:    evaluation.TeacherID,
		StudentID:    evaluation.StudentID,
		SubmittedAt:  evaluation.SubmittedAt,
	}))
}

func (n *eventNotifier) EvaluationDeleted(ctx context.Context, evaluation *models.Evaluation, actorID string) {
	n.publish(ctx, events.NewEvent(events.EventEvaluationDeleted, events.EvaluationDeletedEvent{
		EvaluationID: evaluation.ID,
		TeacherID:    evaluation.TeacherID,
		DeletedBy:    actorID,
	}))
}

func (n *eventNotifier) QuestionChanged(ctx context.Context, eventType events.EventType, question *models.Question) {
	n.publish(ctx, events.NewEvent(eventType, events.QuestionChangedEvent{
		QuestionID: question.ID,
		Category:   question.Category,
		IsActive:   question.IsActive,
	}))
}

func (n *eventNotifier) QuestionsImported(ctx context.Context, count int, actorID string) {
	n.publish(ctx, events.NewEvent(events.EventQuestionsImported, events.QuestionsImportedEvent{
		Count:      count,
		ImportedBy: actorID,
	}))
}

func (n *eventNotifier) TeacherChanged(ctx context.Context, eventType events.EventType, teacher *models.Teacher) {
	n.publish(ctx, events.NewEvent(eventType, events.TeacherChangedEvent{
		TeacherID: teacher.ID,
		Name:      teacher.Name,
		IsActive:  teacher.IsActive,
	}))
}

func (n *eventNotifier) publish(ctx context.Context, event *events.Event) {
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.logger.Warn("Failed to publish domain event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
	}
}
