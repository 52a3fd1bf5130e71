package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "evaluation-service"
	EventVersion = "1.0"
)

// EventType represents the kinds of domain events the service emits
type EventType string

const (
	// Evaluation events
	EventEvaluationSubmitted EventType = "evaluation.submitted"
	EventEvaluationDeleted   EventType = "evaluation.deleted"

	// Question catalog events
	EventQuestionCreated   EventType = "question.created"
	EventQuestionUpdated   EventType = "question.updated"
	EventQuestionDeleted   EventType = "question.deleted"
	EventQuestionsImported EventType = "questions.imported"

	// Teacher events
	EventTeacherUpdated EventType = "teacher.updated"
	EventTeacherDeleted EventType = "teacher.deleted"
)

// AllEventTypes lists every event type in the order they are declared
var AllEventTypes = []EventType{
	EventEvaluationSubmitted,
	EventEvaluationDeleted,
	EventQuestionCreated,
	EventQuestionUpdated,
	EventQuestionDeleted,
	EventQuestionsImported,
	EventTeacherUpdated,
	EventTeacherDeleted,
}

// Event is the envelope for every message published on the evaluation topic
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewEvent builds an envelope with a fresh id and the current UTC time
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    EventSource,
		Version:   EventVersion,
		Data:      data,
	}
}

// WithMetadata sets a metadata entry and returns the event
func (e *Event) WithMetadata(key string, value interface{}) *Event {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// Event payloads

type EvaluationSubmittedEvent struct {
	EvaluationID string    `json:"evaluation_id"`
	TeacherID    string    `json:"teacher_id"`
	StudentID    string    `json:"student_id"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type EvaluationDeletedEvent struct {
	EvaluationID string `json:"evaluation_id"`
	TeacherID    string `json:"teacher_id"`
	DeletedBy    string `json:"deleted_by,omitempty"`
}

type QuestionChangedEvent struct {
	QuestionID string `json:"question_id"`
	Category   string `json:"category"`
	IsActive   bool   `json:"is_active"`
}

type QuestionsImportedEvent struct {
	Count      int    `json:"count"`
	ImportedBy string `json:"imported_by,omitempty"`
}

type TeacherChangedEvent struct {
	TeacherID string `json:"teacher_id"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active"`
}
