package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Answers maps a question id to the 1..5 rating given for it. Unanswered questions are absent.
type Answers map[string]int

// Evaluation is one student's evaluation of one teacher.
type Evaluation struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	TeacherID   string `json:"teacher_id" gorm:"not null;size:36;uniqueIndex:idx_evaluation_teacher_student"`
	TeacherName string `json:"teacher_name" gorm:"not null;size:150"`
	StudentID   string `json:"student_id" gorm:"not null;size:255;uniqueIndex:idx_evaluation_teacher_student"`

	Answers         datatypes.JSONType[Answers]         `json:"answers"`
	CategoryRatings datatypes.JSONType[CategoryRatings] `json:"category_ratings"`

	PositiveComment    *string `json:"positive_comment" gorm:"type:text"`
	ImprovementComment *string `json:"improvement_comment" gorm:"type:text"`

	SubmittedAt time.Time `json:"submitted_at" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}

func (e *Evaluation) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.SubmittedAt.IsZero() {
		e.SubmittedAt = time.Now()
	}
	return nil
}
