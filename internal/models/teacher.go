package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Teacher struct {
	ID         string  `json:"id" gorm:"primaryKey;size:36"`
	Name       string  `json:"name" gorm:"not null;size:150;index" validate:"required,min=2,max=150"`
	Department string  `json:"department" gorm:"size:150" validate:"omitempty,max=150"`
	Email      *string `json:"email" gorm:"size:255" validate:"omitempty,email"`
	IsActive   bool    `json:"is_active" gorm:"default:true;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Computed fields (not stored)
	EvaluationCount int64 `json:"evaluation_count" gorm:"-"`
}

func (Teacher) TableName() string {
	return "teachers"
}

func (t *Teacher) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
