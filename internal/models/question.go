package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxRating is the ceiling of the per-question rating scale.
const MaxRating = 5

// Question is one item of the evaluation form. Questions sharing a Category code are
// reported together.
type Question struct {
	ID           string  `json:"id" gorm:"primaryKey;size:36"`
	Category     string  `json:"category" gorm:"not null;size:50;index" validate:"required,category_code"`
	CategoryName *string `json:"category_name" gorm:"size:150" validate:"omitempty,max=150"`
	Text         string  `json:"text" gorm:"type:text;not null" validate:"required,min=3,max=1000"`
	Order        int     `json:"order" gorm:"column:sort_order;default:0;index" validate:"min=0"`
	IsActive     bool    `json:"is_active" gorm:"default:true;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// DisplayCategory returns the category name, falling back to the code.
func (q *Question) DisplayCategory() string {
	if q.CategoryName != nil && *q.CategoryName != "" {
		return *q.CategoryName
	}
	return q.Category
}
