package validator

import (
	"reflect"
	"regexp"
	"strings"

	apperrors "github.com/SAP-F-2025/evaluation-service/internal/errors"
	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/go-playground/validator/v10"
)

var categoryCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,50}$`)

// Validator is the main validator instance that combines all validation types
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags and converts failures into ValidationErrors
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Var validates a single value against a tag
func (v *Validator) Var(field interface{}, tag string) error {
	return v.structValidator.Var(field, tag)
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("rating", validateRating)
	validate.RegisterValidation("category_code", validateCategoryCode)
	validate.RegisterValidation("user_role", validateUserRole)
	validate.RegisterValidation("sort_key", validateSortKey)
	validate.RegisterValidation("export_format", validateExportFormat)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
}

func validateRating(fl validator.FieldLevel) bool {
	value := fl.Field().Int()
	return value >= 1 && value <= models.MaxRating
}

func validateCategoryCode(fl validator.FieldLevel) bool {
	return categoryCodePattern.MatchString(fl.Field().String())
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch models.UserRole(fl.Field().String()) {
	case models.RoleStudent, models.RoleAdmin:
		return true
	}
	return false
}

func validateSortKey(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "name", "rating":
		return true
	}
	return false
}

func validateExportFormat(fl validator.FieldLevel) bool {
	switch models.ExportFormat(fl.Field().String()) {
	case "", models.ExportXLSX, models.ExportCSV:
		return true
	}
	return false
}
