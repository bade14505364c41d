package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/prepnexus/learning-service/internal/errors"
)

// Custom validation functions

func ValidateDifficultyLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Easy", "Medium", "Hard":
		return true
	}
	return false
}

func ValidateTopicLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Basic", "Intermediate", "Advanced":
		return true
	}
	return false
}

func ValidateExperienceLevel(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "", "fresher", "junior", "mid", "senior":
		return true
	}
	return false
}

// Validator wraps the go-playground validator and translates its
// failures into the service's structured validation errors.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a validator with the service's custom rules
// registered.
func NewValidator() *Validator {
	validate := validator.New()
	RegisterCustomValidators(validate)
	return &Validator{validate: validate}
}

// Validate checks a struct against its validation tags.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return apperrors.ToValidationErrors(err)
	}
	return nil
}

// RegisterCustomValidators registers all custom validators
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("difficulty_level", ValidateDifficultyLevel)
	validate.RegisterValidation("topic_level", ValidateTopicLevel)
	validate.RegisterValidation("experience_level", ValidateExperienceLevel)

	// Register custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
