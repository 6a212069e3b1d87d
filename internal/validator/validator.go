package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/quizdeck/session-service/internal/models"
)

// Validator combines struct-tag validation of request DTOs with the
// definition validator used at session initialization.
type Validator struct {
	structValidator     *validator.Validate
	definitionValidator *DefinitionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:     structValidator,
		definitionValidator: NewDefinitionValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate performs struct-tag validation on a request DTO.
func (v *Validator) Validate(s interface{}) error {
	return v.ValidateStruct(s)
}

// Definition returns the quiz definition validator
func (v *Validator) Definition() *DefinitionValidator {
	return v.definitionValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("volume_range", validateVolumeRange)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	validTypes := []models.QuestionType{
		models.SingleChoice,
		models.MultiChoice,
		models.OrderedSequence,
		models.Pairing,
		models.AudioIdentification,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}

func validateVolumeRange(fl validator.FieldLevel) bool {
	value := fl.Field().Int()
	return value >= 0 && value <= 100
}
