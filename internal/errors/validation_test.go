package errors

import (
	"testing"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("pair_target", "duplicate value", "Paris")

	if err.Field != "pair_target" {
		t.Errorf("Expected field to be 'pair_target', got '%s'", err.Field)
	}

	if err.Message != "duplicate value" {
		t.Errorf("Expected message to be 'duplicate value', got '%s'", err.Message)
	}

	if err.Value != "Paris" {
		t.Errorf("Expected value to be 'Paris', got '%v'", err.Value)
	}

	expected := "validation error on field 'pair_target': duplicate value"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	errs = append(errs, *NewValidationError("field1", "message1", nil))
	expected := "validation failed: field1 message1"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	errs = append(errs, *NewValidationError("field2", "message2", nil))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("correct_order", "not a permutation", "permutation", 4)

	if err.Rule != "permutation" {
		t.Errorf("Expected rule to be 'permutation', got '%s'", err.Rule)
	}

	if err.Field != "correct_order" {
		t.Errorf("Expected field to be 'correct_order', got '%s'", err.Field)
	}
}

func TestDefinitionError(t *testing.T) {
	issues := ValidationErrors{*NewValidationError("answers", "duplicate left content", "paris")}
	err := NewDefinitionError("quiz-1", issues)

	expected := "invalid quiz definition quiz-1: validation failed: answers duplicate left content"
	if err.Error() != expected {
		t.Errorf("Expected '%s', got '%s'", expected, err.Error())
	}

	if err.Unwrap() == nil {
		t.Error("Expected Unwrap to return wrapped issues")
	}
}
