package validator

import (
	"fmt"
	"strings"

	apperrors "github.com/quizdeck/session-service/internal/errors"
	"github.com/quizdeck/session-service/internal/models"
)

// DefinitionValidator checks a QuizDefinition against the invariants the
// scorer depends on. The playing side runs it at session initialization and
// refuses to start against a broken definition; the authoring side runs the
// same checks before saving. Consolidating both here keeps the two in sync.
type DefinitionValidator struct{}

// NewDefinitionValidator creates a new definition validator
func NewDefinitionValidator() *DefinitionValidator {
	return &DefinitionValidator{}
}

// ValidateDefinition validates the whole quiz. A non-nil return is always a
// *errors.DefinitionError carrying every issue found.
func (v *DefinitionValidator) ValidateDefinition(def *models.QuizDefinition) error {
	var issues apperrors.ValidationErrors

	if len(def.Questions) == 0 {
		issues = append(issues, *apperrors.NewValidationError("questions", "quiz has no questions", nil))
	}

	for i := range def.Questions {
		issues = append(issues, v.validateQuestion(&def.Questions[i], i)...)
	}

	if len(issues) > 0 {
		return apperrors.NewDefinitionError(def.ID, issues)
	}
	return nil
}

// ValidateQuestion validates one question in isolation, as the authoring
// side does while a quiz is being edited.
func (v *DefinitionValidator) ValidateQuestion(q *models.Question) apperrors.ValidationErrors {
	return v.validateQuestion(q, 0)
}

func (v *DefinitionValidator) validateQuestion(q *models.Question, index int) apperrors.ValidationErrors {
	var issues apperrors.ValidationErrors

	field := func(name string) string {
		return fmt.Sprintf("questions[%d].%s", index, name)
	}

	if q.Content == "" {
		issues = append(issues, *apperrors.NewValidationError(field("content"), "question content is required", nil))
	}

	if len(q.Answers) < 2 {
		issues = append(issues, *apperrors.NewValidationError(field("answers"), "question must have at least 2 answers", len(q.Answers)))
		return issues
	}

	switch q.Type {
	case models.SingleChoice, models.MultiChoice:
		issues = append(issues, v.validateChoice(q, field)...)
	case models.OrderedSequence:
		issues = append(issues, v.validateOrderedSequence(q, field)...)
	case models.Pairing:
		issues = append(issues, v.validatePairing(q, field)...)
	case models.AudioIdentification:
		issues = append(issues, v.validateChoice(q, field)...)
		if q.AudioRef == nil || (!q.AudioRef.Embedded() && q.AudioRef.FileName == "") {
			issues = append(issues, *apperrors.NewValidationError(field("audio_ref"), "audio question requires a media reference", nil))
		}
	default:
		issues = append(issues, *apperrors.NewValidationErrorWithRule(field("type"), "unsupported question type", "question_type", string(q.Type)))
	}

	if q.Type != models.AudioIdentification && q.AudioRef != nil {
		issues = append(issues, *apperrors.NewValidationError(field("audio_ref"), "only audio questions may carry a media reference", nil))
	}

	return issues
}

func (v *DefinitionValidator) validateChoice(q *models.Question, field func(string) string) apperrors.ValidationErrors {
	var issues apperrors.ValidationErrors

	correct := 0
	for i, a := range q.Answers {
		if a.Content == "" {
			issues = append(issues, *apperrors.NewValidationError(field(fmt.Sprintf("answers[%d].content", i)), "answer content is required", nil))
		}
		if a.IsCorrect {
			correct++
		}
	}

	if correct == 0 {
		issues = append(issues, *apperrors.NewValidationError(field("answers"), "must have at least 1 correct answer", nil))
	}

	return issues
}

func (v *DefinitionValidator) validateOrderedSequence(q *models.Question, field func(string) string) apperrors.ValidationErrors {
	var issues apperrors.ValidationErrors

	// correct_order values must be a clean permutation of 1..N
	seen := make(map[int]bool, len(q.Answers))
	for i, a := range q.Answers {
		if a.CorrectOrder < 1 || a.CorrectOrder > len(q.Answers) {
			issues = append(issues, *apperrors.NewValidationErrorWithRule(
				field(fmt.Sprintf("answers[%d].correct_order", i)),
				fmt.Sprintf("must be between 1 and %d", len(q.Answers)),
				"permutation", a.CorrectOrder))
			continue
		}
		if seen[a.CorrectOrder] {
			issues = append(issues, *apperrors.NewValidationErrorWithRule(
				field(fmt.Sprintf("answers[%d].correct_order", i)),
				"duplicate order value", "permutation", a.CorrectOrder))
		}
		seen[a.CorrectOrder] = true
	}

	return issues
}

func (v *DefinitionValidator) validatePairing(q *models.Question, field func(string) string) apperrors.ValidationErrors {
	var issues apperrors.ValidationErrors

	for i, a := range q.Answers {
		if strings.TrimSpace(a.Content) == "" {
			issues = append(issues, *apperrors.NewValidationError(field(fmt.Sprintf("answers[%d].content", i)), "pairing answer requires a left value", nil))
		}
		if strings.TrimSpace(a.PairTarget) == "" {
			issues = append(issues, *apperrors.NewValidationError(field(fmt.Sprintf("answers[%d].pair_target", i)), "pairing answer requires a pair target", nil))
		}
		if HasLeftDuplicate(q, i) {
			issues = append(issues, *apperrors.NewValidationError(field(fmt.Sprintf("answers[%d].content", i)), "duplicate left content", a.Content))
		}
		if HasRightDuplicate(q, i) {
			issues = append(issues, *apperrors.NewValidationError(field(fmt.Sprintf("answers[%d].pair_target", i)), "duplicate pair target", a.PairTarget))
		}
	}

	return issues
}

// HasLeftDuplicate reports whether the left content at index collides with
// another answer of the same question, comparing trimmed and
// case-insensitively.
func HasLeftDuplicate(q *models.Question, index int) bool {
	return hasDuplicateAt(q, index, func(a models.Answer) string { return a.Content })
}

// HasRightDuplicate is the pair-target counterpart of HasLeftDuplicate.
func HasRightDuplicate(q *models.Question, index int) bool {
	return hasDuplicateAt(q, index, func(a models.Answer) string { return a.PairTarget })
}

func hasDuplicateAt(q *models.Question, index int, value func(models.Answer) string) bool {
	if index < 0 || index >= len(q.Answers) {
		return false
	}
	needle := normalizePairValue(value(q.Answers[index]))
	for i, a := range q.Answers {
		if i == index {
			continue
		}
		if normalizePairValue(value(a)) == needle {
			return true
		}
	}
	return false
}

func normalizePairValue(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
