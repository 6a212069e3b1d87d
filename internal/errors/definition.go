package errors

import "fmt"

// DefinitionError reports a QuizDefinition that violates an invariant
// (duplicate pairing values, broken ordering permutation, missing audio
// reference). A session refuses to start against such a definition rather
// than score it non-deterministically.
type DefinitionError struct {
	QuizID string           `json:"quiz_id"`
	Issues ValidationErrors `json:"issues"`
}

func (de *DefinitionError) Error() string {
	return fmt.Sprintf("invalid quiz definition %s: %s", de.QuizID, de.Issues.Error())
}

func (de *DefinitionError) Unwrap() error {
	return de.Issues
}

// NewDefinitionError wraps the collected issues for one quiz.
func NewDefinitionError(quizID string, issues ValidationErrors) *DefinitionError {
	return &DefinitionError{QuizID: quizID, Issues: issues}
}
