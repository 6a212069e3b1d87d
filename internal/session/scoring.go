package session

import (
	"sort"

	"github.com/quizdeck/session-service/internal/models"
	"github.com/quizdeck/session-service/internal/validator"
)

// QuestionVerdict is the strict per-question correctness outcome.
type QuestionVerdict struct {
	QuestionID string              `json:"question_id"`
	Type       models.QuestionType `json:"type"`
	Correct    bool                `json:"correct"`
}

// Score computes the session result from the quiz definition and the full
// set of recorded answer states. It is a pure function: no session state is
// read or written, and identical inputs always yield identical results.
// ElapsedSeconds is left for the caller to fill in.
func Score(def *models.QuizDefinition, states map[string]*models.AnswerState) models.ScoreResult {
	result := models.ScoreResult{
		TotalQuestions: def.QuestionCount(),
	}

	for i := range def.Questions {
		q := &def.Questions[i]
		if gradeQuestion(q, states[q.ID]) {
			result.CorrectCount++
		}
	}

	return result
}

// Breakdown computes the per-question verdicts backing a Score.
func Breakdown(def *models.QuizDefinition, states map[string]*models.AnswerState) []QuestionVerdict {
	verdicts := make([]QuestionVerdict, len(def.Questions))
	for i := range def.Questions {
		q := &def.Questions[i]
		verdicts[i] = QuestionVerdict{
			QuestionID: q.ID,
			Type:       q.Type,
			Correct:    gradeQuestion(q, states[q.ID]),
		}
	}
	return verdicts
}

func gradeQuestion(q *models.Question, state *models.AnswerState) bool {
	if state == nil {
		return false
	}

	switch q.Type {
	case models.SingleChoice, models.AudioIdentification:
		return gradeSingleChoice(q, state)
	case models.MultiChoice:
		return gradeMultiChoice(q, state)
	case models.OrderedSequence:
		return gradeOrderedSequence(q, state)
	case models.Pairing:
		return gradePairing(q, state)
	default:
		return false
	}
}

// gradeSingleChoice compares the selection against the first answer flagged
// correct. Authoring is expected to prevent zero or multiple correct flags;
// taking the first keeps the verdict deterministic if it failed to.
func gradeSingleChoice(q *models.Question, state *models.AnswerState) bool {
	if state.SelectedContent == nil {
		return false
	}
	for _, a := range q.Answers {
		if a.IsCorrect {
			return *state.SelectedContent == a.Content
		}
	}
	return false
}

// gradeMultiChoice compares the selection vector element-wise, by index,
// against the is_correct flags. All-or-nothing: no partial credit.
//
// The comparison is index-aligned to the answer list rather than keyed by
// answer identity; see DESIGN.md for the reordering risk this carries.
func gradeMultiChoice(q *models.Question, state *models.AnswerState) bool {
	if len(state.Selections) != len(q.Answers) {
		return false
	}
	for i, a := range q.Answers {
		if state.Selections[i] != a.IsCorrect {
			return false
		}
	}
	return true
}

// gradeOrderedSequence requires the user's permutation to match the answers
// sorted by correct_order ascending, exactly.
func gradeOrderedSequence(q *models.Question, state *models.AnswerState) bool {
	if len(state.SequenceOrder) != len(q.Answers) {
		return false
	}

	expected := make([]models.Answer, len(q.Answers))
	copy(expected, q.Answers)
	sort.SliceStable(expected, func(i, j int) bool {
		return expected[i].CorrectOrder < expected[j].CorrectOrder
	})

	for i, a := range expected {
		if state.SequenceOrder[i] != a.ID {
			return false
		}
	}
	return true
}

// gradePairing requires every left content to map to its exact pair target.
// All-or-nothing, matching the multi_choice policy. Duplicate left or right
// values are re-checked defensively: upstream validation is not trusted
// blindly, and a question that slipped through is scored incorrect rather
// than non-deterministically.
func gradePairing(q *models.Question, state *models.AnswerState) bool {
	for i := range q.Answers {
		if validator.HasLeftDuplicate(q, i) || validator.HasRightDuplicate(q, i) {
			return false
		}
	}

	if len(state.Pairs) != len(q.Answers) {
		return false
	}
	for _, a := range q.Answers {
		if state.Pairs[a.Content] != a.PairTarget {
			return false
		}
	}
	return true
}
