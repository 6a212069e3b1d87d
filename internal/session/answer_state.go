package session

import (
	"fmt"

	"github.com/quizdeck/session-service/internal/models"
)

// newAnswerState builds the placeholder state for a question. The randomized
// fields are populated by reinitAnswerState on question entry.
func newAnswerState(q *models.Question) *models.AnswerState {
	return &models.AnswerState{
		QuestionID: q.ID,
		Type:       q.Type,
	}
}

// reinitAnswerState resets the state for (re-)entry of a question and rolls
// the randomized fields. Navigation is forward-only so re-entry does not
// happen in practice, but the routine is idempotent if invoked again.
func reinitAnswerState(q *models.Question, state *models.AnswerState, shuffle Shuffler) {
	state.QuestionID = q.ID
	state.Type = q.Type
	state.SelectedContent = nil
	state.Selections = nil
	state.SequenceOrder = nil
	state.Pairs = nil
	state.RightOrder = nil

	switch q.Type {
	case models.MultiChoice:
		state.Selections = make([]bool, len(q.Answers))
	case models.OrderedSequence:
		perm := shuffle(len(q.Answers))
		state.SequenceOrder = make([]string, len(q.Answers))
		for i, j := range perm {
			state.SequenceOrder[i] = q.Answers[j].ID
		}
	case models.Pairing:
		state.Pairs = make(map[string]string, len(q.Answers))
		perm := shuffle(len(q.Answers))
		state.RightOrder = make([]string, len(q.Answers))
		for i, j := range perm {
			state.RightOrder[i] = q.Answers[j].PairTarget
		}
	}
}

// recordSelection stores the chosen content for a single_choice or
// audio_identification question.
func recordSelection(q *models.Question, state *models.AnswerState, content string) error {
	if q.Type != models.SingleChoice && q.Type != models.AudioIdentification {
		return newTransitionError("record_selection", fmt.Sprintf("question %s is %s", q.ID, q.Type))
	}
	state.SelectedContent = &content
	return nil
}

// recordMultiToggle flips one index of a multi_choice selection vector.
func recordMultiToggle(q *models.Question, state *models.AnswerState, index int, selected bool) error {
	if q.Type != models.MultiChoice {
		return newTransitionError("record_multi_toggle", fmt.Sprintf("question %s is %s", q.ID, q.Type))
	}
	if index < 0 || index >= len(state.Selections) {
		return newTransitionError("record_multi_toggle", fmt.Sprintf("index %d out of range", index))
	}
	state.Selections[index] = selected
	return nil
}

// recordOrder replaces the user's permutation of an ordered_sequence
// question. The new order must be a permutation of the question's answer ids.
func recordOrder(q *models.Question, state *models.AnswerState, order []string) error {
	if q.Type != models.OrderedSequence {
		return newTransitionError("record_order", fmt.Sprintf("question %s is %s", q.ID, q.Type))
	}
	if len(order) != len(q.Answers) {
		return newTransitionError("record_order", fmt.Sprintf("expected %d ids, got %d", len(q.Answers), len(order)))
	}

	known := make(map[string]bool, len(q.Answers))
	for _, a := range q.Answers {
		known[a.ID] = true
	}
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if !known[id] {
			return newTransitionError("record_order", fmt.Sprintf("unknown answer id %s", id))
		}
		if seen[id] {
			return newTransitionError("record_order", fmt.Sprintf("duplicate answer id %s", id))
		}
		seen[id] = true
	}

	state.SequenceOrder = append([]string(nil), order...)
	return nil
}

// recordPairing assigns a target to a left value of a pairing question.
func recordPairing(q *models.Question, state *models.AnswerState, left, target string) error {
	if q.Type != models.Pairing {
		return newTransitionError("record_pairing", fmt.Sprintf("question %s is %s", q.ID, q.Type))
	}

	knownLeft := false
	knownTarget := false
	for _, a := range q.Answers {
		if a.Content == left {
			knownLeft = true
		}
		if a.PairTarget == target {
			knownTarget = true
		}
	}
	if !knownLeft {
		return newTransitionError("record_pairing", fmt.Sprintf("unknown left value %q", left))
	}
	if !knownTarget {
		return newTransitionError("record_pairing", fmt.Sprintf("unknown target value %q", target))
	}

	state.Pairs[left] = target
	return nil
}

// isAnswered reports whether the state is complete enough to advance. It is
// informational for UI enablement only; the state machine never enforces it.
func isAnswered(q *models.Question, state *models.AnswerState) bool {
	switch q.Type {
	case models.SingleChoice, models.AudioIdentification:
		return state.SelectedContent != nil
	case models.MultiChoice:
		for _, sel := range state.Selections {
			if sel {
				return true
			}
		}
		return false
	case models.OrderedSequence:
		// a full permutation always exists once initialized
		return len(state.SequenceOrder) == len(q.Answers)
	case models.Pairing:
		return len(state.Pairs) == len(q.Answers)
	default:
		return false
	}
}
