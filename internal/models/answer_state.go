package models

// AnswerState is the mutable per-question record of what the participant has
// entered so far. It is a tagged union: the Type field selects which of the
// variant fields is active, mirroring the owning question's type.
//
// Lifecycle is scoped to one session. The randomized fields (sequence order,
// pairing right column) are shuffled once at question entry and held fixed
// until the question is left.
type AnswerState struct {
	QuestionID string       `json:"question_id"`
	Type       QuestionType `json:"type"`

	// single_choice / audio_identification
	SelectedContent *string `json:"selected_content,omitempty"`

	// multi_choice: index-aligned to the question's answer list.
	Selections []bool `json:"selections,omitempty"`

	// ordered_sequence: permutation of the question's answer ids,
	// initialized randomized, mutated by user reordering.
	SequenceOrder []string `json:"sequence_order,omitempty"`

	// pairing
	Pairs      map[string]string `json:"pairs,omitempty"`       // left content -> chosen target
	RightOrder []string          `json:"right_order,omitempty"` // fixed display order of targets
}

// MultiChoiceAnswer is the wire shape of a recorded multi_choice toggle.
type MultiChoiceAnswer struct {
	Index    int  `json:"index"`
	Selected bool `json:"selected"`
}

// PairingAnswer is the wire shape of a recorded pairing assignment.
type PairingAnswer struct {
	Left   string `json:"left"`
	Target string `json:"target"`
}

// OrderingAnswer is the wire shape of a recorded sequence reorder.
type OrderingAnswer struct {
	Order []string `json:"order"`
}
