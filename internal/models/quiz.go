package models

type QuestionType string

const (
	SingleChoice        QuestionType = "single_choice"
	MultiChoice         QuestionType = "multi_choice"
	OrderedSequence     QuestionType = "ordered_sequence"
	Pairing             QuestionType = "pairing"
	AudioIdentification QuestionType = "audio_identification"
)

// DefaultTimeLimit is applied when a question does not carry its own limit.
const DefaultTimeLimit = 30

// AudioRef locates the media asset of an audio_identification question.
// Exactly one of Data (self-contained payload, used as-is) or FileName
// (resolved against the asset base URL by the audio coordinator) is set.
type AudioRef struct {
	FileName string `json:"file_name,omitempty"`
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

// Embedded reports whether the reference carries its own payload.
func (r *AudioRef) Embedded() bool {
	return r != nil && r.Data != ""
}

// Answer is a single answer record of a question. Which fields are
// semantically active depends on the owning question's type:
// IsCorrect for single/multi/audio, CorrectOrder for ordered_sequence,
// PairTarget for pairing.
type Answer struct {
	ID           string `json:"id"`
	Content      string `json:"content"`
	IsCorrect    bool   `json:"is_correct"`
	CorrectOrder int    `json:"correct_order,omitempty"`
	PairTarget   string `json:"pair_target,omitempty"`
}

type Question struct {
	ID        string       `json:"id"`
	Content   string       `json:"content"`
	Type      QuestionType `json:"type" validate:"required,question_type"`
	Answers   []Answer     `json:"answers"`
	TimeLimit int          `json:"time_limit"`
	AudioRef  *AudioRef    `json:"audio_ref,omitempty"`
}

// EffectiveTimeLimit returns the per-question countdown in seconds.
func (q *Question) EffectiveTimeLimit() int {
	if q.TimeLimit > 0 {
		return q.TimeLimit
	}
	return DefaultTimeLimit
}

// QuizDefinition is the immutable, externally supplied quiz a session runs
// against. Question order defines presentation order and is never reordered
// during a session.
type QuizDefinition struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
	HasTimer  bool       `json:"has_timer"`
	// TotalTime is the sum of per-question limits. Informational only,
	// never enforced as a session-wide cap.
	TotalTime int `json:"total_time"`
}

// QuestionCount returns the number of questions in presentation order.
func (d *QuizDefinition) QuestionCount() int {
	return len(d.Questions)
}

// LastIndex is the 0-based index of the final question.
func (d *QuizDefinition) LastIndex() int {
	return len(d.Questions) - 1
}
