package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Persistence-side records backing the external collaborators (quiz fetch,
// result submission, leaderboard). The session engine itself never touches
// these; it consumes QuizDefinition and emits ScoreResult.

type QuizRecord struct {
	ID          string  `json:"id" gorm:"primaryKey;size:36"`
	Title       string  `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text"`
	CreatorID   string  `json:"creator_id" gorm:"not null;size:36;index"`
	HasTimer    bool    `json:"has_timer" gorm:"default:false"`
	TotalTime   int     `json:"total_time" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Questions []QuestionRecord `json:"questions" gorm:"foreignKey:QuizID"`
}

type QuestionRecord struct {
	ID        string       `json:"id" gorm:"primaryKey;size:36"`
	QuizID    string       `json:"quiz_id" gorm:"not null;size:36;index"`
	Content   string       `json:"content" gorm:"not null;type:text"`
	Type      QuestionType `json:"type" gorm:"not null;size:32" validate:"required,question_type"`
	Position  int          `json:"position" gorm:"not null"`
	TimeLimit int          `json:"time_limit" gorm:"default:30"`

	AudioFileName *string `json:"audio_file_name" gorm:"size:255"`
	AudioData     *string `json:"audio_data" gorm:"type:text"`
	AudioMimeType *string `json:"audio_mimetype" gorm:"size:100"`

	Answers []AnswerRecord `json:"answers" gorm:"foreignKey:QuestionID"`
}

type AnswerRecord struct {
	ID         string `json:"id" gorm:"primaryKey;size:36"`
	QuestionID string `json:"question_id" gorm:"not null;size:36;index"`
	Content    string `json:"content" gorm:"not null;type:text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	// Active only for ordered_sequence questions; 1..N within a question.
	CorrectOrder int `json:"correct_order" gorm:"default:0"`
	// Active only for pairing questions.
	PairTarget string `json:"pair_target" gorm:"size:500"`
	Position   int    `json:"position" gorm:"not null"`
}

// QuizResult is one finished-session row. The first row per (quiz, user) is
// flagged as the first attempt and is the only one ranked on the leaderboard.
type QuizResult struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	QuizID         string         `json:"quiz_id" gorm:"not null;size:36;index:idx_quiz_user"`
	UserID         string         `json:"user_id" gorm:"not null;size:36;index:idx_quiz_user"`
	Score          int            `json:"score" gorm:"not null"`
	TotalQuestions int            `json:"total_questions" gorm:"not null"`
	TimeTaken      int            `json:"time_taken" gorm:"default:0"`
	IsFirstAttempt bool           `json:"is_first_attempt" gorm:"default:true;index"`
	Breakdown      datatypes.JSON `json:"breakdown" gorm:"type:jsonb"` // per-question verdicts
	CompletedAt    time.Time      `json:"completed_at"`
}

func (QuizRecord) TableName() string {
	return "quizzes"
}

func (QuestionRecord) TableName() string {
	return "questions"
}

func (AnswerRecord) TableName() string {
	return "answers"
}

func (QuizResult) TableName() string {
	return "quiz_results"
}

// ToDefinition converts a fully loaded record (questions and answers in
// position order) into the immutable definition the session engine consumes.
func (r *QuizRecord) ToDefinition() *QuizDefinition {
	def := &QuizDefinition{
		ID:        r.ID,
		Title:     r.Title,
		HasTimer:  r.HasTimer,
		TotalTime: r.TotalTime,
		Questions: make([]Question, len(r.Questions)),
	}

	for i, qr := range r.Questions {
		q := Question{
			ID:        qr.ID,
			Content:   qr.Content,
			Type:      qr.Type,
			TimeLimit: qr.TimeLimit,
			Answers:   make([]Answer, len(qr.Answers)),
		}

		if qr.AudioFileName != nil || qr.AudioData != nil {
			ref := &AudioRef{}
			if qr.AudioFileName != nil {
				ref.FileName = *qr.AudioFileName
			}
			if qr.AudioData != nil {
				ref.Data = *qr.AudioData
			}
			if qr.AudioMimeType != nil {
				ref.MimeType = *qr.AudioMimeType
			}
			q.AudioRef = ref
		}

		for j, ar := range qr.Answers {
			q.Answers[j] = Answer{
				ID:           ar.ID,
				Content:      ar.Content,
				IsCorrect:    ar.IsCorrect,
				CorrectOrder: ar.CorrectOrder,
				PairTarget:   ar.PairTarget,
			}
		}

		def.Questions[i] = q
	}

	return def
}
