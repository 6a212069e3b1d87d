package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/quizdeck/session-service/internal/errors"
	"github.com/quizdeck/session-service/internal/models"
)

func validQuiz() *models.QuizDefinition {
	return &models.QuizDefinition{
		ID: "quiz-1",
		Questions: []models.Question{
			{
				ID: "q1", Content: "Capital of France?", Type: models.SingleChoice,
				Answers: []models.Answer{
					{ID: "a1", Content: "Paris", IsCorrect: true},
					{ID: "a2", Content: "Lyon"},
				},
			},
			{
				ID: "q2", Content: "Chronological order", Type: models.OrderedSequence,
				Answers: []models.Answer{
					{ID: "b1", Content: "Renaissance", CorrectOrder: 2},
					{ID: "b2", Content: "Antiquity", CorrectOrder: 1},
					{ID: "b3", Content: "Modern era", CorrectOrder: 3},
				},
			},
			{
				ID: "q3", Content: "Match capitals", Type: models.Pairing,
				Answers: []models.Answer{
					{ID: "c1", Content: "France", PairTarget: "Paris"},
					{ID: "c2", Content: "Italy", PairTarget: "Rome"},
				},
			},
			{
				ID: "q4", Content: "Name that tune", Type: models.AudioIdentification,
				AudioRef: &models.AudioRef{FileName: "intro.mp3"},
				Answers: []models.Answer{
					{ID: "d1", Content: "Track A", IsCorrect: true},
					{ID: "d2", Content: "Track B"},
				},
			},
		},
	}
}

func TestValidateDefinition_Valid(t *testing.T) {
	v := NewDefinitionValidator()
	assert.NoError(t, v.ValidateDefinition(validQuiz()))
}

func TestValidateDefinition_Empty(t *testing.T) {
	v := NewDefinitionValidator()
	err := v.ValidateDefinition(&models.QuizDefinition{ID: "quiz-empty"})

	var de *apperrors.DefinitionError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "quiz-empty", de.QuizID)
}

func TestValidateDefinition_PairingDuplicateLeft(t *testing.T) {
	// "Paris" and "paris " collide after trimming, case-insensitively.
	quiz := validQuiz()
	quiz.Questions[2].Answers = []models.Answer{
		{ID: "c1", Content: "Paris", PairTarget: "France"},
		{ID: "c2", Content: "paris ", PairTarget: "Italy"},
	}

	v := NewDefinitionValidator()
	err := v.ValidateDefinition(quiz)

	var de *apperrors.DefinitionError
	require.ErrorAs(t, err, &de)
	found := false
	for _, issue := range de.Issues {
		if issue.Message == "duplicate left content" {
			found = true
		}
	}
	assert.True(t, found, "expected a duplicate left content issue, got %v", de.Issues)
}

func TestValidateDefinition_PairingDuplicateRight(t *testing.T) {
	quiz := validQuiz()
	quiz.Questions[2].Answers = []models.Answer{
		{ID: "c1", Content: "France", PairTarget: "Rome"},
		{ID: "c2", Content: "Italy", PairTarget: " ROME"},
	}

	v := NewDefinitionValidator()
	err := v.ValidateDefinition(quiz)

	var de *apperrors.DefinitionError
	require.ErrorAs(t, err, &de)
}

func TestValidateDefinition_OrderNotPermutation(t *testing.T) {
	quiz := validQuiz()
	quiz.Questions[1].Answers = []models.Answer{
		{ID: "b1", Content: "x", CorrectOrder: 1},
		{ID: "b2", Content: "y", CorrectOrder: 1},
		{ID: "b3", Content: "z", CorrectOrder: 5},
	}

	v := NewDefinitionValidator()
	err := v.ValidateDefinition(quiz)

	var de *apperrors.DefinitionError
	require.ErrorAs(t, err, &de)
	assert.Len(t, de.Issues, 2)
}

func TestValidateDefinition_AudioRefRequired(t *testing.T) {
	quiz := validQuiz()
	quiz.Questions[3].AudioRef = nil

	v := NewDefinitionValidator()
	err := v.ValidateDefinition(quiz)
	require.Error(t, err)
}

func TestValidateDefinition_AudioRefOnWrongType(t *testing.T) {
	quiz := validQuiz()
	quiz.Questions[0].AudioRef = &models.AudioRef{FileName: "oops.mp3"}

	v := NewDefinitionValidator()
	err := v.ValidateDefinition(quiz)
	require.Error(t, err)
}

func TestValidateDefinition_ChoiceWithoutCorrectAnswer(t *testing.T) {
	quiz := validQuiz()
	quiz.Questions[0].Answers = []models.Answer{
		{ID: "a1", Content: "Paris"},
		{ID: "a2", Content: "Lyon"},
	}

	v := NewDefinitionValidator()
	err := v.ValidateDefinition(quiz)
	require.Error(t, err)
}

func TestHasLeftDuplicate(t *testing.T) {
	q := &models.Question{
		Type: models.Pairing,
		Answers: []models.Answer{
			{Content: "Paris", PairTarget: "France"},
			{Content: "paris ", PairTarget: "Italy"},
			{Content: "Rome", PairTarget: "Spain"},
		},
	}

	assert.True(t, HasLeftDuplicate(q, 0))
	assert.True(t, HasLeftDuplicate(q, 1))
	assert.False(t, HasLeftDuplicate(q, 2))
	assert.False(t, HasRightDuplicate(q, 0))
	assert.False(t, HasLeftDuplicate(q, 99))
}
