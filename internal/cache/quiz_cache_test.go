package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizdeck/session-service/internal/models"
	"github.com/quizdeck/session-service/internal/utils"
)

type memoryCache struct {
	entries map[string][]byte
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = payload
	return nil
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	payload, ok := m.entries[key]
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func (m *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	return nil
}

func sampleDefinition() *models.QuizDefinition {
	return &models.QuizDefinition{
		ID:    "quiz-1",
		Title: "Capitals",
		Questions: []models.Question{
			{
				ID: "q1", Content: "Capital of France?", Type: models.SingleChoice,
				Answers: []models.Answer{
					{ID: "a1", Content: "Paris", IsCorrect: true},
					{ID: "a2", Content: "Lyon"},
				},
			},
		},
	}
}

func TestQuizCache_MissLoadsAndStores(t *testing.T) {
	mem := newMemoryCache()
	loads := 0
	qc := NewQuizCache(mem, func(ctx context.Context, quizID string) (*models.QuizDefinition, error) {
		loads++
		return sampleDefinition(), nil
	}, utils.NewDefaultLogger())

	def, err := qc.GetDefinition(context.Background(), "quiz-1")
	require.NoError(t, err)
	assert.Equal(t, "Capitals", def.Title)
	assert.Equal(t, 1, loads)

	// second read is served from the cache
	def, err = qc.GetDefinition(context.Background(), "quiz-1")
	require.NoError(t, err)
	assert.Equal(t, "Capitals", def.Title)
	assert.Equal(t, 1, loads)
}

func TestQuizCache_ReadFailureFallsBackToLoader(t *testing.T) {
	mem := newMemoryCache()
	mem.getErr = errors.New("connection refused")

	qc := NewQuizCache(mem, func(ctx context.Context, quizID string) (*models.QuizDefinition, error) {
		return sampleDefinition(), nil
	}, utils.NewDefaultLogger())

	def, err := qc.GetDefinition(context.Background(), "quiz-1")
	require.NoError(t, err)
	assert.Equal(t, "quiz-1", def.ID)
}

func TestQuizCache_LoaderErrorPropagates(t *testing.T) {
	qc := NewQuizCache(newMemoryCache(), func(ctx context.Context, quizID string) (*models.QuizDefinition, error) {
		return nil, errors.New("no such quiz")
	}, utils.NewDefaultLogger())

	_, err := qc.GetDefinition(context.Background(), "missing")
	assert.Error(t, err)
}

func TestQuizCache_InvalidateForcesReload(t *testing.T) {
	mem := newMemoryCache()
	loads := 0
	qc := NewQuizCache(mem, func(ctx context.Context, quizID string) (*models.QuizDefinition, error) {
		loads++
		return sampleDefinition(), nil
	}, utils.NewDefaultLogger())

	_, err := qc.GetDefinition(context.Background(), "quiz-1")
	require.NoError(t, err)
	require.NoError(t, qc.Invalidate(context.Background(), "quiz-1"))

	_, err = qc.GetDefinition(context.Background(), "quiz-1")
	require.NoError(t, err)
	assert.Equal(t, 2, loads)
}
