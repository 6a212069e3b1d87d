package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quizdeck/session-service/internal/models"
	"github.com/quizdeck/session-service/internal/utils"
)

const (
	quizKeyPrefix = "quiz:def:"
	quizTTL       = 10 * time.Minute
)

// QuizLoader is the backing store queried on a cache miss.
type QuizLoader func(ctx context.Context, quizID string) (*models.QuizDefinition, error)

// QuizCache is a read-through cache of quiz definitions. Definitions are
// immutable while sessions run against them, so a short TTL is the only
// invalidation needed.
type QuizCache struct {
	cache  CacheService
	load   QuizLoader
	logger utils.Logger
}

func NewQuizCache(cache CacheService, load QuizLoader, logger utils.Logger) *QuizCache {
	return &QuizCache{
		cache:  cache,
		load:   load,
		logger: logger,
	}
}

// GetDefinition returns the cached definition, falling back to the loader on
// a miss. Cache failures degrade to a direct load instead of failing the
// session start.
func (c *QuizCache) GetDefinition(ctx context.Context, quizID string) (*models.QuizDefinition, error) {
	key := quizKeyPrefix + quizID

	var def models.QuizDefinition
	err := c.cache.Get(ctx, key, &def)
	if err == nil {
		return &def, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.logger.Warn("Quiz cache read failed, loading from store", "quiz_id", quizID, "error", err)
	}

	loaded, err := c.load(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("loading quiz %s: %w", quizID, err)
	}

	if err := c.cache.Set(ctx, key, loaded, quizTTL); err != nil {
		c.logger.Warn("Quiz cache write failed", "quiz_id", quizID, "error", err)
	}

	return loaded, nil
}

// Invalidate drops the cached definition, for use after a quiz is edited.
func (c *QuizCache) Invalidate(ctx context.Context, quizID string) error {
	return c.cache.Delete(ctx, quizKeyPrefix+quizID)
}
