package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	// ReleaseLock deletes key only while it still holds value.
	ReleaseLock(ctx context.Context, key string, value string) (bool, error)
}

type recommendationCacheKeyInput struct {
	TopN     int    `json:"top_n"`
	MinScore string `json:"min_score"`
	Version  string `json:"version"`
}

// RecommendationCachePattern matches every cached recommendation. A new
// matching changes the availability of its expert for all demands.
const RecommendationCachePattern = "recommend:*"

func RecommendationCacheKey(demandID uuid.UUID, topN int, minScore float64) string {
	b, _ := json.Marshal(recommendationCacheKeyInput{
		TopN:     topN,
		MinScore: strconv.FormatFloat(minScore, 'g', -1, 64),
		Version:  AlgorithmVersion,
	})
	sum := sha256.Sum256(b)
	return "recommend:" + demandID.String() + ":" + hex.EncodeToString(sum[:])
}

func ProposalLockKey(demandID uuid.UUID) string {
	return "proposals:lock:" + demandID.String()
}
