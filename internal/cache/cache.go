// Package cache stores schedule results keyed by the digest of the input they were computed from.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/limaJavier/groupscheduling/pkg/model"
)

var (
	// ErrCacheMiss is returned when the requested key is not found in cache.
	ErrCacheMiss = errors.New("cache: key not found")

	// ErrCacheConnection is returned when the cache cannot be reached.
	ErrCacheConnection = errors.New("cache: connection failed")

	// ErrCacheSerialization is returned when serialization/deserialization fails.
	ErrCacheSerialization = errors.New("cache: serialization failed")
)

// PrefixSchedule namespaces schedule keys.
const PrefixSchedule = "schedule:"

type Cache interface {
	// Get returns the result stored under key, or ErrCacheMiss.
	Get(ctx context.Context, key string) (model.ScheduleResult, error)
	Set(ctx context.Context, key string, result model.ScheduleResult, ttl time.Duration) error
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// canonicalInput is the encoding hashed by Key. Attribute constraints are a map, whose keys encoding/json sorts
type canonicalInput struct {
	Students    []model.Student             `json:"students"`
	TimeSlots   []model.TimeSlot            `json:"time_slots"`
	Constraints model.SchedulingConstraints `json:"constraints"`
}

// Key derives the cache key of an input: the SHA-256 of its canonical JSON encoding.
func Key(input model.ModelInput) (string, error) {
	data, err := json.Marshal(canonicalInput{
		Students:    input.Students,
		TimeSlots:   input.TimeSlots,
		Constraints: input.Constraints,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}

	digest := sha256.Sum256(data)
	return PrefixSchedule + hex.EncodeToString(digest[:]), nil
}
