package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/limaJavier/groupscheduling/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func input(names ...string) model.ModelInput {
	students := make([]model.Student, len(names))
	for i, name := range names {
		students[i] = model.Student{
			Index:        i,
			Name:         name,
			Attributes:   model.NewFlagMap("leader"),
			Availability: model.NewFlagMap("Mon", "Tue"),
		}
	}
	return model.ModelInput{
		Students:    students,
		TimeSlots:   []model.TimeSlot{"Mon", "Tue"},
		Constraints: model.NewSchedulingConstraints(),
	}
}

func TestKey(t *testing.T) {
	//** Act
	first, err := Key(input("Ana", "Bruno"))
	require.NoError(t, err)
	second, err := Key(input("Ana", "Bruno"))
	require.NoError(t, err)
	reordered, err := Key(input("Bruno", "Ana"))
	require.NoError(t, err)

	//** Assert
	assert.True(t, strings.HasPrefix(first, PrefixSchedule))
	assert.Len(t, first, len(PrefixSchedule)+64)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, reordered)
}

func TestKeyDependsOnConstraints(t *testing.T) {
	loose := input("Ana", "Bruno")
	tight := input("Ana", "Bruno")
	bound := 1
	tight.Constraints.AttributeConstraints["leader"] = model.AttributeConstraint{MaxPerGroup: &bound}

	looseKey, err := Key(loose)
	require.NoError(t, err)
	tightKey, err := Key(tight)
	require.NoError(t, err)

	assert.NotEqual(t, looseKey, tightKey)
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	opts := DefaultOptions("127.0.0.1:1")
	opts.DialTimeout = 200 * time.Millisecond

	cache, err := NewRedisCache(context.Background(), opts)

	assert.ErrorIs(t, err, ErrCacheConnection)
	assert.Nil(t, cache)
}
