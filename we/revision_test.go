package we

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCovertsToISODatetime(t *testing.T) {
	timestamp := string(InitialRevision.Timestamp())
	assert.Equal(t, timestamp, time.Unix(0, 0).UTC().Format(RFC3339Milli))

	now := time.Now()
	generator := NewRevisionGenerator()
	revision := generator.NewRevision(now)

	timestamp = string(revision.Timestamp())
	assert.Equal(t, now.UTC().Format(RFC3339Milli), timestamp)
}

func TestRevisionsIncrease(t *testing.T) {
	generator := NewRevisionGenerator()
	now := time.Now()

	previous := InitialRevision
	for i := 0; i < 100; i++ {
		next := generator.NewRevision(now)
		assert.True(t, next.After(previous), "%s should follow %s", next, previous)
		previous = next
	}
}
