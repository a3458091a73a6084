package jetstream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRevisions(t *testing.T) {
	now := time.Now()

	t.Run("carry the stream sequence", func(t *testing.T) {
		revision, err := encodeRevision(now, 4711)
		if !assert.Nil(t, err) {
			return
		}

		sequence, err := SequenceOf(revision)
		assert.Nil(t, err)
		assert.Equal(t, uint64(4711), sequence)
	})

	t.Run("order by sequence within a millisecond", func(t *testing.T) {
		first, _ := encodeRevision(now, 9)
		second, _ := encodeRevision(now, 10)

		assert.True(t, second.After(first))
	})

	t.Run("reject malformed revisions", func(t *testing.T) {
		_, err := SequenceOf("not-a-revision")
		assert.NotNil(t, err)
	})
}
