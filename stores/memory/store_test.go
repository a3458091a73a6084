package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weegigs/wee-ledger-go/stores/memory"
	"github.com/weegigs/wee-ledger-go/we"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	suite := we.NewStateStoreValidationSuite(ctx, store)
	suite.Run(t)

	t.Run("removes a deployment", func(t *testing.T) {
		id := we.DeploymentId{Contract: "go-test", Account: "removed.test"}

		_, err := store.Save(ctx, id, we.JSONData([]byte(`{"value":1}`)), we.Options())
		if !assert.Nil(t, err) {
			return
		}

		assert.Nil(t, store.Remove(ctx, id))

		record, err := store.Load(ctx, id)
		assert.Nil(t, err)
		assert.False(t, record.Exists())
	})

	t.Run("does not share state buffers with callers", func(t *testing.T) {
		id := we.DeploymentId{Contract: "go-test", Account: "buffers.test"}
		data := []byte(`{"value":1}`)

		_, err := store.Save(ctx, id, we.JSONData(data), we.Options())
		if !assert.Nil(t, err) {
			return
		}
		data[1] = 'X'

		record, err := store.Load(ctx, id)
		assert.Nil(t, err)
		assert.Equal(t, `{"value":1}`, string(record.State.Data))
	})
}
