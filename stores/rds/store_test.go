package rds_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weegigs/wee-ledger-go/stores/rds"
	"github.com/weegigs/wee-ledger-go/we"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	store, cleanup, err := rds.NewTestStore(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()

	t.Run("redis state store validation", func(t *testing.T) {
		suite := we.NewStateStoreValidationSuite(ctx, store)
		suite.Run(t)
	})

	t.Run("keeps binary state", func(t *testing.T) {
		id := we.DeploymentId{Contract: "counter", Account: "binary.testnet"}
		state := we.Data{Encoding: we.EncodingBorsh, Data: []byte{0xff, 1, 0, 0, 0, 'a', 0}}

		_, err := store.Save(ctx, id, state, we.Options())
		if !assert.Nil(t, err) {
			return
		}

		record, err := store.Load(ctx, id)
		assert.Nil(t, err)
		assert.Equal(t, state, record.State)
	})

	t.Run("removes a deployment", func(t *testing.T) {
		id := we.DeploymentId{Contract: "counter", Account: "removed.testnet"}

		_, err := store.Save(ctx, id, we.JSONData([]byte(`{}`)), we.Options())
		if !assert.Nil(t, err) {
			return
		}

		assert.Nil(t, store.Remove(ctx, id))

		record, err := store.Load(ctx, id)
		assert.Nil(t, err)
		assert.False(t, record.Exists())
	})
}
