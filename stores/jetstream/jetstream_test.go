package jetstream_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weegigs/wee-ledger-go/stores/jetstream"
	"github.com/weegigs/wee-ledger-go/we"
)

func TestStateStore(t *testing.T) {
	ctx := context.Background()
	store, cleanup, err := jetstream.NewTestStore(ctx, jetstream.WithHistory(4))
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()

	t.Run("jetstream state store validation", func(t *testing.T) {
		suite := we.NewStateStoreValidationSuite(ctx, store)
		suite.Run(t)
	})

	t.Run("revisions carry the stream sequence", func(t *testing.T) {
		id := we.DeploymentId{Contract: "counter", Account: "sequence.testnet"}

		first, err := store.Save(ctx, id, we.JSONData([]byte(`{"val":1}`)), we.Options())
		if !assert.Nil(t, err) {
			return
		}

		second, err := store.Save(ctx, id, we.JSONData([]byte(`{"val":2}`)), we.Options(we.WithExpectedRevision(first)))
		if !assert.Nil(t, err) {
			return
		}

		a, err := jetstream.SequenceOf(first)
		assert.Nil(t, err)
		b, err := jetstream.SequenceOf(second)
		assert.Nil(t, err)
		assert.Greater(t, b, a)

		record, err := store.Load(ctx, id)
		assert.Nil(t, err)
		assert.Equal(t, second, record.Revision)
	})
}
