package esdbs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weegigs/wee-ledger-go/we"
)

func TestRevisions(t *testing.T) {
	assert.Equal(t, we.Revision("00000000000000000000000001"), encodeRevision(0))
	assert.Equal(t, we.Revision("0000000000000000000000000a"), encodeRevision(9))

	r, err := decodeRevision(encodeRevision(41))
	assert.Nil(t, err)
	assert.Equal(t, uint64(41), r)

	_, err = decodeRevision(we.InitialRevision)
	assert.NotNil(t, err)
}

func TestStateStore(t *testing.T) {
	ctx := context.Background()
	store, cleanup, err := NewESDBTestStore(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()

	t.Run("esdb state store validation", func(t *testing.T) {
		suite := we.NewStateStoreValidationSuite(ctx, store)
		suite.Run(t)
	})

	t.Run("keeps binary state", func(t *testing.T) {
		id := we.DeploymentId{Contract: "counter", Account: "binary.testnet"}
		state := we.Data{Encoding: we.EncodingBorsh, Data: []byte{0xff, 1, 0, 0, 0, 'a', 20}}

		revision, err := store.Save(ctx, id, state, we.Options(we.WithExpectedRevision(we.InitialRevision)))
		if !assert.Nil(t, err) {
			return
		}
		assert.Equal(t, we.Revision("00000000000000000000000001"), revision)

		record, err := store.Load(ctx, id)
		if !assert.Nil(t, err) {
			return
		}

		assert.Equal(t, state, record.State)
		assert.Equal(t, revision, record.Revision)
	})
}
