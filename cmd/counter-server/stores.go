package main

import (
	"context"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"github.com/weegigs/wee-ledger-go/config"
	"github.com/weegigs/wee-ledger-go/stores/ds"
	"github.com/weegigs/wee-ledger-go/stores/esdbs"
	"github.com/weegigs/wee-ledger-go/stores/jetstream"
	"github.com/weegigs/wee-ledger-go/stores/memory"
	"github.com/weegigs/wee-ledger-go/stores/rds"
	"github.com/weegigs/wee-ledger-go/stores/sqlstore"
	"github.com/weegigs/wee-ledger-go/support"
	"github.com/weegigs/wee-ledger-go/we"
)

func noop() {}

// openStore connects the configured state store. The returned function
// releases its connections.
func openStore(ctx context.Context, cfg config.StoreConfig) (we.StateStore, func(), error) {
	switch cfg.Kind {
	case config.MemoryStore:
		return memory.New(), noop, nil

	case config.DynamoStore:
		aws, err := support.AWSConfig(ctx)
		if err != nil {
			return nil, nil, err
		}
		return ds.NewStateStore(ds.Client(aws), ds.StateTableName(cfg.DynamoTable)), noop, nil

	case config.LocalDynamoStore:
		store, err := ds.NewLocalDynamoStore(ctx, cfg.DynamoEndpoint, ds.StateTableName(cfg.DynamoTable))
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to open local dynamodb")
		}
		return store, noop, nil

	case config.JetStreamStore:
		conn, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to connect to nats")
		}
		store, err := jetstream.NewStateStore(cfg.NatsStream, conn)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		return store, conn.Close, nil

	case config.EventStoreDBStore:
		store, err := esdbs.NewESDBStore(cfg.ESDBConnection)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to connect to eventstoredb")
		}
		return store, func() { _ = store.Close() }, nil

	case config.RedisStore:
		store := rds.NewRedisStore(cfg.RedisAddr, "")
		return store, func() { _ = store.Close() }, nil

	case config.SqliteStore:
		store, err := sqlstore.Open(ctx, cfg.SqliteDSN)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}

	return nil, nil, errors.Errorf("unknown store %q", cfg.Kind)
}
