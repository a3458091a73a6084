package rds

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func NewRedisStore(address string, password string) *RedisStateStore {
	return NewStateStore(redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
	}))
}

func NewTestStore(ctx context.Context) (*RedisStateStore, func(), error) {
	db, err := testcontainers.GenericContainer(
		ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:6-alpine",
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor:   wait.ForListeningPort("6379"),
			},
			Started: true,
		},
	)
	if err != nil {
		return nil, nil, err
	}

	host, err := db.Host(ctx)
	if err != nil {
		return nil, nil, err
	}

	port, err := db.MappedPort(ctx, "6379")
	if err != nil {
		return nil, nil, err
	}

	store := NewRedisStore(fmt.Sprintf("%s:%s", host, port.Port()), "")

	return store, func() {
		_ = store.Close()
		if err := db.Terminate(ctx); err != nil {
			panic(err)
		}
	}, nil
}
