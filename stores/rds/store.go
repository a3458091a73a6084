package rds

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-redis/redis/v8"

	"github.com/weegigs/wee-ledger-go/we"
)

const keyPrefix = "state:"

// RedisStateStore keeps a hash per deployment and guards saves with
// WATCH/MULTI.
type RedisStateStore struct {
	client   *redis.Client
	revision *we.RevisionGenerator
}

func NewStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client, revision: we.NewRevisionGenerator()}
}

func key(id we.DeploymentId) string {
	return keyPrefix + id.Encode().String()
}

func (s *RedisStateStore) Load(ctx context.Context, id we.DeploymentId) (we.StateRecord, error) {
	fields, err := s.client.HGetAll(ctx, key(id)).Result()
	if err != nil {
		return we.StateRecord{}, err
	}

	if len(fields) == 0 {
		return we.EmptyRecord(id), nil
	}

	return we.StateRecord{
		Deployment: id,
		Revision:   we.Revision(fields["revision"]),
		Timestamp:  we.Timestamp(fields["timestamp"]),
		State: we.Data{
			Encoding: fields["encoding"],
			Data:     []byte(fields["data"]),
		},
		Metadata: we.RecordMetadata{
			Method:        we.MethodName(fields["method"]),
			Caller:        we.AccountId(fields["caller"]),
			CorrelationId: we.CorrelationID(fields["correlationId"]),
		},
	}, nil
}

func (s *RedisStateStore) Save(ctx context.Context, id we.DeploymentId, state we.Data, options we.SaveOptions) (we.Revision, error) {
	var revision we.Revision

	err := retry.Do(
		func() error {
			var err error
			revision, err = s.save(ctx, id, state, options)
			return err
		},
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, redis.TxFailedErr) && options.ExpectedRevision == ""
		}),
		retry.Attempts(5),
		retry.Delay(5*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)

	if errors.Is(err, redis.TxFailedErr) {
		return "", we.RevisionConflict
	}

	return revision, err
}

func (s *RedisStateStore) save(ctx context.Context, id we.DeploymentId, state we.Data, options we.SaveOptions) (we.Revision, error) {
	k := key(id)
	now := time.Now()
	revision := s.revision.NewRevision(now)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, k, "revision").Result()
		if err != nil && err != redis.Nil {
			return err
		}

		if err := we.CheckExpectedRevision(we.Revision(current), options.ExpectedRevision); err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, k, map[string]interface{}{
				"revision":      revision.String(),
				"timestamp":     we.TimestampFromTime(now).String(),
				"encoding":      state.Encoding,
				"data":          state.Data,
				"method":        options.Method.String(),
				"caller":        options.Caller.String(),
				"correlationId": options.CorrelationId.String(),
			})
			return nil
		})

		return err
	}, k)

	if err != nil {
		return "", err
	}

	return revision, nil
}

func (s *RedisStateStore) Remove(ctx context.Context, id we.DeploymentId) error {
	return s.client.Del(ctx, key(id)).Err()
}

func (s *RedisStateStore) Close() error {
	return s.client.Close()
}
