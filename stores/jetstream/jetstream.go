package jetstream

import (
	"context"
	stderrors "errors"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"github.com/weegigs/wee-ledger-go/we"
)

const prefix = "state."

type StateStoreOption func(config *nats.StreamConfig)

// WithReplicas sets how many servers hold a copy of the stream.
func WithReplicas(replicas int) StateStoreOption {
	return func(config *nats.StreamConfig) {
		config.Replicas = replicas
	}
}

// WithHistory keeps the last n states of every deployment. Only the latest is
// ever loaded.
func WithHistory(n int64) StateStoreOption {
	return func(config *nats.StreamConfig) {
		config.MaxMsgsPerSubject = n
	}
}

func NewStateStore(name string, connection *nats.Conn, options ...StateStoreOption) (*StateStore, error) {
	stream, err := connection.JetStream()
	if err != nil {
		return nil, err
	}

	config := &nats.StreamConfig{
		Name:              name,
		Description:       "contract state stream for " + name,
		Subjects:          []string{prefix + ">"},
		MaxMsgsPerSubject: 16,
	}
	for _, option := range options {
		option(config)
	}

	if _, err = stream.AddStream(config); err != nil {
		return nil, errors.Wrapf(err, "failed to create stream %s", name)
	}

	return &StateStore{name: name, manager: stream, stream: stream}, nil
}

// StateStore keeps one subject per deployment. Revisions encode the stream
// sequence of the message that holds the state.
type StateStore struct {
	name    string
	manager nats.JetStreamManager
	stream  nats.JetStream
}

func subject(id we.DeploymentId) string {
	return prefix + id.Encode().String()
}

func (s *StateStore) Save(ctx context.Context, id we.DeploymentId, state we.Data, options we.SaveOptions) (we.Revision, error) {
	bytes, err := encodeMessage(StateMessage{
		Deployment: id,
		State:      state,
		Metadata:   options.RecordMetadata,
	})
	if err != nil {
		return "", err
	}

	var opts = []nats.PubOpt{nats.Context(ctx)}

	expected := options.ExpectedRevision
	if expected != "" {
		if expected == we.InitialRevision {
			opts = append(opts, nats.ExpectLastSequencePerSubject(0))
		} else {
			sequenceNumber, err := SequenceOf(expected)
			if err != nil {
				return "", err
			}

			opts = append(opts, nats.ExpectLastSequencePerSubject(sequenceNumber))
		}
	}

	ack, err := s.stream.Publish(subject(id), bytes, opts...)
	if err != nil {
		var api *nats.APIError
		if stderrors.As(err, &api) && api.ErrorCode == nats.JSErrCodeStreamWrongLastSequence {
			return "", we.RevisionConflict
		}
		return "", err
	}

	msg, err := s.manager.GetMsg(s.name, ack.Sequence, nats.Context(ctx))
	if err != nil {
		return "", err
	}

	return revisionOf(msg)
}

func (s *StateStore) Load(ctx context.Context, id we.DeploymentId) (we.StateRecord, error) {
	msg, err := s.manager.GetLastMsg(s.name, subject(id), nats.Context(ctx))
	if err != nil {
		if stderrors.Is(err, nats.ErrMsgNotFound) {
			return we.EmptyRecord(id), nil
		}

		return we.StateRecord{}, err
	}

	message, err := decodeMessage(msg.Data)
	if err != nil {
		return we.StateRecord{}, err
	}

	revision, err := revisionOf(msg)
	if err != nil {
		return we.StateRecord{}, err
	}

	return we.StateRecord{
		Deployment: id,
		Revision:   revision,
		Timestamp:  we.TimestampFromTime(msg.Time),
		State:      message.State,
		Metadata:   message.Metadata,
	}, nil
}
