package esdbs

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/EventStore/EventStore-Client-Go/esdb"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/weegigs/wee-ledger-go/we"
)

const StateRecordedEvent = "state-recorded"

func NewStateStore(client *esdb.Client) *ESDBStateStore {
	return &ESDBStateStore{db: client}
}

// ESDBStateStore appends a state-recorded event per save to one stream per
// deployment. The last event of the stream is the current state.
type ESDBStateStore struct {
	db *esdb.Client
}

type metadata struct {
	Encoding      string `json:"encoding"`
	Method        string `json:"method,omitempty"`
	Caller        string `json:"caller,omitempty"`
	CorrelationId string `json:"$correlationId,omitempty"`
}

func (es *ESDBStateStore) Save(ctx context.Context, id we.DeploymentId, state we.Data, options we.SaveOptions) (we.Revision, error) {
	md, err := json.Marshal(metadata{
		Encoding:      state.Encoding,
		Method:        options.Method.String(),
		Caller:        options.Caller.String(),
		CorrelationId: options.CorrelationId.String(),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal metadata")
	}

	contentType := esdb.BinaryContentType
	if state.Encoding == we.EncodingJSON {
		contentType = esdb.JsonContentType
	}

	revision, err := expectedRevision(options.ExpectedRevision)
	if err != nil {
		return "", err
	}

	result, err := es.db.AppendToStream(
		ctx,
		id.Encode().String(),
		esdb.AppendToStreamOptions{ExpectedRevision: revision},
		esdb.EventData{
			ContentType: contentType,
			EventType:   StateRecordedEvent,
			Data:        state.Data,
			Metadata:    md,
		},
	)
	if err != nil {
		if errors.Is(err, esdb.ErrWrongExpectedStreamRevision) {
			return "", we.RevisionConflict
		}

		return "", errors.Wrap(err, "failed to append to stream")
	}

	return encodeRevision(result.NextExpectedVersion), nil
}

func (es *ESDBStateStore) Load(ctx context.Context, id we.DeploymentId) (we.StateRecord, error) {
	stream, err := es.db.ReadStream(
		ctx, id.Encode().String(), esdb.ReadStreamOptions{
			Direction: esdb.Backwards,
			From:      esdb.End{},
		}, 1,
	)
	if err != nil {
		if errors.Is(err, esdb.ErrStreamNotFound) || errors.Is(err, io.EOF) {
			return we.EmptyRecord(id), nil
		}

		return we.StateRecord{}, errors.Wrap(err, "failed to read stream")
	}
	defer stream.Close()

	event, err := stream.Recv()
	if err != nil {
		if errors.Is(err, esdb.ErrStreamNotFound) || errors.Is(err, io.EOF) {
			return we.EmptyRecord(id), nil
		}

		return we.StateRecord{}, errors.Wrap(err, "failed to read event")
	}

	e := event.OriginalEvent()

	var md metadata
	if len(e.UserMetadata) > 0 {
		if err := json.Unmarshal(e.UserMetadata, &md); err != nil {
			return we.StateRecord{}, errors.Wrap(err, "failed to unmarshal metadata")
		}
	}

	return we.StateRecord{
		Deployment: id,
		Revision:   encodeRevision(e.EventNumber),
		Timestamp:  we.TimestampFromTime(e.CreatedDate),
		State: we.Data{
			Encoding: md.Encoding,
			Data:     e.Data,
		},
		Metadata: we.RecordMetadata{
			Method:        we.MethodName(md.Method),
			Caller:        we.AccountId(md.Caller),
			CorrelationId: we.CorrelationID(md.CorrelationId),
		},
	}, nil
}

// The first event of a stream is number 0, which would collide with the
// initial revision, so revisions are event numbers plus one.
func encodeRevision(eventNumber uint64) we.Revision {
	return we.Revision(fmt.Sprintf("%026x", eventNumber+1))
}

func decodeRevision(revision we.Revision) (uint64, error) {
	r, err := strconv.ParseUint(revision.String(), 16, 64)
	if err != nil {
		return 0, errors.Wrap(err, "invalid expected revision")
	}

	if r == 0 {
		return 0, errors.New("invalid expected revision")
	}

	return r - 1, nil
}

func expectedRevision(expected we.Revision) (esdb.ExpectedRevision, error) {
	switch expected {
	case "":
		return esdb.Any{}, nil
	case we.InitialRevision:
		return esdb.NoStream{}, nil
	}

	r, err := decodeRevision(expected)
	if err != nil {
		return nil, err
	}

	return esdb.Revision(r), nil
}

func (es *ESDBStateStore) Close() error {
	return es.db.Close()
}
