package memory

import (
	"context"
	"sync"
	"time"

	"github.com/weegigs/wee-ledger-go/we"
)

// Store keeps state records in process. It is used for tests and local
// development where no backing service is available.
type Store struct {
	lk        sync.Mutex
	records   map[we.EncodedDeploymentId]we.StateRecord
	revisions *we.RevisionGenerator
}

func New() *Store {
	return &Store{
		records:   map[we.EncodedDeploymentId]we.StateRecord{},
		revisions: we.NewRevisionGenerator(),
	}
}

func (s *Store) Load(_ context.Context, id we.DeploymentId) (we.StateRecord, error) {
	s.lk.Lock()
	defer s.lk.Unlock()

	record, ok := s.records[id.Encode()]
	if !ok {
		return we.EmptyRecord(id), nil
	}

	return copyRecord(record), nil
}

func (s *Store) Save(_ context.Context, id we.DeploymentId, state we.Data, options we.SaveOptions) (we.Revision, error) {
	s.lk.Lock()
	defer s.lk.Unlock()

	current := s.records[id.Encode()].Revision
	if err := we.CheckExpectedRevision(current, options.ExpectedRevision); err != nil {
		return "", err
	}

	now := time.Now()
	revision := s.revisions.NewRevision(now)

	s.records[id.Encode()] = copyRecord(we.StateRecord{
		Deployment: id,
		Revision:   revision,
		Timestamp:  we.TimestampFromTime(now),
		State:      state,
		Metadata:   options.RecordMetadata,
	})

	return revision, nil
}

func (s *Store) Remove(_ context.Context, id we.DeploymentId) error {
	s.lk.Lock()
	defer s.lk.Unlock()

	delete(s.records, id.Encode())
	return nil
}

func copyRecord(record we.StateRecord) we.StateRecord {
	data := make([]byte, len(record.State.Data))
	copy(data, record.State.Data)
	record.State.Data = data

	return record
}
