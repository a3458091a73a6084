package we

import (
	"context"
	"errors"
)

type RecordMetadata struct {
	Method        MethodName    `json:"method,omitempty"`
	Caller        AccountId     `json:"caller,omitempty"`
	CorrelationId CorrelationID `json:"correlationId,omitempty"`
}

// StateRecord is the persisted state of one deployment. A record that has
// never been saved carries InitialRevision and no state.
type StateRecord struct {
	Deployment DeploymentId   `json:"deployment"`
	Revision   Revision       `json:"revision"`
	Timestamp  Timestamp      `json:"timestamp,omitempty"`
	State      Data           `json:"state"`
	Metadata   RecordMetadata `json:"metadata"`
}

func (r StateRecord) Exists() bool {
	return r.Revision != InitialRevision && r.Revision != ""
}

func EmptyRecord(id DeploymentId) StateRecord {
	return StateRecord{Deployment: id, Revision: InitialRevision}
}

type StateLoader = func(ctx context.Context, id DeploymentId) (StateRecord, error)
type StateSaver = func(ctx context.Context, id DeploymentId, state Data, options SaveOptions) (Revision, error)

type StateStore interface {
	Load(ctx context.Context, id DeploymentId) (StateRecord, error)
	Save(ctx context.Context, id DeploymentId, state Data, options SaveOptions) (Revision, error)
}

func Loader(store StateStore) StateLoader {
	return store.Load
}

func Saver(store StateStore) StateSaver {
	return store.Save
}

var RevisionConflict = errors.New("revision-conflict")

// SaveOptions.ExpectedRevision: empty saves unconditionally, InitialRevision
// requires that nothing was saved before, anything else must match the stored
// revision.
type SaveOptions struct {
	RecordMetadata
	ExpectedRevision Revision
}

type SaveOption func(modifier *SaveOptions)

func Options(options ...SaveOption) SaveOptions {
	modifiers := &SaveOptions{}
	for _, option := range options {
		option(modifiers)
	}

	return *modifiers
}

func WithExpectedRevision(expectedRevision Revision) SaveOption {
	return func(modifier *SaveOptions) {
		modifier.ExpectedRevision = expectedRevision
	}
}

func WithCorrelationId(correlationId CorrelationID) SaveOption {
	return func(modifier *SaveOptions) {
		modifier.RecordMetadata.CorrelationId = correlationId
	}
}

func WithCall(method MethodName, caller AccountId) SaveOption {
	return func(modifier *SaveOptions) {
		modifier.RecordMetadata.Method = method
		modifier.RecordMetadata.Caller = caller
	}
}

// CheckExpectedRevision applies the SaveOptions.ExpectedRevision rules for
// stores that compare revisions themselves.
func CheckExpectedRevision(current Revision, expected Revision) error {
	switch {
	case expected == "":
		return nil
	case expected == InitialRevision:
		if current != InitialRevision && current != "" {
			return RevisionConflict
		}
	case current != expected:
		return RevisionConflict
	}

	return nil
}
