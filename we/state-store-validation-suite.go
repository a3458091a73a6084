package we

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/jaswdr/faker"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
)

var entropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)

func NewStateStoreValidationSuite(ctx context.Context, store StateStore) *StateStoreValidationSuite {
	faker := faker.New()
	return &StateStoreValidationSuite{
		store: store,
		ctx:   ctx,
		faker: faker,
	}
}

// StateStoreValidationSuite checks the behaviour every StateStore has to
// share for the runtime to work on top of it.
type StateStoreValidationSuite struct {
	store StateStore
	ctx   context.Context
	faker faker.Faker
}

type StoreValidationState struct {
	TestStringValue string `json:"test_string_value"`
	TestIntValue    int    `json:"test_int_value"`
}

func (s *StateStoreValidationSuite) Run(t *testing.T) {
	t.Run("loads an initial revision", s.LoadInitial)
	t.Run("loads a saved state", s.LoadsSavedState)
	t.Run("saves unconditionally without an expected revision", s.SavesUnconditionally)
	t.Run("advances the revision on each save", s.AdvancesRevision)
	t.Run("returns a revision conflict with an initial revision", s.RevisionConflictOnInitialRevision)
	t.Run("returns a revision conflict on a stale revision", s.RevisionConflictOnStaleRevision)
	t.Run("keeps the state on a revision conflict", s.KeepsStateOnConflict)
	t.Run("keeps deployments apart", s.KeepsDeploymentsApart)
	t.Run("records call metadata", s.RecordsMetadata)
}

func (s *StateStoreValidationSuite) MakeTestDeploymentId() DeploymentId {
	return DeploymentId{
		Contract: "go-test",
		Account:  AccountId(ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()),
	}
}

func (s *StateStoreValidationSuite) MakeTestState() Data {
	data, err := NewJsonMarshaller().Marshal(StoreValidationState{
		TestStringValue: s.faker.Lorem().Sentence(10),
		TestIntValue:    s.faker.Int(),
	})
	if err != nil {
		panic(err)
	}

	return data
}

func (s *StateStoreValidationSuite) LoadInitial(t *testing.T) {
	id := s.MakeTestDeploymentId()
	record, err := s.store.Load(s.ctx, id)

	if !assert.Nil(t, err) {
		return
	}

	assert.False(t, record.Exists())
	assert.Equal(t, InitialRevision, record.Revision)
	assert.EqualValues(t, id, record.Deployment)
	assert.True(t, record.State.Empty())
}

func (s *StateStoreValidationSuite) LoadsSavedState(t *testing.T) {
	id := s.MakeTestDeploymentId()
	state := s.MakeTestState()

	revision, err := s.store.Save(s.ctx, id, state, Options(WithExpectedRevision(InitialRevision)))
	if !assert.Nil(t, err) {
		return
	}

	record, err := s.store.Load(s.ctx, id)
	if !assert.Nil(t, err) {
		return
	}

	assert.True(t, record.Exists())
	assert.Equal(t, revision, record.Revision)
	assert.EqualValues(t, id, record.Deployment)
	assert.Equal(t, state.Encoding, record.State.Encoding)
	assert.JSONEq(t, string(state.Data), string(record.State.Data))
}

func (s *StateStoreValidationSuite) SavesUnconditionally(t *testing.T) {
	id := s.MakeTestDeploymentId()

	_, err := s.store.Save(s.ctx, id, s.MakeTestState(), Options())
	if !assert.Nil(t, err) {
		return
	}

	_, err = s.store.Save(s.ctx, id, s.MakeTestState(), Options())
	assert.Nil(t, err)
}

func (s *StateStoreValidationSuite) AdvancesRevision(t *testing.T) {
	id := s.MakeTestDeploymentId()

	first, err := s.store.Save(s.ctx, id, s.MakeTestState(), Options(WithExpectedRevision(InitialRevision)))
	if !assert.Nil(t, err) {
		return
	}

	second, err := s.store.Save(s.ctx, id, s.MakeTestState(), Options(WithExpectedRevision(first)))
	if !assert.Nil(t, err) {
		return
	}

	assert.NotEqual(t, first, second)
	assert.True(t, second.After(first), "expected %s to follow %s", second, first)
}

func (s *StateStoreValidationSuite) RevisionConflictOnInitialRevision(t *testing.T) {
	id := s.MakeTestDeploymentId()

	_, err := s.store.Save(s.ctx, id, s.MakeTestState(), Options())
	if !assert.Nil(t, err) {
		return
	}

	_, err = s.store.Save(s.ctx, id, s.MakeTestState(), Options(WithExpectedRevision(InitialRevision)))
	assert.ErrorIs(t, err, RevisionConflict)
}

func (s *StateStoreValidationSuite) RevisionConflictOnStaleRevision(t *testing.T) {
	id := s.MakeTestDeploymentId()

	first, err := s.store.Save(s.ctx, id, s.MakeTestState(), Options())
	if !assert.Nil(t, err) {
		return
	}

	_, err = s.store.Save(s.ctx, id, s.MakeTestState(), Options(WithExpectedRevision(first)))
	if !assert.Nil(t, err) {
		return
	}

	_, err = s.store.Save(s.ctx, id, s.MakeTestState(), Options(WithExpectedRevision(first)))
	assert.ErrorIs(t, err, RevisionConflict)
}

func (s *StateStoreValidationSuite) KeepsStateOnConflict(t *testing.T) {
	id := s.MakeTestDeploymentId()
	state := s.MakeTestState()

	revision, err := s.store.Save(s.ctx, id, state, Options())
	if !assert.Nil(t, err) {
		return
	}

	_, err = s.store.Save(s.ctx, id, s.MakeTestState(), Options(WithExpectedRevision(InitialRevision)))
	if !assert.ErrorIs(t, err, RevisionConflict) {
		return
	}

	record, err := s.store.Load(s.ctx, id)
	if !assert.Nil(t, err) {
		return
	}

	assert.Equal(t, revision, record.Revision)
	assert.JSONEq(t, string(state.Data), string(record.State.Data))
}

func (s *StateStoreValidationSuite) KeepsDeploymentsApart(t *testing.T) {
	first := s.MakeTestDeploymentId()
	second := s.MakeTestDeploymentId()

	_, err := s.store.Save(s.ctx, first, s.MakeTestState(), Options())
	if !assert.Nil(t, err) {
		return
	}

	record, err := s.store.Load(s.ctx, second)
	if !assert.Nil(t, err) {
		return
	}

	assert.False(t, record.Exists())
}

func (s *StateStoreValidationSuite) RecordsMetadata(t *testing.T) {
	id := s.MakeTestDeploymentId()
	correlationId := CorrelationID(s.faker.UUID().V4())

	_, err := s.store.Save(
		s.ctx,
		id,
		s.MakeTestState(),
		Options(WithCall("set_value", "alice.test"), WithCorrelationId(correlationId)),
	)
	if !assert.Nil(t, err) {
		return
	}

	record, err := s.store.Load(s.ctx, id)
	if !assert.Nil(t, err) {
		return
	}

	assert.Equal(t, MethodName("set_value"), record.Metadata.Method)
	assert.Equal(t, AccountId("alice.test"), record.Metadata.Caller)
	assert.Equal(t, correlationId, record.Metadata.CorrelationId)
}
