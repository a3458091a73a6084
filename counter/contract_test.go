package counter_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"

	"github.com/weegigs/wee-ledger-go/counter"
	"github.com/weegigs/wee-ledger-go/stores/memory"
	"github.com/weegigs/wee-ledger-go/we"
)

var caller = we.Caller{Signer: "robert.testnet", Predecessor: "jane.testnet"}

type receipts struct {
	lk       sync.Mutex
	received []we.Receipt
}

func (r *receipts) Publish(_ context.Context, receipt we.Receipt) error {
	r.lk.Lock()
	defer r.lk.Unlock()

	r.received = append(r.received, receipt)
	return nil
}

func (r *receipts) All() []we.Receipt {
	r.lk.Lock()
	defer r.lk.Unlock()

	return append([]we.Receipt{}, r.received...)
}

type fixture struct {
	ctx      context.Context
	store    *memory.Store
	runtime  *we.Runtime[counter.Counter]
	receipts *receipts
}

func newFixture(options ...we.RuntimeOption) *fixture {
	store := memory.New()
	sink := &receipts{}

	return &fixture{
		ctx:      context.Background(),
		store:    store,
		runtime:  counter.NewRuntime(store, append([]we.RuntimeOption{we.WithReceiptSinks(sink)}, options...)...),
		receipts: sink,
	}
}

func (f *fixture) deployment(account string) we.DeploymentId {
	return counter.Contract().Deployment(we.AccountId(account))
}

func (f *fixture) call(t *testing.T, id we.DeploymentId, method we.MethodName, args ...we.Data) we.Outcome {
	outcome, err := f.runtime.Invoke(f.ctx, id, caller, we.CallOf(method, args...))
	if !assert.Nil(t, err, "%s failed", method) {
		t.FailNow()
	}

	return outcome
}

func (f *fixture) view(t *testing.T, id we.DeploymentId, method we.MethodName, result any) {
	outcome, err := f.runtime.View(f.ctx, id, we.CallOf(method))
	if !assert.Nil(t, err, "%s failed", method) {
		t.FailNow()
	}

	assert.Nil(t, json.Unmarshal(outcome.Result.Data, result))
}

func (f *fixture) num(t *testing.T, id we.DeploymentId) int8 {
	var value int8
	f.view(t, id, counter.GetNumMethod, &value)
	return value
}

func TestContractName(t *testing.T) {
	assert.Equal(t, we.ContractName("counter"), counter.Contract().Name)
	assert.Len(t, counter.Contract().Methods, 8)
}

func TestInitializedCounter(t *testing.T) {
	f := newFixture()
	id := f.deployment("alice.testnet")

	f.call(t, id, counter.NewMethod)

	var acc string
	var tickets uint8
	f.view(t, id, counter.GetAccMethod, &acc)
	f.view(t, id, counter.GetNumTicketMethod, &tickets)

	assert.Equal(t, int8(0), f.num(t, id))
	assert.Equal(t, "alice.testnet", acc)
	assert.Equal(t, uint8(0), tickets)
}

func TestReinitialization(t *testing.T) {
	f := newFixture()
	id := f.deployment("alice.testnet")

	f.call(t, id, counter.NewMethod)
	f.call(t, id, counter.IncrementMethod)

	before, err := f.store.Load(f.ctx, id)
	if !assert.Nil(t, err) {
		return
	}

	_, err = f.runtime.Invoke(f.ctx, id, caller, we.CallOf(counter.NewMethod))

	var initialized we.AlreadyInitializedError
	assert.True(t, errors.As(err, &initialized))

	after, err := f.store.Load(f.ctx, id)
	if !assert.Nil(t, err) {
		return
	}

	assert.Equal(t, before, after)
	assert.Equal(t, int8(1), f.num(t, id))
}

func TestScenarios(t *testing.T) {
	scenarios := []struct {
		name     string
		methods  []we.MethodName
		expected int8
	}{
		{"increment increment decrement", []we.MethodName{counter.IncrementMethod, counter.IncrementMethod, counter.DecrementMethod}, 1},
		{"decrement", []we.MethodName{counter.DecrementMethod}, -1},
		{"increment reset", []we.MethodName{counter.IncrementMethod, counter.ResetMethod}, 0},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			f := newFixture()
			id := f.deployment("alice.testnet")

			f.call(t, id, counter.NewMethod)
			for _, method := range scenario.methods {
				f.call(t, id, method)
			}

			assert.Equal(t, scenario.expected, f.num(t, id))
		})
	}
}

func TestSetNumTicketArguments(t *testing.T) {
	f := newFixture()
	id := f.deployment("alice.testnet")
	f.call(t, id, counter.NewMethod)

	t.Run("from json", func(t *testing.T) {
		f.call(t, id, counter.SetNumTicketMethod, we.JSONData([]byte(`{"num_ticket": 20}`)))

		var tickets uint8
		f.view(t, id, counter.GetNumTicketMethod, &tickets)
		assert.Equal(t, uint8(20), tickets)
	})

	t.Run("from form values", func(t *testing.T) {
		f.call(t, id, counter.SetNumTicketMethod, we.FormData(map[string][]string{"num_ticket": {"255"}}))

		var tickets uint8
		f.view(t, id, counter.GetNumTicketMethod, &tickets)
		assert.Equal(t, uint8(255), tickets)
	})

	t.Run("rejects values outside the ticket range", func(t *testing.T) {
		_, err := f.runtime.Invoke(f.ctx, id, caller, we.CallOf(counter.SetNumTicketMethod, we.JSONData([]byte(`{"num_ticket": 256}`))))

		var invalid we.InvalidArgumentsError
		assert.True(t, errors.As(err, &invalid))
	})
}

func TestOverflowAbortsCall(t *testing.T) {
	f := newFixture()
	id := f.deployment("alice.testnet")
	f.call(t, id, counter.NewMethod)

	for i := 0; i < 127; i++ {
		f.call(t, id, counter.IncrementMethod)
	}
	assert.Equal(t, int8(127), f.num(t, id))

	before, _ := f.store.Load(f.ctx, id)
	published := len(f.receipts.All())

	_, err := f.runtime.Invoke(f.ctx, id, caller, we.CallOf(counter.IncrementMethod))

	var overflow *counter.OverflowError
	assert.True(t, errors.As(err, &overflow))

	after, _ := f.store.Load(f.ctx, id)
	assert.Equal(t, before, after)
	assert.Len(t, f.receipts.All(), published)
}

func TestReceipts(t *testing.T) {
	f := newFixture()
	id := f.deployment("alice.testnet")

	f.call(t, id, counter.NewMethod)
	outcome := f.call(t, id, counter.IncrementMethod)
	f.call(t, id, counter.ResetMethod)
	f.num(t, id)

	published := f.receipts.All()
	if !assert.Len(t, published, 3) {
		return
	}

	assert.Empty(t, published[0].Logs)
	assert.Equal(t, []string{"Increased number to 1", "Make sure you don't overflow, my friend."}, published[1].Logs)
	assert.Equal(t, outcome.Logs, published[1].Logs)
	assert.Equal(t, outcome.Revision, published[1].Revision)
	assert.Equal(t, caller, published[1].Caller)
	assert.Equal(t, []string{"Reset counter to zero"}, published[2].Logs)
}

func TestCallsBeforeInitialization(t *testing.T) {
	f := newFixture()
	id := f.deployment("alice.testnet")

	_, err := f.runtime.Invoke(f.ctx, id, caller, we.CallOf(counter.IncrementMethod))

	var missing we.NotInitializedError
	assert.True(t, errors.As(err, &missing))
}

func TestViewRefusesChanges(t *testing.T) {
	f := newFixture()
	id := f.deployment("alice.testnet")
	f.call(t, id, counter.NewMethod)

	_, err := f.runtime.View(f.ctx, id, we.CallOf(counter.IncrementMethod))

	var notView we.NotViewMethodError
	assert.True(t, errors.As(err, &notView))
	assert.Equal(t, int8(0), f.num(t, id))
}

func TestConcurrentIncrements(t *testing.T) {
	f := newFixture(we.WithAttempts(25))
	id := f.deployment("alice.testnet")
	f.call(t, id, counter.NewMethod)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.runtime.Invoke(f.ctx, id, caller, we.CallOf(counter.IncrementMethod))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.Nil(t, err)
	}

	assert.Equal(t, int8(10), f.num(t, id))
}
