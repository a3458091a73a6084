package we

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const tracerName = "ledger-runtime"

const DefaultAttempts = 3

type RuntimeOptions struct {
	Marshaller Marshaller
	Sinks      []ReceiptSink
	Metrics    *Metrics
	Attempts   uint
	Logger     *zerolog.Logger
}

type RuntimeOption func(options *RuntimeOptions)

// WithStateMarshaller sets the encoding new state is saved with. Records are
// always decoded according to the encoding they were saved with.
func WithStateMarshaller(marshaller Marshaller) RuntimeOption {
	return func(options *RuntimeOptions) {
		options.Marshaller = marshaller
	}
}

func WithReceiptSinks(sinks ...ReceiptSink) RuntimeOption {
	return func(options *RuntimeOptions) {
		options.Sinks = append(options.Sinks, sinks...)
	}
}

func WithMetrics(metrics *Metrics) RuntimeOption {
	return func(options *RuntimeOptions) {
		options.Metrics = metrics
	}
}

// WithAttempts bounds how often a call is re-run after losing a revision
// conflict.
func WithAttempts(attempts uint) RuntimeOption {
	return func(options *RuntimeOptions) {
		options.Attempts = attempts
	}
}

func WithLogger(logger *zerolog.Logger) RuntimeOption {
	return func(options *RuntimeOptions) {
		options.Logger = logger
	}
}

// Runtime hosts a contract. Each call loads the deployment's record, runs one
// method against the decoded state and saves the result if the method
// mutates. A failed call saves nothing.
type Runtime[T any] struct {
	contract   Contract[T]
	store      StateStore
	marshaller Marshaller
	results    Marshaller
	sinks      []ReceiptSink
	metrics    *Metrics
	attempts   uint
	log        *zerolog.Logger
}

func NewRuntime[T any](contract Contract[T], store StateStore, options ...RuntimeOption) *Runtime[T] {
	opts := &RuntimeOptions{}
	for _, option := range options {
		option(opts)
	}

	if opts.Marshaller == nil {
		opts.Marshaller = NewBorshMarshaller()
	}

	if opts.Attempts == 0 {
		opts.Attempts = DefaultAttempts
	}

	if opts.Logger == nil {
		opts.Logger = &log.Logger
	}

	return &Runtime[T]{
		contract:   contract,
		store:      store,
		marshaller: opts.Marshaller,
		results:    NewJsonMarshaller(),
		sinks:      opts.Sinks,
		metrics:    opts.Metrics,
		attempts:   opts.Attempts,
		log:        opts.Logger,
	}
}

func (r *Runtime[T]) Contract() Contract[T] {
	return r.contract
}

func (r *Runtime[T]) Load(ctx context.Context, id DeploymentId) (Entity[T], error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "load state")
	defer span.End()

	if err := r.checkContract(id); err != nil {
		return Entity[T]{}, err
	}

	record, err := r.store.Load(ctx, id)
	if err != nil {
		return Entity[T]{}, errors.Wrap(err, "failed to load state")
	}

	entity := Entity[T]{
		Deployment: id,
		Revision:   record.Revision,
		Timestamp:  record.Timestamp,
		Type:       r.contract.Name,
	}

	if !record.Exists() {
		entity.Revision = InitialRevision
		return entity, nil
	}

	state, err := r.decode(record.State)
	if err != nil {
		return Entity[T]{}, err
	}
	entity.State = state

	return entity, nil
}

// View runs a read only method. Mutating methods are refused.
func (r *Runtime[T]) View(ctx context.Context, id DeploymentId, call Call) (Outcome, error) {
	method, err := r.contract.Method(call.Method)
	if err != nil {
		return Outcome{}, err
	}

	if method.Kind() != ViewMethod {
		return Outcome{}, NotViewMethod(call.Method)
	}

	return r.Invoke(ctx, id, Caller{}, call)
}

func (r *Runtime[T]) Invoke(ctx context.Context, id DeploymentId, caller Caller, call Call) (Outcome, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, fmt.Sprintf("invoke %s", call.Method))
	defer span.End()

	span.SetAttributes(
		attribute.String("deployment", id.String()),
		attribute.String("method", call.Method.String()),
	)

	started := time.Now()

	var outcome Outcome
	var receipt *Receipt

	err := r.checkContract(id)
	if err == nil {
		var method Method[T]
		method, err = r.contract.Method(call.Method)
		if err == nil {
			err = retry.Do(
				func() error {
					o, rec, err := r.execute(ctx, id, caller, call, method)
					if err != nil {
						return err
					}

					outcome, receipt = o, rec
					return nil
				},
				retry.RetryIf(func(err error) bool {
					if errors.Is(err, RevisionConflict) {
						r.metrics.conflict()
						return true
					}
					return false
				}),
				retry.Attempts(r.attempts),
				retry.Delay(10*time.Millisecond),
				retry.MaxDelay(250*time.Millisecond),
				retry.LastErrorOnly(true),
				retry.Context(ctx),
			)
		}
	}

	r.metrics.observe(r.contract.Name, call.Method, started, err)

	if err != nil {
		span.RecordError(err)
		r.log.Info().Err(err).
			Str("deployment", id.String()).
			Str("method", call.Method.String()).
			Msg("call aborted")
		return Outcome{}, err
	}

	if receipt != nil {
		r.publish(ctx, *receipt)
	}

	return outcome, nil
}

func (r *Runtime[T]) execute(ctx context.Context, id DeploymentId, caller Caller, call Call, method Method[T]) (Outcome, *Receipt, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, fmt.Sprintf("execute %s", call.Method))
	defer span.End()

	record, err := r.store.Load(ctx, id)
	if err != nil {
		return Outcome{}, nil, errors.Wrap(err, "failed to load state")
	}

	var state *T
	if method.Kind() == InitMethod {
		if record.Exists() {
			return Outcome{}, nil, AlreadyInitialized(id)
		}
	} else {
		if !record.Exists() {
			return Outcome{}, nil, NotInitialized(id)
		}

		state, err = r.decode(record.State)
		if err != nil {
			return Outcome{}, nil, err
		}
	}

	env := newCallEnv(id, caller)

	state, result, err := method.Call(ctx, env, state, call.Args)
	if err != nil {
		return Outcome{}, nil, err
	}

	outcome := Outcome{
		Deployment: id,
		Method:     call.Method,
		Revision:   record.Revision,
		Logs:       env.Logs(),
	}

	if result != nil {
		outcome.Result, err = r.results.Marshal(result)
		if err != nil {
			return Outcome{}, nil, errors.Wrap(err, "failed to encode result")
		}
	}

	if !method.Kind().Mutates() {
		return outcome, nil, nil
	}

	if state == nil {
		return Outcome{}, nil, fmt.Errorf("%s returned no state", call.Method)
	}

	data, err := r.marshaller.Marshal(*state)
	if err != nil {
		return Outcome{}, nil, errors.Wrap(err, "failed to encode state")
	}

	revision, err := r.store.Save(
		ctx,
		id,
		data,
		Options(
			WithExpectedRevision(record.Revision),
			WithCall(call.Method, caller.Predecessor),
			WithCorrelationId(call.CorrelationId),
		),
	)
	if err != nil {
		return Outcome{}, nil, errors.Wrap(err, "failed to save state")
	}

	outcome.Revision = revision

	return outcome, &Receipt{
		Deployment:    id,
		Method:        call.Method,
		Caller:        caller,
		Revision:      revision,
		Timestamp:     TimestampFromTime(time.Now()),
		CorrelationId: call.CorrelationId,
		Logs:          outcome.Logs,
	}, nil
}

func (r *Runtime[T]) decode(data Data) (*T, error) {
	var marshaller Marshaller
	switch data.Encoding {
	case EncodingBorsh:
		marshaller = NewBorshMarshaller()
	case EncodingJSON:
		marshaller = NewJsonMarshaller()
	default:
		marshaller = r.marshaller
	}

	state := new(T)
	if err := marshaller.Unmarshal(data, state); err != nil {
		return nil, errors.Wrap(err, "failed to decode state")
	}

	return state, nil
}

// publish delivers a receipt to every sink. The call is already committed so
// sink failures are logged, not returned.
func (r *Runtime[T]) publish(ctx context.Context, receipt Receipt) {
	for _, sink := range r.sinks {
		if err := sink.Publish(ctx, receipt); err != nil {
			r.log.Warn().Err(err).
				Str("deployment", receipt.Deployment.String()).
				Str("revision", receipt.Revision.String()).
				Msg("failed to publish receipt")
		}
	}
}

func (r *Runtime[T]) checkContract(id DeploymentId) error {
	if id.Contract != r.contract.Name {
		return ContractMismatchError{Expected: r.contract.Name, Actual: id.Contract}
	}

	return nil
}
