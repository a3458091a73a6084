package we

import (
	"context"
)

type MethodKind int

const (
	InitMethod MethodKind = iota
	ViewMethod
	ChangeMethod
)

func (k MethodKind) String() string {
	switch k {
	case InitMethod:
		return "init"
	case ViewMethod:
		return "view"
	case ChangeMethod:
		return "change"
	default:
		return "unknown"
	}
}

// Mutates reports whether calls of this kind persist state.
func (k MethodKind) Mutates() bool {
	return k == InitMethod || k == ChangeMethod
}

// Method is one entry of a contract's method table. Init methods receive a nil
// state and return the new one; view and change methods return the state they
// were given.
type Method[T any] interface {
	Kind() MethodKind
	Call(ctx context.Context, env Env, state *T, args Data) (*T, any, error)
}

type InitFunction[T any, A any] func(ctx context.Context, env Env, args A) (*T, error)

func (f InitFunction[T, A]) Kind() MethodKind {
	return InitMethod
}

func (f InitFunction[T, A]) Call(ctx context.Context, env Env, _ *T, data Data) (*T, any, error) {
	var args A
	if err := decodeArgs(data, &args); err != nil {
		return nil, nil, err
	}

	state, err := f(ctx, env, args)
	if err != nil {
		return nil, nil, err
	}

	return state, nil, nil
}

type ViewFunction[T any, R any] func(ctx context.Context, state *T) (R, error)

func (f ViewFunction[T, R]) Kind() MethodKind {
	return ViewMethod
}

func (f ViewFunction[T, R]) Call(ctx context.Context, _ Env, state *T, _ Data) (*T, any, error) {
	result, err := f(ctx, state)
	if err != nil {
		return state, nil, err
	}

	return state, result, nil
}

type ChangeFunction[T any, A any] func(ctx context.Context, env Env, state *T, args A) error

func (f ChangeFunction[T, A]) Kind() MethodKind {
	return ChangeMethod
}

func (f ChangeFunction[T, A]) Call(ctx context.Context, env Env, state *T, data Data) (*T, any, error) {
	var args A
	if err := decodeArgs(data, &args); err != nil {
		return state, nil, err
	}

	if err := f(ctx, env, state, args); err != nil {
		return state, nil, err
	}

	return state, nil, nil
}
