package counter

import (
	"context"

	"github.com/weegigs/wee-ledger-go/we"
)

const (
	NewMethod          we.MethodName = "new"
	GetNumMethod       we.MethodName = "get_num"
	GetAccMethod       we.MethodName = "get_acc"
	GetNumTicketMethod we.MethodName = "get_um_ticket"
	SetNumTicketMethod we.MethodName = "set_num_ticket"
	IncrementMethod    we.MethodName = "increment"
	DecrementMethod    we.MethodName = "decrement"
	ResetMethod        we.MethodName = "reset"
)

type SetNumTicketArgs struct {
	NumTicket uint8 `json:"num_ticket"`
}

func initialize(_ context.Context, env we.Env, _ we.NoArgs) (*Counter, error) {
	return New(env), nil
}

func getNum(_ context.Context, state *Counter) (int8, error) {
	return state.GetNum(), nil
}

func getAcc(_ context.Context, state *Counter) (string, error) {
	return state.GetAcc(), nil
}

func getNumTicket(_ context.Context, state *Counter) (uint8, error) {
	return state.GetNumTicket(), nil
}

func setNumTicket(_ context.Context, _ we.Env, state *Counter, args SetNumTicketArgs) error {
	state.SetNumTicket(args.NumTicket)
	return nil
}

func increment(_ context.Context, env we.Env, state *Counter, _ we.NoArgs) error {
	return state.Increment(env)
}

func decrement(_ context.Context, env we.Env, state *Counter, _ we.NoArgs) error {
	return state.Decrement(env)
}

func reset(_ context.Context, env we.Env, state *Counter, _ we.NoArgs) error {
	state.Reset(env)
	return nil
}

func Contract() we.Contract[Counter] {
	methods := we.Methods[Counter]{}
	methods[NewMethod] = we.InitFunction[Counter, we.NoArgs](initialize)
	methods[GetNumMethod] = we.ViewFunction[Counter, int8](getNum)
	methods[GetAccMethod] = we.ViewFunction[Counter, string](getAcc)
	methods[GetNumTicketMethod] = we.ViewFunction[Counter, uint8](getNumTicket)
	methods[SetNumTicketMethod] = we.ChangeFunction[Counter, SetNumTicketArgs](setNumTicket)
	methods[IncrementMethod] = we.ChangeFunction[Counter, we.NoArgs](increment)
	methods[DecrementMethod] = we.ChangeFunction[Counter, we.NoArgs](decrement)
	methods[ResetMethod] = we.ChangeFunction[Counter, we.NoArgs](reset)

	return we.NewContract[Counter](methods)
}

func NewRuntime(store we.StateStore, options ...we.RuntimeOption) *we.Runtime[Counter] {
	return we.NewRuntime(Contract(), store, options...)
}
