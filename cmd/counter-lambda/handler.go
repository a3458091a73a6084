package main

import (
	"github.com/google/wire"
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-ledger-go/connectors/welambda"
	"github.com/weegigs/wee-ledger-go/counter"
	"github.com/weegigs/wee-ledger-go/stores/ds"
	"github.com/weegigs/wee-ledger-go/we"
)

func newRuntime(store we.StateStore) *we.Runtime[counter.Counter] {
	return counter.NewRuntime(store, we.WithReceiptSinks(we.NewLogSink(&log.Logger)))
}

func newHandler(runtime *we.Runtime[counter.Counter]) welambda.GatewayHandler {
	return welambda.NewHandler[counter.Counter](runtime)
}

var service = wire.NewSet(newRuntime, newHandler)

var Live = wire.NewSet(service, ds.Live)
