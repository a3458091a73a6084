//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/weegigs/wee-ledger-go/connectors/welambda"
)

func live(ctx context.Context) (welambda.GatewayHandler, func(), error) {
	panic(wire.Build(Live))
}
