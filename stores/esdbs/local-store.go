package esdbs

import (
	"context"
	"fmt"

	"github.com/EventStore/EventStore-Client-Go/esdb"
)

// NewLocalESDBStore connects to a local, insecure, esdb instance.
func NewLocalESDBStore(_ context.Context, host string) (*ESDBStateStore, error) {
	if host == "" {
		host = "localhost:2113"
	}

	return NewESDBStore(fmt.Sprintf("esdb://admin:changeit@%s?tls=false", host))
}

func NewESDBStore(connection string) (*ESDBStateStore, error) {
	settings, err := esdb.ParseConnectionString(connection)
	if err != nil {
		return nil, err
	}

	client, err := esdb.NewClient(settings)
	if err != nil {
		return nil, err
	}

	return NewStateStore(client), nil
}
