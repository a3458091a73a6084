package ds

import (
	"context"
	"errors"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/wire"

	"github.com/weegigs/wee-ledger-go/support"
	"github.com/weegigs/wee-ledger-go/we"
)

const StateTableEnv = "DYNAMODB_STATE_TABLE_NAME"

var Live = wire.NewSet(
	support.AWSConfig,
	Client,
	LiveStateTableName,
	NewStateStore,
	wire.Bind(new(we.StateStore), new(*DynamoStateStore)),
)

var Local = wire.NewSet(
	LocalDynamoStore,
	wire.Bind(new(we.StateStore), new(*DynamoStateStore)),
)

var Test = wire.NewSet(
	TestStore,
	wire.Bind(new(we.StateStore), new(*DynamoStateStore)),
)

func LiveStateTableName() (StateTableName, error) {
	table := os.Getenv(StateTableEnv)
	if len(table) == 0 {
		return "", errors.New(StateTableEnv + " is not set")
	}

	return StateTableName(table), nil
}

func TestStore(ctx context.Context) (*DynamoStateStore, func(), error) {
	return DynamoTestStore(ctx)
}

func Client(cfg aws.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg)
}
