package ds

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	log "github.com/sirupsen/logrus"
)

const localTableName = StateTableName("wee-ledger")

// LocalDynamoStore connects to dynamodb-local on localhost:8000, creating the
// state table on first use.
func LocalDynamoStore(ctx context.Context) (*DynamoStateStore, error) {
	return NewLocalDynamoStore(ctx, "http://localhost:8000", localTableName)
}

func NewLocalDynamoStore(ctx context.Context, endpoint string, table StateTableName) (*DynamoStateStore, error) {
	cfg, err := localConfig(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	client := dynamodb.NewFromConfig(cfg)

	if err := EnsureTable(ctx, client, table); err != nil {
		return nil, err
	}

	return NewStateStore(client, table), nil
}

func localConfig(ctx context.Context, endpoint string) (aws.Config, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{PartitionID: "aws", URL: endpoint, SigningRegion: region}, nil
		},
	)

	return config.LoadDefaultConfig(ctx,
		config.WithRegion("us-east-1"),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID: "dummy", SecretAccessKey: "dummy", SessionToken: "dummy",
				Source: "Hard-coded credentials; values are irrelevant for local DynamoDB",
			},
		}))
}

func EnsureTable(ctx context.Context, client *dynamodb.Client, table StateTableName) error {
	exists, err := tableExists(ctx, client, table)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	return createTable(ctx, client, table)
}

func tableExists(ctx context.Context, client *dynamodb.Client, name StateTableName) (bool, error) {
	required := &dynamodb.DescribeTableInput{TableName: aws.String(name.String())}
	description, err := client.DescribeTable(ctx, required)
	if err != nil {
		var errorType *types.ResourceNotFoundException
		if errors.As(err, &errorType) {
			return false, nil
		}
		return false, err
	}

	if description.Table.TableStatus != types.TableStatusActive {
		return false, errors.New("state table exists but is not active")
	}

	return true, nil
}

func createTable(ctx context.Context, client *dynamodb.Client, table StateTableName) error {
	log.WithField("table", table).Info("creating state table")

	_, err := client.CreateTable(
		ctx, &dynamodb.CreateTableInput{
			TableName: aws.String(table.String()),
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("pk"), AttributeType: types.ScalarAttributeTypeS},
				{AttributeName: aws.String("sk"), AttributeType: types.ScalarAttributeTypeS},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("pk"), KeyType: types.KeyTypeHash},
				{AttributeName: aws.String("sk"), KeyType: types.KeyTypeRange},
			},
			BillingMode: types.BillingModePayPerRequest,
		},
	)

	if err != nil {
		return err
	}

	return waitForTable(ctx, client, table)
}

func waitForTable(ctx context.Context, client *dynamodb.Client, name StateTableName) error {
	required := &dynamodb.DescribeTableInput{TableName: aws.String(name.String())}
	return dynamodb.NewTableExistsWaiter(client).Wait(ctx, required, 2*time.Minute)
}
