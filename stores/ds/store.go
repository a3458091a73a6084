package ds

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/weegigs/wee-ledger-go/we"
)

type StateTableName string

func (name StateTableName) String() string {
	return string(name)
}

type DynamoStateStore struct {
	db       *dynamodb.Client
	table    string
	revision *we.RevisionGenerator
}

func NewStateStore(db *dynamodb.Client, table StateTableName) *DynamoStateStore {
	return &DynamoStateStore{db: db, table: table.String(), revision: we.NewRevisionGenerator()}
}

func (ds *DynamoStateStore) Load(ctx context.Context, id we.DeploymentId) (we.StateRecord, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"pk": partitionKey(id), "sk": stateSortKey})
	if err != nil {
		return we.StateRecord{}, err
	}

	out, err := ds.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(ds.table),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return we.StateRecord{}, err
	}

	if out.Item == nil {
		return we.EmptyRecord(id), nil
	}

	var item stateItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return we.StateRecord{}, err
	}

	return item.Record(id), nil
}

func (ds *DynamoStateStore) Save(ctx context.Context, id we.DeploymentId, state we.Data, options we.SaveOptions) (we.Revision, error) {
	var revision we.Revision

	err := retry.Do(
		func() error {
			item := ds.makeItem(id, state, options)
			revision = item.Revision

			current, err := attributevalue.MarshalMap(item)
			if err != nil {
				return err
			}

			history, err := attributevalue.MarshalMap(historyFor(item))
			if err != nil {
				return err
			}

			condition, err := expression.NewBuilder().WithCondition(
				stateCondition(item.Revision, options.ExpectedRevision),
			).Build()
			if err != nil {
				return err
			}

			write := &dynamodb.TransactWriteItemsInput{
				TransactItems: []types.TransactWriteItem{
					{
						Put: &types.Put{
							Item:                                current,
							TableName:                           aws.String(ds.table),
							ConditionExpression:                 condition.Condition(),
							ExpressionAttributeNames:            condition.Names(),
							ExpressionAttributeValues:           condition.Values(),
							ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureNone,
						},
					},
					{
						Put: &types.Put{
							Item:      history,
							TableName: aws.String(ds.table),
						},
					},
				},
			}

			_, err = ds.db.TransactWriteItems(ctx, write)
			return maybeRevisionConflict(err)
		},
		retry.RetryIf(
			func(err error) bool {
				// an unconditional save only conflicts with a concurrent writer holding a later clock
				return isRevisionConflict(err) && len(options.ExpectedRevision) == 0
			},
		),
		retry.LastErrorOnly(true),
	)

	if err != nil {
		return "", err
	}

	return revision, nil
}

// History returns every saved revision of a deployment, oldest first.
func (ds *DynamoStateStore) History(ctx context.Context, id we.DeploymentId) ([]we.StateRecord, error) {
	query := expression.Key("pk").Equal(expression.Value(partitionKey(id))).And(
		expression.Key("sk").BeginsWith(revisionPrefix),
	)

	expr, err := expression.NewBuilder().WithKeyCondition(query).Build()
	if err != nil {
		return nil, err
	}

	var records []we.StateRecord
	var start map[string]types.AttributeValue
	for {
		out, err := ds.db.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(ds.table),
			ExclusiveStartKey:         start,
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			KeyConditionExpression:    expr.KeyCondition(),
			ConsistentRead:            aws.Bool(true),
		})
		if err != nil {
			return nil, err
		}

		var items []stateItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, err
		}

		for _, item := range items {
			records = append(records, item.Record(id))
		}

		start = out.LastEvaluatedKey
		if start == nil {
			break
		}
	}

	return records, nil
}

// Remove deletes the state and history of a deployment and reports the number
// of items removed.
func (ds *DynamoStateStore) Remove(ctx context.Context, id we.DeploymentId) (int, error) {
	type record struct {
		PartitionKey string `dynamodbav:"pk"`
		SortKey      string `dynamodbav:"sk"`
	}

	query := expression.Key("pk").Equal(expression.Value(partitionKey(id)))
	projection := expression.NamesList(expression.Name("pk"), expression.Name("sk"))

	builder := expression.NewBuilder().WithKeyCondition(query).WithProjection(projection)
	expr, err := builder.Build()
	if err != nil {
		return 0, err
	}

	var count int
	var start map[string]types.AttributeValue
	for {
		out, err := ds.db.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(ds.table),
			ExclusiveStartKey:         start,
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			KeyConditionExpression:    expr.KeyCondition(),
			ProjectionExpression:      expr.Projection(),
			Limit:                     aws.Int32(25),
		})
		if err != nil {
			return count, err
		}

		if len(out.Items) > 0 {
			var items []record
			if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
				return count, err
			}

			var actions []types.TransactWriteItem
			for _, item := range items {
				key, err := attributevalue.MarshalMap(item)
				if err != nil {
					return count, err
				}

				actions = append(actions, types.TransactWriteItem{
					Delete: &types.Delete{
						Key:       key,
						TableName: aws.String(ds.table),
					},
				})
			}

			_, err = ds.db.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: actions})
			if err != nil {
				return count, err
			}

			count += len(items)
		}

		start = out.LastEvaluatedKey
		if start == nil {
			break
		}
	}

	return count, nil
}

func (ds *DynamoStateStore) makeItem(id we.DeploymentId, state we.Data, options we.SaveOptions) *stateItem {
	now := time.Now()

	return &stateItem{
		PartitionKey:  partitionKey(id),
		SortKey:       stateSortKey,
		Revision:      ds.revision.NewRevision(now),
		Timestamp:     we.TimestampFromTime(now),
		Encoding:      state.Encoding,
		Data:          state.Data,
		Method:        options.Method.String(),
		Caller:        options.Caller.String(),
		CorrelationId: options.CorrelationId.String(),
	}
}

func stateCondition(revision we.Revision, expectedRevision we.Revision) expression.ConditionBuilder {
	if len(expectedRevision) == 0 {
		return expression.Name("revision").LessThan(expression.Value(revision)).Or(
			expression.AttributeNotExists(expression.Name("revision")),
		)
	}

	if expectedRevision == we.InitialRevision {
		return expression.AttributeNotExists(expression.Name("revision"))
	}

	return expression.Name("revision").Equal(expression.Value(expectedRevision))
}

func isRevisionConflict(err error) bool {
	return err == we.RevisionConflict
}

func maybeRevisionConflict(err error) error {
	var oe *smithy.OperationError
	if errors.As(err, &oe) {
		var re *http.ResponseError
		if errors.As(oe.Unwrap(), &re) {
			var tc *types.TransactionCanceledException
			if errors.As(re.Unwrap(), &tc) {
				for _, reason := range tc.CancellationReasons {
					if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
						return we.RevisionConflict
					}
				}
			}
		}
	}

	return err
}
