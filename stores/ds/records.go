package ds

import (
	"strings"

	"github.com/weegigs/wee-ledger-go/we"
)

const (
	stateSortKey   = "state"
	revisionPrefix = "revision#"
)

// stateItem is stored twice per save: once under the state sort key, replaced
// on every save, and once under an immutable revision key.
type stateItem struct {
	PartitionKey  string       `dynamodbav:"pk"`
	SortKey       string       `dynamodbav:"sk"`
	Revision      we.Revision  `dynamodbav:"revision"`
	Timestamp     we.Timestamp `dynamodbav:"timestamp"`
	Encoding      string       `dynamodbav:"encoding"`
	Data          []byte       `dynamodbav:"data"`
	Method        string       `dynamodbav:"method,omitempty"`
	Caller        string       `dynamodbav:"caller,omitempty"`
	CorrelationId string       `dynamodbav:"correlationId,omitempty"`
}

func partitionKey(id we.DeploymentId) string {
	return id.Encode().String()
}

func revisionKey(revision we.Revision) string {
	return strings.Join([]string{revisionPrefix, revision.String()}, "")
}

func historyFor(item *stateItem) *stateItem {
	history := *item
	history.SortKey = revisionKey(item.Revision)
	return &history
}

func (item *stateItem) DeploymentId() (*we.DeploymentId, error) {
	return we.EncodedDeploymentId(item.PartitionKey).Decode()
}

func (item *stateItem) Record(id we.DeploymentId) we.StateRecord {
	return we.StateRecord{
		Deployment: id,
		Revision:   item.Revision,
		Timestamp:  item.Timestamp,
		State: we.Data{
			Encoding: item.Encoding,
			Data:     item.Data,
		},
		Metadata: we.RecordMetadata{
			Method:        we.MethodName(item.Method),
			Caller:        we.AccountId(item.Caller),
			CorrelationId: we.CorrelationID(item.CorrelationId),
		},
	}
}
