package jetstream

import (
	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/weegigs/wee-ledger-go/we"
)

// StateMessage is the payload published for every save. The last message on a
// deployment's subject is its current state.
type StateMessage struct {
	Deployment we.DeploymentId   `json:"deployment"`
	State      we.Data           `json:"state"`
	Metadata   we.RecordMetadata `json:"metadata"`
}

func encodeMessage(message StateMessage) ([]byte, error) {
	data, err := json.Marshal(message)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode state message")
	}

	return data, nil
}

func decodeMessage(data []byte) (StateMessage, error) {
	var message StateMessage
	if err := json.Unmarshal(data, &message); err != nil {
		return StateMessage{}, errors.Wrap(err, "failed to decode state message")
	}

	return message, nil
}
