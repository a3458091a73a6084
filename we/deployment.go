package we

import (
	"errors"
	"strings"
)

// DeploymentId identifies the single persisted state instance of a contract
// deployed to an account.
type DeploymentId struct {
	Contract ContractName `json:"contract"`
	Account  AccountId    `json:"account"`
}

type EncodedDeploymentId string

func (id DeploymentId) Encode() EncodedDeploymentId {
	return EncodedDeploymentId(strings.Join([]string{id.Contract.String(), id.Account.String()}, "."))
}

func (id DeploymentId) String() string {
	return id.Encode().String()
}

func (id EncodedDeploymentId) String() string {
	return string(id)
}

// Decode splits on the first delimiter only, account ids are free to contain
// dots.
func (id EncodedDeploymentId) Decode() (*DeploymentId, error) {
	seperated := strings.SplitN(string(id), ".", 2)
	if len(seperated) < 2 || seperated[0] == "" || seperated[1] == "" {
		return nil, errors.New("expected . delimiter in deployment id")
	}

	return &DeploymentId{
		Contract: ContractName(seperated[0]),
		Account:  AccountId(seperated[1]),
	}, nil
}
