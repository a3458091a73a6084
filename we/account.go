package we

// AccountId identifies an account on the ledger. The runtime treats it as an
// opaque string.
type AccountId string

func (id AccountId) String() string {
	return string(id)
}

type CorrelationID string

func (id CorrelationID) String() string {
	return string(id)
}

// Caller describes who initiated a call. The current account is always the
// account the contract is deployed to and comes from the DeploymentId.
type Caller struct {
	Signer      AccountId `json:"signer"`
	Predecessor AccountId `json:"predecessor"`
}

// CallerOf returns a Caller where the account signs and forwards the call
// itself.
func CallerOf(account AccountId) Caller {
	return Caller{Signer: account, Predecessor: account}
}
