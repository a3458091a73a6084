package we

// Env is the call context a contract method runs in. It replaces the ambient
// environment of a ledger host with an explicit value.
type Env interface {
	// CurrentAccount is the account the contract is deployed to.
	CurrentAccount() AccountId
	Signer() AccountId
	Predecessor() AccountId
	Log(message string)
}

type callEnv struct {
	deployment DeploymentId
	caller     Caller
	logs       []string
}

func newCallEnv(deployment DeploymentId, caller Caller) *callEnv {
	return &callEnv{deployment: deployment, caller: caller}
}

func (e *callEnv) CurrentAccount() AccountId {
	return e.deployment.Account
}

func (e *callEnv) Signer() AccountId {
	return e.caller.Signer
}

func (e *callEnv) Predecessor() AccountId {
	return e.caller.Predecessor
}

func (e *callEnv) Log(message string) {
	e.logs = append(e.logs, message)
}

func (e *callEnv) Logs() []string {
	return e.logs
}

// TestEnv is an Env for exercising contract code without a runtime.
type TestEnv struct {
	Current  AccountId
	Caller   Caller
	Messages []string
}

func NewTestEnv(current AccountId, caller Caller) *TestEnv {
	return &TestEnv{Current: current, Caller: caller}
}

func (e *TestEnv) CurrentAccount() AccountId {
	return e.Current
}

func (e *TestEnv) Signer() AccountId {
	return e.Caller.Signer
}

func (e *TestEnv) Predecessor() AccountId {
	return e.Caller.Predecessor
}

func (e *TestEnv) Log(message string) {
	e.Messages = append(e.Messages, message)
}
