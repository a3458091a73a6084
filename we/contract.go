package we

type Methods[T any] map[MethodName]Method[T]

// Contract describes the public surface of a contract with state T.
type Contract[T any] struct {
	Name    ContractName
	Methods Methods[T]
}

func NewContract[T any](methods Methods[T]) Contract[T] {
	var state T
	return Contract[T]{
		Name:    ContractNameOf(state),
		Methods: methods,
	}
}

func (c Contract[T]) Method(name MethodName) (Method[T], error) {
	method := c.Methods[name]
	if method == nil {
		return nil, MethodNotFound(c.Name, name)
	}

	return method, nil
}

func (c Contract[T]) Deployment(account AccountId) DeploymentId {
	return DeploymentId{Contract: c.Name, Account: account}
}

type Call struct {
	Method        MethodName    `json:"method"`
	Args          Data          `json:"args"`
	CorrelationId CorrelationID `json:"correlationId,omitempty"`
}

func CallOf(method MethodName, args ...Data) Call {
	call := Call{Method: method}
	if len(args) > 0 {
		call.Args = args[0]
	}

	return call
}

// Outcome is what a caller sees of a completed call. Result is JSON encoded
// and empty for methods without a return value.
type Outcome struct {
	Deployment DeploymentId `json:"deployment"`
	Method     MethodName   `json:"method"`
	Revision   Revision     `json:"revision"`
	Result     Data         `json:"result,omitempty"`
	Logs       []string     `json:"logs,omitempty"`
}
