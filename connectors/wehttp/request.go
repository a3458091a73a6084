package wehttp

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/weegigs/wee-ledger-go/we"
)

const (
	SignerHeader        = "X-Signer-Account"
	PredecessorHeader   = "X-Predecessor-Account"
	CorrelationIdHeader = "X-Correlation-Id"
)

// CallerOf reads the calling accounts from request headers. Either header
// stands in for the other when only one is given.
func CallerOf(header http.Header) we.Caller {
	signer := we.AccountId(header.Get(SignerHeader))
	predecessor := we.AccountId(header.Get(PredecessorHeader))

	if signer == "" {
		signer = predecessor
	}
	if predecessor == "" {
		predecessor = signer
	}

	return we.Caller{Signer: signer, Predecessor: predecessor}
}

type CallResponse struct {
	Deployment we.EncodedDeploymentId `json:"deployment"`
	Method     we.MethodName          `json:"method"`
	Revision   we.Revision            `json:"revision"`
	Result     json.RawMessage        `json:"result,omitempty"`
	Logs       []string               `json:"logs"`
}

func ResponseOf(outcome we.Outcome) CallResponse {
	logs := outcome.Logs
	if logs == nil {
		logs = []string{}
	}

	return CallResponse{
		Deployment: outcome.Deployment.Encode(),
		Method:     outcome.Method,
		Revision:   outcome.Revision,
		Result:     json.RawMessage(outcome.Result.Data),
		Logs:       logs,
	}
}
