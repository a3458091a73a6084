package welambda

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-ledger-go/connectors/wehttp"
	"github.com/weegigs/wee-ledger-go/we"
)

type GatewayHandler = func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// NewHandler serves the same routes as wehttp.NewHandler behind an API
// Gateway proxy integration.
func NewHandler[T any](runtime wehttp.Runtime[T]) GatewayHandler {
	encoder := wehttp.NewResourceEncoder[T]()

	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		segments := pathOf(event)
		if len(segments) < 2 || len(segments) > 3 {
			return respond(http.StatusNotFound, wehttp.ErrorResponse{Error: "not found"})
		}

		id := we.DeploymentId{Contract: we.ContractName(segments[0]), Account: we.AccountId(segments[1])}

		if len(segments) == 2 {
			if event.HTTPMethod != http.MethodGet {
				return respond(http.StatusMethodNotAllowed, wehttp.ErrorResponse{Error: "method not allowed"})
			}

			entity, err := runtime.Load(ctx, id)
			if err != nil {
				return failed(id, err)
			}

			if !entity.Initialized() {
				return failed(id, we.NotInitialized(id))
			}

			resource, err := encoder.Resource(&entity)
			if err != nil {
				return failed(id, err)
			}

			return respond(http.StatusOK, resource)
		}

		call := we.CallOf(we.MethodNameOf(segments[2]))
		call.CorrelationId = correlationIdOf(event)

		switch event.HTTPMethod {
		case http.MethodGet:
			if query := queryOf(event); len(query) > 0 {
				call.Args = we.FormData(query)
			}

			outcome, err := runtime.View(ctx, id, call)
			if err != nil {
				return failed(id, err)
			}

			return respond(http.StatusOK, wehttp.ResponseOf(outcome))
		case http.MethodPost:
			body, err := bodyOf(event)
			if err != nil {
				return respond(http.StatusBadRequest, wehttp.ErrorResponse{Error: "invalid request body"})
			}
			call.Args = we.JSONData(body)

			outcome, err := runtime.Invoke(ctx, id, wehttp.CallerOf(headersOf(event)), call)
			if err != nil {
				return failed(id, err)
			}

			return respond(http.StatusOK, wehttp.ResponseOf(outcome))
		default:
			return respond(http.StatusMethodNotAllowed, wehttp.ErrorResponse{Error: "method not allowed"})
		}
	}
}

func pathOf(event events.APIGatewayProxyRequest) []string {
	path := event.PathParameters["proxy"]
	if path == "" {
		path = event.Path
	}

	var segments []string
	for _, segment := range strings.Split(strings.Trim(path, "/"), "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}

	return segments
}

func headersOf(event events.APIGatewayProxyRequest) http.Header {
	header := http.Header{}
	for key, value := range event.Headers {
		header.Set(key, value)
	}
	for key, values := range event.MultiValueHeaders {
		for _, value := range values {
			header.Add(key, value)
		}
	}

	return header
}

func queryOf(event events.APIGatewayProxyRequest) url.Values {
	query := url.Values{}
	for key, values := range event.MultiValueQueryStringParameters {
		query[key] = values
	}
	for key, value := range event.QueryStringParameters {
		if _, ok := query[key]; !ok {
			query.Set(key, value)
		}
	}

	return query
}

func bodyOf(event events.APIGatewayProxyRequest) ([]byte, error) {
	if event.IsBase64Encoded {
		return base64.StdEncoding.DecodeString(event.Body)
	}

	return []byte(event.Body), nil
}

func correlationIdOf(event events.APIGatewayProxyRequest) we.CorrelationID {
	if id := headersOf(event).Get(wehttp.CorrelationIdHeader); id != "" {
		return we.CorrelationID(id)
	}

	return we.CorrelationID(event.RequestContext.RequestID)
}

func failed(id we.DeploymentId, err error) (events.APIGatewayProxyResponse, error) {
	log.Info().Err(err).Str("deployment", id.String()).Msg("failed to execute call")
	return respond(wehttp.StatusOf(err), wehttp.ErrorResponse{Error: wehttp.MessageOf(err)})
}

func respond(status int, body any) (events.APIGatewayProxyResponse, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": we.EncodingJSON},
		Body:       string(encoded),
	}, nil
}
