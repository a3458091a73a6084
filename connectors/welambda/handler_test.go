package welambda_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"

	"github.com/weegigs/wee-ledger-go/connectors/welambda"
	"github.com/weegigs/wee-ledger-go/counter"
	"github.com/weegigs/wee-ledger-go/stores/memory"
)

func request(method string, proxy string, body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod:     method,
		Path:           "/" + proxy,
		PathParameters: map[string]string{"proxy": proxy},
		Headers:        map[string]string{"x-signer-account": "robert.testnet"},
		Body:           body,
	}
}

func TestGatewayHandler(t *testing.T) {
	ctx := context.Background()
	handler := welambda.NewHandler[counter.Counter](counter.NewRuntime(memory.New()))

	body := func(response events.APIGatewayProxyResponse) map[string]any {
		decoded := map[string]any{}
		assert.Nil(t, json.Unmarshal([]byte(response.Body), &decoded))
		return decoded
	}

	t.Run("initializes and increments", func(t *testing.T) {
		response, err := handler(ctx, request(http.MethodPost, "counter/alice.testnet/new", ""))
		assert.Nil(t, err)
		assert.Equal(t, http.StatusOK, response.StatusCode)

		response, err = handler(ctx, request(http.MethodPost, "counter/alice.testnet/increment", ""))
		assert.Nil(t, err)
		assert.Equal(t, http.StatusOK, response.StatusCode)
		assert.Equal(t, []any{"Increased number to 1", "Make sure you don't overflow, my friend."}, body(response)["logs"])
	})

	t.Run("views with query arguments ignored by the method", func(t *testing.T) {
		event := request(http.MethodGet, "counter/alice.testnet/get_num", "")
		event.QueryStringParameters = map[string]string{"unused": "1"}

		response, err := handler(ctx, event)
		assert.Nil(t, err)
		assert.Equal(t, http.StatusOK, response.StatusCode)
		assert.Equal(t, 1.0, body(response)["result"])
	})

	t.Run("sets tickets", func(t *testing.T) {
		response, err := handler(ctx, request(http.MethodPost, "counter/alice.testnet/set_num_ticket", `{"num_ticket":7}`))
		assert.Nil(t, err)
		assert.Equal(t, http.StatusOK, response.StatusCode)

		response, _ = handler(ctx, request(http.MethodGet, "counter/alice.testnet/get_um_ticket", ""))
		assert.Equal(t, 7.0, body(response)["result"])
	})

	t.Run("renders the resource", func(t *testing.T) {
		response, err := handler(ctx, request(http.MethodGet, "counter/alice.testnet", ""))
		assert.Nil(t, err)
		assert.Equal(t, http.StatusOK, response.StatusCode)
		assert.Equal(t, "counter.alice.testnet", body(response)["$id"])
	})

	t.Run("maps errors to status codes", func(t *testing.T) {
		response, _ := handler(ctx, request(http.MethodPost, "counter/alice.testnet/new", ""))
		assert.Equal(t, http.StatusConflict, response.StatusCode)

		response, _ = handler(ctx, request(http.MethodGet, "counter/nobody.testnet", ""))
		assert.Equal(t, http.StatusNotFound, response.StatusCode)

		response, _ = handler(ctx, request(http.MethodGet, "counter", ""))
		assert.Equal(t, http.StatusNotFound, response.StatusCode)

		response, _ = handler(ctx, request(http.MethodDelete, "counter/alice.testnet/reset", ""))
		assert.Equal(t, http.StatusMethodNotAllowed, response.StatusCode)
	})
}
