package wehttp

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/weegigs/wee-ledger-go/we"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusOf maps call errors to HTTP status codes.
func StatusOf(err error) int {
	var methodNotFound we.MethodNotFoundError
	var notInitialized we.NotInitializedError
	var mismatch we.ContractMismatchError
	var alreadyInitialized we.AlreadyInitializedError
	var notView we.NotViewMethodError
	var invalidArguments we.InvalidArgumentsError
	var contractError we.ContractError

	switch {
	case errors.As(err, &methodNotFound), errors.As(err, &notInitialized), errors.As(err, &mismatch):
		return http.StatusNotFound
	case errors.As(err, &alreadyInitialized), errors.Is(err, we.RevisionConflict):
		return http.StatusConflict
	case errors.As(err, &notView):
		return http.StatusMethodNotAllowed
	case errors.As(err, &invalidArguments), errors.As(err, &contractError):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// MessageOf hides the detail of unexpected failures from callers.
func MessageOf(err error) string {
	if StatusOf(err) == http.StatusInternalServerError {
		return "failed to execute call"
	}

	return err.Error()
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, StatusOf(err))
	render.JSON(w, r, ErrorResponse{Error: MessageOf(err)})
}
