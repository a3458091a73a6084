package wehttp

import (
	"context"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-ledger-go/we"
)

// Runtime is the part of we.Runtime the handlers need.
type Runtime[T any] interface {
	Contract() we.Contract[T]
	Load(ctx context.Context, id we.DeploymentId) (we.Entity[T], error)
	View(ctx context.Context, id we.DeploymentId, call we.Call) (we.Outcome, error)
	Invoke(ctx context.Context, id we.DeploymentId, caller we.Caller, call we.Call) (we.Outcome, error)
}

type HandlerOption[T any] func(service *httpService[T])

func Logger[T any](log *zerolog.Logger) HandlerOption[T] {
	return func(service *httpService[T]) {
		service.log = log
	}
}

func Encoder[T any](encoder ResourceEncoder[T]) HandlerOption[T] {
	return func(service *httpService[T]) {
		service.encoder = encoder
	}
}

// NewHandler exposes a contract runtime:
//
//	GET  /{contract}/{account}           state resource
//	GET  /{contract}/{account}/{method}  view call, query values as arguments
//	POST /{contract}/{account}/{method}  any call, JSON body as arguments
func NewHandler[T any](runtime Runtime[T], options ...HandlerOption[T]) http.Handler {
	service := &httpService[T]{runtime: runtime, encoder: NewResourceEncoder[T]()}
	for _, option := range options {
		option(service)
	}
	if service.log == nil {
		service.log = &log.Logger
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Method("GET", "/{contract}/{account}", service.getResource())
	r.Method("GET", "/{contract}/{account}/{method}", service.view())
	r.Method("POST", "/{contract}/{account}/{method}", service.invoke())

	return WithTelemetry(r, "we-http")
}

type httpService[T any] struct {
	log     *zerolog.Logger
	runtime Runtime[T]
	encoder ResourceEncoder[T]
}

func deploymentOf(r *http.Request) we.DeploymentId {
	return we.DeploymentId{
		Contract: we.ContractName(chi.URLParam(r, "contract")),
		Account:  we.AccountId(chi.URLParam(r, "account")),
	}
}

func correlationIdOf(r *http.Request) we.CorrelationID {
	if id := r.Header.Get(CorrelationIdHeader); id != "" {
		return we.CorrelationID(id)
	}

	return we.CorrelationID(middleware.GetReqID(r.Context()))
}

func (service *httpService[T]) getResource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := deploymentOf(r)

		entity, err := service.runtime.Load(r.Context(), id)
		if err != nil {
			service.log.Info().Err(err).Str("deployment", id.String()).Msg("failed to load resource")
			writeError(w, r, err)
			return
		}

		if !entity.Initialized() {
			writeError(w, r, we.NotInitialized(id))
			return
		}

		service.encoder.Encode(w, r, &entity)
	}
}

func (service *httpService[T]) view() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := deploymentOf(r)

		call := we.CallOf(we.MethodNameOf(chi.URLParam(r, "method")))
		if query := r.URL.Query(); len(query) > 0 {
			call.Args = we.FormData(query)
		}
		call.CorrelationId = correlationIdOf(r)

		outcome, err := service.runtime.View(r.Context(), id, call)
		if err != nil {
			service.log.Info().Err(err).Str("deployment", id.String()).Msg("failed to execute view")
			writeError(w, r, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, ResponseOf(outcome))
	}
}

func (service *httpService[T]) invoke() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := deploymentOf(r)

		if contentType := r.Header.Get("Content-Type"); contentType != "" {
			mediaType, _, err := mime.ParseMediaType(contentType)
			if mediaType != we.EncodingJSON || err != nil {
				render.Status(r, http.StatusUnsupportedMediaType)
				render.JSON(w, r, ErrorResponse{Error: "unsupported content type"})
				return
			}
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{Error: "invalid request body"})
			return
		}

		call := we.CallOf(we.MethodNameOf(chi.URLParam(r, "method")), we.JSONData(body))
		call.CorrelationId = correlationIdOf(r)

		outcome, err := service.runtime.Invoke(r.Context(), id, CallerOf(r.Header), call)
		if err != nil {
			service.log.Info().Err(err).Str("deployment", id.String()).Msg("failed to execute call")
			writeError(w, r, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, ResponseOf(outcome))
	}
}
