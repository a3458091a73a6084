package wehttp

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/goccy/go-json"

	"github.com/weegigs/wee-ledger-go/we"
)

type EntitySerializer[T any] func(entity *we.Entity[T]) (map[string]any, error)

func StateSerializer[T any](entity *we.Entity[T]) (map[string]any, error) {
	serialized, err := json.Marshal(entity.State)
	if err != nil {
		return nil, err
	}

	resource := make(map[string]any)
	if err = json.Unmarshal(serialized, &resource); err != nil {
		return nil, err
	}

	return resource, nil
}

// ResourceEncoder renders the state of an entity with its identity and
// revision as $-prefixed members.
type ResourceEncoder[T any] struct {
	Serializer EntitySerializer[T]
}

func NewResourceEncoder[T any]() ResourceEncoder[T] {
	return ResourceEncoder[T]{Serializer: StateSerializer[T]}
}

func (encoder ResourceEncoder[T]) Resource(e *we.Entity[T]) (map[string]any, error) {
	serialize := encoder.Serializer
	if serialize == nil {
		serialize = StateSerializer[T]
	}

	resource, err := serialize(e)
	if err != nil {
		return nil, err
	}

	resource["$id"] = e.Deployment.Encode()
	resource["$type"] = e.Type
	resource["$revision"] = e.Revision

	return resource, nil
}

func (encoder ResourceEncoder[T]) Encode(w http.ResponseWriter, r *http.Request, e *we.Entity[T]) {
	resource, err := encoder.Resource(e)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resource)
}
