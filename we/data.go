package we

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/near/borsh-go"
)

const (
	EncodingJSON  = "application/json"
	EncodingBorsh = "application/borsh"
	EncodingForm  = "application/x-www-form-urlencoded"
)

type Data struct {
	Encoding string `json:"encoding"`
	Data     []byte `json:"data"`
}

func (d Data) Empty() bool {
	return len(d.Data) == 0
}

func JSONData(raw []byte) Data {
	return Data{Encoding: EncodingJSON, Data: raw}
}

type Marshaller interface {
	Marshal(value any) (Data, error)
	Unmarshal(data Data, value any) error
}

type InvalidEncodingError struct {
	Expected string
	Actual   string
}

func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("expected encoding %s, got %s", e.Expected, e.Actual)
}

func InvalidEncoding(expected string, actual string) error {
	return &InvalidEncodingError{
		Expected: expected,
		Actual:   actual,
	}
}

func NewJsonMarshaller() JsonMarshaller {
	return JsonMarshaller{}
}

type JsonMarshaller struct{}

func (JsonMarshaller) Marshal(value any) (Data, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return Data{}, err
	}

	return Data{
		Encoding: EncodingJSON,
		Data:     data,
	}, nil
}

func (JsonMarshaller) Unmarshal(data Data, value any) error {
	if data.Encoding != EncodingJSON {
		return InvalidEncoding(EncodingJSON, data.Encoding)
	}
	return json.Unmarshal(data.Data, value)
}

// BorshMarshaller encodes state the way the ledger host does, field by field
// in declaration order.
func NewBorshMarshaller() BorshMarshaller {
	return BorshMarshaller{}
}

type BorshMarshaller struct{}

func (BorshMarshaller) Marshal(value any) (Data, error) {
	data, err := borsh.Serialize(value)
	if err != nil {
		return Data{}, err
	}

	return Data{
		Encoding: EncodingBorsh,
		Data:     data,
	}, nil
}

func (BorshMarshaller) Unmarshal(data Data, value any) error {
	if data.Encoding != EncodingBorsh {
		return InvalidEncoding(EncodingBorsh, data.Encoding)
	}
	return borsh.Deserialize(value, data.Data)
}
