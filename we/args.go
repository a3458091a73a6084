package we

import (
	"net/url"

	"github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// NoArgs is the argument type of methods that take none.
type NoArgs struct{}

func FormData(values url.Values) Data {
	return Data{Encoding: EncodingForm, Data: []byte(values.Encode())}
}

// decodeArgs populates args from call data. Empty data leaves args at its zero
// value. Form values are weakly typed so "7" decodes into numeric fields.
func decodeArgs(data Data, args any) error {
	if data.Empty() {
		return nil
	}

	switch data.Encoding {
	case EncodingJSON, "":
		if err := json.Unmarshal(data.Data, args); err != nil {
			return InvalidArguments(err)
		}
		return nil
	case EncodingForm:
		values, err := url.ParseQuery(string(data.Data))
		if err != nil {
			return InvalidArguments(err)
		}
		return decodeValues(values, args)
	default:
		return InvalidEncoding(EncodingJSON, data.Encoding)
	}
}

func decodeValues(values url.Values, args any) error {
	input := make(map[string]interface{}, len(values))
	for key, value := range values {
		if len(value) == 1 {
			input[key] = value[0]
		} else {
			input[key] = value
		}
	}

	config := &mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           args,
	}

	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return errors.Wrap(err, "failed to create argument decoder")
	}

	if err := decoder.Decode(input); err != nil {
		return InvalidArguments(err)
	}

	return nil
}
