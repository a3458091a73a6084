package we

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

type ticketArgs struct {
	NumTicket uint8  `json:"num_ticket"`
	Label     string `json:"label"`
}

func TestDecodeArgs(t *testing.T) {
	t.Run("leaves args untouched without data", func(t *testing.T) {
		args := ticketArgs{NumTicket: 3}
		assert.Nil(t, decodeArgs(Data{}, &args))
		assert.Equal(t, uint8(3), args.NumTicket)
	})

	t.Run("decodes json", func(t *testing.T) {
		var args ticketArgs
		assert.Nil(t, decodeArgs(JSONData([]byte(`{"num_ticket":20,"label":"x"}`)), &args))
		assert.Equal(t, ticketArgs{NumTicket: 20, Label: "x"}, args)
	})

	t.Run("treats untagged data as json", func(t *testing.T) {
		var args ticketArgs
		assert.Nil(t, decodeArgs(Data{Data: []byte(`{"num_ticket":1}`)}, &args))
		assert.Equal(t, uint8(1), args.NumTicket)
	})

	t.Run("decodes weakly typed form values", func(t *testing.T) {
		var args ticketArgs
		assert.Nil(t, decodeArgs(FormData(url.Values{"num_ticket": {"7"}, "label": {"y"}}), &args))
		assert.Equal(t, ticketArgs{NumTicket: 7, Label: "y"}, args)
	})

	t.Run("rejects unknown form values", func(t *testing.T) {
		var args ticketArgs
		err := decodeArgs(FormData(url.Values{"tickets": {"7"}}), &args)

		var invalid InvalidArgumentsError
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		var args ticketArgs
		err := decodeArgs(JSONData([]byte(`{"num_ticket":`)), &args)

		var invalid InvalidArgumentsError
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("rejects other encodings", func(t *testing.T) {
		var args ticketArgs
		err := decodeArgs(Data{Encoding: EncodingBorsh, Data: []byte{1}}, &args)

		var invalid *InvalidEncodingError
		assert.True(t, errors.As(err, &invalid))
	})
}
