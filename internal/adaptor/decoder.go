package adaptor

import (
	"compress/gzip"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Decoder reads a stream of records written by Encoder. Decode returns
// io.EOF at the end of stream.
type Decoder interface {
	Decode(v interface{}) error
}

// NewMsgpackDecoder reads records written by NewMsgpackEncoder.
func NewMsgpackDecoder(r io.Reader) (Decoder, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "Fail to open gzip stream")
	}

	dec := msgpack.NewDecoder(gr)
	dec.SetCustomStructTag("json")
	return dec, nil
}

// NewJSONLinesDecoder reads records written by NewJSONLinesEncoder.
func NewJSONLinesDecoder(r io.Reader) (Decoder, error) {
	return json.NewDecoder(r), nil
}
