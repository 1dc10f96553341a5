package adaptor

import (
	"compress/gzip"
	"encoding/json"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// EncoderFactory is constructor of Encoder writing to w
type EncoderFactory func(w io.Writer) Encoder

// Encoder writes a stream of records
type Encoder interface {
	Encode(v interface{}) error
	Close() error
	Size() int64
	Ext() string
	ContentEncoding() string
}

type msgpackGzipEncoder struct {
	gw      *gzip.Writer
	enc     *msgpack.Encoder
	counter *sizeCounter
}

func (x *msgpackGzipEncoder) Encode(v interface{}) error { return x.enc.Encode(v) }
func (x *msgpackGzipEncoder) Close() error               { return x.gw.Close() }
func (x *msgpackGzipEncoder) Size() int64                { return x.counter.wroteSize }
func (x *msgpackGzipEncoder) Ext() string                { return "msg.gz" }
func (x *msgpackGzipEncoder) ContentEncoding() string    { return "gzip" }

// NewMsgpackEncoder writes gzip compressed msgpack records. Fields are named
// by their json tags.
func NewMsgpackEncoder(w io.Writer) Encoder {
	gw := gzip.NewWriter(w)
	counter := &sizeCounter{wr: gw}
	enc := msgpack.NewEncoder(counter)
	enc.SetCustomStructTag("json")
	return &msgpackGzipEncoder{
		gw:      gw,
		counter: counter,
		enc:     enc,
	}
}

type jsonLinesEncoder struct {
	enc     *json.Encoder
	counter *sizeCounter
}

func (x *jsonLinesEncoder) Encode(v interface{}) error { return x.enc.Encode(v) }
func (x *jsonLinesEncoder) Close() error               { return nil }
func (x *jsonLinesEncoder) Size() int64                { return x.counter.wroteSize }
func (x *jsonLinesEncoder) Ext() string                { return "jsonl" }
func (x *jsonLinesEncoder) ContentEncoding() string    { return "" }

// NewJSONLinesEncoder writes one JSON document per line.
func NewJSONLinesEncoder(w io.Writer) Encoder {
	counter := &sizeCounter{wr: w}
	return &jsonLinesEncoder{
		enc:     json.NewEncoder(counter),
		counter: counter,
	}
}

type sizeCounter struct {
	wr        io.Writer
	wroteSize int64
}

func (x *sizeCounter) Write(p []byte) (int, error) {
	n, err := x.wr.Write(p)
	x.wroteSize += int64(n)
	return n, err
}
