//go:build !goexperiment.jsonv2

package json

import (
	stdjson "encoding/json"
	"io"
)

// JSON v1 compatibility layer (default)

type (
	Decoder    = stdjson.Decoder
	Encoder    = stdjson.Encoder
	RawMessage = stdjson.RawMessage
)

// PreservesNumbers reports whether Decoder.UseNumber keeps numbers decoded into any
// as exact text rather than float64.
const PreservesNumbers = true

func NewDecoder(r io.Reader) *Decoder {
	return stdjson.NewDecoder(r)
}

func NewEncoder(w io.Writer) *Encoder {
	return stdjson.NewEncoder(w)
}

func Unmarshal(data []byte, v any) error {
	return stdjson.Unmarshal(data, v)
}

func Marshal(v any) ([]byte, error) {
	return stdjson.Marshal(v)
}

// Valid reports whether data is a single valid JSON value.
func Valid(data []byte) bool {
	return stdjson.Valid(data)
}
