// Package json provides an order-preserving JSON decoder.
package json

import (
	stdjson "encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/zoobzio/timings"
)

// jsonDecoder implements timings.Decoder for JSON.
type jsonDecoder struct{}

// New returns a JSON decoder.
func New() timings.Decoder {
	return &jsonDecoder{}
}

// ContentType returns the MIME type for JSON.
func (d *jsonDecoder) ContentType() string {
	return "application/json"
}

// errInvalid is returned for input that is not exactly one JSON value.
var errInvalid = errors.New("invalid json document")

// Decode decodes a JSON document. Objects keep their document key order.
// The whole input must be a single well-formed value.
func (d *jsonDecoder) Decode(data []byte) (any, error) {
	if !stdjson.Valid(data) {
		return nil, errInvalid
	}
	value, dt, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, err
	}
	return convert(value, dt)
}

func convert(value []byte, dt jsonparser.ValueType) (any, error) {
	switch dt {
	case jsonparser.Object:
		obj := timings.NewObject()
		err := jsonparser.ObjectEach(value, func(key, v []byte, vt jsonparser.ValueType, _ int) error {
			item, err := convert(v, vt)
			if err != nil {
				return err
			}
			obj.Set(string(key), item)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return obj, nil

	case jsonparser.Array:
		list := make([]any, 0)
		var inner error
		_, err := jsonparser.ArrayEach(value, func(v []byte, vt jsonparser.ValueType, _ int, _ error) {
			if inner != nil {
				return
			}
			item, err := convert(v, vt)
			if err != nil {
				inner = err
				return
			}
			list = append(list, item)
		})
		if err == nil {
			err = inner
		}
		if err != nil {
			return nil, err
		}
		return list, nil

	case jsonparser.String:
		return jsonparser.ParseString(value)

	case jsonparser.Number:
		if n, err := jsonparser.ParseInt(value); err == nil {
			return n, nil
		}
		return jsonparser.ParseFloat(value)

	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(value)

	case jsonparser.Null:
		return nil, nil
	}
	return nil, fmt.Errorf("unexpected json value %q", value)
}
