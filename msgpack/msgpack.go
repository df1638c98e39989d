// Package msgpack provides an order-preserving MessagePack decoder.
package msgpack

import (
	"bytes"
	"fmt"

	"github.com/spf13/cast"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
	"github.com/zoobzio/timings"
)

// maxPrealloc bounds the capacity reserved up front for a declared array length.
const maxPrealloc = 1024

// msgpackDecoder implements timings.Decoder for MessagePack.
type msgpackDecoder struct{}

// New returns a MessagePack decoder.
func New() timings.Decoder {
	return &msgpackDecoder{}
}

// ContentType returns the MIME type for MessagePack.
func (d *msgpackDecoder) ContentType() string {
	return "application/msgpack"
}

// Decode decodes one MessagePack value. Maps keep their encoded entry order;
// non-string keys are rendered as strings.
func (d *msgpackDecoder) Decode(data []byte) (any, error) {
	return decodeValue(msgpack.NewDecoder(bytes.NewReader(data)))
}

func decodeValue(dec *msgpack.Decoder) (any, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}

	switch {
	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return nil, err
		}
		obj := timings.NewObject()
		for i := 0; i < n; i++ {
			k, err := dec.DecodeInterfaceLoose()
			if err != nil {
				return nil, err
			}
			key, err := cast.ToStringE(k)
			if err != nil {
				return nil, fmt.Errorf("map key %v: %w", k, err)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, v)
		}
		return obj, nil

	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		// n comes from the input; the slice grows as elements actually decode.
		list := make([]any, 0, min(max(n, 0), maxPrealloc))
		for i := 0; i < n; i++ {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	}

	return dec.DecodeInterfaceLoose()
}
