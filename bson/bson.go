// Package bson provides an order-preserving BSON decoder.
package bson

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zoobzio/timings"
)

// bsonDecoder implements timings.Decoder for BSON.
type bsonDecoder struct{}

// New returns a BSON decoder.
func New() timings.Decoder {
	return &bsonDecoder{}
}

// ContentType returns the MIME type for BSON.
func (d *bsonDecoder) ContentType() string {
	return "application/bson"
}

// Decode decodes a BSON document. Element order is preserved; 32-bit
// integers widen to int64, object ids become hex strings and datetimes
// become epoch milliseconds.
func (d *bsonDecoder) Decode(data []byte) (any, error) {
	var doc bson.D
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return convert(doc), nil
}

func convert(v any) any {
	switch t := v.(type) {
	case bson.D:
		obj := timings.NewObject()
		for _, e := range t {
			obj.Set(e.Key, convert(e.Value))
		}
		return obj
	case bson.M:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := timings.NewObject()
		for _, k := range keys {
			obj.Set(k, convert(t[k]))
		}
		return obj
	case bson.A:
		list := make([]any, len(t))
		for i, item := range t {
			list[i] = convert(item)
		}
		return list
	case int32:
		return int64(t)
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return int64(t)
	case primitive.Null, primitive.Undefined:
		return nil
	}
	return v
}
