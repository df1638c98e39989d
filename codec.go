package timings

import (
	"context"
	"fmt"
	"time"
)

// Decoder turns encoded bytes into the generic value the engine materializes.
//
// Implementations must preserve key order: objects decode to *Object, lists
// to []any, and scalars to string, int64, float64, bool or nil.
type Decoder interface {
	// ContentType returns the MIME type handled by this decoder (e.g., "application/json").
	ContentType() string

	// Decode decodes data into a generic value.
	Decode(data []byte) (any, error)
}

// Decode decodes data with dec and reports the outcome as a signal.
// Decoder failures are returned as *DecodeError.
func Decode(ctx context.Context, dec Decoder, data []byte) (any, error) {
	start := time.Now()
	v, err := dec.Decode(data)
	if err != nil {
		err = &DecodeError{ContentType: dec.ContentType(), Cause: err}
	}
	emitDecodeComplete(ctx, dec.ContentType(), len(data), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Parse decodes data with dec and materializes the result as T.
func Parse[T any](ctx context.Context, e *Engine, dec Decoder, data []byte) (*T, error) {
	raw, err := Decode(ctx, dec, data)
	if err != nil {
		return nil, err
	}
	out, err := Create[T](ctx, e, raw)
	if err != nil {
		return nil, fmt.Errorf("materialize: %w", err)
	}
	return out, nil
}
