package timings

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for materialization events.
var (
	SignalTypeRegistered     = capitan.NewSignal("timings.type.registered", "Type added to a registry")
	SignalCreateStart        = capitan.NewSignal("timings.create.start", "Top-level materialization beginning")
	SignalCreateComplete     = capitan.NewSignal("timings.create.complete", "Top-level materialization finished")
	SignalCallbackUnresolved = capitan.NewSignal("timings.callback.unresolved", "Callback reference skipped")
	SignalCoercionFailed     = capitan.NewSignal("timings.coercion.failed", "Value left unassigned")
	SignalDecodeComplete     = capitan.NewSignal("timings.decode.complete", "Input decoded")
)

// Keys for typed event data.
var (
	KeyTypeName    = capitan.NewStringKey("type_name")
	KeyTag         = capitan.NewIntKey("class_tag")
	KeyPolicy      = capitan.NewStringKey("policy")
	KeyField       = capitan.NewStringKey("field")
	KeyRef         = capitan.NewStringKey("ref")
	KeyContentType = capitan.NewStringKey("content_type")
	KeySize        = capitan.NewIntKey("size")
	KeyFieldCount  = capitan.NewIntKey("field_count")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// emitTypeRegistered emits an event when a type joins a registry.
func emitTypeRegistered(ctx context.Context, typeName string, tag int, policy Policy) {
	capitan.Emit(ctx, SignalTypeRegistered,
		KeyTypeName.Field(typeName),
		KeyTag.Field(tag),
		KeyPolicy.Field(policy.String()),
	)
}

// emitCreateStart emits an event when a top-level Create begins.
func emitCreateStart(ctx context.Context, typeName string) {
	capitan.Emit(ctx, SignalCreateStart,
		KeyTypeName.Field(typeName),
	)
}

// emitCreateComplete emits an event when a top-level Create finishes.
func emitCreateComplete(ctx context.Context, typeName string, duration time.Duration, fieldCount int, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
		KeyFieldCount.Field(fieldCount),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalCreateComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalCreateComplete, fields...)
	}
}

// emitCallbackUnresolved emits an event when a lenient registry skips a
// reference it cannot resolve.
func emitCallbackUnresolved(ctx context.Context, typeName, field, ref string) {
	capitan.Emit(ctx, SignalCallbackUnresolved,
		KeyTypeName.Field(typeName),
		KeyField.Field(field),
		KeyRef.Field(ref),
	)
}

// emitCoercionFailed emits an event when a value cannot be stored in its field.
func emitCoercionFailed(ctx context.Context, typeName, field string) {
	capitan.Emit(ctx, SignalCoercionFailed,
		KeyTypeName.Field(typeName),
		KeyField.Field(field),
	)
}

// emitDecodeComplete emits an event when a decoder finishes.
func emitDecodeComplete(ctx context.Context, contentType string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}
