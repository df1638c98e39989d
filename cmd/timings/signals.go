package main

import (
	"context"

	"github.com/zoobzio/capitan"
	"go.uber.org/zap"

	"github.com/zoobzio/timings"
)

// logSignals logs the events that mark data dropped during materialization.
// Close the returned observer to flush events still queued.
func logSignals(logger *zap.Logger) *capitan.Observer {
	return capitan.Observe(func(_ context.Context, e *capitan.Event) {
		typeName, _ := timings.KeyTypeName.From(e)
		field, _ := timings.KeyField.From(e)
		fields := []zap.Field{
			zap.String("type", typeName),
			zap.String("field", field),
		}

		switch e.Signal() {
		case timings.SignalCallbackUnresolved:
			ref, _ := timings.KeyRef.From(e)
			logger.Warn("callback unresolved", append(fields, zap.String("ref", ref))...)
		case timings.SignalCoercionFailed:
			logger.Warn("value left unassigned", fields...)
		}
	}, timings.SignalCallbackUnresolved, timings.SignalCoercionFailed)
}
