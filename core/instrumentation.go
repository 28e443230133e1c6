package orchestration

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const scopeName = "github.com/d4rk/musicsleeptimer/core"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)
)

var (
	runCounter      = mustInt64Counter("sleeptimer.fade_out.runs", "Fade out runs by outcome.")
	fadeStepCounter = mustInt64Counter("sleeptimer.fade_out.steps", "Volume steps lowered by fade outs.")
	restoreCounter  = mustInt64Counter("sleeptimer.fade_out.volume_restores", "Volume restorations after playback stopped.")
	runDuration     = mustFloat64Histogram("sleeptimer.fade_out.duration", "Fade out run duration.", "s")
)

// Instrument creation only fails on invalid names; the returned instrument
// is still usable, so the error is handed to the global otel error handler.
func mustInt64Counter(name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		otel.Handle(err)
	}
	return counter
}

func mustFloat64Histogram(name, description, unit string) metric.Float64Histogram {
	histogram, err := meter.Float64Histogram(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		otel.Handle(err)
	}
	return histogram
}
