// Package instrument connects relay cells and domain actions to logging,
// Prometheus metrics, and OpenTelemetry tracing.
//
// Metrics and LogObserver implement relay.Observer, so they see every
// value a cell accepts without holding a subscription:
//
//	m := instrument.NewMetrics(instrument.WithRegistry(reg))
//	name := relay.New("", relay.WithName("name_input"), relay.WithObserver(m))
//
// Recorder wraps a domain action in a span, records its outcome as a
// metric, and logs failures:
//
//	ctx, act := recorder.Start(ctx, "form.submit")
//	err := doSubmit(ctx)
//	act.End(err)
package instrument
