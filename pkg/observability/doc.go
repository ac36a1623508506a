/*
Package observability turns walker hooks into logs and Prometheus metrics.

Hooks compose with the Chain helpers, so an engine can feed both at once:

	m := observability.NewMetrics(prometheus.DefaultRegisterer)
	eng, _ := walker.New(
		walker.WithActionHooks(observability.ChainActionHooks(m.ActionHooks(), observability.LogActionHooks(logger))),
		walker.WithTraceHooks(m.TraceHooks()),
	)
*/
package observability
