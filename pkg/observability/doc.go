/*
Package observability turns engine lifecycle hooks into Prometheus metrics and
debug logs.

	metrics := observability.NewMetrics()
	hooks := metrics.Hooks(observability.LoggingHooks(logger, domain.LifecycleHooks{}))
	eng, _ := waterjug.New(waterjug.WithLifecycleHooks(hooks))
	http.Handle("/metrics", metrics.Handler())
*/
package observability
