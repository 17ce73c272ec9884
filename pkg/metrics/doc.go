// Package metrics exposes Prometheus metrics for the superheroes service.
//
// Every service gets its own registry wrapped with a constant service label and a
// dedicated HTTP server serving /metrics. Built-in metrics cover HTTP traffic:
//
//	http_requests_total{method,route,status}
//	http_request_duration_seconds{method,route}
//	http_requests_in_flight
//
// Additional metrics are created through CreateCounter, CreateHistogram and CreateGauge,
// which register on the same wrapped registry.
//
//	app := fx.New(
//		logger.FXModule,
//		metrics.FXModule,
//		fx.Supply(metrics.Config{Address: ":9090", ServiceName: "superheroes"}),
//	)
package metrics
