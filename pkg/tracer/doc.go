// Package tracer wires OpenTelemetry tracing into the superheroes service.
//
// The HTTP layer continues traces received in W3C headers through SetCarrierOnContext
// and opens one span per request; the domain service opens child spans per operation.
// Spans are exported over OTLP/HTTP only when EnableExport is set; otherwise they
// exist in-process and still feed trace ids into context-aware log entries.
package tracer
