package tracer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Aleph-Alpha/superheroes/pkg/logger"
)

func newRecordingTracer(t *testing.T) (*Tracer, *tracetest.SpanRecorder) {
	t.Helper()

	tr, err := NewClient(Config{ServiceName: "test", AppEnv: "test"}, logger.NewNop())
	require.NoError(t, err)

	recorder := tracetest.NewSpanRecorder()
	tr.provider.RegisterSpanProcessor(recorder)
	t.Cleanup(func() { _ = tr.Shutdown(context.Background()) })

	return tr, recorder
}

func TestStartSpanRecordsErrorsAndAttributes(t *testing.T) {
	tr, recorder := newRecordingTracer(t)

	_, span := tr.StartSpan(context.Background(), "superhero.create")
	tr.SetAttributes(span, map[string]interface{}{
		"superhero.name":  "Test Hero",
		"superhero.score": 8,
		"flag":            true,
		"other":           struct{}{},
	})
	tr.RecordErrorOnSpan(span, errors.New("duplicate"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "superhero.create", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Len(t, ended[0].Attributes(), 4)
	assert.Len(t, ended[0].Events(), 1)
}

func TestCarrierRoundTrip(t *testing.T) {
	tr, _ := newRecordingTracer(t)

	ctx, span := tr.StartSpan(context.Background(), "parent")
	defer span.End()

	carrier := tr.GetCarrier(ctx)
	require.Contains(t, carrier, "traceparent")

	remote := tr.SetCarrierOnContext(context.Background(), carrier)
	_, child := tr.StartSpan(remote, "child")
	defer child.End()

	assert.Equal(t, span.SpanContext().TraceID(), child.SpanContext().TraceID())
}

func TestShutdownNilSafe(t *testing.T) {
	var tr *Tracer
	assert.NoError(t, tr.Shutdown(context.Background()))
	assert.NoError(t, (&Tracer{provider: sdktrace.NewTracerProvider()}).Shutdown(context.Background()))
}
