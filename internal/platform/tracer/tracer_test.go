package tracer

import (
	"context"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func TestInitTracerWithoutEndpoint(t *testing.T) {
	tp := InitTracer("estate-test", "", logger.NewNop())
	require.NotNil(t, tp)

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	carrier := propagation.MapCarrier{}
	ctx, span2 := tp.Tracer("test").Start(context.Background(), "inject")
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	span2.End()
	assert.NotEmpty(t, carrier.Get("traceparent"))

	Shutdown(tp, time.Second, logger.NewNop())
}
