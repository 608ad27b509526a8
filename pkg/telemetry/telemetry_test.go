package telemetry

import (
	"context"
	"testing"

	"github.com/smallbiznis/smh/internal/config"
	"github.com/smallbiznis/smh/pkg/log/ctxlogger"
	"github.com/smallbiznis/smh/pkg/telemetry/correlation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func TestNewTracerProvider_WithoutEndpoint(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	tp, err := NewTracerProvider(lc, config.Config{AppName: "smh"}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, tp)

	ctx := correlation.ContextWithCorrelationID(context.Background(), "cid-1")
	ctx, span := otel.Tracer("test").Start(ctx, "op")
	defer span.End()

	assert.True(t, span.SpanContext().IsValid())
	assert.Len(t, ctxlogger.ExtractTrace(ctx), 2)

	lc.RequireStart()
	lc.RequireStop()
}
