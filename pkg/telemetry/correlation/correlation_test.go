package correlation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureCorrelationID(t *testing.T) {
	ctx, cid := EnsureCorrelationID(context.Background())
	assert.Len(t, cid, 26)
	assert.Equal(t, cid, ExtractCorrelationID(ctx))

	again, same := EnsureCorrelationID(ctx)
	assert.Equal(t, cid, same)
	assert.Equal(t, cid, ExtractCorrelationID(again))
}

func TestExtractCorrelationID_Empty(t *testing.T) {
	assert.Empty(t, ExtractCorrelationID(context.Background()))
	assert.Equal(t, context.Background(), ContextWithCorrelationID(context.Background(), ""))
}
