package reqctx

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRequestContext(t *testing.T) {
	ctx := WithRequestContext(context.Background(), "https://www.next.co.uk/x")
	rc := GetRequestContext(ctx)

	assert.Len(t, rc.RequestID, 36)
	assert.Equal(t, "https://www.next.co.uk/x", rc.URL)

	other := GetRequestContext(WithRequestContext(context.Background(), ""))
	assert.NotEqual(t, rc.RequestID, other.RequestID)
}

func TestGetRequestContext_Missing(t *testing.T) {
	rc := GetRequestContext(context.Background())
	assert.Equal(t, "unknown", rc.RequestID)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithRequestContext(context.Background(), "https://www.next.co.uk/x")
	l := Logger(ctx, zerolog.New(&buf))
	l.Info().Msg("hello")

	rc := GetRequestContext(ctx)
	assert.Contains(t, buf.String(), `"request_id":"`+rc.RequestID+`"`)
	assert.Contains(t, buf.String(), `"url":"https://www.next.co.uk/x"`)
}

func TestNewRequestError(t *testing.T) {
	cause := errors.New("boom")
	ctx := WithRequestContext(context.Background(), "")
	err := NewRequestError(ctx, cause)

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), GetRequestContext(ctx).RequestID)
}
