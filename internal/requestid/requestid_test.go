package requestid

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_ReturnsStoredID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	assert.Equal(t, "abc", FromContext(ctx))
}

func TestFromContext_GeneratesUUID(t *testing.T) {
	id := FromContext(context.Background())
	_, err := uuid.Parse(id)
	require.NoError(t, err)
}

func TestEnsure_KeepsExistingAndFillsMissing(t *testing.T) {
	ctx, id := Ensure(WithRequestID(context.Background(), "fixed"))
	assert.Equal(t, "fixed", id)
	assert.Equal(t, "fixed", FromContext(ctx))

	ctx, id = Ensure(context.Background())
	require.NotEmpty(t, id)
	assert.Equal(t, id, FromContext(ctx))
}
