package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	data := []byte("payload")
	ref, err := s.Write(ctx, data)
	require.NoError(t, err)
	data[0] = 'X'

	got, err := s.Read(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got), "store keeps its own copy")

	ok, err := s.Exists(ctx, ref)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.Read(ctx, "missing")
	assert.ErrorIs(t, err, ErrContentNotFound)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(ctx, ref))
	require.NoError(t, s.Delete(ctx, ref))
	assert.Equal(t, 0, s.Len())
}
