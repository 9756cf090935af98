package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credvault/internal/infrastructure/storage"
)

func TestStorage(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Load(ctx, "v")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	blob := []byte("sealed")
	require.NoError(t, s.Save(ctx, "v", blob))
	blob[0] = 'X'

	got, err := s.Load(ctx, "v")
	require.NoError(t, err)
	assert.Equal(t, []byte("sealed"), got)

	got[0] = 'Y'
	again, _ := s.Load(ctx, "v")
	assert.Equal(t, []byte("sealed"), again)

	ok, err := s.Exists(ctx, "v")
	require.NoError(t, err)
	assert.True(t, ok)
}
