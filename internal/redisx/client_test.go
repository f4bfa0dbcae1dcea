package redisx

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingAndExists(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := New(Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	require.NoError(t, Ping(ctx, rdb))

	ok, err := Exists(ctx, rdb, fmt.Sprintf(KeyProfile, "u1"))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mr.Set("user:u1", "{}"))
	ok, err = Exists(ctx, rdb, fmt.Sprintf(KeyProfile, "u1"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPing_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	rdb := New(Options{Addr: addr})
	defer rdb.Close()
	assert.Error(t, Ping(context.Background(), rdb))
}
