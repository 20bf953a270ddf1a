package tokenid

import (
	"context"
	"encoding/json"
	"testing"

	logconfig "github.com/mtx/v1/internal/config/log"
	logimpl "github.com/mtx/v1/internal/core/infrastructure/log"
	"github.com/mtx/v1/internal/core/infrastructure/storage/memory"
	"github.com/mtx/v1/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAllocator(t *testing.T) *Allocator {
	t.Helper()
	logger, err := logimpl.New(logconfig.New(nil))
	require.NoError(t, err)
	return NewAllocator(memory.New(), logger)
}

func TestAllocateNext(t *testing.T) {
	alloc := newTestAllocator(t)
	ctx := context.Background()

	t.Run("从0分配3个返回0计数器推进到3", func(t *testing.T) {
		start, err := alloc.AllocateNext(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, types.TokenID(0), start)
	})

	t.Run("再分配2个返回3计数器推进到5", func(t *testing.T) {
		start, err := alloc.AllocateNext(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, types.TokenID(3), start)
	})

	t.Run("校验已分配ID成功", func(t *testing.T) {
		id, err := alloc.ValidateExisting(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, types.TokenID(4), id)
	})

	t.Run("校验未分配ID返回ErrInvalidTokenID", func(t *testing.T) {
		_, err := alloc.ValidateExisting(ctx, 5)
		assert.ErrorIs(t, err, types.ErrInvalidTokenID)
	})
}

func TestAllocateOverflow(t *testing.T) {
	alloc := newTestAllocator(t)
	ctx := context.Background()

	// 把计数器推到接近上限
	start, err := alloc.AllocateNext(ctx, types.MaxTokenID-1)
	require.NoError(t, err)
	assert.Equal(t, types.TokenID(0), start)

	// 剩余空间只有1个
	_, err = alloc.AllocateNext(ctx, 2)
	assert.ErrorIs(t, err, types.ErrTokenIDOverflow)

	start, err = alloc.AllocateNext(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, types.MaxTokenID-1, start)

	// 计数器已满，任何再分配都溢出
	_, err = alloc.AllocateNext(ctx, 1)
	assert.ErrorIs(t, err, types.ErrTokenIDOverflow)
}

func TestResolveTokenID(t *testing.T) {
	alloc := newTestAllocator(t)
	ctx := context.Background()

	t.Run("哨兵值触发分配", func(t *testing.T) {
		id, err := alloc.ResolveTokenID(ctx, types.MaxTokenID, 4)
		require.NoError(t, err)
		assert.Equal(t, types.TokenID(0), id)
	})

	t.Run("非哨兵值触发校验", func(t *testing.T) {
		id, err := alloc.ResolveTokenID(ctx, 2, 10)
		require.NoError(t, err)
		assert.Equal(t, types.TokenID(2), id)

		_, err = alloc.ResolveTokenID(ctx, 4, 10)
		assert.ErrorIs(t, err, types.ErrInvalidTokenID)
	})
}

func TestAllocatorPersistence(t *testing.T) {
	store := memory.New()
	logger, err := logimpl.New(logconfig.New(nil))
	require.NoError(t, err)
	ctx := context.Background()

	alloc := NewAllocator(store, logger)
	_, err = alloc.AllocateNext(ctx, 7)
	require.NoError(t, err)

	// 用同一存储重建分配器，计数器延续
	reborn := NewAllocator(store, logger)
	start, err := reborn.AllocateNext(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, types.TokenID(7), start)
}

func TestTokenIDModule(t *testing.T) {
	alloc := newTestAllocator(t)
	mod := NewModule(alloc)
	ctx := context.Background()

	t.Run("钩子实现哨兵兼容语义", func(t *testing.T) {
		id, err := mod.UpdateTokenID(ctx, types.MaxTokenID, 3)
		require.NoError(t, err)
		assert.Equal(t, types.TokenID(0), id)

		id, err = mod.UpdateTokenID(ctx, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, types.TokenID(1), id)
	})

	t.Run("nextTokenId回退函数返回计数器", func(t *testing.T) {
		out, err := mod.Call(ctx, types.CallContext{}, SelNextTokenID, nil)
		require.NoError(t, err)

		var next uint64
		require.NoError(t, json.Unmarshal(out, &next))
		assert.Equal(t, uint64(3), next)
	})
}
