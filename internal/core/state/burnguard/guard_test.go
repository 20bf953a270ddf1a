package burnguard

import (
	"context"
	"testing"

	"github.com/google/uuid"
	logconfig "github.com/mtx/v1/internal/config/log"
	logimpl "github.com/mtx/v1/internal/core/infrastructure/log"
	"github.com/mtx/v1/internal/core/infrastructure/storage/memory"
	"github.com/mtx/v1/internal/core/slots"
	"github.com/mtx/v1/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGuard(t *testing.T) *Guard {
	t.Helper()
	logger, err := logimpl.New(logconfig.New(nil))
	require.NoError(t, err)
	return New(memory.New(), logger)
}

func TestConsume(t *testing.T) {
	guard := newTestGuard(t)
	ctx := context.Background()
	uid := uuid.New()

	t.Run("首次消费成功", func(t *testing.T) {
		err := guard.Region().RunInTransaction(ctx, func(tx *slots.TxRegion) error {
			return guard.Consume(tx, uid)
		})
		require.NoError(t, err)

		consumed, err := guard.Consumed(ctx, uid)
		require.NoError(t, err)
		assert.True(t, consumed)
	})

	t.Run("二次消费返回ErrBurnRequestAlreadyProcessed", func(t *testing.T) {
		err := guard.Region().RunInTransaction(ctx, func(tx *slots.TxRegion) error {
			return guard.Consume(tx, uid)
		})
		assert.ErrorIs(t, err, types.ErrBurnRequestAlreadyProcessed)
	})

	t.Run("不同UID互不影响", func(t *testing.T) {
		other := uuid.New()
		err := guard.Region().RunInTransaction(ctx, func(tx *slots.TxRegion) error {
			return guard.Consume(tx, other)
		})
		assert.NoError(t, err)
	})
}

func TestConsumeRollback(t *testing.T) {
	guard := newTestGuard(t)
	ctx := context.Background()
	uid := uuid.New()

	// 消费成功但事务内后续步骤失败：UID标记随事务回滚
	err := guard.Region().RunInTransaction(ctx, func(tx *slots.TxRegion) error {
		if err := guard.Consume(tx, uid); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	consumed, err := guard.Consumed(ctx, uid)
	require.NoError(t, err)
	assert.False(t, consumed)

	// 回滚后同一UID可重新消费
	err = guard.Region().RunInTransaction(ctx, func(tx *slots.TxRegion) error {
		return guard.Consume(tx, uid)
	})
	assert.NoError(t, err)
}

func TestConsumeSameTransactionTwice(t *testing.T) {
	guard := newTestGuard(t)
	ctx := context.Background()
	uid := uuid.New()

	// 同一事务内的第二次消费也被拒绝（嵌套重放）
	err := guard.Region().RunInTransaction(ctx, func(tx *slots.TxRegion) error {
		if err := guard.Consume(tx, uid); err != nil {
			return err
		}
		return guard.Consume(tx, uid)
	})
	assert.ErrorIs(t, err, types.ErrBurnRequestAlreadyProcessed)
}
