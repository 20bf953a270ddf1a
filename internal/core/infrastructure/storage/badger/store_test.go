package badger

import (
	"context"
	"errors"
	"testing"

	badgerconfig "github.com/mtx/v1/internal/config/storage/badger"
	"github.com/mtx/v1/pkg/interfaces/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) storage.KVStore {
	t.Helper()

	config := badgerconfig.NewFromOptions(&badgerconfig.BadgerOptions{
		Path:         t.TempDir(),
		SyncWrites:   false,
		MemTableSize: 16 << 20,
	})

	store, err := New(config, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreBasicOperations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("设置并获取键值", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, []byte("key1"), []byte("value1")))

		val, err := store.Get(ctx, []byte("key1"))
		require.NoError(t, err)
		assert.Equal(t, []byte("value1"), val)
	})

	t.Run("获取不存在的键返回nil", func(t *testing.T) {
		val, err := store.Get(ctx, []byte("missing"))
		require.NoError(t, err)
		assert.Nil(t, val)
	})

	t.Run("检查键存在性", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, []byte("key2"), []byte("v")))

		exists, err := store.Exists(ctx, []byte("key2"))
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = store.Exists(ctx, []byte("missing"))
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("删除键", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, []byte("key3"), []byte("v")))
		require.NoError(t, store.Delete(ctx, []byte("key3")))

		exists, err := store.Exists(ctx, []byte("key3"))
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestStorePrefixScan(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, []byte("ns1/a"), []byte("1")))
	require.NoError(t, store.Set(ctx, []byte("ns1/b"), []byte("2")))
	require.NoError(t, store.Set(ctx, []byte("ns2/a"), []byte("3")))

	result, err := store.PrefixScan(ctx, []byte("ns1/"))
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, []byte("1"), result["ns1/a"])
	assert.Equal(t, []byte("2"), result["ns1/b"])
}

func TestStoreRunInTransaction(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("事务成功后更改可见", func(t *testing.T) {
		err := store.RunInTransaction(ctx, func(tx storage.KVTransaction) error {
			if err := tx.Set([]byte("tx1"), []byte("a")); err != nil {
				return err
			}
			return tx.Set([]byte("tx2"), []byte("b"))
		})
		require.NoError(t, err)

		val, err := store.Get(ctx, []byte("tx1"))
		require.NoError(t, err)
		assert.Equal(t, []byte("a"), val)
	})

	t.Run("事务失败后全部回滚", func(t *testing.T) {
		sentinel := errors.New("业务校验失败")
		err := store.RunInTransaction(ctx, func(tx storage.KVTransaction) error {
			if err := tx.Set([]byte("rollback1"), []byte("x")); err != nil {
				return err
			}
			return sentinel
		})
		// 错误原样返回，不被包装
		assert.ErrorIs(t, err, sentinel)

		exists, err := store.Exists(ctx, []byte("rollback1"))
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("事务内读取未提交写入", func(t *testing.T) {
		err := store.RunInTransaction(ctx, func(tx storage.KVTransaction) error {
			if err := tx.Set([]byte("rw"), []byte("pending")); err != nil {
				return err
			}
			val, err := tx.Get([]byte("rw"))
			if err != nil {
				return err
			}
			assert.Equal(t, []byte("pending"), val)
			return nil
		})
		require.NoError(t, err)
	})
}

func TestStoreCloseRejectsWrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Close())

	err := store.Set(ctx, []byte("after-close"), []byte("v"))
	assert.Error(t, err)

	// 重复关闭应该幂等
	assert.NoError(t, store.Close())
}
