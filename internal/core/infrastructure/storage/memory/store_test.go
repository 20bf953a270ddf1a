package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/mtx/v1/pkg/interfaces/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreBasicOperations(t *testing.T) {
	store := New()
	ctx := context.Background()

	t.Run("设置并获取键值", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, []byte("k"), []byte("v")))

		val, err := store.Get(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), val)
	})

	t.Run("获取不存在的键返回nil", func(t *testing.T) {
		val, err := store.Get(ctx, []byte("missing"))
		require.NoError(t, err)
		assert.Nil(t, val)
	})

	t.Run("返回值是副本不受后续修改影响", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, []byte("copy"), []byte("abc")))

		val, err := store.Get(ctx, []byte("copy"))
		require.NoError(t, err)
		val[0] = 'x'

		val2, err := store.Get(ctx, []byte("copy"))
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), val2)
	})

	t.Run("删除后键不存在", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, []byte("del"), []byte("v")))
		require.NoError(t, store.Delete(ctx, []byte("del")))

		exists, err := store.Exists(ctx, []byte("del"))
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestMemoryStorePrefixScan(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, []byte("a/1"), []byte("1")))
	require.NoError(t, store.Set(ctx, []byte("a/2"), []byte("2")))
	require.NoError(t, store.Set(ctx, []byte("b/1"), []byte("3")))

	result, err := store.PrefixScan(ctx, []byte("a/"))
	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestMemoryStoreTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("成功提交后变更可见", func(t *testing.T) {
		store := New()
		err := store.RunInTransaction(ctx, func(tx storage.KVTransaction) error {
			if err := tx.Set([]byte("t1"), []byte("a")); err != nil {
				return err
			}
			return tx.Delete([]byte("nonexistent"))
		})
		require.NoError(t, err)

		val, err := store.Get(ctx, []byte("t1"))
		require.NoError(t, err)
		assert.Equal(t, []byte("a"), val)
	})

	t.Run("失败后所有写入被丢弃", func(t *testing.T) {
		store := New()
		require.NoError(t, store.Set(ctx, []byte("existing"), []byte("old")))

		sentinel := errors.New("中途失败")
		err := store.RunInTransaction(ctx, func(tx storage.KVTransaction) error {
			if err := tx.Set([]byte("existing"), []byte("new")); err != nil {
				return err
			}
			if err := tx.Set([]byte("fresh"), []byte("v")); err != nil {
				return err
			}
			return sentinel
		})
		assert.ErrorIs(t, err, sentinel)

		val, err := store.Get(ctx, []byte("existing"))
		require.NoError(t, err)
		assert.Equal(t, []byte("old"), val)

		exists, err := store.Exists(ctx, []byte("fresh"))
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("事务内读取可见未提交写入与删除", func(t *testing.T) {
		store := New()
		require.NoError(t, store.Set(ctx, []byte("victim"), []byte("v")))

		err := store.RunInTransaction(ctx, func(tx storage.KVTransaction) error {
			if err := tx.Set([]byte("pending"), []byte("p")); err != nil {
				return err
			}
			val, err := tx.Get([]byte("pending"))
			if err != nil {
				return err
			}
			assert.Equal(t, []byte("p"), val)

			if err := tx.Delete([]byte("victim")); err != nil {
				return err
			}
			exists, err := tx.Exists([]byte("victim"))
			if err != nil {
				return err
			}
			assert.False(t, exists)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("事务内可调用普通读写入口", func(t *testing.T) {
		store := New()
		require.NoError(t, store.Set(ctx, []byte("shared"), []byte("v")))

		err := store.RunInTransaction(ctx, func(tx storage.KVTransaction) error {
			// 事务挂起期间的普通读写不阻塞，与badger的View/Update并发语义一致
			val, err := store.Get(ctx, []byte("shared"))
			if err != nil {
				return err
			}
			assert.Equal(t, []byte("v"), val)

			if err := store.Set(ctx, []byte("side"), []byte("s")); err != nil {
				return err
			}
			return tx.Set([]byte("t"), []byte("x"))
		})
		require.NoError(t, err)

		val, err := store.Get(ctx, []byte("side"))
		require.NoError(t, err)
		assert.Equal(t, []byte("s"), val)
	})

	t.Run("事务内可嵌套开启新事务", func(t *testing.T) {
		store := New()

		err := store.RunInTransaction(ctx, func(outer storage.KVTransaction) error {
			if err := outer.Set([]byte("outer"), []byte("o")); err != nil {
				return err
			}
			return store.RunInTransaction(ctx, func(inner storage.KVTransaction) error {
				return inner.Set([]byte("inner"), []byte("i"))
			})
		})
		require.NoError(t, err)

		for _, key := range []string{"outer", "inner"} {
			exists, err := store.Exists(ctx, []byte(key))
			require.NoError(t, err)
			assert.True(t, exists)
		}
	})
}

func TestMemoryStoreClosed(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Close())

	assert.Error(t, store.Set(ctx, []byte("k"), []byte("v")))
	_, err := store.Get(ctx, []byte("k"))
	assert.Error(t, err)
}
