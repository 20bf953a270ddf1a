package slots

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mtx/v1/internal/core/infrastructure/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveSlot(t *testing.T) {
	t.Run("派生是确定性的", func(t *testing.T) {
		a := DeriveSlot("royalty.storage")
		b := DeriveSlot("royalty.storage")
		assert.Equal(t, a, b)
	})

	t.Run("最低字节被清零", func(t *testing.T) {
		namespaces := []string{
			"royalty.storage",
			"fees.storage",
			"registry.storage",
			"dispatch.storage",
			"tokenid.storage",
			"burnguard.storage",
		}
		for _, ns := range namespaces {
			slot := DeriveSlot(ns)
			assert.Equal(t, byte(0), slot[31], "namespace %q", ns)
		}
	})

	t.Run("不同命名空间派生不同基槽位", func(t *testing.T) {
		namespaces := []string{
			"royalty.storage",
			"fees.storage",
			"registry.storage",
			"dispatch.storage",
			"tokenid.storage",
			"burnguard.storage",
			"contract.metadata",
			"",
			"a",
			"A",
		}

		seen := make(map[string]string)
		for _, ns := range namespaces {
			slot := DeriveSlot(ns)
			prev, dup := seen[string(slot[:])]
			require.False(t, dup, "namespace %q 与 %q 槽位冲突", ns, prev)
			seen[string(slot[:])] = ns
		}
	})

	t.Run("槽位不等于命名空间的直接哈希", func(t *testing.T) {
		// 减1步骤保证无法通过keccak256(ns)直接构造出基槽位
		slot := DeriveSlot("token.core")
		direct := crypto.Keccak256([]byte("token.core"))
		direct[31] = 0
		assert.NotEqual(t, direct, slot[:])
	})
}

func TestRegionIsolation(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	r1 := NewRegion(store, "component.one")
	r2 := NewRegion(store, "component.two")

	require.NoError(t, r1.Set(ctx, []byte("key"), []byte("v1")))
	require.NoError(t, r2.Set(ctx, []byte("key"), []byte("v2")))

	v1, err := r1.Get(ctx, []byte("key"))
	require.NoError(t, err)
	v2, err := r2.Get(ctx, []byte("key"))
	require.NoError(t, err)

	assert.Equal(t, []byte("v1"), v1)
	assert.Equal(t, []byte("v2"), v2)
}

func TestRegionOperations(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	region := NewRegion(store, "component.test")

	t.Run("读写删除", func(t *testing.T) {
		require.NoError(t, region.Set(ctx, []byte("a"), []byte("1")))

		exists, err := region.Exists(ctx, []byte("a"))
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, region.Delete(ctx, []byte("a")))
		val, err := region.Get(ctx, []byte("a"))
		require.NoError(t, err)
		assert.Nil(t, val)
	})

	t.Run("Scan返回去前缀的子键", func(t *testing.T) {
		require.NoError(t, region.Set(ctx, []byte("item/1"), []byte("x")))
		require.NoError(t, region.Set(ctx, []byte("item/2"), []byte("y")))
		require.NoError(t, region.Set(ctx, []byte("other"), []byte("z")))

		result, err := region.Scan(ctx, []byte("item/"))
		require.NoError(t, err)
		assert.Len(t, result, 2)
		assert.Equal(t, []byte("x"), result["item/1"])
		assert.Equal(t, []byte("y"), result["item/2"])
	})
}

func TestRegionTransaction(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	region := NewRegion(store, "component.tx")
	other := NewRegion(store, "component.tx.other")

	t.Run("跨区域原子写入", func(t *testing.T) {
		err := region.RunInTransaction(ctx, func(tx *TxRegion) error {
			if err := tx.Set([]byte("local"), []byte("a")); err != nil {
				return err
			}
			return tx.In(other).Set([]byte("remote"), []byte("b"))
		})
		require.NoError(t, err)

		v, err := region.Get(ctx, []byte("local"))
		require.NoError(t, err)
		assert.Equal(t, []byte("a"), v)

		v, err = other.Get(ctx, []byte("remote"))
		require.NoError(t, err)
		assert.Equal(t, []byte("b"), v)
	})

	t.Run("事务失败时全部回滚", func(t *testing.T) {
		err := region.RunInTransaction(ctx, func(tx *TxRegion) error {
			if err := tx.Set([]byte("doomed"), []byte("x")); err != nil {
				return err
			}
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)

		exists, err := region.Exists(ctx, []byte("doomed"))
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
