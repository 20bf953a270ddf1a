package fees

import (
	"context"
	"encoding/json"
	"testing"

	eventconfig "github.com/mtx/v1/internal/config/event"
	logconfig "github.com/mtx/v1/internal/config/log"
	eventimpl "github.com/mtx/v1/internal/core/infrastructure/event"
	logimpl "github.com/mtx/v1/internal/core/infrastructure/log"
	"github.com/mtx/v1/internal/core/infrastructure/storage/memory"
	"github.com/mtx/v1/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger, err := logimpl.New(logconfig.New(nil))
	require.NoError(t, err)
	bus := eventimpl.New(eventconfig.New(nil))
	return NewStore(memory.New(), bus, logger)
}

func party(b byte) types.Address {
	var a types.Address
	a[0] = b
	return a
}

func TestSetFeeConfig(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("有效配置写入成功", func(t *testing.T) {
		config := types.FeeConfig{
			PrimarySaleRecipient: party(1),
			PlatformFeeRecipient: party(2),
			PlatformFeeBps:       250,
		}
		require.NoError(t, store.SetDefaultFeeConfig(ctx, config))

		got, err := store.DefaultFeeConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, config, got)
	})

	t.Run("平台费基点超限返回ErrInvalidBasisPoints", func(t *testing.T) {
		err := store.SetDefaultFeeConfig(ctx, types.FeeConfig{
			PlatformFeeRecipient: party(2),
			PlatformFeeBps:       10001,
		})
		assert.ErrorIs(t, err, types.ErrInvalidBasisPoints)
	})

	t.Run("平台费收款方为零且bps大于0返回ErrInvalidRecipient", func(t *testing.T) {
		err := store.SetTokenFeeConfig(ctx, 1, types.FeeConfig{PlatformFeeBps: 100})
		assert.ErrorIs(t, err, types.ErrInvalidRecipient)
	})
}

func TestEffectiveFeeConfig(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	defaultConfig := types.FeeConfig{
		PrimarySaleRecipient: party(1),
		PlatformFeeRecipient: party(2),
		PlatformFeeBps:       300,
	}
	tokenConfig := types.FeeConfig{
		PrimarySaleRecipient: party(3),
		PlatformFeeRecipient: party(4),
		PlatformFeeBps:       500,
	}

	require.NoError(t, store.SetDefaultFeeConfig(ctx, defaultConfig))
	require.NoError(t, store.SetTokenFeeConfig(ctx, 9, tokenConfig))

	t.Run("按代币覆盖优先", func(t *testing.T) {
		got, err := store.EffectiveFeeConfig(ctx, 9)
		require.NoError(t, err)
		assert.Equal(t, tokenConfig, got)
	})

	t.Run("无覆盖时走默认配置", func(t *testing.T) {
		got, err := store.EffectiveFeeConfig(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, defaultConfig, got)
	})
}

func TestFeesModule(t *testing.T) {
	store := newTestStore(t)
	mod := NewModule(store)
	ctx := context.Background()

	t.Run("描述符仅声明回退函数", func(t *testing.T) {
		config := mod.GetModuleConfig()
		assert.Empty(t, config.CallbackFunctions)
		assert.Len(t, config.FallbackFunctions, 4)
	})

	t.Run("回退函数写入与读取往返", func(t *testing.T) {
		want := types.FeeConfig{
			PrimarySaleRecipient: party(5),
			PlatformFeeRecipient: party(6),
			PlatformFeeBps:       750,
		}
		input, err := json.Marshal(setTokenFeeConfigArgs{TokenID: 12, Config: want})
		require.NoError(t, err)

		_, err = mod.Call(ctx, types.CallContext{}, SelSetTokenFeeConfig, input)
		require.NoError(t, err)

		query, err := json.Marshal(getTokenFeeConfigArgs{TokenID: 12})
		require.NoError(t, err)
		out, err := mod.Call(ctx, types.CallContext{}, SelGetTokenFeeConfig, query)
		require.NoError(t, err)

		var got types.FeeConfig
		require.NoError(t, json.Unmarshal(out, &got))
		assert.Equal(t, want, got)
	})

	t.Run("校验错误穿透回退调用", func(t *testing.T) {
		input, err := json.Marshal(types.FeeConfig{PlatformFeeBps: 60000})
		require.NoError(t, err)

		_, err = mod.Call(ctx, types.CallContext{}, SelSetDefaultFeeConfig, input)
		assert.ErrorIs(t, err, types.ErrInvalidBasisPoints)
	})
}
