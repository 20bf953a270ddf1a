package event

import (
	"sync/atomic"
	"testing"

	appconfig "github.com/mtx/v1/internal/config"
	eventconfig "github.com/mtx/v1/internal/config/event"
	"github.com/mtx/v1/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(enableHistory bool) *EventBus {
	userConfig := &appconfig.UserEventConfig{
		EnableHistory: &enableHistory,
	}
	return New(eventconfig.New(userConfig)).(*EventBus)
}

func TestEventBusPublishSubscribe(t *testing.T) {
	t.Run("同步订阅接收事件", func(t *testing.T) {
		bus := newTestBus(false)
		var received types.ExtensionID

		handler := func(payload types.ExtensionInstalledEvent) {
			received = payload.ExtensionID
		}
		require.NoError(t, bus.Subscribe(types.EventExtensionInstalled, handler))

		bus.Publish(types.EventExtensionInstalled, types.ExtensionInstalledEvent{ExtensionID: 3})
		assert.Equal(t, types.ExtensionID(3), received)
	})

	t.Run("异步订阅接收事件", func(t *testing.T) {
		bus := newTestBus(false)
		var count atomic.Int32

		handler := func(payload types.ExtensionInstalledEvent) {
			count.Add(1)
		}
		require.NoError(t, bus.SubscribeAsync(types.EventExtensionInstalled, handler, false))

		bus.Publish(types.EventExtensionInstalled, types.ExtensionInstalledEvent{ExtensionID: 1})
		bus.Publish(types.EventExtensionInstalled, types.ExtensionInstalledEvent{ExtensionID: 2})
		bus.WaitAsync()

		assert.Equal(t, int32(2), count.Load())
	})

	t.Run("一次性订阅只触发一次", func(t *testing.T) {
		bus := newTestBus(false)
		var count int

		require.NoError(t, bus.SubscribeOnce(types.EventContractURIUpdated, func(payload types.ContractURIUpdatedEvent) {
			count++
		}))

		bus.Publish(types.EventContractURIUpdated, types.ContractURIUpdatedEvent{URI: "ipfs://a"})
		bus.Publish(types.EventContractURIUpdated, types.ContractURIUpdatedEvent{URI: "ipfs://b"})
		assert.Equal(t, 1, count)
	})

	t.Run("取消订阅后不再接收", func(t *testing.T) {
		bus := newTestBus(false)
		var count int
		handler := func(payload types.ExtensionUninstalledEvent) { count++ }

		require.NoError(t, bus.Subscribe(types.EventExtensionUninstalled, handler))
		bus.Publish(types.EventExtensionUninstalled, types.ExtensionUninstalledEvent{ExtensionID: 1})

		require.NoError(t, bus.Unsubscribe(types.EventExtensionUninstalled, handler))
		bus.Publish(types.EventExtensionUninstalled, types.ExtensionUninstalledEvent{ExtensionID: 2})

		assert.Equal(t, 1, count)
	})
}

func TestEventBusHasCallback(t *testing.T) {
	bus := newTestBus(false)

	assert.False(t, bus.HasCallback(types.EventDefaultRoyaltyUpdated))

	require.NoError(t, bus.Subscribe(types.EventDefaultRoyaltyUpdated, func(payload types.DefaultRoyaltyUpdatedEvent) {}))
	assert.True(t, bus.HasCallback(types.EventDefaultRoyaltyUpdated))
}

func TestEventBusHistory(t *testing.T) {
	t.Run("历史功能关闭时返回nil", func(t *testing.T) {
		bus := newTestBus(false)
		bus.Publish(types.EventExtensionInstalled, types.ExtensionInstalledEvent{ExtensionID: 1})
		assert.Nil(t, bus.GetEventHistory(types.EventExtensionInstalled))
	})

	t.Run("历史功能启用时记录事件", func(t *testing.T) {
		bus := newTestBus(true)
		bus.Publish(types.EventExtensionInstalled, types.ExtensionInstalledEvent{ExtensionID: 1})
		bus.Publish(types.EventExtensionInstalled, types.ExtensionInstalledEvent{ExtensionID: 2})

		history := bus.GetEventHistory(types.EventExtensionInstalled)
		require.Len(t, history, 2)
	})

	t.Run("历史条数超出上限时淘汰最旧记录", func(t *testing.T) {
		enable := true
		maxSize := 2
		bus := New(eventconfig.New(&appconfig.UserEventConfig{
			EnableHistory:  &enable,
			MaxHistorySize: &maxSize,
		})).(*EventBus)

		for i := 1; i <= 5; i++ {
			bus.Publish(types.EventExtensionInstalled, types.ExtensionInstalledEvent{ExtensionID: types.ExtensionID(i)})
		}

		history := bus.GetEventHistory(types.EventExtensionInstalled)
		require.Len(t, history, 2)
		assert.Equal(t, types.ExtensionID(4), history[0].(types.ExtensionInstalledEvent).ExtensionID)
		assert.Equal(t, types.ExtensionID(5), history[1].(types.ExtensionInstalledEvent).ExtensionID)
	})
}
