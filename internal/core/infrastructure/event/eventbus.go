// 基于asaskevich/EventBus的事件总线实现
package event

import (
	"sync"

	evbus "github.com/asaskevich/EventBus"
	eventconfig "github.com/mtx/v1/internal/config/event"
	"github.com/mtx/v1/pkg/interfaces/infrastructure/event"
)

// ==================== 事件总线实现 ====================

// EventBus 是基于asaskevich/EventBus的实现
//
// 🎯 **功能**：
// - 保持与asaskevich/EventBus的完全兼容
// - 可选的事件历史记录（按配置启用，容量有上限）
type EventBus struct {
	bus    evbus.Bus           // 底层事件总线
	config *eventconfig.Config // 配置

	historyMu    sync.RWMutex                      // 历史记录锁
	eventHistory map[event.EventType][]interface{} // 历史事件存储
}

// New 创建事件总线实例
// 所有事件总线实例必须通过此函数创建，确保配置被正确应用
func New(config *eventconfig.Config) event.EventBus {
	return &EventBus{
		bus:          evbus.New(),
		config:       config,
		eventHistory: make(map[event.EventType][]interface{}),
	}
}

// Subscribe 实现订阅
func (eb *EventBus) Subscribe(eventType event.EventType, handler interface{}) error {
	return eb.bus.Subscribe(string(eventType), handler)
}

// SubscribeAsync 实现异步订阅
func (eb *EventBus) SubscribeAsync(eventType event.EventType, handler interface{}, transactional bool) error {
	return eb.bus.SubscribeAsync(string(eventType), handler, transactional)
}

// SubscribeOnce 实现一次性订阅
func (eb *EventBus) SubscribeOnce(eventType event.EventType, handler interface{}) error {
	return eb.bus.SubscribeOnce(string(eventType), handler)
}

// Publish 实现发布
func (eb *EventBus) Publish(eventType event.EventType, args ...interface{}) {
	eb.saveEventToHistory(eventType, args)
	eb.bus.Publish(string(eventType), args...)
}

// saveEventToHistory 保存事件到历史记录（仅在配置启用时）
func (eb *EventBus) saveEventToHistory(eventType event.EventType, args []interface{}) {
	if !eb.config.IsHistoryEnabled() {
		return
	}

	eb.historyMu.Lock()
	defer eb.historyMu.Unlock()

	history := append(eb.eventHistory[eventType], args...)

	// 超出上限时丢弃最旧的记录
	if max := eb.config.GetMaxHistorySize(); max > 0 && len(history) > max {
		history = history[len(history)-max:]
	}
	eb.eventHistory[eventType] = history
}

// GetEventHistory 获取指定类型的事件历史
func (eb *EventBus) GetEventHistory(eventType event.EventType) []interface{} {
	if !eb.config.IsHistoryEnabled() {
		return nil
	}

	eb.historyMu.RLock()
	defer eb.historyMu.RUnlock()

	history := eb.eventHistory[eventType]
	if len(history) == 0 {
		return nil
	}

	result := make([]interface{}, len(history))
	copy(result, history)
	return result
}

// Unsubscribe 取消订阅
func (eb *EventBus) Unsubscribe(eventType event.EventType, handler interface{}) error {
	return eb.bus.Unsubscribe(string(eventType), handler)
}

// WaitAsync 等待异步处理完成
func (eb *EventBus) WaitAsync() {
	eb.bus.WaitAsync()
}

// HasCallback 检查是否有回调
func (eb *EventBus) HasCallback(eventType event.EventType) bool {
	return eb.bus.HasCallback(string(eventType))
}
