// Package event 提供MTX系统的事件总线接口定义
//
// 🎯 **事件总线系统 (Event Bus System)**
//
// 本文件定义了MTX系统的事件总线接口，支持：
// - 标准事件订阅和发布
// - 异步事件处理
// - 事件历史记录（可选启用）
//
// 扩展生命周期、版税/费用配置变更、合约元数据更新等均通过
// 本接口发布（事件类型与载荷见pkg/types/event.go）。
package event

import "github.com/mtx/v1/pkg/types"

// 兼容别名
type EventType = types.EventType

// EventBus 事件总线接口
//
// 注意：事件总线由DI容器自动管理生命周期
type EventBus interface {
	// Subscribe 订阅事件
	Subscribe(eventType EventType, handler interface{}) error

	// SubscribeAsync 异步订阅事件
	// transactional为true时，同一订阅者的回调串行执行
	SubscribeAsync(eventType EventType, handler interface{}, transactional bool) error

	// SubscribeOnce 一次性订阅事件
	SubscribeOnce(eventType EventType, handler interface{}) error

	// Publish 发布事件
	Publish(eventType EventType, args ...interface{})

	// Unsubscribe 取消订阅
	Unsubscribe(eventType EventType, handler interface{}) error

	// WaitAsync 等待所有异步处理完成
	WaitAsync()

	// HasCallback 检查是否有回调函数
	HasCallback(eventType EventType) bool

	// GetEventHistory 获取指定事件类型的历史记录
	// 如果历史功能未启用或没有历史记录，返回nil
	GetEventHistory(eventType EventType) []interface{}
}
