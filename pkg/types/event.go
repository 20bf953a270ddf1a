// Package types 提供MTX系统的事件类型定义
//
// 🎯 **事件约定**：
// 每个事件的载荷字段即其所报告记录的字段本身，不附加冗余信息。
// 事件通过基础设施层的事件总线发布，订阅方按EventType过滤。
package types

// EventType 事件类型标识
type EventType string

// ==================== 扩展生命周期事件 ====================

const (
	// EventExtensionInstalled 扩展安装完成
	EventExtensionInstalled EventType = "extension.installed"
	// EventExtensionUninstalled 扩展卸载完成
	EventExtensionUninstalled EventType = "extension.uninstalled"
)

// ExtensionInstalledEvent 扩展安装事件载荷
type ExtensionInstalledEvent struct {
	ExtensionID    ExtensionID `json:"extension_id"`   // 扩展槽位编号
	Implementation Address     `json:"implementation"` // 模块实现地址
	Selectors      []Selector  `json:"selectors"`      // 本次安装认领的选择器
}

// ExtensionUninstalledEvent 扩展卸载事件载荷
type ExtensionUninstalledEvent struct {
	ExtensionID    ExtensionID `json:"extension_id"`   // 扩展槽位编号
	Implementation Address     `json:"implementation"` // 被移除的模块实现地址
}

// ==================== 版税/费用配置事件 ====================

const (
	// EventDefaultRoyaltyUpdated 合约默认版税更新
	EventDefaultRoyaltyUpdated EventType = "royalty.default_updated"
	// EventTokenRoyaltyUpdated 按代币版税更新
	EventTokenRoyaltyUpdated EventType = "royalty.token_updated"
	// EventDefaultFeeConfigUpdated 合约默认费用配置更新
	EventDefaultFeeConfigUpdated EventType = "fees.default_updated"
	// EventTokenFeeConfigUpdated 按代币费用配置更新
	EventTokenFeeConfigUpdated EventType = "fees.token_updated"
)

// DefaultRoyaltyUpdatedEvent 默认版税更新事件载荷
type DefaultRoyaltyUpdatedEvent struct {
	Record RoyaltyRecord `json:"record"`
}

// TokenRoyaltyUpdatedEvent 按代币版税更新事件载荷
type TokenRoyaltyUpdatedEvent struct {
	TokenID TokenID       `json:"token_id"`
	Record  RoyaltyRecord `json:"record"`
}

// DefaultFeeConfigUpdatedEvent 默认费用配置更新事件载荷
type DefaultFeeConfigUpdatedEvent struct {
	Config FeeConfig `json:"config"`
}

// TokenFeeConfigUpdatedEvent 按代币费用配置更新事件载荷
type TokenFeeConfigUpdatedEvent struct {
	TokenID TokenID   `json:"token_id"`
	Config  FeeConfig `json:"config"`
}

// ==================== 合约元数据事件 ====================

const (
	// EventContractURIUpdated 合约URI更新
	EventContractURIUpdated EventType = "contract.uri_updated"
)

// ContractURIUpdatedEvent 合约URI更新事件载荷
type ContractURIUpdatedEvent struct {
	URI string `json:"uri"`
}
