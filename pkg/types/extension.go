// Package types 提供MTX系统的扩展描述符类型定义
package types

import "math/big"

// ==================== 模块描述符 ====================

// FallbackFunction 回退函数声明
// 模块对外暴露的附加入口点（非生命周期钩子），附带调用所需的权限位
type FallbackFunction struct {
	Selector       Selector `json:"selector"`        // 函数选择器
	PermissionBits uint64   `json:"permission_bits"` // 调用方必须持有的权限位（0表示公开）
}

// ModuleConfig 模块描述符
//
// 🎯 **安装时一次性消费**：
// 模块通过GetModuleConfig()返回本结构，宿主在安装流程中消费一次，
// 之后仅依赖派生出的选择器→模块映射，正常运行期不再调用。
//
// ⚠️ **不变量**：
// - 单个描述符内的选择器（回调+回退合并后）必须互不重复
// - 与任何已安装模块的选择器冲突时，安装失败（ErrSelectorConflict）
type ModuleConfig struct {
	// CallbackFunctions 模块实现的回调（钩子）选择器列表
	// 每个选择器必须是宿主定义的钩子签名之一
	CallbackFunctions []Selector `json:"callback_functions"`

	// FallbackFunctions 模块暴露的回退函数列表
	FallbackFunctions []FallbackFunction `json:"fallback_functions"`

	// RequiredInterfaces 宿主必须已支持的接口ID列表
	// 安装时逐一校验，缺失则安装失败（ErrMissingRequiredInterface）
	RequiredInterfaces []InterfaceID `json:"required_interfaces"`
}

// Selectors 返回描述符声明的全部选择器（回调在前，回退在后）
func (c *ModuleConfig) Selectors() []Selector {
	out := make([]Selector, 0, len(c.CallbackFunctions)+len(c.FallbackFunctions))
	out = append(out, c.CallbackFunctions...)
	for _, f := range c.FallbackFunctions {
		out = append(out, f.Selector)
	}
	return out
}

// ==================== 调用上下文 ====================

// CallContext 转发调用的上下文
// 派发层转发调用时保留原始调用方身份与附带价值
type CallContext struct {
	Caller Address  // 原始调用方地址
	Value  *big.Int // 调用附带的价值（可为nil，视为0）
}
