// Package extension 提供MTX系统的扩展模块接口定义
//
// 📋 **扩展模块系统核心接口 (Extension Module System Interface)**
//
// 本文件定义了模块化代币扩展框架的公共接口，专注于：
// - Module：可插拔模块必须实现的契约（描述符 + 回退调用入口）
// - Manager：扩展安装/卸载/解析的管理接口
// - Dispatcher：未匹配选择器的路由转发接口
//
// 🎯 **控制流**：
// 外部调用到达宿主核心；核心判断选择器是否属于自身入口，
// 否则经Dispatcher解析归属模块并转发调用（保留原始调用方上下文），
// 模块只读写自己的命名空间存储区，返回结果或失败。
//
// ⚠️ **重入约束**：
// 转发目标是外部提供的模块实现，其钩子可能在外层操作完成前
// 回调宿主。防止双重处理的守卫状态（如销毁UID集合）必须在任何
// 可重入的转发调用之前完成变更。
package extension

import (
	"context"

	"github.com/mtx/v1/pkg/types"
)

// Module 可插拔扩展模块契约
//
// 模块按地址安装为单例（每个扩展槽位一个实例，不存在多实例化）。
type Module interface {
	// ModuleAddress 返回模块的实现地址
	// 注册表以该地址记录安装关系
	ModuleAddress() types.Address

	// GetModuleConfig 返回模块描述符
	// ⚠️ 必须是纯函数：无副作用，安装流程中仅被消费一次
	GetModuleConfig() types.ModuleConfig

	// Call 处理转发到本模块的回退函数调用
	//
	// 参数：
	//   - callCtx: 原始调用方上下文（派发层原样保留）
	//   - selector: 被调用的回退函数选择器
	//   - input: JSON编码的调用参数
	//
	// 返回模块结果或失败；失败将原样穿透派发层抵达调用方
	Call(ctx context.Context, callCtx types.CallContext, selector types.Selector, input []byte) ([]byte, error)
}

// Manager 扩展注册管理接口
type Manager interface {
	// Install 安装扩展模块到指定槽位
	//
	// 安装协议：
	//  1. 校验描述符要求的接口均已被宿主支持（ErrMissingRequiredInterface）
	//  2. 校验所有选择器未被其他已安装模块认领（ErrSelectorConflict）
	//  3. 登记选择器→模块映射与回退权限要求
	//  4. 发布安装事件
	//
	// 槽位已占用时返回ErrAlreadyInstalled；单次调用内全有或全无
	Install(ctx context.Context, id types.ExtensionID, module Module) error

	// Uninstall 卸载指定槽位的扩展
	// 槽位为空时返回ErrNotInstalled
	// 注意：不做依赖追踪，卸载后依赖方的调用回落为"未实现"
	Uninstall(ctx context.Context, id types.ExtensionID) error

	// Resolve 解析槽位对应的模块实现地址
	// 未安装时返回零地址（这不是错误，调用方视为"无模块"）
	Resolve(id types.ExtensionID) types.Address

	// Installed 返回已安装的扩展槽位列表（按槽位编号升序，顺序稳定）
	Installed() []types.ExtensionID
}

// Dispatcher 选择器派发接口
type Dispatcher interface {
	// Dispatch 将调用转发到选择器的归属模块
	//
	// - 选择器无归属模块：ErrFunctionNotImplemented
	// - 回退函数且调用方缺少权限位：ErrUnauthorized
	// - 其余情况：转发调用并原样中继模块的返回数据或失败
	Dispatch(ctx context.Context, callCtx types.CallContext, selector types.Selector, input []byte) ([]byte, error)

	// OwnerModule 返回认领指定选择器的已安装模块
	// 无归属时ok为false
	OwnerModule(selector types.Selector) (Module, bool)
}

// InterfaceSupport 接口支持查询（ERC-165风格）
// 宿主核心实现本接口，安装流程用它校验模块的必需接口清单
type InterfaceSupport interface {
	// SupportsInterface 检查宿主是否支持指定接口
	SupportsInterface(id types.InterfaceID) bool
}
