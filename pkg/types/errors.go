// Package types 提供MTX系统的错误定义
//
// 📋 **错误分类**（所有错误均为同步、具名、不可重试的操作中止）：
// - 配置错误：安装状态或调用参数需要调用方修正
// - 授权错误：调用方缺少所需权限位
// - 未实现错误：没有模块覆盖对应钩子
// - 校验错误：调用方提供的数据违反领域约束
// - 重放错误：幂等性违规，必须在任何状态变更前检出
//
// ⚠️ 错误必须原样穿透派发层：被转发模块内部的失败需携带原始错误信息
// 抵达最初调用方，禁止被包装为笼统的"派发失败"。
package types

import "errors"

// ==================== 配置错误 ====================

var (
	// ErrAlreadyInstalled 扩展已安装
	ErrAlreadyInstalled = errors.New("扩展已安装")
	// ErrNotInstalled 扩展未安装
	ErrNotInstalled = errors.New("扩展未安装")
	// ErrSelectorConflict 选择器已被其他已安装模块占用
	ErrSelectorConflict = errors.New("选择器冲突")
	// ErrMissingRequiredInterface 宿主缺少模块要求的接口
	ErrMissingRequiredInterface = errors.New("缺少必需接口")
)

// ==================== 授权错误 ====================

var (
	// ErrUnauthorized 调用方缺少回退函数所需的权限位
	ErrUnauthorized = errors.New("未授权")
)

// ==================== 派发错误 ====================

var (
	// ErrFunctionNotImplemented 选择器没有归属模块
	ErrFunctionNotImplemented = errors.New("函数未实现")
)

// ==================== 钩子未实现错误 ====================

var (
	// ErrBeforeTransferNotImplemented 单笔转账前钩子未被任何模块覆盖
	ErrBeforeTransferNotImplemented = errors.New("beforeTransfer钩子未实现")
	// ErrBeforeBatchTransferNotImplemented 批量转账前钩子未被任何模块覆盖
	ErrBeforeBatchTransferNotImplemented = errors.New("beforeBatchTransfer钩子未实现")
	// ErrBeforeMintNotImplemented 铸造前钩子未被任何模块覆盖
	ErrBeforeMintNotImplemented = errors.New("beforeMint钩子未实现")
	// ErrBeforeBurnNotImplemented 销毁前钩子未被任何模块覆盖
	ErrBeforeBurnNotImplemented = errors.New("beforeBurn钩子未实现")
	// ErrOnRoyaltyInfoNotImplemented 版税查询钩子未被任何模块覆盖
	ErrOnRoyaltyInfoNotImplemented = errors.New("onRoyaltyInfo钩子未实现")
	// ErrOnTokenURINotImplemented 元数据URI钩子未被任何模块覆盖
	ErrOnTokenURINotImplemented = errors.New("onTokenURI钩子未实现")
	// ErrUpdateTokenIDNotImplemented 代币ID分配钩子未被任何模块覆盖
	ErrUpdateTokenIDNotImplemented = errors.New("updateTokenId钩子未实现")
)

// ==================== 校验错误 ====================

var (
	// ErrInvalidBasisPoints 基点超出[0, 10000]范围
	ErrInvalidBasisPoints = errors.New("无效的基点数值")
	// ErrInvalidRecipient bps>0时接收方不允许为零地址
	ErrInvalidRecipient = errors.New("无效的接收方地址")
	// ErrInvalidTokenID 代币ID未曾分配
	ErrInvalidTokenID = errors.New("无效的代币ID")
	// ErrTokenIDOverflow 分配请求将导致计数器溢出
	ErrTokenIDOverflow = errors.New("代币ID计数器溢出")
)

// ==================== 重放错误 ====================

var (
	// ErrBurnRequestAlreadyProcessed 销毁请求UID已被消费
	ErrBurnRequestAlreadyProcessed = errors.New("销毁请求已处理")
)
