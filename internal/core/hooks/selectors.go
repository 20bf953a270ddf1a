// Package hooks 提供生命周期钩子的选择器定义与路由
package hooks

import "github.com/mtx/v1/pkg/types"

// 钩子规范签名
// ⚠️ 签名固定：选择器由签名派生，模块按选择器声明覆盖，
// 任何签名变更都会破坏已安装模块的绑定
const (
	SigBeforeTransfer      = "beforeTransfer(address,address,uint256,uint256)"
	SigBeforeBatchTransfer = "beforeBatchTransfer(address,address,uint256[],uint256[])"
	SigBeforeMint          = "beforeMint(address,uint256,uint256)"
	SigBeforeBurn          = "beforeBurn(address,uint256,uint256)"
	SigOnRoyaltyInfo       = "onRoyaltyInfo(uint256,uint256)"
	SigOnTokenURI          = "onTokenURI(uint256)"
	SigUpdateTokenID       = "updateTokenId(uint256,uint256)"
)

// 钩子选择器
var (
	SelBeforeTransfer      = types.ComputeSelector(SigBeforeTransfer)
	SelBeforeBatchTransfer = types.ComputeSelector(SigBeforeBatchTransfer)
	SelBeforeMint          = types.ComputeSelector(SigBeforeMint)
	SelBeforeBurn          = types.ComputeSelector(SigBeforeBurn)
	SelOnRoyaltyInfo       = types.ComputeSelector(SigOnRoyaltyInfo)
	SelOnTokenURI          = types.ComputeSelector(SigOnTokenURI)
	SelUpdateTokenID       = types.ComputeSelector(SigUpdateTokenID)
)

// IsHookSelector 检查选择器是否为宿主定义的钩子
func IsHookSelector(sel types.Selector) bool {
	switch sel {
	case SelBeforeTransfer, SelBeforeBatchTransfer, SelBeforeMint, SelBeforeBurn,
		SelOnRoyaltyInfo, SelOnTokenURI, SelUpdateTokenID:
		return true
	default:
		return false
	}
}
