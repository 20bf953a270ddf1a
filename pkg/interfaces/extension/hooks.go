// Package extension 提供MTX系统的生命周期钩子接口定义
//
// 📋 **回调钩子契约 (Callback Hook Contracts)**
//
// 每个钩子是一个签名固定的生命周期入口点：默认实现无条件返回
// 对应的"未实现"错误；模块通过在描述符的回调列表中声明钩子选择器、
// 并实现下列类型化接口来覆盖默认行为。
//
// 🎯 **不变量**：
// - 钩子签名固定，选择器由规范签名派生（见internal/core/hooks）
// - 钩子失败必须传播并中止外层操作，禁止被吞掉
// - 宿主在自身操作过程中同步调用钩子，依据返回值继续或整体中止
package extension

import (
	"context"
	"math/big"

	"github.com/mtx/v1/pkg/types"
)

// BeforeTransferHook 单笔转账前钩子
type BeforeTransferHook interface {
	// BeforeTransfer 在单笔转账执行前调用
	// 返回的字节串由安装的模块自行定义语义（宿主原样保留）
	BeforeTransfer(ctx context.Context, from, to types.Address, tokenID types.TokenID, amount *big.Int) ([]byte, error)
}

// BeforeBatchTransferHook 批量转账前钩子
type BeforeBatchTransferHook interface {
	// BeforeBatchTransfer 在批量转账执行前调用
	BeforeBatchTransfer(ctx context.Context, from, to types.Address, tokenIDs []types.TokenID, amounts []*big.Int) ([]byte, error)
}

// BeforeMintHook 铸造前钩子
type BeforeMintHook interface {
	// BeforeMint 在铸造执行前调用
	BeforeMint(ctx context.Context, to types.Address, tokenID types.TokenID, amount *big.Int) ([]byte, error)
}

// BeforeBurnHook 销毁前钩子
type BeforeBurnHook interface {
	// BeforeBurn 在销毁执行前调用
	BeforeBurn(ctx context.Context, from types.Address, tokenID types.TokenID, amount *big.Int) ([]byte, error)
}

// OnRoyaltyInfoHook 版税查询钩子
type OnRoyaltyInfoHook interface {
	// OnRoyaltyInfo 返回(接收方, 版税金额)
	// 金额 = salePrice × 有效bps / 10000（整数除法，向下取整）
	OnRoyaltyInfo(ctx context.Context, tokenID types.TokenID, salePrice *big.Int) (types.Address, *big.Int, error)
}

// OnTokenURIHook 元数据URI钩子
type OnTokenURIHook interface {
	// OnTokenURI 返回指定代币的元数据URI
	OnTokenURI(ctx context.Context, tokenID types.TokenID) (string, error)
}

// UpdateTokenIDHook 代币ID分配钩子
type UpdateTokenIDHook interface {
	// UpdateTokenID 解析铸造使用的起始代币ID
	//
	// 双模语义（与原始线路协议兼容）：
	//   - tokenID == types.MaxTokenID：分配amount个连续新ID，返回起始ID
	//   - 其他值：校验tokenID已被分配过，原样返回（否则ErrInvalidTokenID）
	UpdateTokenID(ctx context.Context, tokenID types.TokenID, amount uint64) (types.TokenID, error)
}
