// Package hooks 提供生命周期钩子的选择器定义与路由
//
// 🎯 **钩子路由器 (Hook Router)**
//
// 宿主核心通过路由器调用生命周期钩子：路由器经派发层解析钩子选择器的
// 归属模块，并以类型化接口直接调用。没有模块覆盖时返回钩子专属的
// "未实现"哨兵错误，由调用方决定该钩子是否可选。
//
// ⚠️ 钩子失败必须传播并中止外层操作，路由器不吞掉任何错误。
package hooks

import (
	"context"
	"math/big"

	"github.com/mtx/v1/pkg/interfaces/extension"
	log "github.com/mtx/v1/pkg/interfaces/infrastructure/log"
	"github.com/mtx/v1/pkg/types"
)

// Router 钩子路由器
type Router struct {
	dispatcher extension.Dispatcher
	logger     log.Logger
}

// NewRouter 创建钩子路由器
func NewRouter(dispatcher extension.Dispatcher, logger log.Logger) *Router {
	return &Router{
		dispatcher: dispatcher,
		logger:     logger.With("module", "hooks"),
	}
}

// owner 解析钩子选择器的归属模块
func (r *Router) owner(sel types.Selector) (extension.Module, bool) {
	return r.dispatcher.OwnerModule(sel)
}

// BeforeTransfer 调用单笔转账前钩子
func (r *Router) BeforeTransfer(ctx context.Context, from, to types.Address, tokenID types.TokenID, amount *big.Int) ([]byte, error) {
	mod, ok := r.owner(SelBeforeTransfer)
	if !ok {
		return nil, types.ErrBeforeTransferNotImplemented
	}
	hook, ok := mod.(extension.BeforeTransferHook)
	if !ok {
		r.logger.Warnf("模块%s认领了beforeTransfer但未实现对应接口", mod.ModuleAddress().Hex())
		return nil, types.ErrBeforeTransferNotImplemented
	}
	return hook.BeforeTransfer(ctx, from, to, tokenID, amount)
}

// BeforeBatchTransfer 调用批量转账前钩子
func (r *Router) BeforeBatchTransfer(ctx context.Context, from, to types.Address, tokenIDs []types.TokenID, amounts []*big.Int) ([]byte, error) {
	mod, ok := r.owner(SelBeforeBatchTransfer)
	if !ok {
		return nil, types.ErrBeforeBatchTransferNotImplemented
	}
	hook, ok := mod.(extension.BeforeBatchTransferHook)
	if !ok {
		r.logger.Warnf("模块%s认领了beforeBatchTransfer但未实现对应接口", mod.ModuleAddress().Hex())
		return nil, types.ErrBeforeBatchTransferNotImplemented
	}
	return hook.BeforeBatchTransfer(ctx, from, to, tokenIDs, amounts)
}

// BeforeMint 调用铸造前钩子
func (r *Router) BeforeMint(ctx context.Context, to types.Address, tokenID types.TokenID, amount *big.Int) ([]byte, error) {
	mod, ok := r.owner(SelBeforeMint)
	if !ok {
		return nil, types.ErrBeforeMintNotImplemented
	}
	hook, ok := mod.(extension.BeforeMintHook)
	if !ok {
		r.logger.Warnf("模块%s认领了beforeMint但未实现对应接口", mod.ModuleAddress().Hex())
		return nil, types.ErrBeforeMintNotImplemented
	}
	return hook.BeforeMint(ctx, to, tokenID, amount)
}

// BeforeBurn 调用销毁前钩子
func (r *Router) BeforeBurn(ctx context.Context, from types.Address, tokenID types.TokenID, amount *big.Int) ([]byte, error) {
	mod, ok := r.owner(SelBeforeBurn)
	if !ok {
		return nil, types.ErrBeforeBurnNotImplemented
	}
	hook, ok := mod.(extension.BeforeBurnHook)
	if !ok {
		r.logger.Warnf("模块%s认领了beforeBurn但未实现对应接口", mod.ModuleAddress().Hex())
		return nil, types.ErrBeforeBurnNotImplemented
	}
	return hook.BeforeBurn(ctx, from, tokenID, amount)
}

// OnRoyaltyInfo 调用版税查询钩子
func (r *Router) OnRoyaltyInfo(ctx context.Context, tokenID types.TokenID, salePrice *big.Int) (types.Address, *big.Int, error) {
	mod, ok := r.owner(SelOnRoyaltyInfo)
	if !ok {
		return types.ZeroAddress, nil, types.ErrOnRoyaltyInfoNotImplemented
	}
	hook, ok := mod.(extension.OnRoyaltyInfoHook)
	if !ok {
		r.logger.Warnf("模块%s认领了onRoyaltyInfo但未实现对应接口", mod.ModuleAddress().Hex())
		return types.ZeroAddress, nil, types.ErrOnRoyaltyInfoNotImplemented
	}
	return hook.OnRoyaltyInfo(ctx, tokenID, salePrice)
}

// OnTokenURI 调用元数据URI钩子
func (r *Router) OnTokenURI(ctx context.Context, tokenID types.TokenID) (string, error) {
	mod, ok := r.owner(SelOnTokenURI)
	if !ok {
		return "", types.ErrOnTokenURINotImplemented
	}
	hook, ok := mod.(extension.OnTokenURIHook)
	if !ok {
		r.logger.Warnf("模块%s认领了onTokenURI但未实现对应接口", mod.ModuleAddress().Hex())
		return "", types.ErrOnTokenURINotImplemented
	}
	return hook.OnTokenURI(ctx, tokenID)
}

// UpdateTokenID 调用代币ID分配钩子
func (r *Router) UpdateTokenID(ctx context.Context, tokenID types.TokenID, amount uint64) (types.TokenID, error) {
	mod, ok := r.owner(SelUpdateTokenID)
	if !ok {
		return 0, types.ErrUpdateTokenIDNotImplemented
	}
	hook, ok := mod.(extension.UpdateTokenIDHook)
	if !ok {
		r.logger.Warnf("模块%s认领了updateTokenId但未实现对应接口", mod.ModuleAddress().Hex())
		return 0, types.ErrUpdateTokenIDNotImplemented
	}
	return hook.UpdateTokenID(ctx, tokenID, amount)
}
