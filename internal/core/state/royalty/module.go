package royalty

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/mtx/v1/internal/core/hooks"
	"github.com/mtx/v1/pkg/interfaces/extension"
	access "github.com/mtx/v1/pkg/interfaces/infrastructure/access"
	"github.com/mtx/v1/pkg/types"
)

// ModuleName 版税模块的规范名称
const ModuleName = "mtx.module.royalty"

// 回退函数签名
const (
	SigSetDefaultRoyalty = "setDefaultRoyalty(address,uint256)"
	SigSetTokenRoyalty   = "setTokenRoyalty(uint256,address,uint256)"
	SigGetDefaultRoyalty = "getDefaultRoyalty()"
	SigGetTokenRoyalty   = "getTokenRoyalty(uint256)"
)

// 回退函数选择器
var (
	SelSetDefaultRoyalty = types.ComputeSelector(SigSetDefaultRoyalty)
	SelSetTokenRoyalty   = types.ComputeSelector(SigSetTokenRoyalty)
	SelGetDefaultRoyalty = types.ComputeSelector(SigGetDefaultRoyalty)
	SelGetTokenRoyalty   = types.ComputeSelector(SigGetTokenRoyalty)
)

// 确保 Module 满足模块契约与版税钩子
var (
	_ extension.Module            = (*Module)(nil)
	_ extension.OnRoyaltyInfoHook = (*Module)(nil)
)

// Module 版税扩展模块
// 将版税存储封装为可安装的扩展：认领onRoyaltyInfo回调，
// 并暴露配置读写的回退函数（写操作需要配置管理权限位）
type Module struct {
	store *Store
	addr  types.Address
}

// NewModule 创建版税扩展模块
func NewModule(store *Store) *Module {
	return &Module{
		store: store,
		addr:  types.DeriveModuleAddress(ModuleName),
	}
}

// ModuleAddress 返回模块实现地址
func (m *Module) ModuleAddress() types.Address {
	return m.addr
}

// GetModuleConfig 返回模块描述符
func (m *Module) GetModuleConfig() types.ModuleConfig {
	return types.ModuleConfig{
		CallbackFunctions: []types.Selector{hooks.SelOnRoyaltyInfo},
		FallbackFunctions: []types.FallbackFunction{
			{Selector: SelSetDefaultRoyalty, PermissionBits: access.PermissionManager},
			{Selector: SelSetTokenRoyalty, PermissionBits: access.PermissionManager},
			{Selector: SelGetDefaultRoyalty},
			{Selector: SelGetTokenRoyalty},
		},
	}
}

// OnRoyaltyInfo 版税查询钩子实现
func (m *Module) OnRoyaltyInfo(ctx context.Context, tokenID types.TokenID, salePrice *big.Int) (types.Address, *big.Int, error) {
	return m.store.RoyaltyInfo(ctx, tokenID, salePrice)
}

// 回退函数参数（JSON编码）

type setDefaultRoyaltyArgs struct {
	Recipient types.Address     `json:"recipient"`
	Bps       types.BasisPoints `json:"bps"`
}

type setTokenRoyaltyArgs struct {
	TokenID   types.TokenID     `json:"token_id"`
	Recipient types.Address     `json:"recipient"`
	Bps       types.BasisPoints `json:"bps"`
}

type getTokenRoyaltyArgs struct {
	TokenID types.TokenID `json:"token_id"`
}

// Call 处理转发到本模块的回退函数调用
func (m *Module) Call(ctx context.Context, callCtx types.CallContext, selector types.Selector, input []byte) ([]byte, error) {
	switch selector {
	case SelSetDefaultRoyalty:
		var args setDefaultRoyaltyArgs
		if err := json.Unmarshal(input, &args); err != nil {
			return nil, fmt.Errorf("解码setDefaultRoyalty参数失败: %w", err)
		}
		return nil, m.store.SetDefaultRoyalty(ctx, args.Recipient, args.Bps)

	case SelSetTokenRoyalty:
		var args setTokenRoyaltyArgs
		if err := json.Unmarshal(input, &args); err != nil {
			return nil, fmt.Errorf("解码setTokenRoyalty参数失败: %w", err)
		}
		return nil, m.store.SetTokenRoyalty(ctx, args.TokenID, args.Recipient, args.Bps)

	case SelGetDefaultRoyalty:
		record, err := m.store.DefaultRoyalty(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(record)

	case SelGetTokenRoyalty:
		var args getTokenRoyaltyArgs
		if err := json.Unmarshal(input, &args); err != nil {
			return nil, fmt.Errorf("解码getTokenRoyalty参数失败: %w", err)
		}
		record, err := m.store.TokenRoyalty(ctx, args.TokenID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(record)

	default:
		return nil, types.ErrFunctionNotImplemented
	}
}
