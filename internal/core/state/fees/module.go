package fees

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mtx/v1/pkg/interfaces/extension"
	access "github.com/mtx/v1/pkg/interfaces/infrastructure/access"
	"github.com/mtx/v1/pkg/types"
)

// ModuleName 费用模块的规范名称
const ModuleName = "mtx.module.fees"

// 回退函数签名
const (
	SigSetDefaultFeeConfig = "setDefaultFeeConfig(address,address,uint256)"
	SigSetTokenFeeConfig   = "setTokenFeeConfig(uint256,address,address,uint256)"
	SigGetDefaultFeeConfig = "getDefaultFeeConfig()"
	SigGetTokenFeeConfig   = "getTokenFeeConfig(uint256)"
)

// 回退函数选择器
var (
	SelSetDefaultFeeConfig = types.ComputeSelector(SigSetDefaultFeeConfig)
	SelSetTokenFeeConfig   = types.ComputeSelector(SigSetTokenFeeConfig)
	SelGetDefaultFeeConfig = types.ComputeSelector(SigGetDefaultFeeConfig)
	SelGetTokenFeeConfig   = types.ComputeSelector(SigGetTokenFeeConfig)
)

// 确保 Module 满足模块契约
var _ extension.Module = (*Module)(nil)

// Module 费用配置扩展模块
// 没有生命周期回调，只暴露配置读写的回退函数
// （写操作需要配置管理权限位）
type Module struct {
	store *Store
	addr  types.Address
}

// NewModule 创建费用配置扩展模块
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
		FallbackFunctions: []types.FallbackFunction{
			{Selector: SelSetDefaultFeeConfig, PermissionBits: access.PermissionManager},
			{Selector: SelSetTokenFeeConfig, PermissionBits: access.PermissionManager},
			{Selector: SelGetDefaultFeeConfig},
			{Selector: SelGetTokenFeeConfig},
		},
	}
}

// 回退函数参数（JSON编码）

type setTokenFeeConfigArgs struct {
	TokenID types.TokenID   `json:"token_id"`
	Config  types.FeeConfig `json:"config"`
}

type getTokenFeeConfigArgs struct {
	TokenID types.TokenID `json:"token_id"`
}

// Call 处理转发到本模块的回退函数调用
func (m *Module) Call(ctx context.Context, callCtx types.CallContext, selector types.Selector, input []byte) ([]byte, error) {
	switch selector {
	case SelSetDefaultFeeConfig:
		var config types.FeeConfig
		if err := json.Unmarshal(input, &config); err != nil {
			return nil, fmt.Errorf("解码setDefaultFeeConfig参数失败: %w", err)
		}
		return nil, m.store.SetDefaultFeeConfig(ctx, config)

	case SelSetTokenFeeConfig:
		var args setTokenFeeConfigArgs
		if err := json.Unmarshal(input, &args); err != nil {
			return nil, fmt.Errorf("解码setTokenFeeConfig参数失败: %w", err)
		}
		return nil, m.store.SetTokenFeeConfig(ctx, args.TokenID, args.Config)

	case SelGetDefaultFeeConfig:
		config, err := m.store.DefaultFeeConfig(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(config)

	case SelGetTokenFeeConfig:
		var args getTokenFeeConfigArgs
		if err := json.Unmarshal(input, &args); err != nil {
			return nil, fmt.Errorf("解码getTokenFeeConfig参数失败: %w", err)
		}
		config, err := m.store.TokenFeeConfig(ctx, args.TokenID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(config)

	default:
		return nil, types.ErrFunctionNotImplemented
	}
}
