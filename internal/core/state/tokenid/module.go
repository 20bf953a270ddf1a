package tokenid

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mtx/v1/internal/core/hooks"
	"github.com/mtx/v1/pkg/interfaces/extension"
	"github.com/mtx/v1/pkg/types"
)

// ModuleName ID分配器模块的规范名称
const ModuleName = "mtx.module.tokenid"

// SigNextTokenID 查询下一个待分配ID的回退函数签名
const SigNextTokenID = "nextTokenId()"

// SelNextTokenID 查询下一个待分配ID的回退函数选择器
var SelNextTokenID = types.ComputeSelector(SigNextTokenID)

// 确保 Module 满足模块契约与ID分配钩子
var (
	_ extension.Module            = (*Module)(nil)
	_ extension.UpdateTokenIDHook = (*Module)(nil)
)

// Module 代币ID分配器扩展模块
// 认领updateTokenId回调，铸造流程经由该钩子解析起始ID
type Module struct {
	allocator *Allocator
	addr      types.Address
}

// NewModule 创建ID分配器扩展模块
func NewModule(allocator *Allocator) *Module {
	return &Module{
		allocator: allocator,
		addr:      types.DeriveModuleAddress(ModuleName),
	}
}

// ModuleAddress 返回模块实现地址
func (m *Module) ModuleAddress() types.Address {
	return m.addr
}

// GetModuleConfig 返回模块描述符
func (m *Module) GetModuleConfig() types.ModuleConfig {
	return types.ModuleConfig{
		CallbackFunctions: []types.Selector{hooks.SelUpdateTokenID},
		FallbackFunctions: []types.FallbackFunction{
			{Selector: SelNextTokenID},
		},
	}
}

// UpdateTokenID 代币ID分配钩子实现（哨兵兼容语义）
func (m *Module) UpdateTokenID(ctx context.Context, tokenID types.TokenID, amount uint64) (types.TokenID, error) {
	return m.allocator.ResolveTokenID(ctx, tokenID, amount)
}

// Call 处理转发到本模块的回退函数调用
func (m *Module) Call(ctx context.Context, callCtx types.CallContext, selector types.Selector, input []byte) ([]byte, error) {
	switch selector {
	case SelNextTokenID:
		next, err := m.allocator.counter(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(next)

	default:
		return nil, fmt.Errorf("%w: %s", types.ErrFunctionNotImplemented, selector.Hex())
	}
}
