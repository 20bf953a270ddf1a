// Package token 提供MTX系统的代币核心协作方接口定义
//
// 📋 **外部协作方边界 (External Collaborator Boundary)**
//
// 基础代币实现的余额记账逻辑不属于本子系统：本包只在接口边界
// 描述它。宿主核心在钩子校验通过之后调用这里的记账接口；
// 记账失败与钩子失败一样中止整个外层操作。
package token

import (
	"context"
	"math/big"

	"github.com/mtx/v1/pkg/types"
)

// BalanceLedger 余额记账协作方接口
//
// ⚠️ 宿主通过KVStore事务保证"守卫状态变更 + 记账"的原子性，
// 因此记账实现必须支持在外部事务上下文中执行（实现方自行决定
// 是否感知事务；参考实现直接写同一KVStore事务）。
type BalanceLedger interface {
	// Mint 为接收方增加余额
	Mint(ctx context.Context, to types.Address, tokenID types.TokenID, amount *big.Int) error

	// Burn 扣减持有方余额
	Burn(ctx context.Context, from types.Address, tokenID types.TokenID, amount *big.Int) error

	// TransferBatch 批量转移余额
	// tokenIDs与amounts一一对应，长度必须一致
	TransferBatch(ctx context.Context, from, to types.Address, tokenIDs []types.TokenID, amounts []*big.Int) error

	// BalanceOf 查询余额
	BalanceOf(ctx context.Context, owner types.Address, tokenID types.TokenID) (*big.Int, error)
}
