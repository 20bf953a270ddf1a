package token

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/mtx/v1/internal/core/slots"
	log "github.com/mtx/v1/pkg/interfaces/infrastructure/log"
	storage "github.com/mtx/v1/pkg/interfaces/infrastructure/storage"
	tokenInterface "github.com/mtx/v1/pkg/interfaces/token"
	"github.com/mtx/v1/pkg/types"
)

// LedgerNamespace 参考记账实现的命名空间
const LedgerNamespace = "mtx.token.ledger"

var keyBalancePrefix = []byte("bal/") // bal/<20字节地址><8字节ID> → big.Int字节

// ErrInsufficientBalance 持有方余额不足以完成扣减
var ErrInsufficientBalance = errors.New("余额不足")

var _ tokenInterface.BalanceLedger = (*Ledger)(nil)

// Ledger 余额记账的参考实现
//
// 记账本身是MTX的外部协作方，本实现仅为宿主核心提供一个可用的
// 默认记账方：余额按(持有方, 代币ID)记录在自己的命名空间区域中。
// 实现了TxMinter与TxBurner，铸造与销毁的记账变更可并入调用方
// 的跨组件事务。
type Ledger struct {
	region *slots.Region
	logger log.Logger
}

// NewLedger 创建参考记账实现
func NewLedger(store storage.KVStore, logger log.Logger) *Ledger {
	return &Ledger{
		region: slots.NewRegion(store, LedgerNamespace),
		logger: logger.With("module", "ledger"),
	}
}

// balanceKey 构建余额记录的子键
func balanceKey(owner types.Address, tokenID types.TokenID) []byte {
	key := make([]byte, 0, len(keyBalancePrefix)+20+8)
	key = append(key, keyBalancePrefix...)
	key = append(key, owner[:]...)
	for i := 7; i >= 0; i-- {
		key = append(key, byte(tokenID>>(uint(i)*8)))
	}
	return key
}

// validateAmount 校验数量为非负的非nil值
func validateAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("无效的数量: %v", amount)
	}
	return nil
}

// readBalance 在事务中读取余额，缺失视为0
func (l *Ledger) readBalance(tx *slots.TxRegion, owner types.Address, tokenID types.TokenID) (*big.Int, error) {
	raw, err := tx.Get(balanceKey(owner, tokenID))
	if err != nil {
		return nil, fmt.Errorf("读取余额失败: %w", err)
	}
	return new(big.Int).SetBytes(raw), nil
}

// writeBalance 在事务中写入余额，归零时删除记录
func (l *Ledger) writeBalance(tx *slots.TxRegion, owner types.Address, tokenID types.TokenID, balance *big.Int) error {
	if balance.Sign() == 0 {
		return tx.Delete(balanceKey(owner, tokenID))
	}
	return tx.Set(balanceKey(owner, tokenID), balance.Bytes())
}

// BalanceOf 查询余额
func (l *Ledger) BalanceOf(ctx context.Context, owner types.Address, tokenID types.TokenID) (*big.Int, error) {
	raw, err := l.region.Get(ctx, balanceKey(owner, tokenID))
	if err != nil {
		return nil, fmt.Errorf("读取余额失败: %w", err)
	}
	return new(big.Int).SetBytes(raw), nil
}

// Mint 为接收方增加余额
func (l *Ledger) Mint(ctx context.Context, to types.Address, tokenID types.TokenID, amount *big.Int) error {
	return l.region.RunInTransaction(ctx, func(tx *slots.TxRegion) error {
		return l.MintInTx(tx, to, tokenID, amount)
	})
}

// MintInTx 在调用方事务中为接收方增加余额
//
// 宿主核心的铸造流程用本入口把"ID分配 + 铸造记账"并入
// 同一个存储事务
func (l *Ledger) MintInTx(tx *slots.TxRegion, to types.Address, tokenID types.TokenID, amount *big.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}

	ltx := tx.In(l.region)
	balance, err := l.readBalance(ltx, to, tokenID)
	if err != nil {
		return err
	}
	return l.writeBalance(ltx, to, tokenID, balance.Add(balance, amount))
}

// Burn 扣减持有方余额
func (l *Ledger) Burn(ctx context.Context, from types.Address, tokenID types.TokenID, amount *big.Int) error {
	return l.region.RunInTransaction(ctx, func(tx *slots.TxRegion) error {
		return l.BurnInTx(tx, from, tokenID, amount)
	})
}

// BurnInTx 在调用方事务中扣减持有方余额
//
// 宿主核心的销毁流程用本入口把"UID守卫消费 + 余额扣减"并入
// 同一个存储事务
func (l *Ledger) BurnInTx(tx *slots.TxRegion, from types.Address, tokenID types.TokenID, amount *big.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}

	ltx := tx.In(l.region)
	balance, err := l.readBalance(ltx, from, tokenID)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: 持有%s 需要%s", ErrInsufficientBalance, balance, amount)
	}
	return l.writeBalance(ltx, from, tokenID, balance.Sub(balance, amount))
}

// TransferBatch 批量转移余额
// tokenIDs与amounts一一对应，全部转移在一个事务内完成
func (l *Ledger) TransferBatch(ctx context.Context, from, to types.Address, tokenIDs []types.TokenID, amounts []*big.Int) error {
	if len(tokenIDs) != len(amounts) {
		return fmt.Errorf("代币ID与数量长度不一致: %d != %d", len(tokenIDs), len(amounts))
	}
	for _, amount := range amounts {
		if err := validateAmount(amount); err != nil {
			return err
		}
	}

	return l.region.RunInTransaction(ctx, func(tx *slots.TxRegion) error {
		for i, tokenID := range tokenIDs {
			fromBalance, err := l.readBalance(tx, from, tokenID)
			if err != nil {
				return err
			}
			if fromBalance.Cmp(amounts[i]) < 0 {
				return fmt.Errorf("%w: 代币%d 持有%s 需要%s", ErrInsufficientBalance, tokenID, fromBalance, amounts[i])
			}
			if err := l.writeBalance(tx, from, tokenID, fromBalance.Sub(fromBalance, amounts[i])); err != nil {
				return err
			}

			toBalance, err := l.readBalance(tx, to, tokenID)
			if err != nil {
				return err
			}
			if err := l.writeBalance(tx, to, tokenID, toBalance.Add(toBalance, amounts[i])); err != nil {
				return err
			}
		}
		return nil
	})
}
