// Package tokenid 提供单调递增的代币ID分配器
//
// 🎯 **两种操作模式**：
// - AllocateNext：分配amount个连续新ID，返回起始ID并推进计数器
// - ValidateExisting：校验调用方给出的ID确实分配过（严格小于计数器）
//
// 原始线路协议用"最大可表示ID"哨兵值在单个入口里区分这两种模式；
// 本实现把两种模式拆成显式操作，仅在ResolveTokenID兼容入口保留
// 哨兵语义。
package tokenid

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/mtx/v1/internal/core/slots"
	log "github.com/mtx/v1/pkg/interfaces/infrastructure/log"
	storage "github.com/mtx/v1/pkg/interfaces/infrastructure/storage"
	"github.com/mtx/v1/pkg/types"
)

// Namespace 分配器状态的命名空间
const Namespace = "mtx.tokenid.allocator"

var keyCounter = []byte("counter") // 下一个待分配ID，8字节大端

// Allocator 代币ID分配器
type Allocator struct {
	region *slots.Region
	logger log.Logger

	// 分配必须串行：读-改-写计数器
	mu sync.Mutex
}

// NewAllocator 创建代币ID分配器
func NewAllocator(store storage.KVStore, logger log.Logger) *Allocator {
	return &Allocator{
		region: slots.NewRegion(store, Namespace),
		logger: logger.With("module", "tokenid"),
	}
}

// Region 返回分配器的存储区域
// 铸造流程以该区域为锚点开启跨组件事务
func (a *Allocator) Region() *slots.Region {
	return a.region
}

// decodeCounter 解析计数器记录，缺失视为0
func decodeCounter(data []byte) (uint64, error) {
	if data == nil {
		return 0, nil
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("ID计数器记录长度非法: %d", len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}

// counter 读取当前计数器值
func (a *Allocator) counter(ctx context.Context) (uint64, error) {
	data, err := a.region.Get(ctx, keyCounter)
	if err != nil {
		return 0, fmt.Errorf("读取ID计数器失败: %w", err)
	}
	return decodeCounter(data)
}

// counterInTx 在事务中读取当前计数器值
func (a *Allocator) counterInTx(atx *slots.TxRegion) (uint64, error) {
	data, err := atx.Get(keyCounter)
	if err != nil {
		return 0, fmt.Errorf("读取ID计数器失败: %w", err)
	}
	return decodeCounter(data)
}

// AllocateNext 分配amount个连续新ID
//
// 返回起始ID（即当前计数器值）并把计数器推进amount。
// 推进将溢出计数器数值范围时返回ErrTokenIDOverflow
func (a *Allocator) AllocateNext(ctx context.Context, amount uint64) (types.TokenID, error) {
	var start types.TokenID
	err := a.region.RunInTransaction(ctx, func(tx *slots.TxRegion) error {
		var txErr error
		start, txErr = a.AllocateNextInTx(tx, amount)
		return txErr
	})
	return start, err
}

// AllocateNextInTx 在调用方事务中分配amount个连续新ID
//
// 宿主核心的铸造流程用本入口把计数器推进与铸造记账并入同一个
// 存储事务：铸造中止时推进随事务一起回滚
func (a *Allocator) AllocateNextInTx(tx *slots.TxRegion, amount uint64) (types.TokenID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	atx := tx.In(a.region)
	current, err := a.counterInTx(atx)
	if err != nil {
		return 0, err
	}

	if amount > types.MaxTokenID-current {
		return 0, fmt.Errorf("%w: 当前计数器%d 请求数量%d", types.ErrTokenIDOverflow, current, amount)
	}

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, current+amount)
	if err := atx.Set(keyCounter, buf); err != nil {
		return 0, fmt.Errorf("写入ID计数器失败: %w", err)
	}

	a.logger.Debugf("分配代币ID: 起始=%d 数量=%d", current, amount)
	return types.TokenID(current), nil
}

// ValidateExisting 校验调用方给出的ID已被分配过
//
// ID严格小于当前计数器时原样返回；否则返回ErrInvalidTokenID
func (a *Allocator) ValidateExisting(ctx context.Context, tokenID types.TokenID) (types.TokenID, error) {
	current, err := a.counter(ctx)
	if err != nil {
		return 0, err
	}
	return validateAgainst(current, tokenID)
}

// ValidateExistingInTx 在调用方事务中校验既有ID
func (a *Allocator) ValidateExistingInTx(tx *slots.TxRegion, tokenID types.TokenID) (types.TokenID, error) {
	current, err := a.counterInTx(tx.In(a.region))
	if err != nil {
		return 0, err
	}
	return validateAgainst(current, tokenID)
}

func validateAgainst(current uint64, tokenID types.TokenID) (types.TokenID, error) {
	if uint64(tokenID) >= current {
		return 0, fmt.Errorf("%w: %d", types.ErrInvalidTokenID, tokenID)
	}
	return tokenID, nil
}

// ResolveTokenID 哨兵兼容入口
//
// 原始线路协议的双模语义：tokenID为最大可表示值时按"分配amount个
// 新ID"处理，其他值按"校验既有ID"处理
func (a *Allocator) ResolveTokenID(ctx context.Context, tokenID types.TokenID, amount uint64) (types.TokenID, error) {
	if tokenID == types.MaxTokenID {
		return a.AllocateNext(ctx, amount)
	}
	return a.ValidateExisting(ctx, tokenID)
}

// ResolveTokenIDInTx 调用方事务中的哨兵兼容入口
func (a *Allocator) ResolveTokenIDInTx(tx *slots.TxRegion, tokenID types.TokenID, amount uint64) (types.TokenID, error) {
	if tokenID == types.MaxTokenID {
		return a.AllocateNextInTx(tx, amount)
	}
	return a.ValidateExistingInTx(tx, tokenID)
}
