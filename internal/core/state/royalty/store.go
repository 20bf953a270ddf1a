// Package royalty 提供版税配置存储与扩展模块封装
//
// 💾 **两级作用域**：
// 合约默认记录 + 按代币ID的覆盖记录。查询时按代币覆盖优先、
// 默认记录兜底的顺序解析有效记录。
package royalty

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/mtx/v1/internal/core/slots"
	eventInterface "github.com/mtx/v1/pkg/interfaces/infrastructure/event"
	log "github.com/mtx/v1/pkg/interfaces/infrastructure/log"
	storage "github.com/mtx/v1/pkg/interfaces/infrastructure/storage"
	"github.com/mtx/v1/pkg/types"
)

// Namespace 版税状态的命名空间
const Namespace = "mtx.royalty.storage"

// 持久化子键
var (
	keyDefault     = []byte("default") // 合约默认版税记录
	keyTokenPrefix = []byte("token/")  // token/<8字节大端id> → 按代币记录
)

// bpsDenominator 基点分母
var bpsDenominator = big.NewInt(int64(types.MaxBps))

// Store 版税配置存储
type Store struct {
	region *slots.Region
	events eventInterface.EventBus
	logger log.Logger
}

// NewStore 创建版税配置存储
func NewStore(store storage.KVStore, events eventInterface.EventBus, logger log.Logger) *Store {
	return &Store{
		region: slots.NewRegion(store, Namespace),
		events: events,
		logger: logger.With("module", "royalty"),
	}
}

// validateRecord 校验版税记录约束
func validateRecord(recipient types.Address, bps types.BasisPoints) error {
	if bps > types.MaxBps {
		return fmt.Errorf("%w: %d", types.ErrInvalidBasisPoints, bps)
	}
	if recipient == types.ZeroAddress && bps > 0 {
		return types.ErrInvalidRecipient
	}
	return nil
}

// tokenKey 构建按代币记录的子键
func tokenKey(tokenID types.TokenID) []byte {
	key := make([]byte, 0, len(keyTokenPrefix)+8)
	key = append(key, keyTokenPrefix...)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], tokenID)
	return append(key, buf[:]...)
}

// SetDefaultRoyalty 设置合约默认版税
// bps > 10000 → ErrInvalidBasisPoints；接收方为零地址且bps>0 → ErrInvalidRecipient
func (s *Store) SetDefaultRoyalty(ctx context.Context, recipient types.Address, bps types.BasisPoints) error {
	if err := validateRecord(recipient, bps); err != nil {
		return err
	}

	record := types.RoyaltyRecord{Recipient: recipient, Bps: bps}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("编码版税记录失败: %w", err)
	}
	if err := s.region.Set(ctx, keyDefault, data); err != nil {
		return fmt.Errorf("写入默认版税失败: %w", err)
	}

	s.logger.Infof("默认版税更新: 接收方=%s bps=%d", recipient.Hex(), bps)
	s.events.Publish(types.EventDefaultRoyaltyUpdated, types.DefaultRoyaltyUpdatedEvent{Record: record})
	return nil
}

// SetTokenRoyalty 设置按代币版税覆盖
func (s *Store) SetTokenRoyalty(ctx context.Context, tokenID types.TokenID, recipient types.Address, bps types.BasisPoints) error {
	if err := validateRecord(recipient, bps); err != nil {
		return err
	}

	record := types.RoyaltyRecord{Recipient: recipient, Bps: bps}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("编码版税记录失败: %w", err)
	}
	if err := s.region.Set(ctx, tokenKey(tokenID), data); err != nil {
		return fmt.Errorf("写入代币版税失败: %w", err)
	}

	s.logger.Infof("代币版税更新: 代币=%d 接收方=%s bps=%d", tokenID, recipient.Hex(), bps)
	s.events.Publish(types.EventTokenRoyaltyUpdated, types.TokenRoyaltyUpdatedEvent{TokenID: tokenID, Record: record})
	return nil
}

// DefaultRoyalty 查询合约默认版税记录
// 未配置时返回零值记录
func (s *Store) DefaultRoyalty(ctx context.Context) (types.RoyaltyRecord, error) {
	return s.loadRecord(ctx, keyDefault)
}

// TokenRoyalty 查询按代币版税覆盖记录
// 未配置时返回零值记录
func (s *Store) TokenRoyalty(ctx context.Context, tokenID types.TokenID) (types.RoyaltyRecord, error) {
	return s.loadRecord(ctx, tokenKey(tokenID))
}

func (s *Store) loadRecord(ctx context.Context, key []byte) (types.RoyaltyRecord, error) {
	data, err := s.region.Get(ctx, key)
	if err != nil {
		return types.RoyaltyRecord{}, fmt.Errorf("读取版税记录失败: %w", err)
	}
	if data == nil {
		return types.RoyaltyRecord{}, nil
	}

	var record types.RoyaltyRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return types.RoyaltyRecord{}, fmt.Errorf("解码版税记录失败: %w", err)
	}
	return record, nil
}

// RoyaltyInfo 解析有效版税并计算金额
//
// 有效记录：按代币覆盖优先，默认记录兜底。
// 金额 = salePrice × bps / 10000（整数除法，向下取整）
func (s *Store) RoyaltyInfo(ctx context.Context, tokenID types.TokenID, salePrice *big.Int) (types.Address, *big.Int, error) {
	record, err := s.TokenRoyalty(ctx, tokenID)
	if err != nil {
		return types.ZeroAddress, nil, err
	}
	if record.IsZero() {
		record, err = s.DefaultRoyalty(ctx)
		if err != nil {
			return types.ZeroAddress, nil, err
		}
	}

	if record.IsZero() || salePrice == nil {
		return record.Recipient, big.NewInt(0), nil
	}

	amount := new(big.Int).Mul(salePrice, big.NewInt(int64(record.Bps)))
	amount.Div(amount, bpsDenominator)
	return record.Recipient, amount, nil
}
