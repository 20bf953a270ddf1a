// Package fees 提供销售费用配置存储与扩展模块封装
//
// 与版税配置相同的两级作用域（合约默认 + 按代币覆盖），
// 记录额外携带一级销售收款方与平台费收款方。
package fees

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/mtx/v1/internal/core/slots"
	eventInterface "github.com/mtx/v1/pkg/interfaces/infrastructure/event"
	log "github.com/mtx/v1/pkg/interfaces/infrastructure/log"
	storage "github.com/mtx/v1/pkg/interfaces/infrastructure/storage"
	"github.com/mtx/v1/pkg/types"
)

// Namespace 费用状态的命名空间
const Namespace = "mtx.fees.storage"

// 持久化子键
var (
	keyDefault     = []byte("default")
	keyTokenPrefix = []byte("token/")
)

// Store 费用配置存储
type Store struct {
	region *slots.Region
	events eventInterface.EventBus
	logger log.Logger
}

// NewStore 创建费用配置存储
func NewStore(store storage.KVStore, events eventInterface.EventBus, logger log.Logger) *Store {
	return &Store{
		region: slots.NewRegion(store, Namespace),
		events: events,
		logger: logger.With("module", "fees"),
	}
}

// validateConfig 校验费用配置约束
func validateConfig(config types.FeeConfig) error {
	if config.PlatformFeeBps > types.MaxBps {
		return fmt.Errorf("%w: %d", types.ErrInvalidBasisPoints, config.PlatformFeeBps)
	}
	if config.PlatformFeeRecipient == types.ZeroAddress && config.PlatformFeeBps > 0 {
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

// SetDefaultFeeConfig 设置合约默认费用配置
func (s *Store) SetDefaultFeeConfig(ctx context.Context, config types.FeeConfig) error {
	if err := validateConfig(config); err != nil {
		return err
	}

	data, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("编码费用配置失败: %w", err)
	}
	if err := s.region.Set(ctx, keyDefault, data); err != nil {
		return fmt.Errorf("写入默认费用配置失败: %w", err)
	}

	s.logger.Infof("默认费用配置更新: 平台费bps=%d", config.PlatformFeeBps)
	s.events.Publish(types.EventDefaultFeeConfigUpdated, types.DefaultFeeConfigUpdatedEvent{Config: config})
	return nil
}

// SetTokenFeeConfig 设置按代币费用配置覆盖
func (s *Store) SetTokenFeeConfig(ctx context.Context, tokenID types.TokenID, config types.FeeConfig) error {
	if err := validateConfig(config); err != nil {
		return err
	}

	data, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("编码费用配置失败: %w", err)
	}
	if err := s.region.Set(ctx, tokenKey(tokenID), data); err != nil {
		return fmt.Errorf("写入代币费用配置失败: %w", err)
	}

	s.logger.Infof("代币费用配置更新: 代币=%d 平台费bps=%d", tokenID, config.PlatformFeeBps)
	s.events.Publish(types.EventTokenFeeConfigUpdated, types.TokenFeeConfigUpdatedEvent{TokenID: tokenID, Config: config})
	return nil
}

// DefaultFeeConfig 查询合约默认费用配置
// 未配置时返回零值配置
func (s *Store) DefaultFeeConfig(ctx context.Context) (types.FeeConfig, error) {
	return s.loadConfig(ctx, keyDefault)
}

// TokenFeeConfig 查询按代币费用配置覆盖
// 未配置时返回零值配置
func (s *Store) TokenFeeConfig(ctx context.Context, tokenID types.TokenID) (types.FeeConfig, error) {
	return s.loadConfig(ctx, tokenKey(tokenID))
}

// EffectiveFeeConfig 解析有效费用配置：按代币覆盖优先，默认配置兜底
func (s *Store) EffectiveFeeConfig(ctx context.Context, tokenID types.TokenID) (types.FeeConfig, error) {
	config, err := s.TokenFeeConfig(ctx, tokenID)
	if err != nil {
		return types.FeeConfig{}, err
	}
	if !config.IsZero() {
		return config, nil
	}
	return s.DefaultFeeConfig(ctx)
}

func (s *Store) loadConfig(ctx context.Context, key []byte) (types.FeeConfig, error) {
	data, err := s.region.Get(ctx, key)
	if err != nil {
		return types.FeeConfig{}, fmt.Errorf("读取费用配置失败: %w", err)
	}
	if data == nil {
		return types.FeeConfig{}, nil
	}

	var config types.FeeConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return types.FeeConfig{}, fmt.Errorf("解码费用配置失败: %w", err)
	}
	return config, nil
}
