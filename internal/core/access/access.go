// Package access 提供基于命名空间存储的权限位实现
//
// 🔐 **权限存储 (Permission Store)**
//
// 按账户记录一个64位权限掩码，持久化在访问控制自己的命名空间区域。
// HasPermission要求账户同时持有查询的全部权限位；bits为0表示公开入口，
// 恒为通过。
package access

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/mtx/v1/internal/core/slots"
	accessInterface "github.com/mtx/v1/pkg/interfaces/infrastructure/access"
	log "github.com/mtx/v1/pkg/interfaces/infrastructure/log"
	storage "github.com/mtx/v1/pkg/interfaces/infrastructure/storage"
	"github.com/mtx/v1/pkg/types"
)

// Namespace 访问控制状态的命名空间
const Namespace = "mtx.access.control"

var keyPermPrefix = []byte("perm/") // perm/<address> → 8字节大端权限掩码

// 确保 Store 实现了权限校验接口
var _ accessInterface.PermissionChecker = (*Store)(nil)

// Store 权限存储
type Store struct {
	region *slots.Region
	logger log.Logger
}

// New 创建权限存储
func New(store storage.KVStore, logger log.Logger) *Store {
	return &Store{
		region: slots.NewRegion(store, Namespace),
		logger: logger.With("module", "access"),
	}
}

// permKey 构建账户的权限记录子键
func permKey(account types.Address) []byte {
	key := make([]byte, 0, len(keyPermPrefix)+20)
	key = append(key, keyPermPrefix...)
	key = append(key, account[:]...)
	return key
}

// Permissions 查询账户当前的权限掩码
func (s *Store) Permissions(ctx context.Context, account types.Address) (uint64, error) {
	data, err := s.region.Get(ctx, permKey(account))
	if err != nil {
		return 0, fmt.Errorf("读取权限记录失败: %w", err)
	}
	if data == nil {
		return 0, nil
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("权限记录长度非法: %d", len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}

// HasPermission 检查账户是否持有指定的全部权限位
func (s *Store) HasPermission(ctx context.Context, account types.Address, bits uint64) (bool, error) {
	if bits == 0 {
		return true, nil
	}

	mask, err := s.Permissions(ctx, account)
	if err != nil {
		return false, err
	}
	return mask&bits == bits, nil
}

// Grant 为账户追加权限位
func (s *Store) Grant(ctx context.Context, account types.Address, bits uint64) error {
	mask, err := s.Permissions(ctx, account)
	if err != nil {
		return err
	}

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, mask|bits)
	if err := s.region.Set(ctx, permKey(account), buf); err != nil {
		return fmt.Errorf("写入权限记录失败: %w", err)
	}

	s.logger.Infof("授予权限: 账户=%s 权限位=%#x", account.Hex(), bits)
	return nil
}

// Revoke 从账户移除权限位
func (s *Store) Revoke(ctx context.Context, account types.Address, bits uint64) error {
	mask, err := s.Permissions(ctx, account)
	if err != nil {
		return err
	}

	next := mask &^ bits
	if next == 0 {
		if err := s.region.Delete(ctx, permKey(account)); err != nil {
			return fmt.Errorf("删除权限记录失败: %w", err)
		}
	} else {
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, next)
		if err := s.region.Set(ctx, permKey(account), buf); err != nil {
			return fmt.Errorf("写入权限记录失败: %w", err)
		}
	}

	s.logger.Infof("撤销权限: 账户=%s 权限位=%#x", account.Hex(), bits)
	return nil
}
