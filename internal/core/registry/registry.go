// Package registry 提供扩展注册表实现
//
// 🔐 **扩展注册表 (Extension Registry)**
//
// 记录"哪些扩展槽位已安装、每个槽位对应的实现地址"：
// - 256位已安装位图：槽位编号即位图下标，存在性查询O(1)
// - 槽位编号→实现地址映射
//
// 两者持久化在注册表自己的命名空间区域中，进程内维护内存镜像，
// 重启后通过Load从持久化状态重建。位图与映射表在每次变更中
// 同步更新，二者一致性是注册表的核心不变量。
package registry

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

// Namespace 注册表状态的命名空间
const Namespace = "mtx.extension.registry"

// 持久化子键
var (
	keyMask       = []byte("mask")  // 256位已安装位图，32字节大端
	keyImplPrefix = []byte("impl/") // impl/<id> → 20字节实现地址
)

// Registry 扩展注册表
//
// 读操作走内存镜像；变更通过Write*/Apply*两段式进行，
// 由调用方（派发管理器）在单个存储事务中组合
type Registry struct {
	region *slots.Region
	logger log.Logger

	mu    sync.RWMutex
	mask  [4]uint64
	impls map[types.ExtensionID]types.Address
}

// New 创建扩展注册表
func New(store storage.KVStore, logger log.Logger) *Registry {
	return &Registry{
		region: slots.NewRegion(store, Namespace),
		logger: logger.With("module", "registry"),
		impls:  make(map[types.ExtensionID]types.Address),
	}
}

// Region 返回注册表的存储区域
func (r *Registry) Region() *slots.Region {
	return r.region
}

// Load 从持久化状态重建内存镜像
// 必须在注册表投入使用前调用一次
func (r *Registry) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	maskBytes, err := r.region.Get(ctx, keyMask)
	if err != nil {
		return fmt.Errorf("加载注册表位图失败: %w", err)
	}
	if maskBytes != nil {
		if len(maskBytes) != 32 {
			return fmt.Errorf("注册表位图长度非法: %d", len(maskBytes))
		}
		for i := 0; i < 4; i++ {
			r.mask[i] = binary.BigEndian.Uint64(maskBytes[i*8 : (i+1)*8])
		}
	}

	entries, err := r.region.Scan(ctx, keyImplPrefix)
	if err != nil {
		return fmt.Errorf("加载实现地址映射失败: %w", err)
	}

	r.impls = make(map[types.ExtensionID]types.Address, len(entries))
	for k, v := range entries {
		if len(k) != len(keyImplPrefix)+1 || len(v) != 20 {
			return fmt.Errorf("实现地址记录非法: key=%q len=%d", k, len(v))
		}
		id := types.ExtensionID(k[len(keyImplPrefix)])
		var addr types.Address
		copy(addr[:], v)

		// 位图与映射必须一致
		if !r.maskHas(id) {
			return fmt.Errorf("注册表状态不一致: 槽位%d有地址记录但位图未置位", id)
		}
		r.impls[id] = addr
	}

	r.logger.Infof("注册表加载完成，已安装扩展数: %d", len(r.impls))
	return nil
}

// maskHas 检查位图中指定槽位是否置位（调用方需持锁）
func (r *Registry) maskHas(id types.ExtensionID) bool {
	return r.mask[id/64]&(1<<(uint(id)%64)) != 0
}

// IsInstalled 检查指定槽位是否已安装
func (r *Registry) IsInstalled(id types.ExtensionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.maskHas(id)
}

// Resolve 解析槽位对应的实现地址
// 未安装时返回零地址
func (r *Registry) Resolve(id types.ExtensionID) types.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.impls[id]
}

// Installed 返回已安装槽位列表（按槽位编号升序，顺序稳定）
func (r *Registry) Installed() []types.ExtensionID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]types.ExtensionID, 0, len(r.impls))
	for word := 0; word < 4; word++ {
		for bit := 0; bit < 64; bit++ {
			if r.mask[word]&(1<<uint(bit)) != 0 {
				result = append(result, types.ExtensionID(word*64+bit))
			}
		}
	}
	return result
}

// WriteInstall 在事务中写入安装记录
//
// 校验槽位未占用（ErrAlreadyInstalled）并持久化新位图与地址记录。
// 不修改内存镜像；事务提交后调用方必须调用ApplyInstall
func (r *Registry) WriteInstall(tx *slots.TxRegion, id types.ExtensionID, addr types.Address) error {
	r.mu.RLock()
	installed := r.maskHas(id)
	mask := r.mask
	r.mu.RUnlock()

	if installed {
		return types.ErrAlreadyInstalled
	}

	mask[id/64] |= 1 << (uint(id) % 64)

	rtx := tx.In(r.region)
	if err := rtx.Set(keyMask, encodeMask(mask)); err != nil {
		return err
	}
	return rtx.Set(implKey(id), addr[:])
}

// ApplyInstall 事务提交后更新内存镜像
func (r *Registry) ApplyInstall(id types.ExtensionID, addr types.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mask[id/64] |= 1 << (uint(id) % 64)
	r.impls[id] = addr
}

// WriteUninstall 在事务中写入卸载记录
//
// 校验槽位已占用（ErrNotInstalled），返回被移除的实现地址。
// 不修改内存镜像；事务提交后调用方必须调用ApplyUninstall
func (r *Registry) WriteUninstall(tx *slots.TxRegion, id types.ExtensionID) (types.Address, error) {
	r.mu.RLock()
	installed := r.maskHas(id)
	addr := r.impls[id]
	mask := r.mask
	r.mu.RUnlock()

	if !installed {
		return types.ZeroAddress, types.ErrNotInstalled
	}

	mask[id/64] &^= 1 << (uint(id) % 64)

	rtx := tx.In(r.region)
	if err := rtx.Set(keyMask, encodeMask(mask)); err != nil {
		return types.ZeroAddress, err
	}
	if err := rtx.Delete(implKey(id)); err != nil {
		return types.ZeroAddress, err
	}
	return addr, nil
}

// ApplyUninstall 事务提交后更新内存镜像
func (r *Registry) ApplyUninstall(id types.ExtensionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mask[id/64] &^= 1 << (uint(id) % 64)
	delete(r.impls, id)
}

// Install 独立安装入口：单事务写入并更新内存镜像
// 完整安装协议（选择器登记等）由派发管理器组合，本方法仅服务
// 无派发参与的场景与测试
func (r *Registry) Install(ctx context.Context, id types.ExtensionID, addr types.Address) error {
	err := r.region.RunInTransaction(ctx, func(tx *slots.TxRegion) error {
		return r.WriteInstall(tx, id, addr)
	})
	if err != nil {
		return err
	}
	r.ApplyInstall(id, addr)
	return nil
}

// Uninstall 独立卸载入口：单事务写入并更新内存镜像
func (r *Registry) Uninstall(ctx context.Context, id types.ExtensionID) error {
	err := r.region.RunInTransaction(ctx, func(tx *slots.TxRegion) error {
		_, werr := r.WriteUninstall(tx, id)
		return werr
	})
	if err != nil {
		return err
	}
	r.ApplyUninstall(id)
	return nil
}

// encodeMask 编码位图为32字节大端
func encodeMask(mask [4]uint64) []byte {
	buf := make([]byte, 32)
	for i := 0; i < 4; i++ {
		binary.BigEndian.PutUint64(buf[i*8:(i+1)*8], mask[i])
	}
	return buf
}

// implKey 构建槽位的地址记录子键
func implKey(id types.ExtensionID) []byte {
	key := make([]byte, 0, len(keyImplPrefix)+1)
	key = append(key, keyImplPrefix...)
	key = append(key, byte(id))
	return key
}
