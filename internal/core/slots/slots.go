// Package slots 提供命名空间存储槽位派生与区域句柄
//
// 💾 **命名空间存储 (Namespaced Storage)**
//
// 系统所有持久化状态共享一个扁平的键值地址空间。每个组件（核心或扩展模块）
// 通过其命名空间字符串派生出唯一的基槽位，组件的全部状态键都以该基槽位
// 为前缀，从而保证不同组件的状态互不别名。
//
// 派生公式：keccak256(keccak256(namespace) − 1)，并清零最低字节。
// 清零最低字节为每个命名空间保留256个连续子槽位。
package slots

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mtx/v1/pkg/interfaces/infrastructure/storage"
	"github.com/mtx/v1/pkg/types"
)

// slotModulus 256位模数，减法在模2^256意义下进行
var slotModulus = new(big.Int).Lsh(big.NewInt(1), 256)

// DeriveSlot 根据命名空间派生基槽位
//
// 计算 keccak256(keccak256(namespace) − 1) 并清零最低字节。
// 减1使槽位无法通过直接对命名空间取哈希构造，避免与按字符串
// 哈希寻址的其他数据发生碰撞。
func DeriveSlot(namespace string) types.Hash {
	inner := crypto.Keccak256([]byte(namespace))

	// 模2^256意义下减1
	n := new(big.Int).SetBytes(inner)
	n.Sub(n, big.NewInt(1))
	n.Mod(n, slotModulus)

	// 左侧补零到32字节
	buf := make([]byte, 32)
	n.FillBytes(buf)

	outer := crypto.Keccak256(buf)
	outer[31] = 0 // 清零最低字节，保留256个子槽位

	var h types.Hash
	copy(h[:], outer)
	return h
}

// Region 某一命名空间在扁平键值空间中的区域句柄
//
// 组件的所有存储访问都经过Region，键由基槽位前缀与子键拼接而成，
// 组件之间因此不可能发生键别名。
type Region struct {
	store storage.KVStore
	base  types.Hash
}

// NewRegion 为指定命名空间创建区域句柄
func NewRegion(store storage.KVStore, namespace string) *Region {
	return &Region{
		store: store,
		base:  DeriveSlot(namespace),
	}
}

// Base 返回该区域的基槽位
func (r *Region) Base() types.Hash {
	return r.base
}

// Key 构建区域内子键的完整存储键：base || sub
func (r *Region) Key(sub []byte) []byte {
	key := make([]byte, 0, len(r.base)+len(sub))
	key = append(key, r.base[:]...)
	key = append(key, sub...)
	return key
}

// Get 获取区域内指定子键的值
// 子键不存在时返回nil值和nil错误
func (r *Region) Get(ctx context.Context, sub []byte) ([]byte, error) {
	return r.store.Get(ctx, r.Key(sub))
}

// Set 设置区域内指定子键的值
func (r *Region) Set(ctx context.Context, sub, value []byte) error {
	return r.store.Set(ctx, r.Key(sub), value)
}

// Delete 删除区域内指定子键的值
func (r *Region) Delete(ctx context.Context, sub []byte) error {
	return r.store.Delete(ctx, r.Key(sub))
}

// Exists 检查区域内指定子键是否存在
func (r *Region) Exists(ctx context.Context, sub []byte) (bool, error) {
	return r.store.Exists(ctx, r.Key(sub))
}

// Scan 扫描区域内指定子键前缀下的全部键值对
// 返回map的键为去掉基槽位前缀后的子键
func (r *Region) Scan(ctx context.Context, subPrefix []byte) (map[string][]byte, error) {
	raw, err := r.store.PrefixScan(ctx, r.Key(subPrefix))
	if err != nil {
		return nil, err
	}

	result := make(map[string][]byte, len(raw))
	for k, v := range raw {
		result[k[len(r.base):]] = v
	}
	return result, nil
}

// RunInTransaction 在区域所属存储的事务中执行操作
// 事务句柄TxRegion保证所有键仍带区域前缀
func (r *Region) RunInTransaction(ctx context.Context, fn func(tx *TxRegion) error) error {
	return r.store.RunInTransaction(ctx, func(kvTx storage.KVTransaction) error {
		return fn(&TxRegion{region: r, tx: kvTx})
	})
}

// TxRegion 事务中的区域句柄
type TxRegion struct {
	region *Region
	tx     storage.KVTransaction
}

// Get 获取事务中区域内指定子键的值
func (t *TxRegion) Get(sub []byte) ([]byte, error) {
	return t.tx.Get(t.region.Key(sub))
}

// Set 设置事务中区域内指定子键的值
func (t *TxRegion) Set(sub, value []byte) error {
	return t.tx.Set(t.region.Key(sub), value)
}

// Delete 删除事务中区域内指定子键的值
func (t *TxRegion) Delete(sub []byte) error {
	return t.tx.Delete(t.region.Key(sub))
}

// Exists 检查事务中区域内指定子键是否存在
func (t *TxRegion) Exists(sub []byte) (bool, error) {
	return t.tx.Exists(t.region.Key(sub))
}

// Raw 返回底层事务句柄，用于需要跨区域原子写入的调用方
func (t *TxRegion) Raw() storage.KVTransaction {
	return t.tx
}

// In 在同一底层事务中切换到另一个区域
// 用于一次顶层操作需要原子地修改多个组件状态的场景
func (t *TxRegion) In(other *Region) *TxRegion {
	return &TxRegion{region: other, tx: t.tx}
}
