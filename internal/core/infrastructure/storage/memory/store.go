// Package memory 提供内存键值存储实现
//
// 用于测试与开发模式，语义与badger实现保持一致：
// Get对不存在的键返回(nil, nil)，RunInTransaction保证全有或全无。
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	interfaces "github.com/mtx/v1/pkg/interfaces/infrastructure/storage"
)

// 确保 Store 实现了 interfaces.KVStore 接口
var _ interfaces.KVStore = (*Store)(nil)

// Store 基于内存map的KVStore实现
type Store struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// New 创建新的内存存储实例
func New() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// Close 关闭存储
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Get 获取指定键的值
func (s *Store) Get(ctx context.Context, key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("memory store is closed")
	}

	val, ok := s.data[string(key)]
	if !ok {
		return nil, nil
	}

	valCopy := make([]byte, len(val))
	copy(valCopy, val)
	return valCopy, nil
}

// Set 设置键值对
func (s *Store) Set(ctx context.Context, key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("memory store is closed")
	}

	valCopy := make([]byte, len(value))
	copy(valCopy, value)
	s.data[string(key)] = valCopy
	return nil
}

// Delete 删除指定键的值
func (s *Store) Delete(ctx context.Context, key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("memory store is closed")
	}

	delete(s.data, string(key))
	return nil
}

// Exists 检查键是否存在
func (s *Store) Exists(ctx context.Context, key []byte) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, fmt.Errorf("memory store is closed")
	}

	_, ok := s.data[string(key)]
	return ok, nil
}

// PrefixScan 按前缀扫描键值对
func (s *Store) PrefixScan(ctx context.Context, prefix []byte) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("memory store is closed")
	}

	result := make(map[string][]byte)
	p := string(prefix)
	for k, v := range s.data {
		if strings.HasPrefix(k, p) {
			valCopy := make([]byte, len(v))
			copy(valCopy, v)
			result[k] = valCopy
		}
	}
	return result, nil
}

// RunInTransaction 在事务中执行操作
//
// 事务函数在开启时的存储快照上乐观执行，执行期间不持有存储锁：
// 事务内调用同一存储的普通读写入口、或嵌套开启新事务都不会阻塞。
// 写入缓存在事务内，函数成功返回后在短暂持锁下一次性应用。
// 提交时不做写冲突检测
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx interfaces.KVTransaction) error) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return fmt.Errorf("memory store is closed")
	}
	snapshot := make(map[string][]byte, len(s.data))
	for k, v := range s.data {
		snapshot[k] = v
	}
	s.mu.RUnlock()

	tx := &transaction{
		snapshot: snapshot,
		pending:  make(map[string][]byte),
		deleted:  make(map[string]bool),
	}

	if err := fn(tx); err != nil {
		// 缓存的写入被直接丢弃，错误原样返回
		return err
	}

	// 提交：应用所有缓存的变更
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("memory store is closed")
	}
	for k := range tx.deleted {
		delete(s.data, k)
	}
	for k, v := range tx.pending {
		s.data[k] = v
	}
	return nil
}

// transaction 内存事务，在快照上读、写入缓存在pending/deleted中直到提交
//
// 快照与底层map共享值切片：Set入口总是存入新副本，底层值
// 不会被原地修改，共享因此安全
type transaction struct {
	snapshot map[string][]byte
	pending  map[string][]byte
	deleted  map[string]bool
}

// Get 获取指定键的值（可见事务内未提交的写入）
func (t *transaction) Get(key []byte) ([]byte, error) {
	k := string(key)
	if t.deleted[k] {
		return nil, nil
	}
	if val, ok := t.pending[k]; ok {
		valCopy := make([]byte, len(val))
		copy(valCopy, val)
		return valCopy, nil
	}

	val, ok := t.snapshot[k]
	if !ok {
		return nil, nil
	}
	valCopy := make([]byte, len(val))
	copy(valCopy, val)
	return valCopy, nil
}

// Set 设置键值对
func (t *transaction) Set(key, value []byte) error {
	k := string(key)
	valCopy := make([]byte, len(value))
	copy(valCopy, value)
	t.pending[k] = valCopy
	delete(t.deleted, k)
	return nil
}

// Delete 删除指定键的值
func (t *transaction) Delete(key []byte) error {
	k := string(key)
	t.deleted[k] = true
	delete(t.pending, k)
	return nil
}

// Exists 检查键是否存在
func (t *transaction) Exists(key []byte) (bool, error) {
	k := string(key)
	if t.deleted[k] {
		return false, nil
	}
	if _, ok := t.pending[k]; ok {
		return true, nil
	}
	_, ok := t.snapshot[k]
	return ok, nil
}
