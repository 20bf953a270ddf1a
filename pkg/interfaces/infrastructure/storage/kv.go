// Package storage 提供MTX系统的扁平键值存储接口定义
//
// 💾 **扁平存储空间 (Flat Storage Space)**
//
// 本文件定义了MTX系统的持久化键值存储接口。整个系统共享一个扁平的
// 键值地址空间：核心与每个扩展模块的状态通过命名空间槽位派生
// （见internal/core/slots）划分到互不别名的键前缀下。
//
// 🎯 **核心功能**
// - KVStore：键值存储服务接口，提供基础读写与前缀扫描
// - KVTransaction：事务接口，保证单次操作内的全有或全无语义
//
// 🏧 **设计原则**
// - 原子性：一次顶层操作的全部存储变更要么全部提交，要么全部回滚
// - 实现无关：BadgerDB为生产实现，内存实现用于测试与开发模式
// - 简洁性：只暴露槽位寻址所需的最小操作集
package storage

import "context"

//=============================================================================
// KVStore 接口定义
//=============================================================================

// KVStore 定义了扁平键值存储的应用接口
type KVStore interface {
	// Close 关闭存储
	// 确保所有待处理的事务被提交，数据被正确写入磁盘
	Close() error

	// Get 获取指定键的值
	// 如果键不存在，返回nil值和nil错误
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set 设置键值对
	// 如果键已存在，将覆盖原有值
	Set(ctx context.Context, key, value []byte) error

	// Delete 删除指定键的值
	// 如果键不存在，不会返回错误
	Delete(ctx context.Context, key []byte) error

	// Exists 检查键是否存在
	Exists(ctx context.Context, key []byte) (bool, error)

	// PrefixScan 按前缀扫描键值对
	// 返回map的键为键的字符串表示
	PrefixScan(ctx context.Context, prefix []byte) (map[string][]byte, error)

	// RunInTransaction 在事务中执行操作
	// fn函数在事务上下文中执行，可以执行多个原子操作
	// 如果fn返回错误，事务将被回滚；否则事务将被提交
	RunInTransaction(ctx context.Context, fn func(tx KVTransaction) error) error
}

//=============================================================================
// KVTransaction 接口定义
//=============================================================================

// KVTransaction 定义了键值存储事务操作接口
// 事务保证所有操作要么全部成功，要么全部失败
type KVTransaction interface {
	// Get 获取指定键的值
	// 如果键不存在，返回nil值和nil错误
	Get(key []byte) ([]byte, error)

	// Set 设置键值对
	Set(key, value []byte) error

	// Delete 删除指定键的值
	// 如果键不存在，不会返回错误
	Delete(key []byte) error

	// Exists 检查键是否存在
	Exists(key []byte) (bool, error)
}
