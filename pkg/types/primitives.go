// Package types 提供MTX系统的核心类型定义
//
// 📋 **MTX 基础类型 (Core Primitives)**
//
// 本文件定义了模块化代币扩展框架的基础类型，专注于：
// - 地址与哈希：与以太坊生态兼容的20字节地址和32字节哈希
// - 函数选择器：基于keccak256的4字节函数标识
// - 扩展标识：位索引的扩展槽位编号（0-255）
// - 基点数值：费率/版税的万分比表示
//
// 🎯 **设计原则**
// - 生态兼容：复用go-ethereum的地址/哈希类型，避免重复造轮子
// - 确定性：选择器和接口ID的派生算法固定，跨实例一致
// - 类型安全：用具名类型区分扩展ID、选择器、接口ID等小整数/字节数组
package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Address 账户/模块地址类型（20字节）
// 直接复用以太坊通用地址类型，获得Hex、Bytes等方法
type Address = common.Address

// Hash 哈希类型（32字节）
type Hash = common.Hash

// ZeroAddress 零地址
// 注册表中表示"未安装"；版税/费用配置中bps>0时不允许作为接收方
var ZeroAddress = Address{}

// Selector 函数选择器（4字节）
// 取函数规范签名keccak256哈希的前4字节
type Selector [4]byte

// ComputeSelector 根据函数规范签名计算选择器
//
// 签名格式与Solidity一致，例如：
//
//	ComputeSelector("onRoyaltyInfo(uint256,uint256)")
func ComputeSelector(signature string) Selector {
	var sel Selector
	copy(sel[:], crypto.Keccak256([]byte(signature))[:4])
	return sel
}

// Hex 返回选择器的十六进制表示（带0x前缀）
func (s Selector) Hex() string {
	return "0x" + common.Bytes2Hex(s[:])
}

// IsZero 检查选择器是否为零值
func (s Selector) IsZero() bool {
	return s == Selector{}
}

// DeriveModuleAddress 根据模块的规范名称派生确定性实现地址
//
// 取keccak256(name)的后20字节。内建模块（版税、费用、ID分配器等）
// 以进程内对象形式存在，没有链上部署地址，用规范名称派生出的
// 地址在注册表中标识它们，且跨实例一致
func DeriveModuleAddress(name string) Address {
	var addr Address
	copy(addr[:], crypto.Keccak256([]byte(name))[12:])
	return addr
}

// InterfaceID 接口标识符（4字节）
// 等价于ERC-165的interfaceId：接口内所有函数选择器的异或
type InterfaceID [4]byte

// Hex 返回接口ID的十六进制表示（带0x前缀）
func (i InterfaceID) Hex() string {
	return "0x" + common.Bytes2Hex(i[:])
}

// ExtensionID 扩展槽位编号
// 对应安装位图中的位序号，有效范围[0, 255]
type ExtensionID uint8

// TokenID 代币标识符
type TokenID = uint64

// MaxTokenID 可表示的最大代币ID
// 原始线路协议中作为"分配新ID"的哨兵值使用（见tokenid模块的兼容入口）
const MaxTokenID TokenID = ^TokenID(0)

// BasisPoints 基点类型（1bps = 0.01%）
type BasisPoints = uint16

// MaxBps 基点上限（100%）
const MaxBps BasisPoints = 10_000
