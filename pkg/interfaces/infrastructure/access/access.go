// Package access 提供MTX系统的访问控制接口定义
//
// 🔐 **访问控制协作方 (Access Control Collaborator)**
//
// 访问控制是MTX的外部协作方：本包只在接口边界描述它，
// 不规定权限位的授予与管理方式。
//
// 🎯 **使用场景**
// - 扩展安装/卸载入口：要求调用方持有管理员权限位
// - 回退函数派发：要求调用方持有模块描述符中声明的权限位
package access

import (
	"context"

	"github.com/mtx/v1/pkg/types"
)

// 标准权限位
const (
	// PermissionAdmin 管理员权限位（安装/卸载扩展、修改合约级配置）
	PermissionAdmin uint64 = 1 << 0
	// PermissionMinter 铸造权限位
	PermissionMinter uint64 = 1 << 1
	// PermissionManager 配置管理权限位（版税/费用等功能配置）
	PermissionManager uint64 = 1 << 2
)

// PermissionChecker 权限校验接口
// 回答"调用方是否持有权限位X"，实现方自行决定权限的存储与授予
type PermissionChecker interface {
	// HasPermission 检查账户是否持有指定的全部权限位
	// bits为0时恒为true（公开入口）
	HasPermission(ctx context.Context, account types.Address, bits uint64) (bool, error)
}
