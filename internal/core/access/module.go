// Package access 提供访问控制的依赖注入模块
package access

import (
	accessInterface "github.com/mtx/v1/pkg/interfaces/infrastructure/access"
	log "github.com/mtx/v1/pkg/interfaces/infrastructure/log"
	storage "github.com/mtx/v1/pkg/interfaces/infrastructure/storage"
	"go.uber.org/fx"
)

// ModuleInput 定义访问控制模块的依赖参数
type ModuleInput struct {
	fx.In

	Store  storage.KVStore
	Logger log.Logger
}

// ModuleOutput 定义访问控制模块的输出结构
type ModuleOutput struct {
	fx.Out

	Store   *Store
	Checker accessInterface.PermissionChecker
}

// Module 返回访问控制模块
func Module() fx.Option {
	return fx.Module("access",
		fx.Provide(ProvideAccess),
	)
}

// ProvideAccess 创建权限存储
func ProvideAccess(input ModuleInput) ModuleOutput {
	store := New(input.Store, input.Logger)
	return ModuleOutput{Store: store, Checker: store}
}
