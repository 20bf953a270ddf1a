// Package registry 提供扩展注册表的依赖注入模块
package registry

import (
	log "github.com/mtx/v1/pkg/interfaces/infrastructure/log"
	storage "github.com/mtx/v1/pkg/interfaces/infrastructure/storage"
	"go.uber.org/fx"
)

// ModuleInput 定义注册表模块的依赖参数
type ModuleInput struct {
	fx.In

	Store  storage.KVStore
	Logger log.Logger
}

// Module 返回注册表模块
// 注册表的持久化状态由派发模块在启动时统一加载
func Module() fx.Option {
	return fx.Module("registry",
		fx.Provide(ProvideRegistry),
	)
}

// ProvideRegistry 创建扩展注册表
func ProvideRegistry(input ModuleInput) *Registry {
	return New(input.Store, input.Logger)
}
