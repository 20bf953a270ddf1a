// Package hooks 提供钩子路由器的依赖注入模块
package hooks

import (
	"github.com/mtx/v1/pkg/interfaces/extension"
	log "github.com/mtx/v1/pkg/interfaces/infrastructure/log"
	"go.uber.org/fx"
)

// ModuleInput 定义钩子路由模块的依赖参数
type ModuleInput struct {
	fx.In

	Dispatcher extension.Dispatcher
	Logger     log.Logger
}

// Module 返回钩子路由模块
func Module() fx.Option {
	return fx.Module("hooks",
		fx.Provide(ProvideRouter),
	)
}

// ProvideRouter 创建钩子路由器
func ProvideRouter(input ModuleInput) *Router {
	return NewRouter(input.Dispatcher, input.Logger)
}
