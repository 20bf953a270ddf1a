// Package event 提供事件总线的依赖注入模块
package event

import (
	eventconfig "github.com/mtx/v1/internal/config/event"
	eventInterface "github.com/mtx/v1/pkg/interfaces/infrastructure/event"
	"go.uber.org/fx"
)

// ModuleInput 定义事件模块的依赖参数
type ModuleInput struct {
	fx.In

	Config *eventconfig.Config
}

// Module 返回事件总线模块
func Module() fx.Option {
	return fx.Module("event",
		fx.Provide(ProvideEventBus),
	)
}

// ProvideEventBus 提供事件总线服务
func ProvideEventBus(input ModuleInput) eventInterface.EventBus {
	return New(input.Config)
}
