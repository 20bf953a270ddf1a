// Package dispatch 提供选择器派发的依赖注入模块
package dispatch

import (
	"context"

	"github.com/mtx/v1/internal/core/registry"
	"github.com/mtx/v1/pkg/interfaces/extension"
	accessInterface "github.com/mtx/v1/pkg/interfaces/infrastructure/access"
	eventInterface "github.com/mtx/v1/pkg/interfaces/infrastructure/event"
	log "github.com/mtx/v1/pkg/interfaces/infrastructure/log"
	storage "github.com/mtx/v1/pkg/interfaces/infrastructure/storage"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// ModuleInput 定义派发模块的依赖参数
type ModuleInput struct {
	fx.In

	Store    storage.KVStore
	Registry *registry.Registry
	Support  extension.InterfaceSupport
	Checker  accessInterface.PermissionChecker
	Events   eventInterface.EventBus
	Logger   log.Logger
	PromReg  *prometheus.Registry
}

// ModuleOutput 定义派发模块的输出结构
type ModuleOutput struct {
	fx.Out

	Manager    *Manager
	ExtManager extension.Manager
	Dispatcher extension.Dispatcher
}

// Module 返回派发模块
//
// 启动时先加载注册表的安装位图，再重建选择器路由表；
// 进程内模块实例需要在装配阶段重新Bind后才可被派发
func Module() fx.Option {
	return fx.Module("dispatch",
		fx.Provide(ProvideManager),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideManager 创建派发管理器
func ProvideManager(input ModuleInput) ModuleOutput {
	manager := NewManager(input.Store, input.Registry, input.Support,
		input.Checker, input.Events, input.Logger, input.PromReg)
	return ModuleOutput{
		Manager:    manager,
		ExtManager: manager,
		Dispatcher: manager,
	}
}

// registerLifecycle 注册派发层的生命周期钩子
func registerLifecycle(lc fx.Lifecycle, reg *registry.Registry, manager *Manager) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := reg.Load(ctx); err != nil {
				return err
			}
			return manager.Load(ctx)
		},
	})
}
