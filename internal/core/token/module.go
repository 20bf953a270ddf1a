// Package token 提供宿主核心的依赖注入模块
package token

import (
	"context"

	"github.com/mtx/v1/internal/core/dispatch"
	"github.com/mtx/v1/internal/core/hooks"
	"github.com/mtx/v1/internal/core/state/burnguard"
	"github.com/mtx/v1/internal/core/state/fees"
	"github.com/mtx/v1/internal/core/state/royalty"
	"github.com/mtx/v1/internal/core/state/tokenid"
	accessInterface "github.com/mtx/v1/pkg/interfaces/infrastructure/access"
	eventInterface "github.com/mtx/v1/pkg/interfaces/infrastructure/event"
	log "github.com/mtx/v1/pkg/interfaces/infrastructure/log"
	storage "github.com/mtx/v1/pkg/interfaces/infrastructure/storage"
	tokenInterface "github.com/mtx/v1/pkg/interfaces/token"
	"go.uber.org/fx"
)

// ModuleInput 定义核心模块的依赖参数
type ModuleInput struct {
	fx.In

	Store     storage.KVStore
	Manager   *dispatch.Manager
	Hooks     *hooks.Router
	Allocator *tokenid.Allocator
	Guard     *burnguard.Guard
	Ledger    tokenInterface.BalanceLedger
	Access    accessInterface.PermissionChecker
	Events    eventInterface.EventBus
	Logger    log.Logger
}

// Module 返回宿主核心模块
//
// 启动时把内建扩展模块实例重新绑定到派发层：持久化的安装关系
// 跨重启保留，进程内实例必须逐次启动重新Bind后才可被派发
func Module() fx.Option {
	return fx.Module("token",
		fx.Provide(ProvideLedger),
		fx.Provide(ProvideCore),
		fx.Invoke(registerLifecycle),
	)
}

// LedgerInput 定义参考记账实现的依赖参数
type LedgerInput struct {
	fx.In

	Store  storage.KVStore
	Logger log.Logger
}

// LedgerOutput 定义参考记账实现的输出结构
type LedgerOutput struct {
	fx.Out

	Ledger        *Ledger
	BalanceLedger tokenInterface.BalanceLedger
}

// ProvideLedger 创建参考记账实现
func ProvideLedger(input LedgerInput) LedgerOutput {
	ledger := NewLedger(input.Store, input.Logger)
	return LedgerOutput{Ledger: ledger, BalanceLedger: ledger}
}

// ProvideCore 创建宿主核心门面
func ProvideCore(input ModuleInput) (*Core, error) {
	return NewCore(Params{
		Store:     input.Store,
		Manager:   input.Manager,
		Hooks:     input.Hooks,
		Allocator: input.Allocator,
		Guard:     input.Guard,
		Ledger:    input.Ledger,
		Access:    input.Access,
		Events:    input.Events,
		Logger:    input.Logger,
	})
}

// registerLifecycle 注册核心的生命周期钩子
func registerLifecycle(
	lc fx.Lifecycle,
	core *Core,
	manager *dispatch.Manager,
	royaltyMod *royalty.Module,
	feesMod *fees.Module,
	tokenidMod *tokenid.Module,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// 重新绑定内建模块实例（绑定不等于安装，未安装的绑定无副作用）
			manager.Bind(royaltyMod)
			manager.Bind(feesMod)
			manager.Bind(tokenidMod)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return core.Close()
		},
	})
}
