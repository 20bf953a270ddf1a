package http

import (
	"context"

	"github.com/mtx/v1/internal/api/http/handlers"
	apiconfig "github.com/mtx/v1/internal/config/api"
	"github.com/mtx/v1/internal/core/access"
	"github.com/mtx/v1/internal/core/dispatch"
	"github.com/mtx/v1/internal/core/state/fees"
	"github.com/mtx/v1/internal/core/state/royalty"
	"github.com/mtx/v1/internal/core/state/tokenid"
	"github.com/mtx/v1/internal/core/token"
	log "github.com/mtx/v1/pkg/interfaces/infrastructure/log"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// ModuleInput 定义HTTP模块的依赖参数
type ModuleInput struct {
	fx.In

	Config     *apiconfig.Config
	Logger     log.Logger
	Core       *token.Core
	Manager    *dispatch.Manager
	Royalty    *royalty.Store
	Fees       *fees.Store
	Access     *access.Store
	RoyaltyMod *royalty.Module
	FeesMod    *fees.Module
	TokenIDMod *tokenid.Module
	PromReg    *prometheus.Registry
}

// Module 返回HTTP管理API模块
func Module() fx.Option {
	return fx.Module("http",
		fx.Provide(ProvideServer),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideServer 创建HTTP服务器
func ProvideServer(input ModuleInput) *Server {
	return NewServer(Deps{
		Config:  input.Config,
		Logger:  input.Logger,
		Core:    input.Core,
		Manager: input.Manager,
		Royalty: input.Royalty,
		Fees:    input.Fees,
		Access:  input.Access,
		Catalog: handlers.NewCatalog(input.RoyaltyMod, input.FeesMod, input.TokenIDMod),
		PromReg: input.PromReg,
	})
}

// registerLifecycle 注册HTTP服务器的生命周期钩子
// 配置禁用API时不启动监听
func registerLifecycle(lc fx.Lifecycle, server *Server, config *apiconfig.Config, logger log.Logger) {
	if !config.IsEnabled() {
		logger.Info("HTTP管理API已在配置中禁用")
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return server.Start()
		},
		OnStop: func(ctx context.Context) error {
			return server.Stop(ctx)
		},
	})
}
