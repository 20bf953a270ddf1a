// Package app 提供MTX应用的装配与生命周期管理
//
// 🎯 **装配顺序**：
// 配置 → 日志 → 存储 → 事件 → 访问控制 → 注册表/派发/钩子 →
// 功能状态模块（版税/费用/ID分配/销毁守卫）→ 宿主核心 → 管理API
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mtx/v1/internal/api"
	appconfig "github.com/mtx/v1/internal/config"
	"github.com/mtx/v1/internal/core/access"
	"github.com/mtx/v1/internal/core/dispatch"
	"github.com/mtx/v1/internal/core/hooks"
	eventmodule "github.com/mtx/v1/internal/core/infrastructure/event"
	logmodule "github.com/mtx/v1/internal/core/infrastructure/log"
	storagemodule "github.com/mtx/v1/internal/core/infrastructure/storage"
	"github.com/mtx/v1/internal/core/registry"
	"github.com/mtx/v1/internal/core/state/burnguard"
	"github.com/mtx/v1/internal/core/state/fees"
	"github.com/mtx/v1/internal/core/state/royalty"
	"github.com/mtx/v1/internal/core/state/tokenid"
	"github.com/mtx/v1/internal/core/support"
	"github.com/mtx/v1/internal/core/token"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// shutdownTimeout 停止阶段的最长等待时间
const shutdownTimeout = 15 * time.Second

// App MTX应用
type App struct {
	fxApp *fx.App
}

// New 根据配置文件装配应用
// configPath为空或文件不存在时全部使用默认配置
func New(configPath string) (*App, error) {
	cfg, err := appconfig.LoadFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}

	fxApp := fx.New(
		fx.Supply(cfg),
		fx.Provide(prometheus.NewRegistry),

		appconfig.Module(),
		logmodule.Module(),
		storagemodule.Module(),
		eventmodule.Module(),

		access.Module(),
		support.Module(),
		registry.Module(),
		dispatch.Module(),
		hooks.Module(),

		royalty.FxModule(),
		fees.FxModule(),
		tokenid.FxModule(),
		burnguard.FxModule(),
		token.Module(),

		api.Module(),

		fx.NopLogger,
	)
	if err := fxApp.Err(); err != nil {
		return nil, fmt.Errorf("依赖装配失败: %w", err)
	}

	return &App{fxApp: fxApp}, nil
}

// Start 启动应用
func (a *App) Start(ctx context.Context) error {
	if err := a.fxApp.Start(ctx); err != nil {
		return fmt.Errorf("启动应用失败: %w", err)
	}
	return nil
}

// Stop 停止应用
func (a *App) Stop(ctx context.Context) error {
	stopCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := a.fxApp.Stop(stopCtx); err != nil {
		return fmt.Errorf("停止应用失败: %w", err)
	}
	return nil
}

// Run 启动应用并阻塞等待退出信号
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		fmt.Printf("收到退出信号: %s\n", sig)
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
