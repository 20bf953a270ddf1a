// Package http 提供MTX管理API的HTTP服务器
//
// 🎯 **管理API (Admin HTTP Surface)**
//
// 在宿主核心与各管理器之上提供一层薄HTTP封装：
// - 扩展安装/卸载/解析/列表
// - 代币铸造/销毁/转账与余额、元数据、版税查询
// - 版税/费用配置（写操作经派发层转发，复用权限门控）
// - 权限授予/撤销
// - /metrics 暴露派发指标
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mtx/v1/internal/api/http/handlers"
	"github.com/mtx/v1/internal/api/http/middleware"
	apiconfig "github.com/mtx/v1/internal/config/api"
	"github.com/mtx/v1/internal/core/access"
	"github.com/mtx/v1/internal/core/dispatch"
	"github.com/mtx/v1/internal/core/state/fees"
	"github.com/mtx/v1/internal/core/state/royalty"
	"github.com/mtx/v1/internal/core/token"
	log "github.com/mtx/v1/pkg/interfaces/infrastructure/log"
)

// Version 管理API版本号
const Version = "1.0.0"

// Server HTTP管理API服务器
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     *apiconfig.Config
	logger     log.Logger

	extensions *handlers.ExtensionHandler
	tokens     *handlers.TokenHandler
	configs    *handlers.ConfigHandler
	access     *handlers.AccessHandler
	health     *handlers.HealthHandler
	promReg    *prometheus.Registry
}

// Deps 服务器依赖集合
type Deps struct {
	Config  *apiconfig.Config
	Logger  log.Logger
	Core    *token.Core
	Manager *dispatch.Manager
	Royalty *royalty.Store
	Fees    *fees.Store
	Access  *access.Store
	Catalog handlers.Catalog
	PromReg *prometheus.Registry
}

// NewServer 创建HTTP管理API服务器
func NewServer(deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	s := &Server{
		router:     router,
		config:     deps.Config,
		logger:     deps.Logger.With("module", "api"),
		extensions: handlers.NewExtensionHandler(deps.Core, deps.Manager, deps.Catalog),
		tokens:     handlers.NewTokenHandler(deps.Core),
		configs:    handlers.NewConfigHandler(deps.Core, deps.Royalty, deps.Fees),
		access:     handlers.NewAccessHandler(deps.Access),
		health:     handlers.NewHealthHandler(Version),
		promReg:    deps.PromReg,
	}

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.NewLogger(deps.Logger).Middleware())

	s.setupRoutes()
	return s
}

// setupRoutes 注册全部API路由
func (s *Server) setupRoutes() {
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.promReg, promhttp.HandlerOpts{})))

	v1 := s.router.Group("/api/v1")

	v1.GET("/health", s.health.Health)

	// 扩展生命周期
	v1.GET("/extensions", s.extensions.List)
	v1.GET("/extensions/:id", s.extensions.Resolve)
	v1.POST("/extensions/:id", s.extensions.Install)
	v1.DELETE("/extensions/:id", s.extensions.Uninstall)
	v1.GET("/modules", s.extensions.Modules)

	// 代币操作
	v1.POST("/tokens/mint", s.tokens.Mint)
	v1.POST("/tokens/burn", s.tokens.Burn)
	v1.POST("/tokens/transfer", s.tokens.Transfer)
	v1.GET("/tokens/:tokenId/balance/:owner", s.tokens.Balance)
	v1.GET("/tokens/:tokenId/uri", s.tokens.URI)
	v1.GET("/tokens/:tokenId/royalty", s.tokens.Royalty)

	// 合约元数据
	v1.GET("/contract/uri", s.tokens.ContractURI)
	v1.PUT("/contract/uri", s.tokens.SetContractURI)

	// 版税/费用配置
	v1.GET("/royalty/default", s.configs.GetDefaultRoyalty)
	v1.PUT("/royalty/default", s.configs.SetDefaultRoyalty)
	v1.GET("/royalty/token/:tokenId", s.configs.GetTokenRoyalty)
	v1.PUT("/royalty/token", s.configs.SetTokenRoyalty)
	v1.GET("/fees/default", s.configs.GetDefaultFeeConfig)
	v1.PUT("/fees/default", s.configs.SetDefaultFeeConfig)
	v1.GET("/fees/token/:tokenId", s.configs.GetTokenFeeConfig)
	v1.PUT("/fees/token", s.configs.SetTokenFeeConfig)

	// 权限管理
	v1.POST("/permissions/grant", s.access.Grant)
	v1.POST("/permissions/revoke", s.access.Revoke)
	v1.GET("/permissions/:account", s.access.Query)
}

// Router 返回底层路由引擎（测试用）
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start 启动HTTP服务器
// 监听在后台goroutine中进行，不阻塞调用方
func (s *Server) Start() error {
	addr := s.config.GetListenAddr()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		s.logger.Infof("HTTP管理API监听: %s", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Errorf("HTTP服务器异常退出: %v", err)
		}
	}()
	return nil
}

// Stop 优雅停止HTTP服务器
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("停止HTTP服务器失败: %w", err)
	}
	s.logger.Info("HTTP管理API已停止")
	return nil
}
