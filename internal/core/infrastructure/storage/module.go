// Package storage 提供存储基础设施的依赖注入模块
package storage

import (
	"context"

	appconfig "github.com/mtx/v1/internal/config"
	badgerconfig "github.com/mtx/v1/internal/config/storage/badger"
	"github.com/mtx/v1/internal/core/infrastructure/storage/badger"
	"github.com/mtx/v1/internal/core/infrastructure/storage/memory"
	log "github.com/mtx/v1/pkg/interfaces/infrastructure/log"
	interfaces "github.com/mtx/v1/pkg/interfaces/infrastructure/storage"
	"go.uber.org/fx"
)

// ModuleInput 定义存储模块的依赖参数
type ModuleInput struct {
	fx.In

	Backend      appconfig.StorageBackend
	BadgerConfig *badgerconfig.Config
	Logger       log.Logger
}

// Module 返回存储模块
//
// 根据配置的后端类型提供KVStore实现：
// - badger: BadgerDB持久化存储（默认）
// - memory: 内存存储（测试/开发模式）
func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(ProvideKVStore),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideKVStore 根据后端配置创建KVStore实例
func ProvideKVStore(input ModuleInput) (interfaces.KVStore, error) {
	if input.Backend == appconfig.BackendMemory {
		input.Logger.Info("使用内存存储后端（数据不持久化）")
		return memory.New(), nil
	}

	return badger.New(input.BadgerConfig, input.Logger)
}

// registerLifecycle 注册存储的生命周期钩子，应用停止时关闭存储
func registerLifecycle(lc fx.Lifecycle, store interfaces.KVStore) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
}
