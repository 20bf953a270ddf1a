// Package config 提供应用配置管理功能
package config

import (
	"go.uber.org/fx"

	apiconfig "github.com/mtx/v1/internal/config/api"
	eventconfig "github.com/mtx/v1/internal/config/event"
	logconfig "github.com/mtx/v1/internal/config/log"
	badgerconfig "github.com/mtx/v1/internal/config/storage/badger"
)

// StorageBackend 存储后端选择
type StorageBackend string

const (
	// BackendBadger BadgerDB持久化后端（默认）
	BackendBadger StorageBackend = "badger"
	// BackendMemory 内存后端（测试/开发模式）
	BackendMemory StorageBackend = "memory"
)

// Module 返回配置模块
//
// 从AppConfig派生各组件的具体配置类型，供依赖注入使用
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			func(appConfig *AppConfig) *logconfig.Config {
				return logconfig.New(appConfig.Log)
			},
			func(appConfig *AppConfig) *badgerconfig.Config {
				return badgerconfig.New(appConfig.Storage)
			},
			func(appConfig *AppConfig) *eventconfig.Config {
				return eventconfig.New(appConfig.Event)
			},
			func(appConfig *AppConfig) *apiconfig.Config {
				return apiconfig.New(appConfig.API)
			},
			func(appConfig *AppConfig) StorageBackend {
				if appConfig.Storage != nil && appConfig.Storage.Backend != nil &&
					*appConfig.Storage.Backend == string(BackendMemory) {
					return BackendMemory
				}
				return BackendBadger
			},
		),
	)
}
