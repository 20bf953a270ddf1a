package royalty

import (
	eventInterface "github.com/mtx/v1/pkg/interfaces/infrastructure/event"
	log "github.com/mtx/v1/pkg/interfaces/infrastructure/log"
	storage "github.com/mtx/v1/pkg/interfaces/infrastructure/storage"
	"go.uber.org/fx"
)

// FxInput 定义版税模块的依赖参数
type FxInput struct {
	fx.In

	Store  storage.KVStore
	Events eventInterface.EventBus
	Logger log.Logger
}

// FxModule 返回版税功能的依赖注入模块
// 同时提供状态存储与内建扩展模块实例
func FxModule() fx.Option {
	return fx.Module("royalty",
		fx.Provide(ProvideRoyalty),
	)
}

// ProvideRoyalty 创建版税存储与内建扩展模块
func ProvideRoyalty(input FxInput) (*Store, *Module) {
	store := NewStore(input.Store, input.Events, input.Logger)
	return store, NewModule(store)
}
