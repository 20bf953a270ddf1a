package fees

import (
	eventInterface "github.com/mtx/v1/pkg/interfaces/infrastructure/event"
	log "github.com/mtx/v1/pkg/interfaces/infrastructure/log"
	storage "github.com/mtx/v1/pkg/interfaces/infrastructure/storage"
	"go.uber.org/fx"
)

// FxInput 定义费用模块的依赖参数
type FxInput struct {
	fx.In

	Store  storage.KVStore
	Events eventInterface.EventBus
	Logger log.Logger
}

// FxModule 返回费用功能的依赖注入模块
func FxModule() fx.Option {
	return fx.Module("fees",
		fx.Provide(ProvideFees),
	)
}

// ProvideFees 创建费用存储与内建扩展模块
func ProvideFees(input FxInput) (*Store, *Module) {
	store := NewStore(input.Store, input.Events, input.Logger)
	return store, NewModule(store)
}
