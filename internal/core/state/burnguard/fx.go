package burnguard

import (
	log "github.com/mtx/v1/pkg/interfaces/infrastructure/log"
	storage "github.com/mtx/v1/pkg/interfaces/infrastructure/storage"
	"go.uber.org/fx"
)

// FxInput 定义销毁守卫模块的依赖参数
type FxInput struct {
	fx.In

	Store  storage.KVStore
	Logger log.Logger
}

// FxModule 返回销毁守卫的依赖注入模块
func FxModule() fx.Option {
	return fx.Module("burnguard",
		fx.Provide(ProvideGuard),
	)
}

// ProvideGuard 创建销毁UID守卫
func ProvideGuard(input FxInput) *Guard {
	return New(input.Store, input.Logger)
}
