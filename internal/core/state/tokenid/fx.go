package tokenid

import (
	log "github.com/mtx/v1/pkg/interfaces/infrastructure/log"
	storage "github.com/mtx/v1/pkg/interfaces/infrastructure/storage"
	"go.uber.org/fx"
)

// FxInput 定义代币ID分配模块的依赖参数
type FxInput struct {
	fx.In

	Store  storage.KVStore
	Logger log.Logger
}

// FxModule 返回代币ID分配功能的依赖注入模块
func FxModule() fx.Option {
	return fx.Module("tokenid",
		fx.Provide(ProvideAllocator),
	)
}

// ProvideAllocator 创建ID分配器与内建扩展模块
func ProvideAllocator(input FxInput) (*Allocator, *Module) {
	allocator := NewAllocator(input.Store, input.Logger)
	return allocator, NewModule(allocator)
}
