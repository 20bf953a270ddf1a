// Package support 提供接口支持集合的依赖注入模块
package support

import (
	"github.com/mtx/v1/pkg/interfaces/extension"
	"go.uber.org/fx"
)

// ModuleOutput 定义接口支持模块的输出结构
type ModuleOutput struct {
	fx.Out

	Set     *Set
	Support extension.InterfaceSupport
}

// Module 返回接口支持模块
func Module() fx.Option {
	return fx.Module("support",
		fx.Provide(ProvideSupport),
	)
}

// ProvideSupport 创建宿主的接口支持集合
// 初始为空集合，宿主在装配阶段按需登记自身支持的接口ID
func ProvideSupport() ModuleOutput {
	set := NewSet()
	return ModuleOutput{Set: set, Support: set}
}
