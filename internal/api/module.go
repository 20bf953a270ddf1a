// Package api 提供对外接口层的依赖注入模块
package api

import (
	apihttp "github.com/mtx/v1/internal/api/http"
	"go.uber.org/fx"
)

// Module 返回接口层聚合模块
// 当前仅包含HTTP管理API
func Module() fx.Option {
	return fx.Module("api",
		apihttp.Module(),
	)
}
