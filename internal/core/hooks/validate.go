package hooks

import (
	"fmt"

	"github.com/mtx/v1/pkg/interfaces/extension"
	"github.com/mtx/v1/pkg/types"
)

// ValidateCallbacks 安装时校验模块的回调声明
//
// 两项检查：
//  1. 每个回调选择器必须是宿主定义的钩子之一
//  2. 模块必须实现选择器对应的类型化钩子接口
//
// 违反任一约束都使安装失败，避免运行期才发现声明与实现不符
func ValidateCallbacks(module extension.Module, config types.ModuleConfig) error {
	for _, sel := range config.CallbackFunctions {
		if !IsHookSelector(sel) {
			return fmt.Errorf("%w: 回调选择器%s不是宿主定义的钩子", types.ErrFunctionNotImplemented, sel.Hex())
		}

		implemented := false
		switch sel {
		case SelBeforeTransfer:
			_, implemented = module.(extension.BeforeTransferHook)
		case SelBeforeBatchTransfer:
			_, implemented = module.(extension.BeforeBatchTransferHook)
		case SelBeforeMint:
			_, implemented = module.(extension.BeforeMintHook)
		case SelBeforeBurn:
			_, implemented = module.(extension.BeforeBurnHook)
		case SelOnRoyaltyInfo:
			_, implemented = module.(extension.OnRoyaltyInfoHook)
		case SelOnTokenURI:
			_, implemented = module.(extension.OnTokenURIHook)
		case SelUpdateTokenID:
			_, implemented = module.(extension.UpdateTokenIDHook)
		}

		if !implemented {
			return fmt.Errorf("模块%s声明了钩子%s但未实现对应接口",
				module.ModuleAddress().Hex(), sel.Hex())
		}
	}
	return nil
}
