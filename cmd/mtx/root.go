package main

import (
	"github.com/spf13/cobra"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	ConfigPath string // 配置文件路径
}

var globalFlags GlobalFlags

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "mtx",
	Short: "MTX 模块化代币扩展框架",
	Long: `MTX - 模块化代币扩展框架服务

宿主核心把可变行为（铸造规则、销毁授权、版税计算、元数据解析、
转账钩子、代币ID分配）委托给运行期安装的扩展模块。

使用方式:
  mtx serve                # 启动服务（HTTP管理API + 持久化存储）
  mtx serve -c config.json # 指定配置文件
  mtx version              # 显示版本信息`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigPath, "config", "c", "", "配置文件路径（JSON）")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute 执行根命令
func Execute() error {
	return rootCmd.Execute()
}
