package main

import (
	"context"

	"github.com/mtx/v1/internal/app"
	"github.com/mtx/v1/internal/app/version"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// serveCmd 服务启动命令
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动MTX服务",
	Long:  "装配全部模块并启动服务，阻塞运行直到收到退出信号",
	RunE: func(cmd *cobra.Command, args []string) error {
		printBanner()

		application, err := app.New(globalFlags.ConfigPath)
		if err != nil {
			return err
		}
		return application.Run(context.Background())
	},
}

// printBanner 打印启动横幅
func printBanner() {
	pterm.DefaultHeader.WithFullWidth().
		WithBackgroundStyle(pterm.NewStyle(pterm.BgLightBlue)).
		Println("MTX 模块化代币扩展框架 " + version.Version)
}
