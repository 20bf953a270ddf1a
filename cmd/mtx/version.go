package main

import (
	"fmt"

	"github.com/mtx/v1/internal/app/version"
	"github.com/spf13/cobra"
)

// versionCmd 版本信息命令
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Get().String())
	},
}
