// Package version 提供应用的版本信息
package version

import (
	"fmt"
	"runtime"
)

// 构建时注入的变量，通过ldflags设置
var (
	// Version 语义化版本号
	Version = "v0.1.0"

	// BuildTime 构建时间戳（RFC3339格式）
	BuildTime = "unknown"
	// GitCommit 构建时的提交哈希
	GitCommit = "unknown"

	// Go构建信息
	GoVersion = runtime.Version()
	GoArch    = runtime.GOARCH
	GoOS      = runtime.GOOS
)

// BuildInfo 完整构建信息结构
type BuildInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	GoArch    string `json:"go_arch"`
	GoOS      string `json:"go_os"`
}

// Get 返回完整构建信息
func Get() BuildInfo {
	return BuildInfo{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
		GoVersion: GoVersion,
		GoArch:    GoArch,
		GoOS:      GoOS,
	}
}

// String 返回单行版本描述
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s %s/%s)",
		b.Version, b.GitCommit, b.BuildTime, b.GoVersion, b.GoOS, b.GoArch)
}
