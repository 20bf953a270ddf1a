// Package config 提供MTX系统的应用配置管理
//
// 🔧 零值陷阱处理说明：
// 为了区分"用户未设置"和"用户设置为零值"，用户配置使用指针类型：
// - nil: 表示用户未在配置文件中设置该字段，将使用系统默认值
// - &value: 表示用户明确设置了该值，即使是零值也会被采用
package config

import (
	"encoding/json"
	"fmt"
	"os"

	apiconfig "github.com/mtx/v1/internal/config/api"
	eventconfig "github.com/mtx/v1/internal/config/event"
	logconfig "github.com/mtx/v1/internal/config/log"
	storageconfig "github.com/mtx/v1/internal/config/storage"
)

// 用户配置类型定义在各组件配置包中，这里提供别名便于统一引用
type (
	// UserLogConfig 用户日志配置（JSON文件片段）
	UserLogConfig = logconfig.UserConfig
	// UserStorageConfig 用户存储配置（JSON文件片段）
	UserStorageConfig = storageconfig.UserConfig
	// UserEventConfig 用户事件系统配置（JSON文件片段）
	UserEventConfig = eventconfig.UserConfig
	// UserAPIConfig 用户API配置（JSON文件片段）
	UserAPIConfig = apiconfig.UserConfig
)

// AppConfig 应用配置文件结构
type AppConfig struct {
	Log     *UserLogConfig     `json:"log,omitempty"`
	Storage *UserStorageConfig `json:"storage,omitempty"`
	Event   *UserEventConfig   `json:"event,omitempty"`
	API     *UserAPIConfig     `json:"api,omitempty"`
}

// LoadFromFile 从JSON文件加载应用配置
// 文件不存在时返回空配置（全部使用默认值），不视为错误
func LoadFromFile(path string) (*AppConfig, error) {
	if path == "" {
		return &AppConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &AppConfig{}, nil
		}
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	return &cfg, nil
}
