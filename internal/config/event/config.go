package event

// UserConfig 用户事件系统配置（JSON文件片段）
type UserConfig struct {
	EnableHistory  *bool `json:"enable_history,omitempty"`
	MaxHistorySize *int  `json:"max_history_size,omitempty"`
}

// EventOptions 事件系统配置选项
// 专注于基础设施核心功能的简化配置
type EventOptions struct {
	// EnableHistory 是否记录事件历史
	EnableHistory bool `json:"enable_history"`
	// MaxHistorySize 每个事件类型保留的最大历史条数
	MaxHistorySize int `json:"max_history_size"`
}

// Config 事件系统配置实现
type Config struct {
	options *EventOptions
}

// 默认配置值
const (
	defaultEnableHistory  = false
	defaultMaxHistorySize = 128
)

// New 创建事件系统配置实现
func New(userConfig *UserConfig) *Config {
	options := &EventOptions{
		EnableHistory:  defaultEnableHistory,
		MaxHistorySize: defaultMaxHistorySize,
	}

	if userConfig != nil {
		if userConfig.EnableHistory != nil {
			options.EnableHistory = *userConfig.EnableHistory
		}
		if userConfig.MaxHistorySize != nil {
			options.MaxHistorySize = *userConfig.MaxHistorySize
		}
	}

	return &Config{options: options}
}

// IsHistoryEnabled 是否启用事件历史
func (c *Config) IsHistoryEnabled() bool {
	return c.options.EnableHistory
}

// GetMaxHistorySize 获取事件历史上限
func (c *Config) GetMaxHistorySize() int {
	return c.options.MaxHistorySize
}
