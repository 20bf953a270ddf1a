package api

// UserConfig 用户API配置（JSON文件片段）
type UserConfig struct {
	Enabled    *bool   `json:"enabled,omitempty"`
	ListenAddr *string `json:"listen_addr,omitempty"`
}

// APIOptions 管理API配置选项
type APIOptions struct {
	// Enabled 是否启用HTTP管理API
	Enabled bool `json:"enabled"`
	// ListenAddr HTTP监听地址
	ListenAddr string `json:"listen_addr"`
}

// Config 管理API配置实现
type Config struct {
	options *APIOptions
}

// 默认配置值
const (
	defaultEnabled    = true
	defaultListenAddr = "127.0.0.1:8545"
)

// New 创建管理API配置实现
func New(userConfig *UserConfig) *Config {
	options := &APIOptions{
		Enabled:    defaultEnabled,
		ListenAddr: defaultListenAddr,
	}

	if userConfig != nil {
		if userConfig.Enabled != nil {
			options.Enabled = *userConfig.Enabled
		}
		if userConfig.ListenAddr != nil {
			options.ListenAddr = *userConfig.ListenAddr
		}
	}

	return &Config{options: options}
}

// IsEnabled 是否启用HTTP管理API
func (c *Config) IsEnabled() bool {
	return c.options.Enabled
}

// GetListenAddr 获取监听地址
func (c *Config) GetListenAddr() string {
	return c.options.ListenAddr
}
