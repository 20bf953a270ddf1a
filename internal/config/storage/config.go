// Package storage 提供存储层的用户配置类型
package storage

// UserConfig 用户存储配置（JSON文件片段）
type UserConfig struct {
	// Backend 存储后端："badger"（默认）或 "memory"
	Backend *string `json:"backend,omitempty"`
	// DataRoot 数据根目录，badger子目录为 {data_root}/badger
	DataRoot *string `json:"data_root,omitempty"`
	// SyncWrites 是否同步写入
	SyncWrites *bool `json:"sync_writes,omitempty"`
}
