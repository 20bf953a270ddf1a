package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiconfig "github.com/mtx/v1/internal/config/api"
	eventconfig "github.com/mtx/v1/internal/config/event"
	logconfig "github.com/mtx/v1/internal/config/log"
	badgerconfig "github.com/mtx/v1/internal/config/storage/badger"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	t.Run("文件不存在时返回空配置", func(t *testing.T) {
		cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json"))
		require.NoError(t, err)
		assert.Nil(t, cfg.Log)
		assert.Nil(t, cfg.Storage)
	})

	t.Run("空路径返回空配置", func(t *testing.T) {
		cfg, err := LoadFromFile("")
		require.NoError(t, err)
		assert.NotNil(t, cfg)
	})

	t.Run("非法JSON返回错误", func(t *testing.T) {
		path := writeConfigFile(t, "{not json")
		_, err := LoadFromFile(path)
		assert.Error(t, err)
	})
}

// 应用配置经各组件New派生具体配置，未设置的字段采用组件默认值
func TestComponentConfigDerivation(t *testing.T) {
	path := writeConfigFile(t, `{
		"log": {"level": "debug"},
		"storage": {"data_root": "/tmp/mtx-test", "sync_writes": true},
		"event": {"enable_history": true, "max_history_size": 16},
		"api": {"listen_addr": "127.0.0.1:9000"}
	}`)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	t.Run("日志配置覆盖默认值", func(t *testing.T) {
		logCfg := logconfig.New(cfg.Log)
		assert.Equal(t, "debug", logCfg.GetLevel())
	})

	t.Run("存储配置派生badger路径", func(t *testing.T) {
		badgerCfg := badgerconfig.New(cfg.Storage)
		assert.Equal(t, filepath.Join("/tmp/mtx-test", "badger"), badgerCfg.GetPath())
		assert.True(t, badgerCfg.IsSyncWritesEnabled())
	})

	t.Run("事件配置覆盖默认值", func(t *testing.T) {
		eventCfg := eventconfig.New(cfg.Event)
		assert.True(t, eventCfg.IsHistoryEnabled())
		assert.Equal(t, 16, eventCfg.GetMaxHistorySize())
	})

	t.Run("API配置保留默认开关", func(t *testing.T) {
		apiCfg := apiconfig.New(cfg.API)
		assert.True(t, apiCfg.IsEnabled())
		assert.Equal(t, "127.0.0.1:9000", apiCfg.GetListenAddr())
	})

	t.Run("未设置的组件使用默认配置", func(t *testing.T) {
		empty, err := LoadFromFile("")
		require.NoError(t, err)
		assert.False(t, eventconfig.New(empty.Event).IsHistoryEnabled())
		assert.Equal(t, "127.0.0.1:8545", apiconfig.New(empty.API).GetListenAddr())
	})
}
