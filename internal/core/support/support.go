// Package support 提供宿主接口支持集合
//
// 安装流程用它校验模块描述符中的必需接口清单（ERC-165风格）。
// 宿主核心在启动时登记自身支持的接口，扩展安装后可追加新接口。
package support

import (
	"sync"

	"github.com/mtx/v1/pkg/interfaces/extension"
	"github.com/mtx/v1/pkg/types"
)

// 确保 Set 实现了 extension.InterfaceSupport 接口
var _ extension.InterfaceSupport = (*Set)(nil)

// Set 接口支持集合，可并发读写
type Set struct {
	mu  sync.RWMutex
	ids map[types.InterfaceID]struct{}
}

// NewSet 创建接口支持集合并登记初始接口
func NewSet(ids ...types.InterfaceID) *Set {
	s := &Set{ids: make(map[types.InterfaceID]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Add 登记新支持的接口
func (s *Set) Add(id types.InterfaceID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = struct{}{}
}

// SupportsInterface 检查是否支持指定接口
func (s *Set) SupportsInterface(id types.InterfaceID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}
