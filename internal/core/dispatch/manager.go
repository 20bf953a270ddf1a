// Package dispatch 提供选择器派发与扩展安装管理
//
// 🎯 **派发管理器 (Dispatch Manager)**
//
// 扩展安装协议与回退函数路由的实现：
// - 安装：校验必需接口与选择器冲突，单事务登记注册表与选择器记录
// - 派发：按选择器解析归属模块，回退函数做权限门控，原样中继模块结果
//
// ⚠️ 模块的失败必须原样穿透派发层——调用方依赖哨兵错误做行为分支，
// 任何包装都会破坏errors.Is判断。
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mtx/v1/internal/core/registry"
	"github.com/mtx/v1/internal/core/slots"
	"github.com/mtx/v1/pkg/interfaces/extension"
	access "github.com/mtx/v1/pkg/interfaces/infrastructure/access"
	eventInterface "github.com/mtx/v1/pkg/interfaces/infrastructure/event"
	log "github.com/mtx/v1/pkg/interfaces/infrastructure/log"
	storage "github.com/mtx/v1/pkg/interfaces/infrastructure/storage"
	"github.com/mtx/v1/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace 派发层状态的命名空间
const Namespace = "mtx.extension.dispatch"

// 持久化子键
var keySelectorPrefix = []byte("sel/") // sel/<selector> → selectorRecord JSON

// 确保 Manager 实现了公共接口
var (
	_ extension.Manager    = (*Manager)(nil)
	_ extension.Dispatcher = (*Manager)(nil)
)

// selectorRecord 选择器登记记录（持久化格式）
type selectorRecord struct {
	ExtensionID    types.ExtensionID `json:"extension_id"`    // 归属扩展槽位
	Implementation types.Address     `json:"implementation"`  // 模块实现地址
	Fallback       bool              `json:"fallback"`        // 是否回退函数（否则为回调）
	PermissionBits uint64            `json:"permission_bits"` // 回退函数的权限位（0=公开）
}

// route 内存路由表项
type route struct {
	record selectorRecord
}

// Manager 派发管理器，组合注册表与选择器路由
type Manager struct {
	region   *slots.Region
	registry *registry.Registry
	support  extension.InterfaceSupport
	access   access.PermissionChecker
	events   eventInterface.EventBus
	logger   log.Logger
	metrics  *metrics

	// 安装/卸载串行执行
	installMu sync.Mutex

	routeMu sync.RWMutex
	routes  map[types.Selector]route

	// 运行时绑定：实现地址→进程内模块实例
	// 持久化的安装关系重启后仍在，模块实例需启动时重新绑定
	bindMu sync.RWMutex
	bound  map[types.Address]extension.Module
}

// NewManager 创建派发管理器
func NewManager(
	store storage.KVStore,
	reg *registry.Registry,
	sup extension.InterfaceSupport,
	checker access.PermissionChecker,
	events eventInterface.EventBus,
	logger log.Logger,
	promReg prometheus.Registerer,
) *Manager {
	return &Manager{
		region:   slots.NewRegion(store, Namespace),
		registry: reg,
		support:  sup,
		access:   checker,
		events:   events,
		logger:   logger.With("module", "dispatch"),
		metrics:  newMetrics(promReg),
		routes:   make(map[types.Selector]route),
		bound:    make(map[types.Address]extension.Module),
	}
}

// Load 从持久化的选择器记录重建路由表
// 必须在管理器投入使用前调用一次
func (m *Manager) Load(ctx context.Context) error {
	entries, err := m.region.Scan(ctx, keySelectorPrefix)
	if err != nil {
		return fmt.Errorf("加载选择器记录失败: %w", err)
	}

	m.routeMu.Lock()
	defer m.routeMu.Unlock()

	m.routes = make(map[types.Selector]route, len(entries))
	for k, v := range entries {
		if len(k) != len(keySelectorPrefix)+4 {
			return fmt.Errorf("选择器记录键非法: %q", k)
		}

		var sel types.Selector
		copy(sel[:], k[len(keySelectorPrefix):])

		var rec selectorRecord
		if err := json.Unmarshal(v, &rec); err != nil {
			return fmt.Errorf("解码选择器记录失败 %s: %w", sel.Hex(), err)
		}
		m.routes[sel] = route{record: rec}
	}

	m.metrics.installed.Set(float64(len(m.registry.Installed())))
	m.logger.Infof("派发路由表加载完成，选择器数: %d", len(m.routes))
	return nil
}

// Bind 绑定模块的进程内实例
// 启动时由应用层对每个内建模块调用；未绑定地址的调用按未实现处理
func (m *Manager) Bind(module extension.Module) {
	m.bindMu.Lock()
	defer m.bindMu.Unlock()
	m.bound[module.ModuleAddress()] = module
}

// Install 安装扩展模块到指定槽位
//
// 协议顺序（检查先于任何持久化生效）：
//  1. 槽位占用检查（ErrAlreadyInstalled）
//  2. 必需接口校验（ErrMissingRequiredInterface）
//  3. 选择器冲突校验（ErrSelectorConflict，含描述符内部重复）
//  4. 单事务写入注册表与全部选择器记录
//  5. 内存镜像更新、模块绑定、事件发布
func (m *Manager) Install(ctx context.Context, id types.ExtensionID, module extension.Module) error {
	m.installMu.Lock()
	defer m.installMu.Unlock()

	if m.registry.IsInstalled(id) {
		return types.ErrAlreadyInstalled
	}

	addr := module.ModuleAddress()
	// 描述符仅消费一次
	config := module.GetModuleConfig()

	for _, ifaceID := range config.RequiredInterfaces {
		if !m.support.SupportsInterface(ifaceID) {
			return fmt.Errorf("%w: %x", types.ErrMissingRequiredInterface, ifaceID)
		}
	}

	claimed := make(map[types.Selector]bool)
	records := make(map[types.Selector]selectorRecord)
	for _, sel := range config.CallbackFunctions {
		if claimed[sel] {
			return fmt.Errorf("%w: %s", types.ErrSelectorConflict, sel.Hex())
		}
		claimed[sel] = true
		records[sel] = selectorRecord{
			ExtensionID:    id,
			Implementation: addr,
			Fallback:       false,
		}
	}
	for _, fb := range config.FallbackFunctions {
		if claimed[fb.Selector] {
			return fmt.Errorf("%w: %s", types.ErrSelectorConflict, fb.Selector.Hex())
		}
		claimed[fb.Selector] = true
		records[fb.Selector] = selectorRecord{
			ExtensionID:    id,
			Implementation: addr,
			Fallback:       true,
			PermissionBits: fb.PermissionBits,
		}
	}

	// 跨模块冲突检查
	m.routeMu.RLock()
	for sel := range claimed {
		if _, exists := m.routes[sel]; exists {
			m.routeMu.RUnlock()
			return fmt.Errorf("%w: %s", types.ErrSelectorConflict, sel.Hex())
		}
	}
	m.routeMu.RUnlock()

	// 单事务落盘：注册表 + 选择器记录
	err := m.region.RunInTransaction(ctx, func(tx *slots.TxRegion) error {
		if err := m.registry.WriteInstall(tx, id, addr); err != nil {
			return err
		}
		for sel, rec := range records {
			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("编码选择器记录失败: %w", err)
			}
			if err := tx.Set(selectorKey(sel), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// 事务已提交，更新内存状态
	m.registry.ApplyInstall(id, addr)
	m.routeMu.Lock()
	for sel, rec := range records {
		m.routes[sel] = route{record: rec}
	}
	m.routeMu.Unlock()
	m.Bind(module)

	selectors := config.Selectors()
	m.metrics.installed.Set(float64(len(m.registry.Installed())))
	m.logger.Infof("扩展安装完成: 槽位=%d 地址=%s 选择器数=%d", id, addr.Hex(), len(selectors))
	m.events.Publish(types.EventExtensionInstalled, types.ExtensionInstalledEvent{
		ExtensionID:    id,
		Implementation: addr,
		Selectors:      selectors,
	})
	return nil
}

// Uninstall 卸载指定槽位的扩展
// 槽位为空时返回ErrNotInstalled；不做依赖追踪，
// 依赖该扩展的调用此后回落为"未实现"
func (m *Manager) Uninstall(ctx context.Context, id types.ExtensionID) error {
	m.installMu.Lock()
	defer m.installMu.Unlock()

	// 收集该槽位认领的选择器
	m.routeMu.RLock()
	owned := make([]types.Selector, 0)
	for sel, rt := range m.routes {
		if rt.record.ExtensionID == id {
			owned = append(owned, sel)
		}
	}
	m.routeMu.RUnlock()

	var removed types.Address
	err := m.region.RunInTransaction(ctx, func(tx *slots.TxRegion) error {
		addr, err := m.registry.WriteUninstall(tx, id)
		if err != nil {
			return err
		}
		removed = addr
		for _, sel := range owned {
			if err := tx.Delete(selectorKey(sel)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.registry.ApplyUninstall(id)
	m.routeMu.Lock()
	for _, sel := range owned {
		delete(m.routes, sel)
	}
	m.routeMu.Unlock()

	m.bindMu.Lock()
	delete(m.bound, removed)
	m.bindMu.Unlock()

	m.metrics.installed.Set(float64(len(m.registry.Installed())))
	m.logger.Infof("扩展卸载完成: 槽位=%d 地址=%s", id, removed.Hex())
	m.events.Publish(types.EventExtensionUninstalled, types.ExtensionUninstalledEvent{
		ExtensionID:    id,
		Implementation: removed,
	})
	return nil
}

// Resolve 解析槽位对应的模块实现地址
func (m *Manager) Resolve(id types.ExtensionID) types.Address {
	return m.registry.Resolve(id)
}

// Installed 返回已安装的扩展槽位列表
func (m *Manager) Installed() []types.ExtensionID {
	return m.registry.Installed()
}

// Dispatch 将调用转发到选择器的归属模块
func (m *Manager) Dispatch(ctx context.Context, callCtx types.CallContext, selector types.Selector, input []byte) ([]byte, error) {
	m.routeMu.RLock()
	rt, ok := m.routes[selector]
	m.routeMu.RUnlock()

	if !ok {
		m.metrics.failures.WithLabelValues(reasonNotImplemented).Inc()
		return nil, types.ErrFunctionNotImplemented
	}

	// 回退函数的权限门控；权限位为0表示公开
	if rt.record.Fallback && rt.record.PermissionBits != 0 {
		allowed, err := m.access.HasPermission(ctx, callCtx.Caller, rt.record.PermissionBits)
		if err != nil {
			m.metrics.failures.WithLabelValues(reasonUnauthorized).Inc()
			return nil, fmt.Errorf("权限检查失败: %w", err)
		}
		if !allowed {
			m.metrics.failures.WithLabelValues(reasonUnauthorized).Inc()
			return nil, types.ErrUnauthorized
		}
	}

	module, bound := m.moduleFor(rt.record.Implementation)
	if !bound {
		// 已持久化安装但进程内未绑定实例，按未实现处理
		m.logger.Warnf("选择器%s的模块%s未绑定", selector.Hex(), rt.record.Implementation.Hex())
		m.metrics.failures.WithLabelValues(reasonNotImplemented).Inc()
		return nil, types.ErrFunctionNotImplemented
	}

	m.metrics.dispatched.WithLabelValues(selector.Hex()).Inc()

	out, err := module.Call(ctx, callCtx, selector, input)
	if err != nil {
		m.metrics.failures.WithLabelValues(reasonModuleError).Inc()
		// 模块失败原样中继
		return nil, err
	}
	return out, nil
}

// OwnerModule 返回认领指定选择器的已安装模块
func (m *Manager) OwnerModule(selector types.Selector) (extension.Module, bool) {
	m.routeMu.RLock()
	rt, ok := m.routes[selector]
	m.routeMu.RUnlock()
	if !ok {
		return nil, false
	}
	return m.moduleFor(rt.record.Implementation)
}

// moduleFor 查找实现地址绑定的进程内模块实例
func (m *Manager) moduleFor(addr types.Address) (extension.Module, bool) {
	m.bindMu.RLock()
	defer m.bindMu.RUnlock()
	module, ok := m.bound[addr]
	return module, ok
}

// selectorKey 构建选择器记录子键
func selectorKey(sel types.Selector) []byte {
	key := make([]byte, 0, len(keySelectorPrefix)+4)
	key = append(key, keySelectorPrefix...)
	key = append(key, sel[:]...)
	return key
}
