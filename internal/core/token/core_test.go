package token

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/google/uuid"
	eventconfig "github.com/mtx/v1/internal/config/event"
	logconfig "github.com/mtx/v1/internal/config/log"
	"github.com/mtx/v1/internal/core/dispatch"
	"github.com/mtx/v1/internal/core/hooks"
	eventimpl "github.com/mtx/v1/internal/core/infrastructure/event"
	logimpl "github.com/mtx/v1/internal/core/infrastructure/log"
	"github.com/mtx/v1/internal/core/infrastructure/storage/memory"
	"github.com/mtx/v1/internal/core/registry"
	"github.com/mtx/v1/internal/core/state/burnguard"
	"github.com/mtx/v1/internal/core/state/royalty"
	"github.com/mtx/v1/internal/core/state/tokenid"
	"github.com/mtx/v1/internal/core/support"
	accessInterface "github.com/mtx/v1/pkg/interfaces/infrastructure/access"
	eventInterface "github.com/mtx/v1/pkg/interfaces/infrastructure/event"
	"github.com/mtx/v1/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== 测试辅助 ====================

var (
	adminAddr  = accountAddr(0xad)
	minterAddr = accountAddr(0x11)
	plainAddr  = accountAddr(0x99)
)

// grantChecker 按账户→权限位映射的权限检查器
type grantChecker struct {
	grants map[types.Address]uint64
}

func (c *grantChecker) HasPermission(ctx context.Context, account types.Address, bits uint64) (bool, error) {
	if bits == 0 {
		return true, nil
	}
	return c.grants[account]&bits == bits, nil
}

type coreEnv struct {
	core      *Core
	manager   *dispatch.Manager
	ledger    *Ledger
	allocator *tokenid.Allocator
	guard     *burnguard.Guard
	royalty   *royalty.Store
	checker   *grantChecker
	bus       eventInterface.EventBus
}

// grant 为账户追加权限位
func (e *coreEnv) grant(account types.Address, bits uint64) {
	e.checker.grants[account] |= bits
}

func newCoreEnv(t *testing.T) *coreEnv {
	t.Helper()
	ctx := context.Background()

	store := memory.New()
	logger, err := logimpl.New(logconfig.New(nil))
	require.NoError(t, err)

	reg := registry.New(store, logger)
	require.NoError(t, reg.Load(ctx))

	checker := &grantChecker{grants: map[types.Address]uint64{
		adminAddr:  accessInterface.PermissionAdmin,
		minterAddr: accessInterface.PermissionMinter,
	}}
	bus := eventimpl.New(eventconfig.New(nil))

	manager := dispatch.NewManager(store, reg, support.NewSet(), checker, bus, logger, prometheus.NewRegistry())
	require.NoError(t, manager.Load(ctx))

	allocator := tokenid.NewAllocator(store, logger)
	guard := burnguard.New(store, logger)
	ledger := NewLedger(store, logger)
	roy := royalty.NewStore(store, bus, logger)

	core, err := NewCore(Params{
		Store:     store,
		Manager:   manager,
		Hooks:     hooks.NewRouter(manager, logger),
		Allocator: allocator,
		Guard:     guard,
		Ledger:    ledger,
		Access:    checker,
		Events:    bus,
		Logger:    logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = core.Close() })

	return &coreEnv{
		core:      core,
		manager:   manager,
		ledger:    ledger,
		allocator: allocator,
		guard:     guard,
		royalty:   roy,
		checker:   checker,
		bus:       bus,
	}
}

// mintGate 铸造前钩子模块：拒绝黑名单接收方
type mintGate struct {
	blocked types.Address
}

func (m *mintGate) ModuleAddress() types.Address {
	return types.DeriveModuleAddress("test.module.mintgate")
}

func (m *mintGate) GetModuleConfig() types.ModuleConfig {
	return types.ModuleConfig{CallbackFunctions: []types.Selector{hooks.SelBeforeMint}}
}

func (m *mintGate) Call(ctx context.Context, callCtx types.CallContext, sel types.Selector, input []byte) ([]byte, error) {
	return nil, types.ErrFunctionNotImplemented
}

func (m *mintGate) BeforeMint(ctx context.Context, to types.Address, tokenID types.TokenID, amount *big.Int) ([]byte, error) {
	if to == m.blocked {
		return nil, fmt.Errorf("接收方被拒绝: %s", to.Hex())
	}
	return nil, nil
}

// burnAuditor 销毁前钩子模块：销毁时读取版税配置做稽核记录
type burnAuditor struct {
	royalty *royalty.Store
	seen    int
}

func (m *burnAuditor) ModuleAddress() types.Address {
	return types.DeriveModuleAddress("test.module.burnauditor")
}

func (m *burnAuditor) GetModuleConfig() types.ModuleConfig {
	return types.ModuleConfig{CallbackFunctions: []types.Selector{hooks.SelBeforeBurn}}
}

func (m *burnAuditor) Call(ctx context.Context, callCtx types.CallContext, sel types.Selector, input []byte) ([]byte, error) {
	return nil, types.ErrFunctionNotImplemented
}

func (m *burnAuditor) BeforeBurn(ctx context.Context, from types.Address, tokenID types.TokenID, amount *big.Int) ([]byte, error) {
	if _, err := m.royalty.DefaultRoyalty(ctx); err != nil {
		return nil, err
	}
	m.seen++
	return nil, nil
}

// uriResolver 元数据URI钩子模块
type uriResolver struct {
	base string
}

func (m *uriResolver) ModuleAddress() types.Address {
	return types.DeriveModuleAddress("test.module.uri")
}

func (m *uriResolver) GetModuleConfig() types.ModuleConfig {
	return types.ModuleConfig{CallbackFunctions: []types.Selector{hooks.SelOnTokenURI}}
}

func (m *uriResolver) Call(ctx context.Context, callCtx types.CallContext, sel types.Selector, input []byte) ([]byte, error) {
	return nil, types.ErrFunctionNotImplemented
}

func (m *uriResolver) OnTokenURI(ctx context.Context, tokenID types.TokenID) (string, error) {
	return fmt.Sprintf("%s/%d", m.base, tokenID), nil
}

// batchGate 批量转账前钩子模块：无条件拒绝
type batchGate struct{}

func (m *batchGate) ModuleAddress() types.Address {
	return types.DeriveModuleAddress("test.module.batchgate")
}

func (m *batchGate) GetModuleConfig() types.ModuleConfig {
	return types.ModuleConfig{CallbackFunctions: []types.Selector{hooks.SelBeforeBatchTransfer}}
}

func (m *batchGate) Call(ctx context.Context, callCtx types.CallContext, sel types.Selector, input []byte) ([]byte, error) {
	return nil, types.ErrFunctionNotImplemented
}

func (m *batchGate) BeforeBatchTransfer(ctx context.Context, from, to types.Address, tokenIDs []types.TokenID, amounts []*big.Int) ([]byte, error) {
	return nil, fmt.Errorf("批量转账被策略拒绝")
}

// ==================== 扩展管理入口 ====================

func TestCoreInstallExtension(t *testing.T) {
	ctx := context.Background()

	t.Run("非管理员安装被拒绝", func(t *testing.T) {
		env := newCoreEnv(t)
		err := env.core.InstallExtension(ctx, plainAddr, 0, &uriResolver{base: "ipfs://x"})
		assert.ErrorIs(t, err, types.ErrUnauthorized)
		assert.Empty(t, env.manager.Installed())
	})

	t.Run("管理员安装成功", func(t *testing.T) {
		env := newCoreEnv(t)
		mod := &uriResolver{base: "ipfs://x"}
		require.NoError(t, env.core.InstallExtension(ctx, adminAddr, 0, mod))
		assert.Equal(t, mod.ModuleAddress(), env.manager.Resolve(0))
	})

	t.Run("声明钩子但未实现接口时拒绝安装", func(t *testing.T) {
		env := newCoreEnv(t)
		err := env.core.InstallExtension(ctx, adminAddr, 0, &invalidModule{})
		assert.Error(t, err)
		assert.Empty(t, env.manager.Installed())
	})

	t.Run("非管理员卸载被拒绝", func(t *testing.T) {
		env := newCoreEnv(t)
		require.NoError(t, env.core.InstallExtension(ctx, adminAddr, 0, &uriResolver{base: "ipfs://x"}))

		err := env.core.UninstallExtension(ctx, plainAddr, 0)
		assert.ErrorIs(t, err, types.ErrUnauthorized)

		require.NoError(t, env.core.UninstallExtension(ctx, adminAddr, 0))
		assert.Equal(t, types.ZeroAddress, env.manager.Resolve(0))
	})
}

// invalidModule 声明了beforeMint回调但不实现对应接口
type invalidModule struct{}

func (m *invalidModule) ModuleAddress() types.Address {
	return types.DeriveModuleAddress("test.module.invalid")
}

func (m *invalidModule) GetModuleConfig() types.ModuleConfig {
	return types.ModuleConfig{CallbackFunctions: []types.Selector{hooks.SelBeforeMint}}
}

func (m *invalidModule) Call(ctx context.Context, callCtx types.CallContext, sel types.Selector, input []byte) ([]byte, error) {
	return nil, types.ErrFunctionNotImplemented
}

// ==================== 铸造 ====================

func TestCoreMint(t *testing.T) {
	ctx := context.Background()

	t.Run("非铸造者被拒绝", func(t *testing.T) {
		env := newCoreEnv(t)
		_, err := env.core.Mint(ctx, plainAddr, plainAddr, types.MaxTokenID, big.NewInt(1))
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})

	t.Run("哨兵值分配新ID并记账", func(t *testing.T) {
		env := newCoreEnv(t)

		id, err := env.core.Mint(ctx, minterAddr, plainAddr, types.MaxTokenID, big.NewInt(5))
		require.NoError(t, err)
		assert.Equal(t, types.TokenID(0), id)

		id, err = env.core.Mint(ctx, minterAddr, plainAddr, types.MaxTokenID, big.NewInt(3))
		require.NoError(t, err)
		assert.Equal(t, types.TokenID(1), id)

		balance, err := env.core.BalanceOf(ctx, plainAddr, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(5), balance.Int64())
	})

	t.Run("显式ID必须已分配", func(t *testing.T) {
		env := newCoreEnv(t)
		_, err := env.core.Mint(ctx, minterAddr, plainAddr, 7, big.NewInt(1))
		assert.ErrorIs(t, err, types.ErrInvalidTokenID)

		_, err = env.core.Mint(ctx, minterAddr, plainAddr, types.MaxTokenID, big.NewInt(1))
		require.NoError(t, err)

		id, err := env.core.Mint(ctx, minterAddr, plainAddr, 0, big.NewInt(2))
		require.NoError(t, err)
		assert.Equal(t, types.TokenID(0), id)

		balance, _ := env.core.BalanceOf(ctx, plainAddr, 0)
		assert.Equal(t, int64(3), balance.Int64())
	})

	t.Run("安装updateTokenId模块后经钩子分配", func(t *testing.T) {
		env := newCoreEnv(t)
		require.NoError(t, env.core.InstallExtension(ctx, adminAddr, 0, tokenid.NewModule(env.allocator)))

		id, err := env.core.Mint(ctx, minterAddr, plainAddr, types.MaxTokenID, big.NewInt(1))
		require.NoError(t, err)
		assert.Equal(t, types.TokenID(0), id)
	})

	t.Run("铸造前钩子拒绝时不记账", func(t *testing.T) {
		env := newCoreEnv(t)
		require.NoError(t, env.core.InstallExtension(ctx, adminAddr, 1, &mintGate{blocked: plainAddr}))

		_, err := env.core.Mint(ctx, minterAddr, plainAddr, types.MaxTokenID, big.NewInt(1))
		require.Error(t, err)

		balance, _ := env.core.BalanceOf(ctx, plainAddr, 0)
		assert.Zero(t, balance.Sign())

		// 被拒绝的铸造不留下任何已提交变更：计数器推进随事务回滚，
		// 未被拒绝的接收方从ID 0开始正常铸造
		id, err := env.core.Mint(ctx, minterAddr, minterAddr, types.MaxTokenID, big.NewInt(1))
		require.NoError(t, err)
		assert.Equal(t, types.TokenID(0), id)
	})

	t.Run("记账失败时计数器回滚", func(t *testing.T) {
		env := newCoreEnv(t)

		// nil数量在记账处被拒绝，此前分配的ID 0必须仍然可用
		_, err := env.core.Mint(ctx, minterAddr, plainAddr, types.MaxTokenID, nil)
		require.Error(t, err)

		id, err := env.core.Mint(ctx, minterAddr, plainAddr, types.MaxTokenID, big.NewInt(1))
		require.NoError(t, err)
		assert.Equal(t, types.TokenID(0), id)
	})
}

// ==================== 许可销毁 ====================

func TestCoreBurnWithRequest(t *testing.T) {
	ctx := context.Background()
	env := newCoreEnv(t)

	id, err := env.core.Mint(ctx, minterAddr, plainAddr, types.MaxTokenID, big.NewInt(100))
	require.NoError(t, err)

	uid := uuid.New()

	t.Run("首次销毁成功", func(t *testing.T) {
		require.NoError(t, env.core.BurnWithRequest(ctx, plainAddr, id, big.NewInt(40), uid))

		balance, _ := env.core.BalanceOf(ctx, plainAddr, id)
		assert.Equal(t, int64(60), balance.Int64())
	})

	t.Run("相同UID重放被拒绝且余额不变", func(t *testing.T) {
		err := env.core.BurnWithRequest(ctx, plainAddr, id, big.NewInt(40), uid)
		assert.ErrorIs(t, err, types.ErrBurnRequestAlreadyProcessed)

		balance, _ := env.core.BalanceOf(ctx, plainAddr, id)
		assert.Equal(t, int64(60), balance.Int64())
	})

	t.Run("记账失败时UID随事务回滚", func(t *testing.T) {
		failed := uuid.New()
		err := env.core.BurnWithRequest(ctx, plainAddr, id, big.NewInt(1000), failed)
		assert.ErrorIs(t, err, ErrInsufficientBalance)

		consumed, err := env.guard.Consumed(ctx, failed)
		require.NoError(t, err)
		assert.False(t, consumed)

		// 回滚后同一UID可再次使用
		require.NoError(t, env.core.BurnWithRequest(ctx, plainAddr, id, big.NewInt(10), failed))
	})

	t.Run("销毁前钩子可读取其他组件状态", func(t *testing.T) {
		env := newCoreEnv(t)
		auditor := &burnAuditor{royalty: env.royalty}
		require.NoError(t, env.core.InstallExtension(ctx, adminAddr, 2, auditor))

		id, err := env.core.Mint(ctx, minterAddr, plainAddr, types.MaxTokenID, big.NewInt(20))
		require.NoError(t, err)

		// 钩子在挂起的销毁事务内做普通读取，流程不得阻塞
		require.NoError(t, env.core.BurnWithRequest(ctx, plainAddr, id, big.NewInt(5), uuid.New()))
		assert.Equal(t, 1, auditor.seen)

		balance, _ := env.core.BalanceOf(ctx, plainAddr, id)
		assert.Equal(t, int64(15), balance.Int64())
	})
}

// ==================== 转账 ====================

func TestCoreTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("批量转账", func(t *testing.T) {
		env := newCoreEnv(t)
		id, err := env.core.Mint(ctx, minterAddr, plainAddr, types.MaxTokenID, big.NewInt(100))
		require.NoError(t, err)

		err = env.core.TransferBatch(ctx, plainAddr, minterAddr,
			[]types.TokenID{id}, []*big.Int{big.NewInt(30)})
		require.NoError(t, err)

		balance, _ := env.core.BalanceOf(ctx, minterAddr, id)
		assert.Equal(t, int64(30), balance.Int64())
	})

	t.Run("长度不一致时拒绝", func(t *testing.T) {
		env := newCoreEnv(t)
		err := env.core.TransferBatch(ctx, plainAddr, minterAddr,
			[]types.TokenID{1}, nil)
		assert.Error(t, err)
	})

	t.Run("批量转账前钩子拒绝时中止", func(t *testing.T) {
		env := newCoreEnv(t)
		id, err := env.core.Mint(ctx, minterAddr, plainAddr, types.MaxTokenID, big.NewInt(100))
		require.NoError(t, err)
		require.NoError(t, env.core.InstallExtension(ctx, adminAddr, 0, &batchGate{}))

		err = env.core.TransferBatch(ctx, plainAddr, minterAddr,
			[]types.TokenID{id}, []*big.Int{big.NewInt(30)})
		require.Error(t, err)

		balance, _ := env.core.BalanceOf(ctx, plainAddr, id)
		assert.Equal(t, int64(100), balance.Int64())
	})

	t.Run("单笔转账", func(t *testing.T) {
		env := newCoreEnv(t)
		id, err := env.core.Mint(ctx, minterAddr, plainAddr, types.MaxTokenID, big.NewInt(10))
		require.NoError(t, err)

		require.NoError(t, env.core.Transfer(ctx, plainAddr, minterAddr, id, big.NewInt(4)))

		balance, _ := env.core.BalanceOf(ctx, minterAddr, id)
		assert.Equal(t, int64(4), balance.Int64())
	})
}

// ==================== 元数据与版税 ====================

func TestCoreTokenURI(t *testing.T) {
	ctx := context.Background()
	env := newCoreEnv(t)

	t.Run("无模块覆盖时返回未实现", func(t *testing.T) {
		_, err := env.core.TokenURI(ctx, 1)
		assert.ErrorIs(t, err, types.ErrOnTokenURINotImplemented)
	})

	t.Run("安装模块后解析并缓存", func(t *testing.T) {
		mod := &uriResolver{base: "ipfs://meta"}
		require.NoError(t, env.core.InstallExtension(ctx, adminAddr, 0, mod))

		uri, err := env.core.TokenURI(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "ipfs://meta/1", uri)

		// 改变模块状态，缓存命中仍返回旧值
		mod.base = "ipfs://changed"
		uri, err = env.core.TokenURI(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "ipfs://meta/1", uri)
	})

	t.Run("卸载模块后缓存失效", func(t *testing.T) {
		require.NoError(t, env.core.UninstallExtension(ctx, adminAddr, 0))

		_, err := env.core.TokenURI(ctx, 1)
		assert.ErrorIs(t, err, types.ErrOnTokenURINotImplemented)
	})
}

func TestCoreRoyaltyInfo(t *testing.T) {
	ctx := context.Background()
	env := newCoreEnv(t)
	recipient := accountAddr(0x77)

	t.Run("无模块覆盖时视为无版税", func(t *testing.T) {
		addr, amount, err := env.core.RoyaltyInfo(ctx, 1, big.NewInt(10000))
		require.NoError(t, err)
		assert.Equal(t, types.ZeroAddress, addr)
		assert.Zero(t, amount.Sign())
	})

	t.Run("安装版税模块后按配置计算", func(t *testing.T) {
		require.NoError(t, env.core.InstallExtension(ctx, adminAddr, 0, royalty.NewModule(env.royalty)))
		require.NoError(t, env.royalty.SetDefaultRoyalty(ctx, recipient, 250))

		addr, amount, err := env.core.RoyaltyInfo(ctx, 1, big.NewInt(10000))
		require.NoError(t, err)
		assert.Equal(t, recipient, addr)
		assert.Equal(t, int64(250), amount.Int64())
	})
}

func TestCoreContractURI(t *testing.T) {
	ctx := context.Background()
	env := newCoreEnv(t)

	t.Run("未设置时为空", func(t *testing.T) {
		uri, err := env.core.ContractURI(ctx)
		require.NoError(t, err)
		assert.Empty(t, uri)
	})

	t.Run("非配置管理员更新被拒绝", func(t *testing.T) {
		err := env.core.SetContractURI(ctx, plainAddr, "ipfs://contract")
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})

	t.Run("更新并发布事件", func(t *testing.T) {
		var got []string
		require.NoError(t, env.bus.Subscribe(types.EventContractURIUpdated, func(evt types.ContractURIUpdatedEvent) {
			got = append(got, evt.URI)
		}))

		managerAddr := accountAddr(0x55)
		env.grant(managerAddr, accessInterface.PermissionManager)
		require.NoError(t, env.core.SetContractURI(ctx, managerAddr, "ipfs://contract"))

		uri, err := env.core.ContractURI(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ipfs://contract", uri)
		assert.Equal(t, []string{"ipfs://contract"}, got)
	})
}
