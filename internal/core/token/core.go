// Package token 提供MTX宿主核心门面
//
// 🎯 **宿主核心 (Token Core Facade)**
//
// 核心把可变行为（铸造规则、销毁授权、版税计算、元数据解析、转账钩子、
// 代币ID分配）全部委托给运行期安装的扩展模块，自身只负责：
//   - 在操作的固定生命周期点同步调用钩子，钩子失败即中止整个操作
//   - 通过派发层路由未匹配选择器的外部调用
//   - 管理员门控的扩展安装/卸载入口
//   - 合约级元数据（contractURI）
//
// ⚠️ **重入约束**：
// 销毁流程先在事务内消费UID守卫，再调用可重入的销毁前钩子，
// 最后执行记账扣减；三者共享同一个存储事务。
package token

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/google/uuid"
	"github.com/mtx/v1/internal/core/dispatch"
	"github.com/mtx/v1/internal/core/hooks"
	"github.com/mtx/v1/internal/core/slots"
	"github.com/mtx/v1/internal/core/state/burnguard"
	"github.com/mtx/v1/internal/core/state/tokenid"
	"github.com/mtx/v1/pkg/interfaces/extension"
	accessInterface "github.com/mtx/v1/pkg/interfaces/infrastructure/access"
	eventInterface "github.com/mtx/v1/pkg/interfaces/infrastructure/event"
	log "github.com/mtx/v1/pkg/interfaces/infrastructure/log"
	storage "github.com/mtx/v1/pkg/interfaces/infrastructure/storage"
	tokenInterface "github.com/mtx/v1/pkg/interfaces/token"
	"github.com/mtx/v1/pkg/types"
)

// Namespace 宿主核心自身状态的命名空间
const Namespace = "mtx.token.core"

var keyContractURI = []byte("contract_uri")

// uriCacheEviction 元数据URI读缓存的过期时间
const uriCacheEviction = 10 * time.Minute

// TxBurner 事务感知的销毁扣减接口
//
// 记账协作方可选实现：实现后，销毁扣减与UID守卫消费并入同一个
// 存储事务（参考实现Ledger支持）。未实现时扣减在事务提交后执行，
// 原子性退化为"守卫先行"。
type TxBurner interface {
	BurnInTx(tx *slots.TxRegion, from types.Address, tokenID types.TokenID, amount *big.Int) error
}

// TxMinter 事务感知的铸造记账接口
//
// 记账协作方可选实现：实现后，铸造记账与ID分配器的计数器推进
// 并入同一个存储事务——铸造前钩子拒绝时推进随事务一起回滚。
// 未实现时记账在事务内直接执行，提交时机由协作方自己决定。
type TxMinter interface {
	MintInTx(tx *slots.TxRegion, to types.Address, tokenID types.TokenID, amount *big.Int) error
}

// Params 核心门面的依赖集合
type Params struct {
	Store     storage.KVStore
	Manager   *dispatch.Manager
	Hooks     *hooks.Router
	Allocator *tokenid.Allocator
	Guard     *burnguard.Guard
	Ledger    tokenInterface.BalanceLedger
	Access    accessInterface.PermissionChecker
	Events    eventInterface.EventBus
	Logger    log.Logger
}

// Core 宿主核心门面
type Core struct {
	region    *slots.Region
	manager   *dispatch.Manager
	hooks     *hooks.Router
	allocator *tokenid.Allocator
	guard     *burnguard.Guard
	ledger    tokenInterface.BalanceLedger
	access    accessInterface.PermissionChecker
	events    eventInterface.EventBus
	uriCache  *bigcache.BigCache
	logger    log.Logger
}

// NewCore 创建宿主核心门面
func NewCore(p Params) (*Core, error) {
	cache, err := bigcache.New(context.Background(), bigcache.DefaultConfig(uriCacheEviction))
	if err != nil {
		return nil, fmt.Errorf("创建URI缓存失败: %w", err)
	}

	c := &Core{
		region:    slots.NewRegion(p.Store, Namespace),
		manager:   p.Manager,
		hooks:     p.Hooks,
		allocator: p.Allocator,
		guard:     p.Guard,
		ledger:    p.Ledger,
		access:    p.Access,
		events:    p.Events,
		uriCache:  cache,
		logger:    p.Logger.With("module", "token"),
	}

	// 扩展安装/卸载可能更换元数据模块，整体失效URI缓存
	if err := c.events.Subscribe(types.EventExtensionInstalled, c.onExtensionChanged); err != nil {
		return nil, fmt.Errorf("订阅安装事件失败: %w", err)
	}
	if err := c.events.Subscribe(types.EventExtensionUninstalled, c.onExtensionUninstalled); err != nil {
		return nil, fmt.Errorf("订阅卸载事件失败: %w", err)
	}

	return c, nil
}

func (c *Core) onExtensionChanged(evt types.ExtensionInstalledEvent) {
	if err := c.uriCache.Reset(); err != nil {
		c.logger.Warnf("重置URI缓存失败: %v", err)
	}
}

func (c *Core) onExtensionUninstalled(evt types.ExtensionUninstalledEvent) {
	if err := c.uriCache.Reset(); err != nil {
		c.logger.Warnf("重置URI缓存失败: %v", err)
	}
}

// requirePermission 校验调用方持有指定权限位
func (c *Core) requirePermission(ctx context.Context, caller types.Address, bits uint64) error {
	ok, err := c.access.HasPermission(ctx, caller, bits)
	if err != nil {
		return fmt.Errorf("权限校验失败: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: 调用方%s 缺少权限位0x%x", types.ErrUnauthorized, caller.Hex(), bits)
	}
	return nil
}

// ==================== 扩展管理入口 ====================

// InstallExtension 安装扩展模块（管理员门控）
//
// 在正式安装前校验描述符声明的回调选择器与模块实际实现的
// 钩子接口一致，避免安装一个声明了钩子却无法被调用的模块
func (c *Core) InstallExtension(ctx context.Context, caller types.Address, id types.ExtensionID, module extension.Module) error {
	if err := c.requirePermission(ctx, caller, accessInterface.PermissionAdmin); err != nil {
		return err
	}
	if err := hooks.ValidateCallbacks(module, module.GetModuleConfig()); err != nil {
		return fmt.Errorf("模块回调校验失败: %w", err)
	}
	return c.manager.Install(ctx, id, module)
}

// UninstallExtension 卸载扩展模块（管理员门控）
func (c *Core) UninstallExtension(ctx context.Context, caller types.Address, id types.ExtensionID) error {
	if err := c.requirePermission(ctx, caller, accessInterface.PermissionAdmin); err != nil {
		return err
	}
	return c.manager.Uninstall(ctx, id)
}

// Call 处理未匹配核心自身入口的外部调用
// 经派发层解析选择器归属并转发，保留原始调用方上下文
func (c *Core) Call(ctx context.Context, caller types.Address, selector types.Selector, input []byte) ([]byte, error) {
	return c.manager.Dispatch(ctx, types.CallContext{Caller: caller}, selector, input)
}

// ==================== 代币操作 ====================

// resolveTokenIDInTx 在铸造事务中解析使用的代币ID
//
// 优先走已安装的updateTokenId钩子（覆盖模块自行管理其分配状态），
// 没有模块覆盖时在事务内走内建分配器
func (c *Core) resolveTokenIDInTx(ctx context.Context, tx *slots.TxRegion, tokenID types.TokenID) (types.TokenID, error) {
	resolved, err := c.hooks.UpdateTokenID(ctx, tokenID, 1)
	if err == nil {
		return resolved, nil
	}
	if errors.Is(err, types.ErrUpdateTokenIDNotImplemented) {
		return c.allocator.ResolveTokenIDInTx(tx, tokenID, 1)
	}
	return 0, err
}

// Mint 铸造代币（铸造者门控）
//
// tokenID为types.MaxTokenID时分配一个新ID，否则校验该ID已存在。
// ID解析、铸造前钩子、记账在同一个存储事务中完成；任一步骤失败
// 整体回滚，内建分配器的计数器推进不会从失败的铸造中泄漏。
// 铸造前钩子未安装视为"无附加铸造规则"，其余钩子失败中止操作。
// 返回实际铸造的代币ID
func (c *Core) Mint(ctx context.Context, caller, to types.Address, tokenID types.TokenID, amount *big.Int) (types.TokenID, error) {
	if err := c.requirePermission(ctx, caller, accessInterface.PermissionMinter); err != nil {
		return 0, err
	}

	var resolved types.TokenID
	err := c.allocator.Region().RunInTransaction(ctx, func(tx *slots.TxRegion) error {
		var txErr error
		resolved, txErr = c.resolveTokenIDInTx(ctx, tx, tokenID)
		if txErr != nil {
			return txErr
		}

		if _, hookErr := c.hooks.BeforeMint(ctx, to, resolved, amount); hookErr != nil &&
			!errors.Is(hookErr, types.ErrBeforeMintNotImplemented) {
			return hookErr
		}

		if minter, ok := c.ledger.(TxMinter); ok {
			if txErr := minter.MintInTx(tx, to, resolved, amount); txErr != nil {
				return fmt.Errorf("铸造记账失败: %w", txErr)
			}
			return nil
		}
		if txErr := c.ledger.Mint(ctx, to, resolved, amount); txErr != nil {
			return fmt.Errorf("铸造记账失败: %w", txErr)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	c.logger.Infof("铸造完成: to=%s tokenID=%d amount=%s", to.Hex(), resolved, amount)
	return resolved, nil
}

// BurnWithRequest 执行带UID的许可销毁
//
// UID守卫消费、销毁前钩子、记账扣减在同一个存储事务中完成；
// 任一步骤失败整体回滚。守卫消费先于钩子调用，嵌套的重复销毁
// 会在守卫的Exists检查处被拒绝
func (c *Core) BurnWithRequest(ctx context.Context, from types.Address, tokenID types.TokenID, amount *big.Int, uid uuid.UUID) error {
	return c.guard.Region().RunInTransaction(ctx, func(tx *slots.TxRegion) error {
		if err := c.guard.Consume(tx, uid); err != nil {
			return err
		}

		if _, err := c.hooks.BeforeBurn(ctx, from, tokenID, amount); err != nil &&
			!errors.Is(err, types.ErrBeforeBurnNotImplemented) {
			return err
		}

		if burner, ok := c.ledger.(TxBurner); ok {
			return burner.BurnInTx(tx, from, tokenID, amount)
		}
		return c.ledger.Burn(ctx, from, tokenID, amount)
	})
}

// Transfer 执行单笔转账
// 转账前钩子未安装视为"无附加转账规则"
func (c *Core) Transfer(ctx context.Context, from, to types.Address, tokenID types.TokenID, amount *big.Int) error {
	if _, err := c.hooks.BeforeTransfer(ctx, from, to, tokenID, amount); err != nil &&
		!errors.Is(err, types.ErrBeforeTransferNotImplemented) {
		return err
	}
	return c.ledger.TransferBatch(ctx, from, to, []types.TokenID{tokenID}, []*big.Int{amount})
}

// TransferBatch 执行批量转账
func (c *Core) TransferBatch(ctx context.Context, from, to types.Address, tokenIDs []types.TokenID, amounts []*big.Int) error {
	if len(tokenIDs) != len(amounts) {
		return fmt.Errorf("代币ID与数量长度不一致: %d != %d", len(tokenIDs), len(amounts))
	}
	if _, err := c.hooks.BeforeBatchTransfer(ctx, from, to, tokenIDs, amounts); err != nil &&
		!errors.Is(err, types.ErrBeforeBatchTransferNotImplemented) {
		return err
	}
	return c.ledger.TransferBatch(ctx, from, to, tokenIDs, amounts)
}

// BalanceOf 查询余额
func (c *Core) BalanceOf(ctx context.Context, owner types.Address, tokenID types.TokenID) (*big.Int, error) {
	return c.ledger.BalanceOf(ctx, owner, tokenID)
}

// ==================== 元数据与版税查询 ====================

// TokenURI 查询代币元数据URI
//
// 经onTokenURI钩子解析，结果进读缓存；扩展安装/卸载时缓存整体失效。
// 没有模块覆盖该钩子时返回ErrOnTokenURINotImplemented（元数据无来源）
func (c *Core) TokenURI(ctx context.Context, tokenID types.TokenID) (string, error) {
	cacheKey := strconv.FormatUint(tokenID, 10)
	if cached, err := c.uriCache.Get(cacheKey); err == nil {
		return string(cached), nil
	}

	uri, err := c.hooks.OnTokenURI(ctx, tokenID)
	if err != nil {
		return "", err
	}

	if err := c.uriCache.Set(cacheKey, []byte(uri)); err != nil {
		c.logger.Warnf("写入URI缓存失败: tokenID=%d err=%v", tokenID, err)
	}
	return uri, nil
}

// RoyaltyInfo 查询销售价格对应的版税
// 没有模块覆盖onRoyaltyInfo钩子时视为无版税，返回(零地址, 0)
func (c *Core) RoyaltyInfo(ctx context.Context, tokenID types.TokenID, salePrice *big.Int) (types.Address, *big.Int, error) {
	recipient, amount, err := c.hooks.OnRoyaltyInfo(ctx, tokenID, salePrice)
	if err != nil {
		if errors.Is(err, types.ErrOnRoyaltyInfoNotImplemented) {
			return types.ZeroAddress, big.NewInt(0), nil
		}
		return types.ZeroAddress, nil, err
	}
	return recipient, amount, nil
}

// ContractURI 查询合约级元数据URI，未设置时返回空串
func (c *Core) ContractURI(ctx context.Context) (string, error) {
	raw, err := c.region.Get(ctx, keyContractURI)
	if err != nil {
		return "", fmt.Errorf("读取合约URI失败: %w", err)
	}
	return string(raw), nil
}

// SetContractURI 更新合约级元数据URI（配置管理门控）
func (c *Core) SetContractURI(ctx context.Context, caller types.Address, uri string) error {
	if err := c.requirePermission(ctx, caller, accessInterface.PermissionManager); err != nil {
		return err
	}
	if err := c.region.Set(ctx, keyContractURI, []byte(uri)); err != nil {
		return fmt.Errorf("写入合约URI失败: %w", err)
	}

	c.events.Publish(types.EventContractURIUpdated, types.ContractURIUpdatedEvent{URI: uri})
	return nil
}

// Close 释放核心持有的资源
func (c *Core) Close() error {
	return c.uriCache.Close()
}
