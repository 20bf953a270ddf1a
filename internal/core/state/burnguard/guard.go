// Package burnguard 提供销毁请求UID的重放守卫
//
// 🔐 **幂等性守卫**：
// 每个销毁请求携带唯一UID，UID只能被消费一次。消费必须与销毁的
// 记账变更在同一存储事务中完成——不存在"销毁成功但UID未消费"
// 或相反的窗口。
//
// ⚠️ **重入约束**：
// 守卫写入必须发生在任何可重入的转发调用（销毁前钩子）之前，
// 嵌套的重复销毁会在事务内的Exists检查处被拒绝。
package burnguard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mtx/v1/internal/core/slots"
	log "github.com/mtx/v1/pkg/interfaces/infrastructure/log"
	storage "github.com/mtx/v1/pkg/interfaces/infrastructure/storage"
	"github.com/mtx/v1/pkg/types"
)

// Namespace 销毁守卫状态的命名空间
const Namespace = "mtx.burnguard.storage"

var keyUIDPrefix = []byte("uid/") // uid/<16字节uuid> → 1字节标记

// Guard 销毁UID重放守卫
type Guard struct {
	region *slots.Region
	logger log.Logger
}

// New 创建销毁UID守卫
func New(store storage.KVStore, logger log.Logger) *Guard {
	return &Guard{
		region: slots.NewRegion(store, Namespace),
		logger: logger.With("module", "burnguard"),
	}
}

// Region 返回守卫的存储区域
// 销毁流程以该区域为锚点开启跨组件事务
func (g *Guard) Region() *slots.Region {
	return g.region
}

// uidKey 构建UID标记的子键
func uidKey(uid uuid.UUID) []byte {
	key := make([]byte, 0, len(keyUIDPrefix)+16)
	key = append(key, keyUIDPrefix...)
	return append(key, uid[:]...)
}

// Consume 在事务中消费UID
//
// UID已是集合成员时返回ErrBurnRequestAlreadyProcessed；
// 否则写入成员标记。必须在同一事务内先于任何余额变更调用
func (g *Guard) Consume(tx *slots.TxRegion, uid uuid.UUID) error {
	gtx := tx.In(g.region)

	exists, err := gtx.Exists(uidKey(uid))
	if err != nil {
		return fmt.Errorf("检查销毁UID失败: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %s", types.ErrBurnRequestAlreadyProcessed, uid)
	}

	if err := gtx.Set(uidKey(uid), []byte{1}); err != nil {
		return fmt.Errorf("写入销毁UID标记失败: %w", err)
	}
	return nil
}

// Consumed 查询UID是否已被消费
func (g *Guard) Consumed(ctx context.Context, uid uuid.UUID) (bool, error) {
	return g.region.Exists(ctx, uidKey(uid))
}
