package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mtx/v1/internal/core/state/fees"
	"github.com/mtx/v1/internal/core/state/royalty"
	"github.com/mtx/v1/internal/core/token"
	"github.com/mtx/v1/pkg/types"
)

// ConfigHandler 版税/费用配置处理器
//
// 写操作经宿主核心的派发入口转发：选择器归属校验、权限位门控、
// 参数校验全部复用派发层与模块自身的逻辑（模块未安装时写入404）。
// 读操作直接走状态存储
type ConfigHandler struct {
	core    *token.Core
	royalty *royalty.Store
	fees    *fees.Store
}

// NewConfigHandler 创建配置处理器
func NewConfigHandler(core *token.Core, royaltyStore *royalty.Store, feesStore *fees.Store) *ConfigHandler {
	return &ConfigHandler{core: core, royalty: royaltyStore, fees: feesStore}
}

// dispatchWrite 把配置写请求原样转发到指定选择器
func (h *ConfigHandler) dispatchWrite(c *gin.Context, selector types.Selector) {
	caller, err := callerAddress(c)
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	input, err := c.GetRawData()
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	output, err := h.core.Call(c.Request.Context(), caller, selector, input)
	if err != nil {
		respondDomainErr(c, err)
		return
	}

	if len(output) == 0 {
		respondOK(c, gin.H{"status": "ok"})
		return
	}
	respondOK(c, json.RawMessage(output))
}

// SetDefaultRoyalty 更新合约默认版税
// PUT /api/v1/royalty/default
func (h *ConfigHandler) SetDefaultRoyalty(c *gin.Context) {
	h.dispatchWrite(c, royalty.SelSetDefaultRoyalty)
}

// SetTokenRoyalty 更新按代币版税
// PUT /api/v1/royalty/token
func (h *ConfigHandler) SetTokenRoyalty(c *gin.Context) {
	h.dispatchWrite(c, royalty.SelSetTokenRoyalty)
}

// GetDefaultRoyalty 查询合约默认版税
// GET /api/v1/royalty/default
func (h *ConfigHandler) GetDefaultRoyalty(c *gin.Context) {
	record, err := h.royalty.DefaultRoyalty(c.Request.Context())
	if err != nil {
		respondDomainErr(c, err)
		return
	}
	respondOK(c, record)
}

// GetTokenRoyalty 查询按代币版税覆盖值
// GET /api/v1/royalty/token/:tokenId
func (h *ConfigHandler) GetTokenRoyalty(c *gin.Context) {
	tokenID, err := parseTokenID(c, "tokenId")
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	record, err := h.royalty.TokenRoyalty(c.Request.Context(), tokenID)
	if err != nil {
		respondDomainErr(c, err)
		return
	}
	respondOK(c, record)
}

// SetDefaultFeeConfig 更新合约默认费用配置
// PUT /api/v1/fees/default
func (h *ConfigHandler) SetDefaultFeeConfig(c *gin.Context) {
	h.dispatchWrite(c, fees.SelSetDefaultFeeConfig)
}

// SetTokenFeeConfig 更新按代币费用配置
// PUT /api/v1/fees/token
func (h *ConfigHandler) SetTokenFeeConfig(c *gin.Context) {
	h.dispatchWrite(c, fees.SelSetTokenFeeConfig)
}

// GetDefaultFeeConfig 查询合约默认费用配置
// GET /api/v1/fees/default
func (h *ConfigHandler) GetDefaultFeeConfig(c *gin.Context) {
	config, err := h.fees.DefaultFeeConfig(c.Request.Context())
	if err != nil {
		respondDomainErr(c, err)
		return
	}
	respondOK(c, config)
}

// GetTokenFeeConfig 查询按代币有效费用配置（覆盖值优先）
// GET /api/v1/fees/token/:tokenId
func (h *ConfigHandler) GetTokenFeeConfig(c *gin.Context) {
	tokenID, err := parseTokenID(c, "tokenId")
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	config, err := h.fees.EffectiveFeeConfig(c.Request.Context(), tokenID)
	if err != nil {
		respondDomainErr(c, err)
		return
	}
	respondOK(c, config)
}
