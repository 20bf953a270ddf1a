package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mtx/v1/internal/core/dispatch"
	"github.com/mtx/v1/internal/core/state/fees"
	"github.com/mtx/v1/internal/core/state/royalty"
	"github.com/mtx/v1/internal/core/state/tokenid"
	"github.com/mtx/v1/internal/core/token"
	"github.com/mtx/v1/pkg/interfaces/extension"
	"github.com/mtx/v1/pkg/types"
)

// Catalog 内建扩展模块目录
// HTTP安装入口只能安装进程内已知的内建模块，按规范名称索引
type Catalog map[string]extension.Module

// NewCatalog 创建内建模块目录
func NewCatalog(royaltyMod *royalty.Module, feesMod *fees.Module, tokenidMod *tokenid.Module) Catalog {
	return Catalog{
		royalty.ModuleName: royaltyMod,
		fees.ModuleName:    feesMod,
		tokenid.ModuleName: tokenidMod,
	}
}

// ExtensionHandler 扩展生命周期处理器
type ExtensionHandler struct {
	core    *token.Core
	manager *dispatch.Manager
	catalog Catalog
}

// NewExtensionHandler 创建扩展处理器
func NewExtensionHandler(core *token.Core, manager *dispatch.Manager, catalog Catalog) *ExtensionHandler {
	return &ExtensionHandler{core: core, manager: manager, catalog: catalog}
}

type installRequest struct {
	Module string `json:"module" binding:"required"` // 内建模块的规范名称
}

type extensionInfo struct {
	ExtensionID    types.ExtensionID `json:"extension_id"`
	Implementation string            `json:"implementation"`
}

// Install 安装内建扩展模块
// POST /api/v1/extensions/:id
func (h *ExtensionHandler) Install(c *gin.Context) {
	caller, err := callerAddress(c)
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	id, err := parseExtensionID(c, "id")
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	var req installRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	mod, ok := h.catalog[req.Module]
	if !ok {
		respondErr(c, http.StatusBadRequest, fmt.Errorf("未知的内建模块: %s", req.Module))
		return
	}

	if err := h.core.InstallExtension(c.Request.Context(), caller, id, mod); err != nil {
		respondDomainErr(c, err)
		return
	}

	respondOK(c, extensionInfo{ExtensionID: id, Implementation: mod.ModuleAddress().Hex()})
}

// Uninstall 卸载扩展模块
// DELETE /api/v1/extensions/:id
func (h *ExtensionHandler) Uninstall(c *gin.Context) {
	caller, err := callerAddress(c)
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	id, err := parseExtensionID(c, "id")
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	if err := h.core.UninstallExtension(c.Request.Context(), caller, id); err != nil {
		respondDomainErr(c, err)
		return
	}

	respondOK(c, gin.H{"extension_id": id})
}

// Resolve 解析扩展槽位的实现地址
// GET /api/v1/extensions/:id
func (h *ExtensionHandler) Resolve(c *gin.Context) {
	id, err := parseExtensionID(c, "id")
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	addr := h.manager.Resolve(id)
	respondOK(c, extensionInfo{
		ExtensionID:    id,
		Implementation: addr.Hex(),
	})
}

// List 列出已安装的扩展
// GET /api/v1/extensions
func (h *ExtensionHandler) List(c *gin.Context) {
	installed := h.manager.Installed()
	infos := make([]extensionInfo, 0, len(installed))
	for _, id := range installed {
		infos = append(infos, extensionInfo{
			ExtensionID:    id,
			Implementation: h.manager.Resolve(id).Hex(),
		})
	}
	respondOK(c, infos)
}

// Modules 列出可安装的内建模块目录
// GET /api/v1/modules
func (h *ExtensionHandler) Modules(c *gin.Context) {
	out := make(map[string]string, len(h.catalog))
	for name, mod := range h.catalog {
		out[name] = mod.ModuleAddress().Hex()
	}
	respondOK(c, out)
}
