package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mtx/v1/internal/core/access"
	accessInterface "github.com/mtx/v1/pkg/interfaces/infrastructure/access"
	"github.com/mtx/v1/pkg/types"
)

// AccessHandler 权限管理处理器
// 授予/撤销要求调用方持有管理员权限位
type AccessHandler struct {
	store *access.Store
}

// NewAccessHandler 创建权限处理器
func NewAccessHandler(store *access.Store) *AccessHandler {
	return &AccessHandler{store: store}
}

type permissionRequest struct {
	Account string `json:"account" binding:"required"`
	Bits    uint64 `json:"bits" binding:"required"`
}

// requireAdmin 校验调用方持有管理员权限位
func (h *AccessHandler) requireAdmin(c *gin.Context) (types.Address, bool) {
	caller, err := callerAddress(c)
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return types.ZeroAddress, false
	}

	ok, err := h.store.HasPermission(c.Request.Context(), caller, accessInterface.PermissionAdmin)
	if err != nil {
		respondErr(c, http.StatusInternalServerError, err)
		return types.ZeroAddress, false
	}
	if !ok {
		respondErr(c, http.StatusForbidden, types.ErrUnauthorized)
		return types.ZeroAddress, false
	}
	return caller, true
}

// Grant 授予权限位
// POST /api/v1/permissions/grant
func (h *AccessHandler) Grant(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	var req permissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	account, err := parseAddress(req.Account)
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	if err := h.store.Grant(c.Request.Context(), account, req.Bits); err != nil {
		respondDomainErr(c, err)
		return
	}
	respondOK(c, gin.H{"account": account.Hex(), "bits": req.Bits})
}

// Revoke 撤销权限位
// POST /api/v1/permissions/revoke
func (h *AccessHandler) Revoke(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	var req permissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	account, err := parseAddress(req.Account)
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	if err := h.store.Revoke(c.Request.Context(), account, req.Bits); err != nil {
		respondDomainErr(c, err)
		return
	}
	respondOK(c, gin.H{"account": account.Hex(), "bits": req.Bits})
}

// Query 查询账户权限位
// GET /api/v1/permissions/:account
func (h *AccessHandler) Query(c *gin.Context) {
	account, err := parseAddress(c.Param("account"))
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	bits, err := h.store.Permissions(c.Request.Context(), account)
	if err != nil {
		respondDomainErr(c, err)
		return
	}
	respondOK(c, gin.H{"account": account.Hex(), "bits": bits})
}
