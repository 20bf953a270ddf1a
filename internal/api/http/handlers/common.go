// Package handlers 提供管理API的请求处理器
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/mtx/v1/internal/api/http/middleware"
	apitypes "github.com/mtx/v1/internal/api/http/types"
	"github.com/mtx/v1/pkg/types"
)

// callerHeader 携带调用方地址的请求头
// 管理API不做签名验证（外部协作方职责），仅透传调用方身份给权限层
const callerHeader = "X-MTX-Caller"

// respondOK 写入统一成功响应
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, apitypes.NewSuccessResponse(data).WithRequestID(middleware.GetRequestID(c)))
}

// respondErr 写入统一错误响应
func respondErr(c *gin.Context, status int, err error) {
	c.JSON(status, apitypes.NewErrorResponse(err).WithRequestID(middleware.GetRequestID(c)))
}

// respondDomainErr 按领域错误分类写入响应
func respondDomainErr(c *gin.Context, err error) {
	respondErr(c, statusFor(err), err)
}

// statusFor 领域错误到HTTP状态码的映射
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, types.ErrNotInstalled),
		errors.Is(err, types.ErrFunctionNotImplemented):
		return http.StatusNotFound
	case errors.Is(err, types.ErrAlreadyInstalled),
		errors.Is(err, types.ErrSelectorConflict),
		errors.Is(err, types.ErrBurnRequestAlreadyProcessed):
		return http.StatusConflict
	case errors.Is(err, types.ErrMissingRequiredInterface),
		errors.Is(err, types.ErrInvalidBasisPoints),
		errors.Is(err, types.ErrInvalidRecipient),
		errors.Is(err, types.ErrInvalidTokenID),
		errors.Is(err, types.ErrTokenIDOverflow):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// callerAddress 从请求头解析调用方地址
func callerAddress(c *gin.Context) (types.Address, error) {
	raw := c.GetHeader(callerHeader)
	if raw == "" {
		return types.ZeroAddress, fmt.Errorf("缺少%s请求头", callerHeader)
	}
	if !ethcommon.IsHexAddress(raw) {
		return types.ZeroAddress, fmt.Errorf("无效的调用方地址: %s", raw)
	}
	return ethcommon.HexToAddress(raw), nil
}

// parseAddress 解析十六进制地址参数
func parseAddress(raw string) (types.Address, error) {
	if !ethcommon.IsHexAddress(raw) {
		return types.ZeroAddress, fmt.Errorf("无效的地址: %s", raw)
	}
	return ethcommon.HexToAddress(raw), nil
}

// parseTokenID 解析路径中的代币ID参数
func parseTokenID(c *gin.Context, name string) (types.TokenID, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("无效的代币ID: %s", raw)
	}
	return id, nil
}

// parseExtensionID 解析路径中的扩展槽位参数
func parseExtensionID(c *gin.Context, name string) (types.ExtensionID, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("无效的扩展槽位: %s", raw)
	}
	return types.ExtensionID(id), nil
}
