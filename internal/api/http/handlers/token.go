package handlers

import (
	"errors"
	"math/big"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mtx/v1/internal/core/token"
	"github.com/mtx/v1/pkg/types"
)

// TokenHandler 代币操作处理器
type TokenHandler struct {
	core *token.Core
}

// NewTokenHandler 创建代币处理器
func NewTokenHandler(core *token.Core) *TokenHandler {
	return &TokenHandler{core: core}
}

type mintRequest struct {
	To      string         `json:"to" binding:"required"`
	TokenID *types.TokenID `json:"token_id"` // 省略时分配新ID
	Amount  string         `json:"amount" binding:"required"`
}

type burnRequest struct {
	From    string        `json:"from" binding:"required"`
	TokenID types.TokenID `json:"token_id"`
	Amount  string        `json:"amount" binding:"required"`
	UID     string        `json:"uid" binding:"required"`
}

type transferRequest struct {
	From     string          `json:"from" binding:"required"`
	To       string          `json:"to" binding:"required"`
	TokenIDs []types.TokenID `json:"token_ids" binding:"required"`
	Amounts  []string        `json:"amounts" binding:"required"`
}

// parseAmount 解析十进制数量串
func parseAmount(raw string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, errors.New("无效的数量: " + raw)
	}
	return amount, nil
}

// Mint 铸造代币
// POST /api/v1/tokens/mint
func (h *TokenHandler) Mint(c *gin.Context) {
	caller, err := callerAddress(c)
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	var req mintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	to, err := parseAddress(req.To)
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	tokenID := types.MaxTokenID
	if req.TokenID != nil {
		tokenID = *req.TokenID
	}

	minted, err := h.core.Mint(c.Request.Context(), caller, to, tokenID, amount)
	if err != nil {
		respondDomainErr(c, err)
		return
	}
	respondOK(c, gin.H{"token_id": minted})
}

// Burn 执行带UID的许可销毁
// POST /api/v1/tokens/burn
func (h *TokenHandler) Burn(c *gin.Context) {
	var req burnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	from, err := parseAddress(req.From)
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}
	uid, err := uuid.Parse(req.UID)
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	if err := h.core.BurnWithRequest(c.Request.Context(), from, req.TokenID, amount, uid); err != nil {
		respondDomainErr(c, err)
		return
	}
	respondOK(c, gin.H{"status": "burned"})
}

// Transfer 执行批量转账
// POST /api/v1/tokens/transfer
func (h *TokenHandler) Transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	from, err := parseAddress(req.From)
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}
	to, err := parseAddress(req.To)
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	amounts := make([]*big.Int, 0, len(req.Amounts))
	for _, raw := range req.Amounts {
		amount, err := parseAmount(raw)
		if err != nil {
			respondErr(c, http.StatusBadRequest, err)
			return
		}
		amounts = append(amounts, amount)
	}

	if err := h.core.TransferBatch(c.Request.Context(), from, to, req.TokenIDs, amounts); err != nil {
		respondDomainErr(c, err)
		return
	}
	respondOK(c, gin.H{"status": "transferred"})
}

// Balance 查询余额
// GET /api/v1/tokens/:tokenId/balance/:owner
func (h *TokenHandler) Balance(c *gin.Context) {
	tokenID, err := parseTokenID(c, "tokenId")
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}
	owner, err := parseAddress(c.Param("owner"))
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	balance, err := h.core.BalanceOf(c.Request.Context(), owner, tokenID)
	if err != nil {
		respondDomainErr(c, err)
		return
	}
	respondOK(c, gin.H{"balance": balance.String()})
}

// URI 查询代币元数据URI
// GET /api/v1/tokens/:tokenId/uri
func (h *TokenHandler) URI(c *gin.Context) {
	tokenID, err := parseTokenID(c, "tokenId")
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	uri, err := h.core.TokenURI(c.Request.Context(), tokenID)
	if err != nil {
		if errors.Is(err, types.ErrOnTokenURINotImplemented) {
			respondErr(c, http.StatusNotFound, err)
			return
		}
		respondDomainErr(c, err)
		return
	}
	respondOK(c, gin.H{"uri": uri})
}

// Royalty 查询销售价格对应的版税
// GET /api/v1/tokens/:tokenId/royalty?sale_price=N
func (h *TokenHandler) Royalty(c *gin.Context) {
	tokenID, err := parseTokenID(c, "tokenId")
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}
	salePrice, err := parseAmount(c.DefaultQuery("sale_price", "0"))
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	recipient, amount, err := h.core.RoyaltyInfo(c.Request.Context(), tokenID, salePrice)
	if err != nil {
		respondDomainErr(c, err)
		return
	}
	respondOK(c, gin.H{
		"recipient": recipient.Hex(),
		"amount":    amount.String(),
	})
}

// ContractURI 查询合约级元数据URI
// GET /api/v1/contract/uri
func (h *TokenHandler) ContractURI(c *gin.Context) {
	uri, err := h.core.ContractURI(c.Request.Context())
	if err != nil {
		respondDomainErr(c, err)
		return
	}
	respondOK(c, gin.H{"uri": uri})
}

type contractURIRequest struct {
	URI string `json:"uri" binding:"required"`
}

// SetContractURI 更新合约级元数据URI
// PUT /api/v1/contract/uri
func (h *TokenHandler) SetContractURI(c *gin.Context) {
	caller, err := callerAddress(c)
	if err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	var req contractURIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, err)
		return
	}

	if err := h.core.SetContractURI(c.Request.Context(), caller, req.URI); err != nil {
		respondDomainErr(c, err)
		return
	}
	respondOK(c, gin.H{"uri": req.URI})
}
