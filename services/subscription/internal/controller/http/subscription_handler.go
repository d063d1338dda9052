package http

import (
	"errors"
	"net/http"

	"monadtok/pkg/flow"
	"monadtok/pkg/logger"
	"monadtok/services/subscription/internal/usecase"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptionUseCase usecase.SubscriptionUseCase
	logger              *logger.Logger
}

func NewSubscriptionHandler(subscriptionUseCase usecase.SubscriptionUseCase, logger *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionUseCase: subscriptionUseCase,
		logger:              logger,
	}
}

type DeployRequest struct {
	Name         string  `form:"name" binding:"required"`
	Symbol       string  `form:"symbol" binding:"required"`
	Price        float64 `form:"price" binding:"required"`
	MaxSupply    uint64  `form:"max_supply"`
	MaxPerWallet uint64  `form:"max_per_wallet"`
}

// Deploy godoc
// @Summary      Deploy a subscription contract
// @Description  Deploy the creator's NFT subscription contract. Runs the upload/sign/confirm/save flow and echoes the fixed progress checkpoints. Redeploying replaces the previous contract reference.
// @Tags         subscriptions
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        name formData string true "Subscription name"
// @Param        symbol formData string true "Ticker symbol (3-10 alphanumerics after sanitization)"
// @Param        price formData number true "Mint price in MON"
// @Param        max_supply formData int false "Maximum supply (default 1000)"
// @Param        max_per_wallet formData int false "Maximum mints per wallet (default 1)"
// @Param        image formData file false "Subscription image"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /subscriptions/deploy [post]
func (h *SubscriptionHandler) Deploy(c *gin.Context) {
	wallet := c.GetString("user_id")

	var req DeployRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := usecase.DeployInput{
		Name:         req.Name,
		Symbol:       req.Symbol,
		Price:        req.Price,
		MaxSupply:    req.MaxSupply,
		MaxPerWallet: req.MaxPerWallet,
	}
	if image, err := c.FormFile("image"); err == nil {
		input.Image = image
	}

	var progress []flow.Progress
	result, err := h.subscriptionUseCase.Deploy(
		c.Request.Context(),
		wallet,
		input,
		func(p flow.Progress) { progress = append(progress, p) },
	)
	if err != nil {
		if errors.Is(err, flow.ErrInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		switch err.Error() {
		case "please fill in all required fields",
			"price must be greater than zero",
			"symbol must be 3-10 alphanumeric characters",
			"subscription image must be an image file":
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "progress": progress})
			return
		}
		h.logger.Error("Deployment failed for %s: %v", wallet, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "progress": progress})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"tx_hash":          result.TxHash,
		"contract_address": result.ContractAddress,
		"progress":         progress,
	})
}

// GetDetails godoc
// @Summary      Get subscription contract details
// @Description  Read the on-chain state of a subscription contract. Authenticated viewers also get their own mint count and subscription status.
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Param        contract path string true "Contract address"
// @Success      200  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]string
// @Router       /subscriptions/{contract} [get]
func (h *SubscriptionHandler) GetDetails(c *gin.Context) {
	contract := c.Param("contract")
	viewer := c.GetString("user_id")

	details, err := h.subscriptionUseCase.GetDetails(c.Request.Context(), contract, viewer)
	if err != nil {
		h.logger.Error("Failed to read subscription %s: %v", contract, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to read contract"})
		return
	}

	c.JSON(http.StatusOK, details)
}

type ConfirmMintRequest struct {
	TxHash string `json:"tx_hash" binding:"required"`
}

// ConfirmMint godoc
// @Summary      Confirm a mint transaction
// @Description  Verify a buyer-signed mint transaction by hash. The buyer submits the transaction from their own wallet; the service only confirms it minted to them.
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        contract path string true "Contract address"
// @Param        request body ConfirmMintRequest true "Transaction hash"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      402  {object}  map[string]string
// @Router       /subscriptions/{contract}/mint [post]
func (h *SubscriptionHandler) ConfirmMint(c *gin.Context) {
	contract := c.Param("contract")
	wallet := c.GetString("user_id")

	var req ConfirmMintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subscribed, err := h.subscriptionUseCase.ConfirmMint(c.Request.Context(), contract, wallet, req.TxHash)
	if err != nil {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscribed": subscribed})
}

// GetEarnings godoc
// @Summary      Get creator earnings
// @Description  Current contract balance, total minted, lifetime revenue and the subscriber list derived from transfer events (newest token first).
// @Tags         earnings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /earnings [get]
func (h *SubscriptionHandler) GetEarnings(c *gin.Context) {
	wallet := c.GetString("user_id")

	earnings, err := h.subscriptionUseCase.Earnings(c.Request.Context(), wallet)
	if err != nil {
		if err.Error() == "no subscription contract deployed" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to compute earnings for %s: %v", wallet, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute earnings"})
		return
	}

	c.JSON(http.StatusOK, earnings)
}

// Withdraw godoc
// @Summary      Withdraw contract balance
// @Description  Submit the zero-argument withdraw transaction on the creator's contract, wait for it to mine and return the refreshed balance.
// @Tags         earnings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /earnings/withdraw [post]
func (h *SubscriptionHandler) Withdraw(c *gin.Context) {
	wallet := c.GetString("user_id")

	result, err := h.subscriptionUseCase.Withdraw(c.Request.Context(), wallet)
	if err != nil {
		if errors.Is(err, flow.ErrInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		if err.Error() == "no subscription contract deployed" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Withdrawal failed for %s: %v", wallet, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tx_hash": result.TxHash,
		"balance": result.Balance,
	})
}
