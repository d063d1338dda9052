package http

import (
	"net/http"
	"path/filepath"
	"strings"

	"monadtok/pkg/logger"
	"monadtok/services/user/internal/entity"
	"monadtok/services/user/internal/usecase"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userUseCase usecase.UserUseCase
	logger      *logger.Logger
}

func NewUserHandler(userUseCase usecase.UserUseCase, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

func (h *UserHandler) formatUserResponse(user *entity.User) map[string]interface{} {
	response := map[string]interface{}{
		"wallet_address": user.WalletAddress,
		"username":       user.Username,
		"avatar_url":     user.AvatarURL,
		"created_at":     user.CreatedAt,
		"updated_at":     user.UpdatedAt,
	}

	if user.HasSubscriptionContract() {
		response["subscription_contract_address"] = user.SubscriptionContractAddress
		response["subscription_name"] = user.SubscriptionName
		response["subscription_symbol"] = user.SubscriptionSymbol
		response["subscription_price"] = user.SubscriptionPrice
		response["subscription_image_url"] = user.SubscriptionImageURL
	}

	return response
}

// GetNonce godoc
// @Summary      Request a login nonce
// @Description  Issue a one-time nonce for the wallet to sign
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        address query string true "Wallet address"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /auth/nonce [get]
func (h *UserHandler) GetNonce(c *gin.Context) {
	address := c.Query("address")
	if !strings.HasPrefix(address, "0x") || len(address) != 42 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet address"})
		return
	}

	nonce, err := h.userUseCase.Nonce(c.Request.Context(), address)
	if err != nil {
		h.logger.Error("Failed to issue nonce: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue nonce"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"nonce":   nonce,
		"message": usecase.LoginMessage(nonce),
	})
}

type VerifyRequest struct {
	Address   string `json:"address" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// Verify godoc
// @Summary      Verify a signed nonce
// @Description  Exchange a wallet signature over the issued nonce for a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body VerifyRequest true "Address and signature"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/verify [post]
func (h *UserHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.userUseCase.Verify(c.Request.Context(), req.Address, req.Signature)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  h.formatUserResponse(user),
	})
}

// GetUser godoc
// @Summary      Get user profile
// @Description  Get a user's public profile by wallet address
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        address path string true "Wallet address"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /users/{address} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	address := c.Param("address")

	user, err := h.userUseCase.GetUser(address)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, h.formatUserResponse(user))
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Description  Update the authenticated user's username
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body object true "Update data" SchemaExample({"username":"alice"})
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	wallet := c.GetString("user_id")

	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userUseCase.UpdateUsername(wallet, req.Username)
	if err != nil {
		if err.Error() == "username cannot be empty" {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to update profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, h.formatUserResponse(user))
}

// UploadAvatar godoc
// @Summary      Upload avatar
// @Description  Upload a profile picture for the authenticated user
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar formData file true "Avatar image (jpg/jpeg/png)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users/me/avatar [post]
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	wallet := c.GetString("user_id")

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Avatar file is required"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only jpg, jpeg and png files are allowed"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open file"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	user, err := h.userUseCase.UploadAvatar(wallet, file, ext, contentType)
	if err != nil {
		h.logger.Error("Failed to upload avatar: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload avatar"})
		return
	}

	c.JSON(http.StatusOK, h.formatUserResponse(user))
}
