package http

import (
	"errors"
	"net/http"

	"monadtok/pkg/flow"
	"monadtok/pkg/logger"
	"monadtok/services/unlock/internal/usecase"

	"github.com/gin-gonic/gin"
)

type UnlockHandler struct {
	unlockUseCase usecase.UnlockUseCase
	logger        *logger.Logger
}

func NewUnlockHandler(unlockUseCase usecase.UnlockUseCase, logger *logger.Logger) *UnlockHandler {
	return &UnlockHandler{
		unlockUseCase: unlockUseCase,
		logger:        logger,
	}
}

type UnlockRequest struct {
	TxHash string `json:"tx_hash" binding:"required"`
}

// Unlock godoc
// @Summary      Unlock an exclusive video
// @Description  Verify the buyer's payment transaction for an exclusive video and record a permanent unlock. A video already unlocked by the buyer confirms again without a new payment.
// @Tags         unlocks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Video ID"
// @Param        request body UnlockRequest true "Payment transaction hash"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      402  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /videos/{id}/unlock [post]
func (h *UnlockHandler) Unlock(c *gin.Context) {
	videoID := c.Param("id")
	wallet := c.GetString("user_id")

	var req UnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var progress []flow.Progress
	unlock, err := h.unlockUseCase.Unlock(
		c.Request.Context(),
		videoID,
		wallet,
		req.TxHash,
		func(p flow.Progress) { progress = append(progress, p) },
	)
	if err != nil {
		if errors.Is(err, flow.ErrInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		switch err.Error() {
		case "video not found":
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		case "video is not exclusive",
			"creators do not need to unlock their own videos":
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Unlock failed for video %s buyer %s: %v", videoID, wallet, err)
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error(), "progress": progress})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unlocked": true,
		"video_id": unlock.VideoID,
		"tx_hash":  unlock.TxHash,
		"progress": progress,
	})
}

// GetStatus godoc
// @Summary      Get unlock status for a video
// @Description  Report whether the viewer can play the video. Free videos are always unlocked; exclusive videos require a recorded payment or creator ownership.
// @Tags         unlocks
// @Accept       json
// @Produce      json
// @Param        id path string true "Video ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /videos/{id}/unlock [get]
func (h *UnlockHandler) GetStatus(c *gin.Context) {
	videoID := c.Param("id")
	viewer := c.GetString("user_id")

	unlocked, err := h.unlockUseCase.Status(videoID, viewer)
	if err != nil {
		if err.Error() == "video not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to read unlock status for video %s: %v", videoID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get unlock status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"video_id": videoID,
		"unlocked": unlocked,
	})
}
