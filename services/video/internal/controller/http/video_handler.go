package http

import (
	"net/http"
	"strconv"

	"monadtok/pkg/flow"
	"monadtok/pkg/logger"
	"monadtok/services/video/internal/entity"
	"monadtok/services/video/internal/usecase"

	"github.com/gin-gonic/gin"
)

type VideoHandler struct {
	videoUseCase usecase.VideoUseCase
	logger       *logger.Logger
}

func NewVideoHandler(videoUseCase usecase.VideoUseCase, logger *logger.Logger) *VideoHandler {
	return &VideoHandler{
		videoUseCase: videoUseCase,
		logger:       logger,
	}
}

func (h *VideoHandler) formatVideoResponse(video *entity.Video) map[string]interface{} {
	return map[string]interface{}{
		"id":             video.ID,
		"video_url":      video.VideoURL,
		"description":    video.Description,
		"creator_wallet": video.CreatorWallet,
		"is_exclusive":   video.IsExclusive,
		"price":          video.Price,
		"created_at":     video.CreatedAt,
		"updated_at":     video.UpdatedAt,
	}
}

type UploadVideoRequest struct {
	Description string  `form:"description"`
	IsExclusive bool    `form:"is_exclusive"`
	Price       float64 `form:"price"`
}

// UploadVideo godoc
// @Summary      Upload a video
// @Description  Upload a video file with metadata. Exclusive videos carry a price in MON; the flow reports fixed progress checkpoints which are echoed in the response.
// @Tags         videos
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        video formData file true "Video file (mp4/webm/mov)"
// @Param        description formData string false "Video description"
// @Param        is_exclusive formData bool false "Whether the video is pay-to-unlock"
// @Param        price formData number false "Unlock price in MON (exclusive videos only)"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /videos [post]
func (h *VideoHandler) UploadVideo(c *gin.Context) {
	wallet := c.GetString("user_id")

	var req UploadVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fileHeader, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Video file is required"})
		return
	}

	var progress []flow.Progress
	video, err := h.videoUseCase.UploadVideo(
		c.Request.Context(),
		wallet,
		req.Description,
		req.IsExclusive,
		req.Price,
		fileHeader,
		func(p flow.Progress) { progress = append(progress, p) },
	)
	if err != nil {
		switch err.Error() {
		case "video file is required", "file must be a video", "price must be greater than zero for exclusive videos":
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "progress": progress})
			return
		}
		h.logger.Error("Failed to upload video: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "progress": progress})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"video":    h.formatVideoResponse(video),
		"progress": progress,
	})
}

// GetVideo godoc
// @Summary      Get video by ID
// @Description  Get video details by ID
// @Tags         videos
// @Accept       json
// @Produce      json
// @Param        id path string true "Video ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /videos/{id} [get]
func (h *VideoHandler) GetVideo(c *gin.Context) {
	videoID := c.Param("id")

	video, err := h.videoUseCase.GetVideo(videoID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}

	c.JSON(http.StatusOK, h.formatVideoResponse(video))
}

// ListVideos godoc
// @Summary      List videos
// @Description  Get the global feed, newest first
// @Tags         videos
// @Accept       json
// @Produce      json
// @Param        limit query int false "Page size (default 20)"
// @Param        offset query int false "Page offset"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /videos [get]
func (h *VideoHandler) ListVideos(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	videos, err := h.videoUseCase.ListVideos(limit, offset)
	if err != nil {
		h.logger.Error("Failed to list videos: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch videos"})
		return
	}

	response := make([]map[string]interface{}, len(videos))
	for i, video := range videos {
		response[i] = h.formatVideoResponse(video)
	}

	c.JSON(http.StatusOK, gin.H{"videos": response, "count": len(response)})
}

// GetCreatorVideos godoc
// @Summary      List a creator's videos
// @Description  Get all videos uploaded by a wallet, newest first
// @Tags         videos
// @Accept       json
// @Produce      json
// @Param        address path string true "Creator wallet address"
// @Param        limit query int false "Page size (default 20)"
// @Param        offset query int false "Page offset"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /videos/creator/{address} [get]
func (h *VideoHandler) GetCreatorVideos(c *gin.Context) {
	address := c.Param("address")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	videos, err := h.videoUseCase.GetCreatorVideos(address, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list creator videos: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch videos"})
		return
	}

	response := make([]map[string]interface{}, len(videos))
	for i, video := range videos {
		response[i] = h.formatVideoResponse(video)
	}

	c.JSON(http.StatusOK, gin.H{"videos": response, "count": len(response)})
}

// DeleteVideo godoc
// @Summary      Delete a video
// @Description  Delete a video. Only the creator can delete their own videos; the backing file is removed before the record.
// @Tags         videos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Video ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /videos/{id} [delete]
func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	videoID := c.Param("id")
	wallet := c.GetString("user_id")

	if err := h.videoUseCase.DeleteVideo(videoID, wallet); err != nil {
		if err.Error() == "you can only delete your own videos" {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		if err.Error() == "record not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
			return
		}
		h.logger.Error("Failed to delete video: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete video"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Video deleted"})
}
