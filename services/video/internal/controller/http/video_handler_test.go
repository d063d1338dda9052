package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"monadtok/pkg/flow"
	"monadtok/pkg/logger"
	"monadtok/services/video/internal/entity"
	"monadtok/services/video/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockVideoUseCase is a mock implementation of VideoUseCase
type MockVideoUseCase struct {
	mock.Mock
}

func (m *MockVideoUseCase) UploadVideo(ctx context.Context, wallet, description string, isExclusive bool, price float64, fileHeader *multipart.FileHeader, onProgress flow.ProgressFunc) (*entity.Video, error) {
	args := m.Called(ctx, wallet, description, isExclusive, price, fileHeader, onProgress)
	if onProgress != nil {
		onProgress(flow.Progress{Percent: 100, Status: "complete", Message: "Upload complete!"})
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Video), args.Error(1)
}

func (m *MockVideoUseCase) GetVideo(videoID string) (*entity.Video, error) {
	args := m.Called(videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Video), args.Error(1)
}

func (m *MockVideoUseCase) ListVideos(limit, offset int) ([]*entity.Video, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Video), args.Error(1)
}

func (m *MockVideoUseCase) GetCreatorVideos(wallet string, limit, offset int) ([]*entity.Video, error) {
	args := m.Called(wallet, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Video), args.Error(1)
}

func (m *MockVideoUseCase) DeleteVideo(videoID, wallet string) error {
	args := m.Called(videoID, wallet)
	return args.Error(0)
}

var _ usecase.VideoUseCase = (*MockVideoUseCase)(nil)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

const testWallet = "0x1111111111111111111111111111111111111111"

func multipartUpload(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("video", "clip.mp4")
	assert.NoError(t, err)
	_, err = part.Write([]byte("video-bytes"))
	assert.NoError(t, err)
	for k, v := range fields {
		assert.NoError(t, writer.WriteField(k, v))
	}
	assert.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadVideo(t *testing.T) {
	mockUseCase := new(MockVideoUseCase)
	handler := NewVideoHandler(mockUseCase, logger.New())

	video := &entity.Video{ID: "v1", VideoURL: "https://cdn.example.com/clip.mp4", CreatorWallet: testWallet}
	mockUseCase.On("UploadVideo", mock.Anything, testWallet, "my clip", true, 1.5, mock.Anything, mock.Anything).
		Return(video, nil)

	router := setupTestRouter()
	router.POST("/videos", func(c *gin.Context) {
		c.Set("user_id", testWallet)
		handler.UploadVideo(c)
	})

	body, contentType := multipartUpload(t, map[string]string{
		"description":  "my clip",
		"is_exclusive": "true",
		"price":        "1.5",
	})
	req := httptest.NewRequest("POST", "/videos", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.NotNil(t, response["video"])
	assert.NotEmpty(t, response["progress"])
	mockUseCase.AssertExpectations(t)
}

func TestUploadVideo_MissingFile(t *testing.T) {
	mockUseCase := new(MockVideoUseCase)
	handler := NewVideoHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/videos", func(c *gin.Context) {
		c.Set("user_id", testWallet)
		handler.UploadVideo(c)
	})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	assert.NoError(t, writer.WriteField("description", "no file"))
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/videos", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUseCase.AssertNotCalled(t, "UploadVideo")
}

func TestListVideos(t *testing.T) {
	mockUseCase := new(MockVideoUseCase)
	handler := NewVideoHandler(mockUseCase, logger.New())

	videos := []*entity.Video{
		{ID: "v2", CreatorWallet: testWallet},
		{ID: "v1", CreatorWallet: testWallet},
	}
	mockUseCase.On("ListVideos", 20, 0).Return(videos, nil)

	router := setupTestRouter()
	router.GET("/videos", handler.ListVideos)

	req := httptest.NewRequest("GET", "/videos", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, float64(2), response["count"])
	mockUseCase.AssertExpectations(t)
}

func TestGetVideo_NotFound(t *testing.T) {
	mockUseCase := new(MockVideoUseCase)
	handler := NewVideoHandler(mockUseCase, logger.New())

	mockUseCase.On("GetVideo", "missing").Return(nil, errors.New("record not found"))

	router := setupTestRouter()
	router.GET("/videos/:id", handler.GetVideo)

	req := httptest.NewRequest("GET", "/videos/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteVideo_Forbidden(t *testing.T) {
	mockUseCase := new(MockVideoUseCase)
	handler := NewVideoHandler(mockUseCase, logger.New())

	mockUseCase.On("DeleteVideo", "v1", testWallet).
		Return(errors.New("you can only delete your own videos"))

	router := setupTestRouter()
	router.DELETE("/videos/:id", func(c *gin.Context) {
		c.Set("user_id", testWallet)
		handler.DeleteVideo(c)
	})

	req := httptest.NewRequest("DELETE", "/videos/v1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockUseCase.AssertExpectations(t)
}
