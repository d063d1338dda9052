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
	"monadtok/services/subscription/internal/entity"
	"monadtok/services/subscription/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockSubscriptionUseCase is a mock implementation of SubscriptionUseCase
type MockSubscriptionUseCase struct {
	mock.Mock
}

func (m *MockSubscriptionUseCase) Deploy(ctx context.Context, wallet string, input usecase.DeployInput, onProgress flow.ProgressFunc) (*entity.DeployResult, error) {
	args := m.Called(ctx, wallet, input, onProgress)
	if onProgress != nil {
		onProgress(flow.Progress{Percent: 100, Status: "complete", Message: "Subscription created!"})
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DeployResult), args.Error(1)
}

func (m *MockSubscriptionUseCase) GetDetails(ctx context.Context, contract, viewerWallet string) (*entity.SubscriptionDetails, error) {
	args := m.Called(ctx, contract, viewerWallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SubscriptionDetails), args.Error(1)
}

func (m *MockSubscriptionUseCase) ConfirmMint(ctx context.Context, contract, buyerWallet, txHash string) (bool, error) {
	args := m.Called(ctx, contract, buyerWallet, txHash)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionUseCase) Earnings(ctx context.Context, wallet string) (*entity.Earnings, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Earnings), args.Error(1)
}

func (m *MockSubscriptionUseCase) Withdraw(ctx context.Context, wallet string) (*entity.WithdrawResult, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.WithdrawResult), args.Error(1)
}

var _ usecase.SubscriptionUseCase = (*MockSubscriptionUseCase)(nil)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

const (
	testWallet   = "0x1111111111111111111111111111111111111111"
	testContract = "0x2222222222222222222222222222222222222222"
)

func TestDeploy(t *testing.T) {
	mockUseCase := new(MockSubscriptionUseCase)
	handler := NewSubscriptionHandler(mockUseCase, logger.New())

	result := &entity.DeployResult{TxHash: "0xabc", ContractAddress: testContract}
	mockUseCase.On("Deploy", mock.Anything, testWallet, mock.MatchedBy(func(in usecase.DeployInput) bool {
		return in.Name == "Alice Fans" && in.Symbol == "ALICE" && in.Price == 1.5
	}), mock.Anything).Return(result, nil)

	router := setupTestRouter()
	router.POST("/subscriptions/deploy", func(c *gin.Context) {
		c.Set("user_id", testWallet)
		handler.Deploy(c)
	})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	assert.NoError(t, writer.WriteField("name", "Alice Fans"))
	assert.NoError(t, writer.WriteField("symbol", "ALICE"))
	assert.NoError(t, writer.WriteField("price", "1.5"))
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/subscriptions/deploy", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, testContract, response["contract_address"])
	assert.NotEmpty(t, response["progress"])
	mockUseCase.AssertExpectations(t)
}

func TestDeploy_MissingFields(t *testing.T) {
	mockUseCase := new(MockSubscriptionUseCase)
	handler := NewSubscriptionHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/subscriptions/deploy", func(c *gin.Context) {
		c.Set("user_id", testWallet)
		handler.Deploy(c)
	})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	assert.NoError(t, writer.WriteField("name", "Alice Fans"))
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/subscriptions/deploy", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUseCase.AssertNotCalled(t, "Deploy")
}

func TestDeploy_InFlight(t *testing.T) {
	mockUseCase := new(MockSubscriptionUseCase)
	handler := NewSubscriptionHandler(mockUseCase, logger.New())

	mockUseCase.On("Deploy", mock.Anything, testWallet, mock.Anything, mock.Anything).
		Return(nil, flow.ErrInFlight)

	router := setupTestRouter()
	router.POST("/subscriptions/deploy", func(c *gin.Context) {
		c.Set("user_id", testWallet)
		handler.Deploy(c)
	})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	assert.NoError(t, writer.WriteField("name", "Alice Fans"))
	assert.NoError(t, writer.WriteField("symbol", "ALICE"))
	assert.NoError(t, writer.WriteField("price", "1"))
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/subscriptions/deploy", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetDetails(t *testing.T) {
	mockUseCase := new(MockSubscriptionUseCase)
	handler := NewSubscriptionHandler(mockUseCase, logger.New())

	details := &entity.SubscriptionDetails{
		ContractAddress: testContract,
		Name:            "Alice Fans",
		Symbol:          "ALICE",
		Price:           1.5,
		TotalSupply:     7,
	}
	mockUseCase.On("GetDetails", mock.Anything, testContract, "").Return(details, nil)

	router := setupTestRouter()
	router.GET("/subscriptions/:contract", handler.GetDetails)

	req := httptest.NewRequest("GET", "/subscriptions/"+testContract, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "ALICE", response["symbol"])
	mockUseCase.AssertExpectations(t)
}

func TestConfirmMint(t *testing.T) {
	mockUseCase := new(MockSubscriptionUseCase)
	handler := NewSubscriptionHandler(mockUseCase, logger.New())

	mockUseCase.On("ConfirmMint", mock.Anything, testContract, testWallet, "0xabc").Return(true, nil)

	router := setupTestRouter()
	router.POST("/subscriptions/:contract/mint", func(c *gin.Context) {
		c.Set("user_id", testWallet)
		handler.ConfirmMint(c)
	})

	body, _ := json.Marshal(ConfirmMintRequest{TxHash: "0xabc"})
	req := httptest.NewRequest("POST", "/subscriptions/"+testContract+"/mint", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, true, response["subscribed"])
}

func TestGetEarnings_NoContract(t *testing.T) {
	mockUseCase := new(MockSubscriptionUseCase)
	handler := NewSubscriptionHandler(mockUseCase, logger.New())

	mockUseCase.On("Earnings", mock.Anything, testWallet).
		Return(nil, errors.New("no subscription contract deployed"))

	router := setupTestRouter()
	router.GET("/earnings", func(c *gin.Context) {
		c.Set("user_id", testWallet)
		handler.GetEarnings(c)
	})

	req := httptest.NewRequest("GET", "/earnings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWithdraw(t *testing.T) {
	mockUseCase := new(MockSubscriptionUseCase)
	handler := NewSubscriptionHandler(mockUseCase, logger.New())

	mockUseCase.On("Withdraw", mock.Anything, testWallet).
		Return(&entity.WithdrawResult{TxHash: "0xabc", Balance: 0}, nil)

	router := setupTestRouter()
	router.POST("/earnings/withdraw", func(c *gin.Context) {
		c.Set("user_id", testWallet)
		handler.Withdraw(c)
	})

	req := httptest.NewRequest("POST", "/earnings/withdraw", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "0xabc", response["tx_hash"])
	mockUseCase.AssertExpectations(t)
}
