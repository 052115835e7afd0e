package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wrio-webgold/webgold/internal/domain/account"
	"github.com/wrio-webgold/webgold/internal/domain/transfer"
	"github.com/wrio-webgold/webgold/internal/webgold_api/middleware"
	"github.com/wrio-webgold/webgold/internal/webgold_api/service"
)

const (
	testTransferID = "65f1a2b3c4d5e6f708192a3b"
	originWallet   = "0x52908400098527886E0F7030069857D2E4169EE7"
	destWallet     = "0xde0B295669a9FD93d5F28D9Ec85E40f4cb697BAe"
)

var (
	userOne = middleware.Identity{WrioID: "U1", Name: "Alice"}
	userTwo = middleware.Identity{WrioID: "U2", Name: "Bob"}
)

func pendingTransfer() *transfer.PendingTransfer {
	return &transfer.PendingTransfer{
		ID:           testTransferID,
		UnsignedTx:   "0xf86b80",
		OriginWrioID: "U1",
		OriginWallet: originWallet,
		DestWrioID:   "U2",
		DestWallet:   destWallet,
		Amount:       1000,
	}
}

func serveSignTx(t *testing.T, mockService *MockTransferService, id string, identity middleware.Identity) *httptest.ResponseRecorder {
	h := NewTransferHandler(newTestLogger(), mockService)
	router := setupTestRouter()
	router.GET("/sign_tx", h.SignTx)

	req, _ := http.NewRequest(http.MethodGet, "/sign_tx?id="+id, nil)
	authorize(t, req, identity)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestTransferHandler_SignTx(t *testing.T) {
	t.Run("Origin", func(t *testing.T) {
		mockService := new(MockTransferService)
		mockService.On("GetForSigning", mock.Anything, testTransferID, "U1").Return(pendingTransfer(), nil).Once()

		rr := serveSignTx(t, mockService, testTransferID, userOne)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp SignTxResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, SignTxResponse{Tx: "0xf86b80", To: "U2", Amount: 1000, WrioID: "U1", EthID: originWallet}, resp)
	})

	t.Run("Destination", func(t *testing.T) {
		mockService := new(MockTransferService)
		mockService.On("GetForSigning", mock.Anything, testTransferID, "U2").Return(pendingTransfer(), nil).Once()

		rr := serveSignTx(t, mockService, testTransferID, userTwo)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp SignTxResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, destWallet, resp.EthID)
	})

	t.Run("MalformedID", func(t *testing.T) {
		mockService := new(MockTransferService)
		mockService.On("GetForSigning", mock.Anything, "zz", "U1").
			Return(nil, transfer.ErrInvalidID{ID: "zz", Details: []string{"id must be 24 characters long", "id must be hexadecimal"}}).Once()

		rr := serveSignTx(t, mockService, "zz", userOne)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.Len(t, resp.Error.Details, 2)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockTransferService)
		mockService.On("GetForSigning", mock.Anything, testTransferID, "U1").
			Return(nil, transfer.ErrTransferNotFound{ID: testTransferID}).Once()

		rr := serveSignTx(t, mockService, testTransferID, userOne)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Stranger", func(t *testing.T) {
		mockService := new(MockTransferService)
		mockService.On("GetForSigning", mock.Anything, testTransferID, "U3").
			Return(nil, transfer.ErrForbidden{ID: testTransferID, WrioID: "U3"}).Once()

		rr := serveSignTx(t, mockService, testTransferID, middleware.Identity{WrioID: "U3"})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		mockService := new(MockTransferService)
		h := NewTransferHandler(newTestLogger(), mockService)
		router := setupTestRouter()
		router.GET("/sign_tx", h.SignTx)

		req, _ := http.NewRequest(http.MethodGet, "/sign_tx?id="+testTransferID, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		mockService.AssertNotCalled(t, "GetForSigning", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTransferHandler_Create(t *testing.T) {
	post := func(t *testing.T, mockService *MockTransferService, body string, idempotencyKey string) *httptest.ResponseRecorder {
		h := NewTransferHandler(newTestLogger(), mockService)
		router := setupTestRouter()
		router.POST("/api/webgold/transfers", h.Create)

		req, _ := http.NewRequest(http.MethodPost, "/api/webgold/transfers", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		if idempotencyKey != "" {
			req.Header.Set(IdempotencyKeyHeader, idempotencyKey)
		}
		authorize(t, req, userOne)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockTransferService)
		mockService.On("CreateTransfer", mock.Anything, service.CreateTransferInput{
			OriginWrioID:   "U1",
			DestWrioID:     "U2",
			Amount:         1000,
			IdempotencyKey: "key-1",
		}).Return(pendingTransfer(), nil).Once()

		rr := post(t, mockService, `{"to":"U2","amount":1000}`, "key-1")

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.JSONEq(t, `{"id":"`+testTransferID+`","tx":"0xf86b80","to":"U2","amount":1000}`, rr.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidBody", func(t *testing.T) {
		mockService := new(MockTransferService)

		rr := post(t, mockService, `{"to":"U2","amount":-5}`, "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, []string{"amount must be greater than 0"}, resp.Error.Details)
		mockService.AssertNotCalled(t, "CreateTransfer", mock.Anything, mock.Anything)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		mockService := new(MockTransferService)

		rr := post(t, mockService, `{"to":`, "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, []string{"request body must be a valid JSON object"}, resp.Error.Details)
	})

	t.Run("ValidationError", func(t *testing.T) {
		mockService := new(MockTransferService)
		mockService.On("CreateTransfer", mock.Anything, mock.Anything).
			Return(nil, service.ValidationError{Message: "transfer cannot be built", Details: []string{"insufficient WRG balance"}}).Once()

		rr := post(t, mockService, `{"to":"U2","amount":1000}`, "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, []string{"insufficient WRG balance"}, resp.Error.Details)
	})

	t.Run("UnknownRecipient", func(t *testing.T) {
		mockService := new(MockTransferService)
		mockService.On("CreateTransfer", mock.Anything, mock.Anything).
			Return(nil, account.ErrAccountNotFound{WrioID: "U2"}).Once()

		rr := post(t, mockService, `{"to":"U2","amount":1000}`, "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("InProgress", func(t *testing.T) {
		mockService := new(MockTransferService)
		mockService.On("CreateTransfer", mock.Anything, mock.Anything).Return(nil, service.ErrRequestInProgress).Once()

		rr := post(t, mockService, `{"to":"U2","amount":1000}`, "key-2")
		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}
