package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-cinema-ticketing/internal/auth"
	"go-cinema-ticketing/internal/handler"
	"go-cinema-ticketing/internal/middleware"
	"go-cinema-ticketing/internal/model"
	servicemocks "go-cinema-ticketing/internal/service/mocks"
	apperrors "go-cinema-ticketing/pkg/apperrors"
	"go-cinema-ticketing/pkg/paginator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newOrderRouter(t *testing.T, svc *servicemocks.OrderServiceMock) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	h := handler.NewOrderHandler(svc)
	h.RegisterRoutes(router, middleware.JWTAuth(testSecret), middleware.RequireRole(model.RoleAdmin))
	return router
}

func bearerToken(t *testing.T, user *model.User) string {
	t.Helper()
	token, err := auth.NewAccessToken(testSecret, user, time.Minute)
	require.NoError(t, err)
	return "Bearer " + token.Token
}

func doRequest(router *gin.Engine, method, path, authHeader string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func customerToken(t *testing.T) string {
	return bearerToken(t, &model.User{ID: 42, Email: "customer@example.com", Role: model.RoleUser})
}

func adminToken(t *testing.T) string {
	return bearerToken(t, &model.User{ID: 1, Email: "admin@example.com", Role: model.RoleAdmin})
}

func validCreateBody() map[string]interface{} {
	return map[string]interface{}{
		"reservations": []map[string]interface{}{
			{
				"screeningId": 1,
				"products": []map[string]interface{}{
					{"productId": 10, "number": 2},
				},
			},
		},
	}
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		svc := servicemocks.NewOrderServiceMock()
		svc.On("Create", mock.Anything, mock.Anything, mock.Anything).
			Return(&model.OrderPaymentRequired{
				URL:   "https://pay.example/cs_123",
				Order: &model.Order{ID: 100, CustomerID: 42, Status: model.OrderStatusPaying},
			}, nil)

		router := newOrderRouter(t, svc)
		w := doRequest(router, http.MethodPost, "/order", customerToken(t), validCreateBody())

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp model.OrderPaymentRequired
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "https://pay.example/cs_123", resp.URL)
		assert.Equal(t, model.OrderStatusPaying, resp.Order.Status)
	})

	t.Run("NotEnoughSeats", func(t *testing.T) {
		svc := servicemocks.NewOrderServiceMock()
		svc.On("Create", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrNotEnoughSeats)

		router := newOrderRouter(t, svc)
		w := doRequest(router, http.MethodPost, "/order", customerToken(t), validCreateBody())

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("PaymentProviderError", func(t *testing.T) {
		svc := servicemocks.NewOrderServiceMock()
		svc.On("Create", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrPaymentFailed)

		router := newOrderRouter(t, svc)
		w := doRequest(router, http.MethodPost, "/order", customerToken(t), validCreateBody())

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("EmptyReservationsRejected", func(t *testing.T) {
		svc := servicemocks.NewOrderServiceMock()

		router := newOrderRouter(t, svc)
		w := doRequest(router, http.MethodPost, "/order", customerToken(t), map[string]interface{}{
			"reservations": []map[string]interface{}{},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		svc := servicemocks.NewOrderServiceMock()

		router := newOrderRouter(t, svc)
		w := doRequest(router, http.MethodPost, "/order", "", validCreateBody())

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOrderHandler_GetOrder(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		svc := servicemocks.NewOrderServiceMock()
		svc.On("FindByID", mock.Anything, int64(100), mock.Anything).
			Return(&model.Order{ID: 100, CustomerID: 42, Status: model.OrderStatusPayed}, nil)

		router := newOrderRouter(t, svc)
		w := doRequest(router, http.MethodGet, "/order/100", customerToken(t), nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Forbidden", func(t *testing.T) {
		svc := servicemocks.NewOrderServiceMock()
		svc.On("FindByID", mock.Anything, int64(100), mock.Anything).
			Return(nil, apperrors.ErrForbidden)

		router := newOrderRouter(t, svc)
		w := doRequest(router, http.MethodGet, "/order/100", customerToken(t), nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc := servicemocks.NewOrderServiceMock()
		svc.On("FindByID", mock.Anything, int64(999), mock.Anything).
			Return(nil, apperrors.ErrOrderNotFound)

		router := newOrderRouter(t, svc)
		w := doRequest(router, http.MethodGet, "/order/999", customerToken(t), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("BadID", func(t *testing.T) {
		svc := servicemocks.NewOrderServiceMock()

		router := newOrderRouter(t, svc)
		w := doRequest(router, http.MethodGet, "/order/abc", customerToken(t), nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_GetOrders(t *testing.T) {
	t.Run("AdminListsOrders", func(t *testing.T) {
		svc := servicemocks.NewOrderServiceMock()
		svc.On("List", mock.Anything, paginator.Options{Page: 2, PerPage: 5}).
			Return(&paginator.Page[*model.Order]{
				Data: []*model.Order{{ID: 100, Status: model.OrderStatusPayed}},
				Meta: paginator.Meta{Total: 6, LastPage: 2, CurrentPage: 2, PerPage: 5},
			}, nil)

		router := newOrderRouter(t, svc)
		w := doRequest(router, http.MethodGet, "/order?page=2&perPage=5", adminToken(t), nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp paginator.Page[*model.Order]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 6, resp.Meta.Total)
		assert.Len(t, resp.Data, 1)
	})

	t.Run("CustomerForbidden", func(t *testing.T) {
		svc := servicemocks.NewOrderServiceMock()

		router := newOrderRouter(t, svc)
		w := doRequest(router, http.MethodGet, "/order", customerToken(t), nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
		svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})
}

func TestOrderHandler_PaymentCallback(t *testing.T) {
	t.Run("SettlesOrder", func(t *testing.T) {
		svc := servicemocks.NewOrderServiceMock()
		svc.On("Reconcile", mock.Anything, "cs_123", mock.Anything).
			Return(&model.Order{ID: 100, CustomerID: 42, Status: model.OrderStatusPayed}, nil)

		router := newOrderRouter(t, svc)
		w := doRequest(router, http.MethodGet, "/order/payment/callback?sessionId=cs_123", customerToken(t), nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp model.Order
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, model.OrderStatusPayed, resp.Status)
	})

	t.Run("MissingSessionID", func(t *testing.T) {
		svc := servicemocks.NewOrderServiceMock()

		router := newOrderRouter(t, svc)
		w := doRequest(router, http.MethodGet, "/order/payment/callback", customerToken(t), nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownSession", func(t *testing.T) {
		svc := servicemocks.NewOrderServiceMock()
		svc.On("Reconcile", mock.Anything, "cs_missing", mock.Anything).
			Return(nil, apperrors.ErrOrderNotFound)

		router := newOrderRouter(t, svc)
		w := doRequest(router, http.MethodGet, "/order/payment/callback?sessionId=cs_missing", customerToken(t), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
