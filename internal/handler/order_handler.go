package handler

import (
	"errors"
	"net/http"
	"strconv"

	"go-cinema-ticketing/internal/middleware"
	"go-cinema-ticketing/internal/model"
	"go-cinema-ticketing/internal/service"
	apperrors "go-cinema-ticketing/pkg/apperrors"
	"go-cinema-ticketing/pkg/logger"
	"go-cinema-ticketing/pkg/paginator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(service service.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc, admin gin.HandlerFunc) {
	router := r.Group("/order", auth)
	{
		router.POST("", h.CreateOrder)
		router.GET("", admin, h.GetOrders)
		router.GET("/payment/callback", h.PaymentCallback)
		router.GET("/:id", h.GetOrder)
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var orderReq model.CreateOrderRequest

	if err := BindJson(c, &orderReq); err != nil {
		return
	}

	created, err := h.service.Create(c, orderReq, middleware.CurrentUser(c))
	if err != nil {
		h.handleOrderError(c, err, "CreateOrder")
		return
	}

	h.handleOrderSuccess(c, created, http.StatusCreated)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.handleOrderError(c, apperrors.ErrInvalidInput, "GetOrder")
		return
	}

	order, err := h.service.FindByID(c, id, middleware.CurrentUser(c))
	if err != nil {
		h.handleOrderError(c, err, "GetOrder")
		return
	}

	h.handleOrderSuccess(c, order, http.StatusOK)
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	var opts paginator.Options
	if err := BindQuery(c, &opts); err != nil {
		return
	}

	page, err := h.service.List(c, opts)
	if err != nil {
		h.handleOrderError(c, err, "GetOrders")
		return
	}

	h.handleOrderSuccess(c, page, http.StatusOK)
}

// PaymentCallback is where the customer lands after checkout; it settles
// the order identified by the session id and returns the terminal order.
func (h *OrderHandler) PaymentCallback(c *gin.Context) {
	var params model.PaymentCallbackParams
	if err := BindQuery(c, &params); err != nil {
		return
	}

	order, err := h.service.Reconcile(c, params.SessionID, middleware.CurrentUser(c))
	if err != nil {
		h.handleOrderError(c, err, "PaymentCallback")
		return
	}

	h.handleOrderSuccess(c, order, http.StatusOK)
}

// Helper functions

func (h *OrderHandler) handleOrderError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrNotEnoughSeats):
		log.Warn("Not enough seats")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Not enough seats available",
		})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
	case errors.Is(err, apperrors.ErrOrderNotFound):
		log.Warn("Order not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
	case errors.Is(err, apperrors.ErrScreeningNotFound):
		log.Warn("Screening not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Screening not found",
		})
	case errors.Is(err, apperrors.ErrProductNotFound):
		log.Warn("Product not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
	case errors.Is(err, apperrors.ErrForbidden):
		log.Warn("Forbidden")
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Forbidden",
		})
	case errors.Is(err, apperrors.ErrPaymentFailed):
		log.Error("Payment provider error")
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Payment provider error",
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func (h *OrderHandler) handleOrderSuccess(c *gin.Context, data interface{}, statusCode int) {
	if data != nil {
		c.JSON(statusCode, data)
	} else {
		c.Status(statusCode)
	}
}
