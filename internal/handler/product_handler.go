package handler

import (
	"errors"
	"net/http"
	"strconv"

	"go-cinema-ticketing/internal/model"
	"go-cinema-ticketing/internal/service"
	apperrors "go-cinema-ticketing/pkg/apperrors"
	"go-cinema-ticketing/pkg/logger"
	"go-cinema-ticketing/pkg/paginator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(service service.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

func (h *ProductHandler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc, admin gin.HandlerFunc) {
	router := r.Group("/product")
	{
		router.GET("", h.GetProducts)
		router.GET("/:id", h.GetProduct)
		router.POST("", auth, admin, h.CreateProduct)
		router.PATCH("/:id", auth, admin, h.UpdateProduct)
	}
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req model.CreateProductRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	product, err := h.service.Create(c, req)
	if err != nil {
		h.handleProductError(c, err, "CreateProduct")
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	var opts paginator.Options
	if err := BindQuery(c, &opts); err != nil {
		return
	}

	page, err := h.service.List(c, opts)
	if err != nil {
		h.handleProductError(c, err, "GetProducts")
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.handleProductError(c, apperrors.ErrInvalidInput, "GetProduct")
		return
	}

	product, err := h.service.GetByID(c, id)
	if err != nil {
		h.handleProductError(c, err, "GetProduct")
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.handleProductError(c, apperrors.ErrInvalidInput, "UpdateProduct")
		return
	}

	var params model.UpdateProductParams
	if err := BindJson(c, &params); err != nil {
		return
	}

	product, err := h.service.Update(c, id, params)
	if err != nil {
		h.handleProductError(c, err, "UpdateProduct")
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) handleProductError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
	case errors.Is(err, apperrors.ErrProductNotFound):
		log.Warn("Product not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
