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

type ScreeningHandler struct {
	service service.ScreeningService
}

func NewScreeningHandler(service service.ScreeningService) *ScreeningHandler {
	return &ScreeningHandler{service: service}
}

func (h *ScreeningHandler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc, admin gin.HandlerFunc) {
	router := r.Group("/screening")
	{
		router.GET("", h.GetScreenings)
		router.GET("/:id", h.GetScreening)
		router.POST("", auth, admin, h.CreateScreening)
		router.DELETE("/:id", auth, admin, h.DeactivateScreening)
	}
}

func (h *ScreeningHandler) CreateScreening(c *gin.Context) {
	var req model.CreateScreeningRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	screening, err := h.service.Create(c, req)
	if err != nil {
		h.handleScreeningError(c, err, "CreateScreening")
		return
	}

	c.JSON(http.StatusCreated, screening)
}

func (h *ScreeningHandler) GetScreenings(c *gin.Context) {
	var opts paginator.Options
	if err := BindQuery(c, &opts); err != nil {
		return
	}

	page, err := h.service.List(c, opts)
	if err != nil {
		h.handleScreeningError(c, err, "GetScreenings")
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *ScreeningHandler) GetScreening(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.handleScreeningError(c, apperrors.ErrInvalidInput, "GetScreening")
		return
	}

	screening, err := h.service.GetByID(c, id)
	if err != nil {
		h.handleScreeningError(c, err, "GetScreening")
		return
	}

	c.JSON(http.StatusOK, screening)
}

func (h *ScreeningHandler) DeactivateScreening(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.handleScreeningError(c, apperrors.ErrInvalidInput, "DeactivateScreening")
		return
	}

	if err := h.service.Deactivate(c, id); err != nil {
		h.handleScreeningError(c, err, "DeactivateScreening")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ScreeningHandler) handleScreeningError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
	case errors.Is(err, apperrors.ErrScreeningNotFound):
		log.Warn("Screening not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Screening not found",
		})
	case errors.Is(err, apperrors.ErrMovieNotFound):
		log.Warn("Movie not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Movie not found",
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
