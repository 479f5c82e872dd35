package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/dto"
	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/metrics"
	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/repository"
	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/service"
)

const dateLayout = "2006-01-02"

// Handler serves the user lookup API.
type Handler struct {
	userService service.UserServicer
	pinger      repository.UserRepository
	router      *gin.Engine
	log         *zap.Logger
}

func NewHandler(userService service.UserServicer, pinger repository.UserRepository, log *zap.Logger) *Handler {
	h := &Handler{
		userService: userService,
		pinger:      pinger,
		router:      gin.Default(),
		log:         log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.router.GET("/users/:user_id", h.getUserStats)
	h.router.GET("/users/:user_id/:date", h.getUserStats)
}

// healthCheck handles GET /health by pinging storage.
func (h *Handler) healthCheck(c *gin.Context) {
	if err := h.pinger.Ping(c.Request.Context()); err != nil {
		h.log.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// getUserStats handles GET /users/:user_id and GET /users/:user_id/:date.
func (h *Handler) getUserStats(c *gin.Context) {
	metrics.LookupRequests.Inc()

	userID := c.Param("user_id")

	var day *time.Time
	if dateParam := c.Param("date"); dateParam != "" {
		parsed, err := time.Parse(dateLayout, dateParam)
		if err != nil {
			metrics.LookupFailures.WithLabelValues("bad_date").Inc()
			h.log.Warn("Invalid date parameter",
				zap.String("date", dateParam),
				zap.Error(err))
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "validation_error",
				Message: "date must be formatted as YYYY-MM-DD",
			})
			return
		}
		day = &parsed
	}

	stats, err := h.userService.GetUserStats(c.Request.Context(), userID, day)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.LookupFailures.WithLabelValues("not_found").Inc()
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Error:   "not_found",
				Message: "user is not registered",
			})
			return
		}

		metrics.LookupFailures.WithLabelValues("internal").Inc()
		h.log.Error("Failed to get user stats",
			zap.String("user_id", userID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	h.log.Info("User stats retrieved",
		zap.String("user_id", userID),
		zap.Uint64("session_count", stats.SessionCount))

	c.JSON(http.StatusOK, stats)
}
