package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Domenick1991/tripcomposer/internal/logger"
	"github.com/Domenick1991/tripcomposer/internal/service/composite"
	"github.com/gin-gonic/gin"
)

const headerIdempotencyKey = "Idempotency-Key"

type IdempotencyLocker interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type ItineraryHandler struct {
	service composite.CompositeUseCase
	locker  IdempotencyLocker
	log     *logger.Logger
}

// NewItineraryHandler accepts a nil locker; the Idempotency-Key header is then ignored.
func NewItineraryHandler(service composite.CompositeUseCase, locker IdempotencyLocker, log *logger.Logger) *ItineraryHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ItineraryHandler{service: service, locker: locker, log: log}
}

func (h *ItineraryHandler) Register(router *gin.RouterGroup) {
	router.GET("/itineraries/:id", h.get)
	router.POST("/itineraries", h.create)
}

func (h *ItineraryHandler) get(c *gin.Context) {
	itinerary, err := h.service.GetItinerary(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, itinerary)
}

func (h *ItineraryHandler) create(c *gin.Context) {
	var req composite.CreateItineraryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	key := strings.TrimSpace(c.GetHeader(headerIdempotencyKey))
	if key != "" && h.locker != nil {
		acquired, err := h.locker.Acquire(ctx, key)
		if err != nil {
			writeError(c, err)
			return
		}
		if !acquired {
			writeError(c, errIdempotencyConflict)
			return
		}
	}

	created, err := h.service.CreateItinerary(ctx, req)
	if err != nil {
		if key != "" && h.locker != nil && !createdAnything(err) {
			if releaseErr := h.locker.Release(ctx, key); releaseErr != nil {
				h.log.Warn("failed to release idempotency key", "key", key, "error", releaseErr)
			}
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// createdAnything reports whether the itinerary may exist upstream despite err.
func createdAnything(err error) bool {
	var partial *composite.PartialCreateError
	return errors.As(err, &partial)
}
