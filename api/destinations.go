package api

import (
	"net/http"

	"github.com/Domenick1991/tripcomposer/internal/service/composite"
	"github.com/gin-gonic/gin"
)

type DestinationHandler struct {
	service composite.CompositeUseCase
}

func NewDestinationHandler(service composite.CompositeUseCase) *DestinationHandler {
	return &DestinationHandler{service: service}
}

func (h *DestinationHandler) Register(router *gin.RouterGroup) {
	router.GET("/destinations", h.list)
}

func (h *DestinationHandler) list(c *gin.Context) {
	destinations, err := h.service.ListDestinations(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, destinations)
}
