package api

import (
	"net/http"

	"github.com/Domenick1991/tripcomposer/internal/service/composite"
	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	service composite.CompositeUseCase
}

func NewQuoteHandler(service composite.CompositeUseCase) *QuoteHandler {
	return &QuoteHandler{service: service}
}

func (h *QuoteHandler) Register(router *gin.RouterGroup) {
	router.GET("/quotes/:itinerary_id", h.get)
}

func (h *QuoteHandler) get(c *gin.Context) {
	quote, err := h.service.QuoteItinerary(c.Request.Context(), c.Param("itinerary_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}
