package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/tripcomposer/internal/service/composite"
	"github.com/gin-gonic/gin"
)

var errIdempotencyConflict = errors.New("a request with this Idempotency-Key is already in progress or completed")

// writeError maps service errors onto the HTTP taxonomy. Anything that is not
// a known client error is a server error carrying the failure's message.
func writeError(c *gin.Context, err error) {
	var validationErr *composite.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Segment validation failed",
			"details": validationErr.Segments,
		})
	case errors.Is(err, composite.ErrItineraryRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, errIdempotencyConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
