package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"nutrisnap/internal/analysis"
	"nutrisnap/internal/models"
	"nutrisnap/internal/nutrition"
	"nutrisnap/internal/state"
	"nutrisnap/internal/vision"
)

var (
	errNoProvider    = errors.New("image analysis is not configured")
	errInvalidParams = errors.New("invalid parameters")
)

func invalidParams(err error) error {
	return fmt.Errorf("%w: %w", errInvalidParams, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, vision.ErrInvalidImage),
		errors.Is(err, errInvalidParams),
		errors.Is(err, models.ErrInvalidTheme),
		errors.Is(err, models.ErrInvalidUnits),
		errors.Is(err, nutrition.ErrInvalidPortion):
		return http.StatusBadRequest
	case errors.Is(err, state.ErrScanNotFound):
		return http.StatusNotFound
	case errors.Is(err, analysis.ErrUnidentified),
		errors.Is(err, analysis.ErrAnalysisUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, analysis.ErrIdentificationFailed):
		return http.StatusBadGateway
	case errors.Is(err, errNoProvider):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON error payload. Analysis failures carry the message
// users see; an unavailable analysis also names the food.
func errorBody(err error) gin.H {
	var unavailable *analysis.UnavailableError
	switch {
	case errors.As(err, &unavailable):
		return gin.H{"error": analysis.UserMessage(err), "foodName": unavailable.FoodName}
	case errors.Is(err, analysis.ErrUnidentified),
		errors.Is(err, analysis.ErrIdentificationFailed):
		return gin.H{"error": analysis.UserMessage(err)}
	case errors.Is(err, state.ErrScanNotFound):
		return gin.H{"error": "Scan Not Found"}
	default:
		return gin.H{"error": err.Error()}
	}
}

func writeError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), errorBody(err))
}
