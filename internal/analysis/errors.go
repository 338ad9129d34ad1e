package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrUnidentified means the provider answered but named no food.
	ErrUnidentified = errors.New("unidentified food")
	// ErrAnalysisUnavailable is returned, wrapped in *UnavailableError, for
	// foods the provider recognised but declined to analyse. Retrying will
	// not help.
	ErrAnalysisUnavailable = errors.New("analysis unavailable")
	// ErrIdentificationFailed covers every provider fault and any photo that
	// is not a base64 data URI.
	ErrIdentificationFailed = errors.New("identification failed")
)

type UnavailableError struct {
	FoodName string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("analysis unavailable for %s", e.FoodName)
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrAnalysisUnavailable
}

// UserMessage turns an analysis error into the text shown to users.
func UserMessage(err error) string {
	var unavailable *UnavailableError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnidentified):
		return "Could not identify the food item. Please try another image."
	case errors.As(err, &unavailable):
		return fmt.Sprintf("We've identified this as %s, but nutritional analysis is not available for it.", unavailable.FoodName)
	default:
		return "An unexpected error occurred during analysis. Please try again."
	}
}
