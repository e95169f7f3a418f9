package api

import (
	"fmt"
	"net/http"
	"strconv"
)

const (
	defaultRecommendLimit = 10
	defaultHistoryLimit   = 20
	maxLimit              = 50
	maxCartSize           = 100
)

// ValidationError represents a request validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateCartRequest checks a frequently-bought-together payload.
func ValidateCartRequest(req *FrequentlyBoughtTogetherRequest) error {
	if len(req.ProductIDs) == 0 {
		return ValidationError{Field: "product_ids", Message: "at least one product ID is required"}
	}

	if len(req.ProductIDs) > maxCartSize {
		return ValidationError{Field: "product_ids", Message: fmt.Sprintf("too many products (max %d)", maxCartSize)}
	}

	for _, id := range req.ProductIDs {
		if id == "" {
			return ValidationError{Field: "product_ids", Message: "product IDs must be non-empty"}
		}
	}

	if req.Limit < 0 {
		return ValidationError{Field: "limit", Message: "limit must be non-negative"}
	}

	return nil
}

// parseLimit reads the limit query parameter, clamped to [1, maxLimit].
func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return fallback
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
