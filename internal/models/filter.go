package models

// SortKey selects the result ordering
type SortKey string

const (
	SortByDistance SortKey = "distance"
	SortByPrice    SortKey = "price"
	SortByRating   SortKey = "rating"
)

// SpotTypeAll disables the category filter
const SpotTypeAll = "all"

// DefaultMaxPrice is the default hourly rate ceiling
const DefaultMaxPrice = 5.0

// FilterConfig holds the structured search filters
type FilterConfig struct {
	Type       string  `json:"type" form:"type"`
	MaxPrice   float64 `json:"max_price" form:"max_price"`
	EVCharging bool    `json:"ev_charging" form:"ev_charging"`
	Accessible bool    `json:"accessible" form:"accessible"`
	Covered    bool    `json:"covered" form:"covered"`
	FreeOnly   bool    `json:"free_only" form:"free_only"`
	SortBy     SortKey `json:"sort_by" form:"sort_by"`
}

// DefaultFilterConfig returns the filters a fresh session starts with
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		Type:     SpotTypeAll,
		MaxPrice: DefaultMaxPrice,
		SortBy:   SortByDistance,
	}
}

// Validate checks the filter values and fills in an empty Type or SortBy.
// Callers decode partial filters over DefaultFilterConfig so MaxPrice keeps its default.
func (f *FilterConfig) Validate() error {
	if f.Type == "" {
		f.Type = SpotTypeAll
	}
	if f.Type != SpotTypeAll && !SpotType(f.Type).IsValid() {
		return NewValidationError("invalid spot type: " + f.Type)
	}
	if f.MaxPrice < 0 {
		return NewValidationError("max_price cannot be negative")
	}
	switch f.SortBy {
	case "":
		f.SortBy = SortByDistance
	case SortByDistance, SortByPrice, SortByRating:
	default:
		return NewValidationError("sort_by must be one of distance, price, rating")
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new validation error
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}
