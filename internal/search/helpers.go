package search

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/parkeasy/parkeasy-backend/internal/models"
)

// DefaultSuggestionCount is how many suggestions an empty query returns
const DefaultSuggestionCount = 6

// Suggestions filters the canned search chips by label or query
func Suggestions(all []models.Suggestion, query string) []models.Suggestion {
	if query == "" {
		if len(all) > DefaultSuggestionCount {
			return all[:DefaultSuggestionCount]
		}
		return all
	}

	q := strings.ToLower(query)
	out := make([]models.Suggestion, 0)
	for _, s := range all {
		if strings.Contains(strings.ToLower(s.Label), q) || strings.Contains(strings.ToLower(s.Query), q) {
			out = append(out, s)
		}
	}
	return out
}

// Availability labels
const (
	AvailabilityUnknown    = "Unknown"
	AvailabilityAvailable  = "Available"
	AvailabilityFillingUp  = "Filling up"
	AvailabilityAlmostFull = "Almost full"
	AvailabilityFull       = "FULL"
)

// AvailabilityStatus labels a spot by its free-space ratio
func AvailabilityStatus(spot models.ParkingSpot) string {
	if spot.Total <= 0 {
		return AvailabilityUnknown
	}
	pct := float64(spot.Available) / float64(spot.Total)
	switch {
	case pct > 0.3:
		return AvailabilityAvailable
	case pct > 0.1:
		return AvailabilityFillingUp
	case pct > 0:
		return AvailabilityAlmostFull
	default:
		return AvailabilityFull
	}
}

// WalkTime estimates walking time at roughly 5 km/h
func WalkTime(distanceKm float64) string {
	minutes := int(math.Round(distanceKm * 12))
	if minutes < 1 {
		return "< 1 min walk"
	}
	return fmt.Sprintf("%d min walk", minutes)
}

// CheapestNearby returns the paid spot with the lowest hourly rate.
// The earliest spot wins ties. nil when no spot is paid.
func CheapestNearby(spots []models.ParkingSpot) *models.ParkingSpot {
	var cheapest *models.ParkingSpot
	for i := range spots {
		s := &spots[i]
		if s.Pricing.Free || s.Pricing.HourlyRate <= 0 {
			continue
		}
		if cheapest == nil || s.Pricing.HourlyRate < cheapest.Pricing.HourlyRate {
			cheapest = s
		}
	}
	return cheapest
}

// FormatRate renders an hourly rate the way prices are shown to users, e.g. "2.5"
func FormatRate(rate float64) string {
	return formatNumber(rate)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PriceLabel is "FREE" or "£{rate}/hr"
func PriceLabel(p models.Pricing) string {
	if p.Free {
		return "FREE"
	}
	return fmt.Sprintf("£%s/hr", FormatRate(p.HourlyRate))
}

// ShareMessage is the text used when a user shares a spot
func ShareMessage(spot models.ParkingSpot) string {
	price := fmt.Sprintf("Only £%s/hr.", FormatRate(spot.Pricing.HourlyRate))
	if spot.Pricing.Free {
		price = "It's FREE!"
	}
	return fmt.Sprintf("I found parking at %s, %s. %s %d spaces available. Find it on ParkEasy!",
		spot.Name, spot.Address, price, spot.Available)
}

// ShareTitle is the title used when a user shares a spot
func ShareTitle(spot models.ParkingSpot) string {
	return fmt.Sprintf("Check out %s on ParkEasy!", spot.Name)
}

// Platform selects the maps deep-link scheme
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWeb     Platform = "web"
)

// Directions holds a native deep link and the web fallback
type Directions struct {
	URL         string `json:"url"`
	FallbackURL string `json:"fallback_url"`
}

// DirectionsFor builds the maps links for a spot. ok is false when the spot has no coordinate.
func DirectionsFor(spot models.ParkingSpot, platform Platform) (Directions, bool) {
	if spot.Coords == nil {
		return Directions{}, false
	}
	latlng := formatNumber(spot.Coords.Lat) + "," + formatNumber(spot.Coords.Lng)
	fallback := "https://www.google.com/maps/dir/?api=1&destination=" + latlng

	d := Directions{FallbackURL: fallback}
	switch platform {
	case PlatformIOS:
		d.URL = "maps:?daddr=" + latlng
	case PlatformAndroid:
		d.URL = "google.navigation:q=" + latlng
	default:
		d.URL = fallback
	}
	return d, true
}
