// Package search filters and orders a city catalog.
//
// Everything here is a pure function of its arguments so that the same
// inputs always produce the same ordered result.
package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/parkeasy/parkeasy-backend/internal/geo"
	"github.com/parkeasy/parkeasy-backend/internal/models"
)

const (
	// FreeTierResults is how many catalog entries a free user can search
	FreeTierResults = 3

	// ProximityRadiusKm is how close a spot must be to a matched place
	ProximityRadiusKm = 2.0

	// CheapRateCeiling is the hourly rate at or below which a spot counts as cheap
	CheapRateCeiling = 1.5

	minProximityQueryLen = 2
)

// Query is the free-text and destination part of a search
type Query struct {
	Text        string
	Destination *models.Destination
}

// Result is the ordered output of Filter
type Result struct {
	Spots []models.ParkingSpot `json:"spots"`
	Place *models.Place        `json:"matched_place,omitempty"`
}

// Filter applies tier gating, the destination and query filters, the
// structured filters and the sort, in that order.
func Filter(catalog []models.ParkingSpot, query Query, cfg models.FilterConfig, premium bool, places []models.Place) Result {
	spots := catalog
	if !premium && len(spots) > FreeTierResults {
		spots = spots[:FreeTierResults]
	}

	q := strings.ToLower(strings.TrimSpace(query.Text))

	var place *models.Place
	if utf8.RuneCountInString(query.Text) >= minProximityQueryLen {
		place = MatchPlace(places, q)
	}

	results := make([]models.ParkingSpot, 0, len(spots))
	for _, spot := range spots {
		if query.Destination != nil && !matchesDestination(spot, *query.Destination) {
			continue
		}
		if q != "" && !matchesQuery(spot, q, place) {
			continue
		}
		if !matchesFilters(spot, cfg) {
			continue
		}
		results = append(results, spot)
	}

	sortSpots(results, cfg.SortBy, place)

	return Result{Spots: results, Place: place}
}

// MatchPlace returns the first place whose name contains q or which has a
// keyword that contains q or is contained in q. q must already be lowercased.
func MatchPlace(places []models.Place, q string) *models.Place {
	if q == "" {
		return nil
	}
	for i := range places {
		p := &places[i]
		if strings.Contains(strings.ToLower(p.Name), q) {
			return p
		}
		for _, kw := range p.Keywords {
			if strings.Contains(q, kw) || strings.Contains(kw, q) {
				return p
			}
		}
	}
	return nil
}

func matchesDestination(spot models.ParkingSpot, dest models.Destination) bool {
	destID := strings.ToLower(dest.ID)
	destName := strings.ToLower(dest.Name)
	for _, tag := range spot.NearDestinations {
		dl := strings.ToLower(tag)
		if dl == destID || dl == destName ||
			strings.Contains(destID, strings.Join(strings.Fields(dl), "_")) ||
			strings.Contains(dl, strings.ReplaceAll(destID, "_", " ")) {
			return true
		}
	}
	return false
}

func matchesQuery(spot models.ParkingSpot, q string, place *models.Place) bool {
	if place != nil && distanceToPlace(spot, place) <= ProximityRadiusKm {
		return true
	}

	if strings.Contains(strings.ToLower(spot.Name), q) ||
		strings.Contains(strings.ToLower(spot.Address), q) ||
		strings.Contains(strings.ToLower(spot.Description), q) {
		return true
	}

	for _, rule := range keywordRules {
		if rule.matches(q) && rule.pred(spot) {
			return true
		}
	}

	for _, tag := range spot.NearDestinations {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}

	return false
}

type keywordRule struct {
	phrases []string
	pred    func(models.ParkingSpot) bool
}

func (r keywordRule) matches(q string) bool {
	for _, p := range r.phrases {
		if q == p {
			return true
		}
	}
	return false
}

var keywordRules = []keywordRule{
	{[]string{"free", "free parking"}, func(s models.ParkingSpot) bool { return s.Pricing.Free }},
	{[]string{"cheap", "cheap parking", "budget"}, func(s models.ParkingSpot) bool { return s.Pricing.HourlyRate <= CheapRateCeiling }},
	{[]string{"ev", "ev charging", "electric"}, func(s models.ParkingSpot) bool { return s.EVCharging.Available }},
	{[]string{"covered", "indoor"}, func(s models.ParkingSpot) bool { return s.Features.Covered }},
	{[]string{"multi", "multi-storey", "garage"}, func(s models.ParkingSpot) bool { return s.Type == models.SpotTypeMultiStorey }},
	{[]string{"hidden gem", "hidden gems", "gem"}, func(s models.ParkingSpot) bool { return s.HiddenGem }},
	{[]string{"lay-by", "lay by", "layby"}, func(s models.ParkingSpot) bool { return s.Type == models.SpotTypeLayBy }},
	{[]string{"street", "street parking", "on-street"}, func(s models.ParkingSpot) bool { return s.Type == models.SpotTypeStreet }},
}

func matchesFilters(spot models.ParkingSpot, cfg models.FilterConfig) bool {
	if cfg.Type != "" && cfg.Type != models.SpotTypeAll && string(spot.Type) != cfg.Type {
		return false
	}
	if cfg.FreeOnly && !spot.Pricing.Free {
		return false
	}
	if cfg.EVCharging && !spot.EVCharging.Available {
		return false
	}
	if cfg.Accessible && !spot.Features.Accessible {
		return false
	}
	if cfg.Covered && !spot.Features.Covered {
		return false
	}
	if spot.Pricing.HourlyRate > cfg.MaxPrice {
		return false
	}
	return true
}

func distanceToPlace(spot models.ParkingSpot, place *models.Place) float64 {
	return geo.Between(spot.Coords, &place.Coords)
}

func sortSpots(spots []models.ParkingSpot, key models.SortKey, place *models.Place) {
	if place != nil {
		sort.SliceStable(spots, func(i, j int) bool {
			return distanceToPlace(spots[i], place) < distanceToPlace(spots[j], place)
		})
		return
	}

	switch key {
	case models.SortByRating:
		sort.SliceStable(spots, func(i, j int) bool {
			return spots[i].Rating > spots[j].Rating
		})
	case models.SortByPrice:
		sort.SliceStable(spots, func(i, j int) bool {
			return spots[i].Pricing.HourlyRate < spots[j].Pricing.HourlyRate
		})
	default:
		sort.SliceStable(spots, func(i, j int) bool {
			return spots[i].Distance < spots[j].Distance
		})
	}
}
