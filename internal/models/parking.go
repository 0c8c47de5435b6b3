package models

// SpotType is the category of a parking spot
type SpotType string

const (
	SpotTypeMultiStorey SpotType = "multi_story_garage"
	SpotTypeSurfaceLot  SpotType = "surface_lot"
	SpotTypeStreet      SpotType = "street_parking"
	SpotTypeLayBy       SpotType = "lay_by"
	SpotTypeUnderground SpotType = "underground"
)

// IsValid reports whether t is one of the known spot types
func (t SpotType) IsValid() bool {
	switch t {
	case SpotTypeMultiStorey, SpotTypeSurfaceLot, SpotTypeStreet, SpotTypeLayBy, SpotTypeUnderground:
		return true
	}
	return false
}

// OpenAllDay is the Hours.Open sentinel for spots that never close
const OpenAllDay = "24hrs"

// Coordinate is a WGS84 latitude/longitude pair
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Pricing describes what a spot costs
type Pricing struct {
	Free       bool    `json:"free"`
	HourlyRate float64 `json:"hourly_rate"`
	DailyMax   float64 `json:"daily_max"`
}

// EVCharging describes charging points at a spot
type EVCharging struct {
	Available bool   `json:"available"`
	Ports     int    `json:"ports"`
	Speed     string `json:"speed,omitempty"`
}

// Features holds the boolean amenities of a spot
type Features struct {
	Accessible bool `json:"accessible"`
	Covered    bool `json:"covered"`
	Security   bool `json:"security"`
}

// OpeningHours holds open/close times ("24hrs" for always open) and a note
type OpeningHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
	Note  string `json:"note,omitempty"`
}

// ParkingSpot is a single catalog entry.
// Available never exceeds Total; a Total of zero means capacity is unknown.
type ParkingSpot struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Address          string        `json:"address"`
	Type             SpotType      `json:"type"`
	Pricing          Pricing       `json:"pricing"`
	Available        int           `json:"available"`
	Total            int           `json:"total"`
	Rating           float64       `json:"rating"`
	EVCharging       EVCharging    `json:"ev_charging"`
	Features         Features      `json:"features"`
	Distance         float64       `json:"distance"`
	NearDestinations []string      `json:"near_destinations"`
	Description      string        `json:"description"`
	Coords           *Coordinate   `json:"coords,omitempty"`
	State            string        `json:"state"`
	Hours            *OpeningHours `json:"hours,omitempty"`
	HiddenGem        bool          `json:"hidden_gem,omitempty"`
}
