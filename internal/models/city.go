package models

// City is one of the supported cities
type City struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Country string     `json:"country"`
	Coords  Coordinate `json:"coords"`
}

// DestinationIcon is a symbolic icon tag; clients resolve it to an asset
type DestinationIcon string

const (
	IconLandmark   DestinationIcon = "landmark"
	IconShopping   DestinationIcon = "shopping"
	IconCoffee     DestinationIcon = "coffee"
	IconPin        DestinationIcon = "pin"
	IconBuilding   DestinationIcon = "building"
	IconNavigation DestinationIcon = "navigation"
)

// Destination is a quick-select chip shown for a city
type Destination struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Icon   DestinationIcon `json:"icon"`
	Coords *Coordinate     `json:"coords,omitempty"`
}

// Place is a named point of interest used for proximity search
type Place struct {
	Name     string     `json:"name"`
	Category string     `json:"category"`
	Coords   Coordinate `json:"coords"`
	Keywords []string   `json:"keywords,omitempty"`
}

// Suggestion is a canned search chip
type Suggestion struct {
	Label string `json:"label"`
	Query string `json:"query"`
	Icon  string `json:"icon"`
}
