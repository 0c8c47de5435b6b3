package catalog

import "github.com/parkeasy/parkeasy-backend/internal/models"

var barberKeywords = []string{"barber", "barbers", "haircut", "hair"}

// belfastPlaces is the gazetteer used for proximity search in Belfast.
// Order matters: the first matching place wins.
var belfastPlaces = []models.Place{
	// Shopping & services
	{Name: "Victoria Square", Category: "shopping", Coords: models.Coordinate{Lat: 54.5977, Lng: -5.9283}},
	{Name: "Castle Court", Category: "shopping", Coords: models.Coordinate{Lat: 54.6005, Lng: -5.9319}},
	{Name: "City Hall", Category: "landmark", Coords: models.Coordinate{Lat: 54.5966, Lng: -5.9300}},
	{Name: "Cathedral Quarter", Category: "entertainment", Coords: models.Coordinate{Lat: 54.6017, Lng: -5.9271}},
	// Health & beauty
	{Name: "Barbers (City Centre)", Category: "barbers", Coords: models.Coordinate{Lat: 54.5990, Lng: -5.9300}, Keywords: barberKeywords},
	{Name: "Barbers (Lisburn Road)", Category: "barbers", Coords: models.Coordinate{Lat: 54.5820, Lng: -5.9470}, Keywords: barberKeywords},
	{Name: "Barbers (Botanic)", Category: "barbers", Coords: models.Coordinate{Lat: 54.5850, Lng: -5.9340}, Keywords: barberKeywords},
	{Name: "Barbers (Ormeau Road)", Category: "barbers", Coords: models.Coordinate{Lat: 54.5880, Lng: -5.9210}, Keywords: barberKeywords},
	// Outdoors
	{Name: "Black Mountain", Category: "outdoor", Coords: models.Coordinate{Lat: 54.6050, Lng: -5.9900}, Keywords: []string{"black mountain", "divis", "hike", "walking", "hill"}},
	{Name: "Cave Hill", Category: "outdoor", Coords: models.Coordinate{Lat: 54.6350, Lng: -5.9430}, Keywords: []string{"cave hill", "napoleons nose", "belfast castle", "hike"}},
	{Name: "Colin Glen", Category: "outdoor", Coords: models.Coordinate{Lat: 54.5650, Lng: -6.0100}, Keywords: []string{"colin glen", "forest", "gruffalo", "zipline"}},
	{Name: "Botanic Gardens", Category: "park", Coords: models.Coordinate{Lat: 54.5834, Lng: -5.9310}, Keywords: []string{"botanic", "gardens", "park", "ulster museum"}},
	{Name: "Ormeau Park", Category: "park", Coords: models.Coordinate{Lat: 54.5860, Lng: -5.9180}, Keywords: []string{"ormeau", "park"}},
	{Name: "Lagan Towpath", Category: "outdoor", Coords: models.Coordinate{Lat: 54.5690, Lng: -5.9320}, Keywords: []string{"lagan", "towpath", "river", "walk", "cycle"}},
	{Name: "Shaw's Bridge", Category: "outdoor", Coords: models.Coordinate{Lat: 54.5560, Lng: -5.9440}, Keywords: []string{"shaws bridge", "lagan", "walk"}},
	// Restaurants & entertainment
	{Name: "Botanic Avenue", Category: "restaurant", Coords: models.Coordinate{Lat: 54.5850, Lng: -5.9330}, Keywords: []string{"restaurant", "food", "eating", "botanic"}},
	{Name: "Lisburn Road Restaurants", Category: "restaurant", Coords: models.Coordinate{Lat: 54.5820, Lng: -5.9470}, Keywords: []string{"restaurant", "food", "lisburn road"}},
	{Name: "SSE Arena", Category: "entertainment", Coords: models.Coordinate{Lat: 54.6048, Lng: -5.9186}, Keywords: []string{"sse", "arena", "concert", "gig", "odyssey"}},
	{Name: "Waterfront Hall", Category: "entertainment", Coords: models.Coordinate{Lat: 54.5940, Lng: -5.9205}, Keywords: []string{"waterfront", "concert", "show"}},
	// Hospitals
	{Name: "Royal Victoria Hospital", Category: "hospital", Coords: models.Coordinate{Lat: 54.5945, Lng: -5.9515}, Keywords: []string{"royal", "hospital", "rvh", "doctor"}},
	{Name: "Belfast City Hospital", Category: "hospital", Coords: models.Coordinate{Lat: 54.5850, Lng: -5.9370}, Keywords: []string{"city hospital", "bch", "hospital", "doctor"}},
	// Transport
	{Name: "Belfast City Airport", Category: "transport", Coords: models.Coordinate{Lat: 54.6181, Lng: -5.8719}, Keywords: []string{"airport", "city airport", "george best", "flight"}},
	{Name: "Lanyon Place Station", Category: "transport", Coords: models.Coordinate{Lat: 54.5953, Lng: -5.9210}, Keywords: []string{"train", "station", "lanyon", "central"}},
	// Universities
	{Name: "Queens University", Category: "education", Coords: models.Coordinate{Lat: 54.5844, Lng: -5.9342}, Keywords: []string{"queens", "university", "qub", "college"}},
	{Name: "Ulster University Belfast", Category: "education", Coords: models.Coordinate{Lat: 54.6010, Lng: -5.9290}, Keywords: []string{"ulster", "university", "uu", "college"}},
}

// PlacesForCity returns the proximity-search gazetteer of a city.
// Only the bundled city has one.
func PlacesForCity(cityID string) []models.Place {
	if cityID != BundledCityID {
		return nil
	}
	return belfastPlaces
}

var suggestions = []models.Suggestion{
	{Label: "Free parking", Query: "free", Icon: "check_circle"},
	{Label: "EV charging", Query: "ev", Icon: "zap"},
	{Label: "City centre", Query: "city hall", Icon: "landmark"},
	{Label: "Multi-storey", Query: "multi", Icon: "building"},
	{Label: "Titanic Quarter", Query: "titanic", Icon: "navigation"},
	{Label: "Park & Ride", Query: "park & ride", Icon: "car"},
	{Label: "Cathedral Quarter", Query: "cathedral", Icon: "coffee"},
	{Label: "Victoria Square", Query: "victoria", Icon: "shopping"},
	{Label: "Cheap parking", Query: "cheap", Icon: "pound"},
	{Label: "Covered parking", Query: "covered", Icon: "building"},
	{Label: "Hidden gems", Query: "hidden gem", Icon: "star"},
	{Label: "Lay-bys", Query: "lay-by", Icon: "car"},
	{Label: "Street parking", Query: "street", Icon: "pin"},
	{Label: "Black Mountain", Query: "black mountain", Icon: "navigation"},
	{Label: "Cave Hill", Query: "cave hill", Icon: "navigation"},
	{Label: "Lagan Towpath", Query: "lagan", Icon: "pin"},
}

// Suggestions returns the canned search chips in display order
func Suggestions() []models.Suggestion {
	out := make([]models.Suggestion, len(suggestions))
	copy(out, suggestions)
	return out
}
