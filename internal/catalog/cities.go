// Package catalog holds the bundled parking data, the city and destination
// lists, and the loader that fetches remote cities.
package catalog

import "github.com/parkeasy/parkeasy-backend/internal/models"

// BundledCityID is the city served from embedded data instead of ParkAPI
const BundledCityID = "Belfast"

var cities = []models.City{
	{ID: "Belfast", Name: "Belfast", Country: "Northern Ireland", Coords: models.Coordinate{Lat: 54.5973, Lng: -5.9301}},
	{ID: "Dresden", Name: "Dresden", Country: "Germany", Coords: models.Coordinate{Lat: 51.05089, Lng: 13.73832}},
	{ID: "Hamburg", Name: "Hamburg", Country: "Germany", Coords: models.Coordinate{Lat: 53.5558, Lng: 9.9957}},
	{ID: "Karlsruhe", Name: "Karlsruhe", Country: "Germany", Coords: models.Coordinate{Lat: 49.013774, Lng: 8.404425}},
	{ID: "Basel", Name: "Basel", Country: "Switzerland", Coords: models.Coordinate{Lat: 47.5595986, Lng: 7.5885761}},
	{ID: "Zuerich", Name: "Zürich", Country: "Switzerland", Coords: models.Coordinate{Lat: 47.36667, Lng: 8.55}},
	{ID: "Heidelberg", Name: "Heidelberg", Country: "Germany", Coords: models.Coordinate{Lat: 49.41212, Lng: 8.71064}},
	{ID: "Nuernberg", Name: "Nürnberg", Country: "Germany", Coords: models.Coordinate{Lat: 49.455277, Lng: 11.077134}},
	{ID: "Freiburg", Name: "Freiburg", Country: "Germany", Coords: models.Coordinate{Lat: 47.9946843, Lng: 7.8474426}},
	{ID: "Ulm", Name: "Ulm", Country: "Germany", Coords: models.Coordinate{Lat: 48.39851, Lng: 9.99109}},
	{ID: "Wiesbaden", Name: "Wiesbaden", Country: "Germany", Coords: models.Coordinate{Lat: 50.082, Lng: 8.24175}},
}

// Cities returns the supported cities in display order
func Cities() []models.City {
	out := make([]models.City, len(cities))
	copy(out, cities)
	return out
}

// FindCity looks up a city by id
func FindCity(id string) (models.City, bool) {
	for _, c := range cities {
		if c.ID == id {
			return c, true
		}
	}
	return models.City{}, false
}

var destinations = map[string][]models.Destination{
	"Belfast": {
		{ID: "city_hall", Name: "City Hall", Icon: models.IconLandmark},
		{ID: "victoria_square", Name: "Victoria Square", Icon: models.IconShopping},
		{ID: "titanic_quarter", Name: "Titanic Quarter", Icon: models.IconLandmark},
		{ID: "cathedral_quarter", Name: "Cathedral Quarter", Icon: models.IconCoffee},
		{ID: "botanic_gardens", Name: "Botanic Gardens", Icon: models.IconPin},
		{ID: "queens_university", Name: "Queen's University", Icon: models.IconBuilding},
		{ID: "waterfront_hall", Name: "Waterfront Hall", Icon: models.IconBuilding},
		{ID: "city_airport", Name: "City Airport", Icon: models.IconNavigation},
		{ID: "black_mountain", Name: "Black Mountain", Icon: models.IconNavigation},
		{ID: "cave_hill", Name: "Cave Hill", Icon: models.IconNavigation},
		{ID: "lagan_towpath", Name: "Lagan Towpath", Icon: models.IconPin},
	},
	"Dresden": {
		{ID: "altmarkt", Name: "Altmarkt", Icon: models.IconShopping},
		{ID: "zwinger", Name: "Zwinger Palace", Icon: models.IconLandmark},
		{ID: "semperoper", Name: "Semperoper", Icon: models.IconBuilding},
		{ID: "frauenkirche", Name: "Frauenkirche", Icon: models.IconLandmark},
	},
	"Hamburg": {
		{ID: "rathaus", Name: "City Hall", Icon: models.IconLandmark},
		{ID: "hafen", Name: "Harbor", Icon: models.IconShopping},
		{ID: "reeperbahn", Name: "Reeperbahn", Icon: models.IconCoffee},
		{ID: "speicherstadt", Name: "Speicherstadt", Icon: models.IconBuilding},
	},
	"Basel": {
		{ID: "marktplatz", Name: "Marktplatz", Icon: models.IconShopping},
		{ID: "muenster", Name: "Basel Münster", Icon: models.IconLandmark},
		{ID: "kunstmuseum", Name: "Art Museum", Icon: models.IconBuilding},
		{ID: "rhein", Name: "Rhine River", Icon: models.IconPin},
	},
}

var defaultDestinations = []models.Destination{
	{ID: "city_center", Name: "City Center", Icon: models.IconPin},
	{ID: "shopping", Name: "Shopping District", Icon: models.IconShopping},
	{ID: "historic", Name: "Historic Quarter", Icon: models.IconLandmark},
}

// DestinationsForCity returns the destination chips for a city.
// Cities without a curated list get the generic three.
func DestinationsForCity(cityID string) []models.Destination {
	list, ok := destinations[cityID]
	if !ok {
		list = defaultDestinations
	}
	out := make([]models.Destination, len(list))
	copy(out, list)
	return out
}

// FindDestination looks up a destination chip of a city by id
func FindDestination(cityID, destID string) (models.Destination, bool) {
	for _, d := range DestinationsForCity(cityID) {
		if d.ID == destID {
			return d, true
		}
	}
	return models.Destination{}, false
}
