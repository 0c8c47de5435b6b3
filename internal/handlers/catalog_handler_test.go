package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogRouter() *gin.Engine {
	h := NewCatalogHandler(newTestSessions(), testLogger())
	r := newTestRouter(guestUser())
	r.GET("/cities", h.ListCities)
	r.GET("/cities/nearest", h.NearestCity)
	r.GET("/cities/:id/destinations", h.Destinations)
	r.GET("/suggestions", h.Suggestions)
	r.PUT("/catalog/city", h.SelectCity)
	r.GET("/catalog", h.GetCatalog)
	return r
}

func TestNearestCity(t *testing.T) {
	r := newCatalogRouter()

	w := doJSON(t, r, http.MethodGet, "/cities/nearest?lat=51.05&lng=13.74", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		City struct {
			ID string `json:"id"`
		} `json:"city"`
		DistanceKm float64 `json:"distance_km"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "Dresden", resp.City.ID)
	assert.Less(t, resp.DistanceKm, 1.0)

	w = doJSON(t, r, http.MethodGet, "/cities/nearest?lat=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDestinations(t *testing.T) {
	r := newCatalogRouter()

	w := doJSON(t, r, http.MethodGet, "/cities/Belfast/destinations", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/cities/Atlantis/destinations", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListCities(t *testing.T) {
	r := newCatalogRouter()

	w := doJSON(t, r, http.MethodGet, "/cities", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Belfast"`)
}

func TestSelectCity(t *testing.T) {
	r := newCatalogRouter()

	w := doJSON(t, r, http.MethodPut, "/catalog/city", SelectCityRequest{CityID: "Dresden"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/catalog", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		CityID string `json:"city_id"`
		Count  int    `json:"count"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "Dresden", resp.CityID)
	assert.Equal(t, 0, resp.Count)
}

func TestSelectCity_Unknown(t *testing.T) {
	r := newCatalogRouter()

	w := doJSON(t, r, http.MethodPut, "/catalog/city", SelectCityRequest{CityID: "Atlantis"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPut, "/catalog/city", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
