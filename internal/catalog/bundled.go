package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/parkeasy/parkeasy-backend/internal/models"
)

//go:embed data/belfast_spots.json
var belfastSpotsJSON []byte

var (
	bundledOnce  sync.Once
	bundledSpots []models.ParkingSpot
	bundledErr   error
)

// BundledSpots returns a copy of the embedded Belfast catalog
func BundledSpots() ([]models.ParkingSpot, error) {
	bundledOnce.Do(func() {
		if err := json.Unmarshal(belfastSpotsJSON, &bundledSpots); err != nil {
			bundledErr = fmt.Errorf("failed to decode bundled catalog: %w", err)
		}
	})
	if bundledErr != nil {
		return nil, bundledErr
	}

	out := make([]models.ParkingSpot, len(bundledSpots))
	copy(out, bundledSpots)
	return out, nil
}
