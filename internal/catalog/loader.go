package catalog

import (
	"context"
	"fmt"

	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/parkeasy/parkeasy-backend/pkg/parkapi"
	"github.com/sirupsen/logrus"
)

// Defaults for lots that ParkAPI does not price or rate
const (
	remoteHourlyRate = 2.5
	remoteDailyMax   = 12
	remoteRating     = 4.2
)

// LotSource fetches the raw lot listing of a city
type LotSource interface {
	GetCity(ctx context.Context, cityID string) (*parkapi.CityResponse, error)
}

// Cache stores mapped catalogs of remote cities
type Cache interface {
	Get(ctx context.Context, cityID string) ([]models.ParkingSpot, bool, error)
	Set(ctx context.Context, cityID string, spots []models.ParkingSpot) error
	Invalidate(ctx context.Context, cityID string) error
}

// Loader returns the catalog of a city
type Loader struct {
	source LotSource
	cache  Cache
	logger *logrus.Logger
}

// NewLoader creates a new catalog loader. cache may be nil.
func NewLoader(source LotSource, cache Cache, logger *logrus.Logger) *Loader {
	return &Loader{
		source: source,
		cache:  cache,
		logger: logger,
	}
}

// Load returns the catalog for cityID.
// It never fails: remote errors are logged and yield an empty list.
func (l *Loader) Load(ctx context.Context, cityID string) []models.ParkingSpot {
	if cityID == BundledCityID {
		spots, err := BundledSpots()
		if err != nil {
			l.logger.WithError(err).Error("Bundled catalog unavailable")
			return []models.ParkingSpot{}
		}
		return spots
	}

	if l.cache != nil {
		spots, ok, err := l.cache.Get(ctx, cityID)
		if err != nil {
			l.logger.WithFields(logrus.Fields{
				"city":  cityID,
				"error": err.Error(),
			}).Warn("Catalog cache read failed")
		} else if ok {
			return spots
		}
	}

	spots, err := l.fetch(ctx, cityID)
	if err != nil {
		l.logger.WithFields(logrus.Fields{
			"city":  cityID,
			"error": err.Error(),
		}).Error("Error fetching parking data")
		return []models.ParkingSpot{}
	}

	if l.cache != nil {
		if err := l.cache.Set(ctx, cityID, spots); err != nil {
			l.logger.WithFields(logrus.Fields{
				"city":  cityID,
				"error": err.Error(),
			}).Warn("Catalog cache write failed")
		}
	}

	return spots
}

// Refresh drops any cached copy of a remote city and loads it again
func (l *Loader) Refresh(ctx context.Context, cityID string) []models.ParkingSpot {
	if l.cache != nil && cityID != BundledCityID {
		if err := l.cache.Invalidate(ctx, cityID); err != nil {
			l.logger.WithFields(logrus.Fields{
				"city":  cityID,
				"error": err.Error(),
			}).Warn("Catalog cache invalidation failed")
		}
	}
	return l.Load(ctx, cityID)
}

func (l *Loader) fetch(ctx context.Context, cityID string) ([]models.ParkingSpot, error) {
	if l.source == nil {
		return nil, fmt.Errorf("no remote source configured")
	}
	resp, err := l.source.GetCity(ctx, cityID)
	if err != nil {
		return nil, err
	}
	return MapLots(cityID, resp.Lots), nil
}

// MapLots converts ParkAPI lots into catalog entries
func MapLots(cityID string, lots []parkapi.Lot) []models.ParkingSpot {
	spots := make([]models.ParkingSpot, 0, len(lots))
	for i, lot := range lots {
		address := lot.Address
		if address == "" {
			address = "Address not available"
		}
		state := lot.State
		if state == "" {
			state = "unknown"
		}
		coords := &models.Coordinate{}
		if lot.Coords != nil {
			coords.Lat = lot.Coords.Lat
			coords.Lng = lot.Coords.Lng
		}

		spots = append(spots, models.ParkingSpot{
			ID:      fmt.Sprintf("%s-%d", cityID, i),
			Name:    lot.Name,
			Address: address,
			Type:    models.SpotTypeMultiStorey,
			Pricing: models.Pricing{
				Free:       lot.Free == lot.Total,
				HourlyRate: remoteHourlyRate,
				DailyMax:   remoteDailyMax,
			},
			Available:        lot.Free,
			Total:            lot.Total,
			Rating:           remoteRating,
			EVCharging:       models.EVCharging{},
			Features:         models.Features{Accessible: true, Covered: true, Security: true},
			Distance:         0,
			NearDestinations: []string{},
			Description:      fmt.Sprintf("Parking facility in %s", cityID),
			Coords:           coords,
			State:            state,
			Hours:            &models.OpeningHours{Open: models.OpenAllDay},
		})
	}
	return spots
}
