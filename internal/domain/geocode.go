package domain

import (
	"context"
	"log/slog"
)

// GeocodingResult holds a resolved place for a coordinate pair.
type GeocodingResult struct {
	PlaceName        string
	FormattedAddress string
	Confidence       float64
}

// Geocoder resolves a buoy position to a human-readable place name.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodingResult, error)
}

// EnrichSitePlace annotates the site with a place name for the given
// coordinates. Geocoding is best-effort decoration of the latest snapshot:
// failures and empty results leave the site unchanged and never fail the run.
func EnrichSitePlace(ctx context.Context, site Site, lat, lon float64, geocoder Geocoder, logger *slog.Logger) Site {
	if geocoder == nil {
		return site
	}
	result, err := geocoder.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		logger.Warn("reverse geocode failed", "lat", lat, "lon", lon, "error", err)
		return site
	}
	if result.PlaceName == "" {
		return site
	}
	site.Place = result.PlaceName
	return site
}
