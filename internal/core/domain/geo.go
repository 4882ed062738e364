package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Point is a GeoJSON-style position: longitude first, latitude second.
type Point struct {
	Lon float64
	Lat float64
}

// ValidLatitude reports whether lat is a finite value in [-90, 90].
func ValidLatitude(lat float64) bool {
	return !math.IsNaN(lat) && lat >= -90 && lat <= 90
}

// ValidLongitude reports whether lon is a finite value in [-180, 180].
func ValidLongitude(lon float64) bool {
	return !math.IsNaN(lon) && lon >= -180 && lon <= 180
}

// NewPoint builds a point and checks WGS84 ranges. NaN and infinities are
// rejected.
func NewPoint(lon, lat float64) (Point, error) {
	if !ValidLongitude(lon) || !ValidLatitude(lat) {
		return Point{}, fmt.Errorf("%w: lon=%v lat=%v", ErrInvalidCoordinates, lon, lat)
	}
	return Point{Lon: lon, Lat: lat}, nil
}

// ParseLatLng parses a "lat,lng" pair as sent in query strings.
func ParseLatLng(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("%w: %q is not lat,lng", ErrInvalidCoordinates, s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: latitude %q", ErrInvalidCoordinates, parts[0])
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: longitude %q", ErrInvalidCoordinates, parts[1])
	}
	return NewPoint(lng, lat)
}

// BoundingBox is [minLon, minLat, maxLon, maxLat].
type BoundingBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// NewBoundingBox builds a box from its south-west and north-east corners.
func NewBoundingBox(bottomLeft, topRight Point) (BoundingBox, error) {
	if bottomLeft.Lon > topRight.Lon || bottomLeft.Lat > topRight.Lat {
		return BoundingBox{}, fmt.Errorf("%w: bottom-left corner must not exceed top-right", ErrInvalidCoordinates)
	}
	return BoundingBox{
		MinLon: bottomLeft.Lon,
		MinLat: bottomLeft.Lat,
		MaxLon: topRight.Lon,
		MaxLat: topRight.Lat,
	}, nil
}

// Contains reports whether p lies inside b. Edges are inclusive.
func (b BoundingBox) Contains(p Point) bool {
	return p.Lon >= b.MinLon && p.Lon <= b.MaxLon &&
		p.Lat >= b.MinLat && p.Lat <= b.MaxLat
}

// Slice returns the box in its four-number wire form.
func (b BoundingBox) Slice() []float64 {
	return []float64{b.MinLon, b.MinLat, b.MaxLon, b.MaxLat}
}
