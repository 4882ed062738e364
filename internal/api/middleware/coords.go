package middleware

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/catregistry/cat-api/internal/core/domain"
)

const msgBoundingBox = "Error cat get bounding box"

// Point reads the lat and lng form values into a domain.Point.
func Point() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var failed []string

			lat, err := strconv.ParseFloat(strings.TrimSpace(c.FormValue("lat")), 64)
			if err != nil || !domain.ValidLatitude(lat) {
				failed = append(failed, "Invalid latitude: lat")
			}
			lng, err := strconv.ParseFloat(strings.TrimSpace(c.FormValue("lng")), 64)
			if err != nil || !domain.ValidLongitude(lng) {
				failed = append(failed, "Invalid longitude: lng")
			}
			if len(failed) > 0 {
				return domain.ValidationError(strings.Join(failed, ", "))
			}

			p, err := domain.NewPoint(lng, lat)
			if err != nil {
				return domain.ValidationError("Invalid latitude: lat, Invalid longitude: lng")
			}
			c.Set(keyPoint, p)
			return next(c)
		}
	}
}

// BoundingBox reads the topRight and bottomLeft query parameters, each a
// "lat,lng" pair, into a domain.BoundingBox.
func BoundingBox() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			topRight, err := domain.ParseLatLng(c.QueryParam("topRight"))
			if err != nil {
				return domain.NewError(domain.KindBoundingBox, msgBoundingBox, err)
			}
			bottomLeft, err := domain.ParseLatLng(c.QueryParam("bottomLeft"))
			if err != nil {
				return domain.NewError(domain.KindBoundingBox, msgBoundingBox, err)
			}

			box, err := domain.NewBoundingBox(bottomLeft, topRight)
			if err != nil {
				return domain.NewError(domain.KindBoundingBox, msgBoundingBox, err)
			}

			c.Set(keyBoundingBox, box)
			return next(c)
		}
	}
}
