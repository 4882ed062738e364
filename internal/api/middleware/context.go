package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/catregistry/cat-api/internal/core/domain"
)

// Echo context keys written by this package.
const (
	keyIdentity    = "identity"
	keyUpload      = "upload_filename"
	keyPoint       = "coords"
	keyBoundingBox = "bbox"
)

// SetIdentity attaches the authenticated caller to c.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(keyIdentity, id)
}

// Identity returns the caller attached by Auth, or the anonymous identity.
func Identity(c echo.Context) domain.Identity {
	id, _ := c.Get(keyIdentity).(domain.Identity)
	return id
}

// UploadedFile returns the server-assigned name of the image stored by Upload.
func UploadedFile(c echo.Context) (string, bool) {
	name, ok := c.Get(keyUpload).(string)
	return name, ok && name != ""
}

// Coordinates returns the point parsed by Point.
func Coordinates(c echo.Context) (domain.Point, bool) {
	p, ok := c.Get(keyPoint).(domain.Point)
	return p, ok
}

// Box returns the bounding box parsed by BoundingBox.
func Box(c echo.Context) (domain.BoundingBox, bool) {
	b, ok := c.Get(keyBoundingBox).(domain.BoundingBox)
	return b, ok
}
