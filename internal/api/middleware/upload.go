package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/catregistry/cat-api/internal/core/domain"
	"github.com/catregistry/cat-api/internal/core/ports"
	"github.com/catregistry/cat-api/pkg/logger"
)

// UploadConfig configures the Upload middleware.
type UploadConfig struct {
	Store ports.ImageStore
	// Field is the multipart file field. Defaults to "cat".
	Field string
	// MaxBytes caps the accepted file size. Zero means no cap.
	MaxBytes int64
}

// Upload stores the image sent in the configured multipart field under a
// fresh "<uuid><ext>" name and exposes that name through UploadedFile.
// A request without the field passes through untouched. When the rest of the
// chain fails the stored image is removed again.
func Upload(cfg UploadConfig) echo.MiddlewareFunc {
	field := cfg.Field
	if field == "" {
		field = "cat"
	}
	log := logger.With("upload")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			fh, err := c.FormFile(field)
			if errors.Is(err, http.ErrMissingFile) {
				return next(c)
			}
			if err != nil {
				return domain.ValidationError("Invalid file: " + field)
			}
			if cfg.MaxBytes > 0 && fh.Size > cfg.MaxBytes {
				return domain.ValidationError(fmt.Sprintf("File larger than %d bytes: %s", cfg.MaxBytes, field))
			}

			src, err := fh.Open()
			if err != nil {
				return domain.ValidationError("Invalid file: " + field)
			}
			defer src.Close()

			contentType, err := sniff(src)
			if err != nil {
				return domain.ValidationError("Invalid file: " + field)
			}
			if !strings.HasPrefix(contentType, "image/") {
				return domain.ValidationError("Only images are allowed: " + field)
			}

			name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
			ctx := c.Request().Context()
			if err := cfg.Store.Save(ctx, name, src, fh.Size, contentType); err != nil {
				return domain.NewError(domain.KindCreation, "Error uploading file", err)
			}
			c.Set(keyUpload, name)

			if err := next(c); err != nil {
				if derr := cfg.Store.Delete(context.WithoutCancel(ctx), name); derr != nil {
					log.Warn().Err(derr).Str("filename", name).Msg("failed to remove orphaned upload")
				}
				return err
			}
			return nil
		}
	}
}

// sniff detects the content type from the first bytes and rewinds r.
func sniff(r io.ReadSeeker) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}
