package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/catregistry/cat-api/internal/api/middleware"
	"github.com/catregistry/cat-api/internal/core/domain"
	"github.com/catregistry/cat-api/internal/core/ports"
)

// CatHandler handles HTTP requests for cat operations.
type CatHandler struct {
	service ports.CatService
}

func NewCatHandler(service ports.CatService) *CatHandler {
	return &CatHandler{service: service}
}

// Create handles POST /api/v1/cats.
//
// @Summary      Create a cat
// @Description  Multipart form. The image goes in the "cat" file field; lat and lng are form values.
// @Tags         cats
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        cat_name   formData  string  true  "Name"
// @Param        weight     formData  number  true  "Weight"
// @Param        birthdate  formData  string  true  "Birthdate (YYYY-MM-DD)"
// @Param        lat        formData  number  true  "Latitude"
// @Param        lng        formData  number  true  "Longitude"
// @Param        cat        formData  file    true  "Image"
// @Success      200  {object}  messageResponse{data=catResponse}
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/cats [post]
func (h *CatHandler) Create(c echo.Context) error {
	var req catCreateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	weight, err := strconv.ParseFloat(req.Weight, 64)
	if err != nil {
		return domain.ValidationError("Invalid value: weight")
	}
	birthdate, err := time.Parse(dateLayout, req.Birthdate)
	if err != nil {
		return domain.ValidationError("Invalid date, expected YYYY-MM-DD: birthdate")
	}

	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	filename, ok := middleware.UploadedFile(c)
	if !ok {
		return domain.ValidationError("Required field: cat")
	}
	location, ok := middleware.Coordinates(c)
	if !ok {
		return domain.ValidationError("Required field: lat, Required field: lng")
	}

	cat, err := h.service.CreateCat(c.Request().Context(), ports.CreateCatInput{
		Name:      req.Name,
		Weight:    weight,
		Birthdate: birthdate,
		Filename:  filename,
		Location:  location,
		Owner:     actor,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Cat created", Data: toCatResponse(cat)})
}

// List handles GET /api/v1/cats.
//
// @Summary      List all cats
// @Tags         cats
// @Produce      json
// @Success      200  {array}   catResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/cats [get]
func (h *CatHandler) List(c echo.Context) error {
	cats, err := h.service.ListCats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCatList(cats))
}

// ListByUser handles GET /api/v1/cats/user.
//
// @Summary      List the caller's cats
// @Tags         cats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   catResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/cats/user [get]
func (h *CatHandler) ListByUser(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}

	cats, err := h.service.ListCatsByOwner(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCatList(cats))
}

// ListInArea handles GET /api/v1/cats/area.
//
// @Summary      List cats inside a bounding box
// @Tags         cats
// @Produce      json
// @Param        topRight    query     string  true  "North-east corner as lat,lng"
// @Param        bottomLeft  query     string  true  "South-west corner as lat,lng"
// @Success      200  {array}   catResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/cats/area [get]
func (h *CatHandler) ListInArea(c echo.Context) error {
	box, ok := middleware.Box(c)
	if !ok {
		return domain.NewError(domain.KindBoundingBox, "Error cat get bounding box", domain.ErrInvalidCoordinates)
	}

	cats, err := h.service.ListCatsInBox(c.Request().Context(), box)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCatList(cats))
}

// Get handles GET /api/v1/cats/:id.
//
// @Summary      Get a cat
// @Tags         cats
// @Produce      json
// @Param        id   path      string  true  "Cat id"
// @Success      200  {object}  catResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/cats/{id} [get]
func (h *CatHandler) Get(c echo.Context) error {
	var req idParam
	if err := bind(c, &req); err != nil {
		return err
	}

	cat, err := h.service.GetCat(c.Request().Context(), req.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCatResponse(cat))
}

// Update handles PUT /api/v1/cats/:id. Only the owner may update.
//
// @Summary      Update own cat
// @Tags         cats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Cat id"
// @Param        body  body      catUpdateRequest  true  "Fields to change"
// @Success      200  {object}  messageResponse{data=catResponse}
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/cats/{id} [put]
func (h *CatHandler) Update(c echo.Context) error {
	var req catUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	patch, err := req.patch()
	if err != nil {
		return err
	}

	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}

	cat, err := h.service.UpdateCat(c.Request().Context(), actor, req.ID, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Cat updated", Data: toCatResponse(cat)})
}

// UpdateAsAdmin handles PUT /api/v1/cats/admin/:id. Admins may also reassign the owner.
//
// @Summary      Update any cat (admin)
// @Tags         cats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Cat id"
// @Param        body  body      catAdminUpdateRequest  true  "Fields to change"
// @Success      200  {object}  messageResponse{data=catResponse}
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/cats/admin/{id} [put]
func (h *CatHandler) UpdateAsAdmin(c echo.Context) error {
	var req catAdminUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	patch, err := req.patch()
	if err != nil {
		return err
	}

	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}

	cat, err := h.service.UpdateCatAsAdmin(c.Request().Context(), actor, req.ID, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Cat updated", Data: toCatResponse(cat)})
}

// Delete handles DELETE /api/v1/cats/:id. Only the owner may delete.
//
// @Summary      Delete own cat
// @Tags         cats
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Cat id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/cats/{id} [delete]
func (h *CatHandler) Delete(c echo.Context) error {
	var req idParam
	if err := bind(c, &req); err != nil {
		return err
	}

	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteCat(c.Request().Context(), actor, req.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Cat deleted"})
}

// DeleteAsAdmin handles DELETE /api/v1/cats/admin/:id.
//
// @Summary      Delete any cat (admin)
// @Tags         cats
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Cat id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/cats/admin/{id} [delete]
func (h *CatHandler) DeleteAsAdmin(c echo.Context) error {
	var req idParam
	if err := bind(c, &req); err != nil {
		return err
	}

	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteCatAsAdmin(c.Request().Context(), actor, req.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Cat deleted"})
}

// patch converts the validated request into a domain patch.
func (r catUpdateRequest) patch() (domain.CatPatch, error) {
	patch := domain.CatPatch{
		Name:   r.Name,
		Weight: r.Weight,
	}
	if r.Birthdate != nil {
		t, err := time.Parse(dateLayout, *r.Birthdate)
		if err != nil {
			return domain.CatPatch{}, domain.ValidationError("Invalid date, expected YYYY-MM-DD: birthdate")
		}
		patch.Birthdate = &t
	}
	if r.Location != nil {
		p, err := domain.NewPoint(r.Location.Coordinates[0], r.Location.Coordinates[1])
		if err != nil {
			return domain.CatPatch{}, domain.ValidationError("Invalid coordinates: location")
		}
		patch.Location = &p
	}
	return patch, nil
}

func (r catAdminUpdateRequest) patch() (domain.CatPatch, error) {
	patch, err := catUpdateRequest{
		ID:        r.ID,
		Name:      r.Name,
		Weight:    r.Weight,
		Birthdate: r.Birthdate,
		Location:  r.Location,
	}.patch()
	if err != nil {
		return domain.CatPatch{}, err
	}
	patch.OwnerID = r.Owner
	return patch, nil
}
