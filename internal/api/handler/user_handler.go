package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/catregistry/cat-api/internal/core/ports"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Create handles POST /api/v1/users. New accounts always get the user role.
//
// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      userCreateRequest  true  "Account details"
// @Success      200   {object}  messageResponse{data=userSummary}
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req userCreateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.service.CreateUser(c.Request().Context(), ports.CreateUserInput{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "User created", Data: toUserSummary(user)})
}

// Get handles GET /api/v1/users/:id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	var req idParam
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.service.GetUser(c.Request().Context(), req.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// List handles GET /api/v1/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}   userResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// UpdateCurrent handles PUT /api/v1/users. The target is always the caller.
//
// @Summary      Update the current user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      userUpdateRequest  true  "Fields to change"
// @Success      200   {object}  messageResponse{data=userSummary}
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/v1/users [put]
func (h *UserHandler) UpdateCurrent(c echo.Context) error {
	var req userUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.service.UpdateCurrentUser(c.Request().Context(), actor, ports.UpdateUserInput{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "User updated", Data: toUserSummary(user)})
}

// DeleteCurrent handles DELETE /api/v1/users.
//
// @Summary      Delete the current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse{data=userSummary}
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/users [delete]
func (h *UserHandler) DeleteCurrent(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.service.DeleteCurrentUser(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted", Data: toUserSummary(user)})
}

// CheckToken handles GET /api/v1/users/token and echoes the token's identity.
//
// @Summary      Check token
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/users/token [get]
func (h *UserHandler) CheckToken(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}

	id := h.service.CheckToken(actor)
	return c.JSON(http.StatusOK, userResponse{UserName: id.UserName, Email: id.Email, ID: id.ID})
}
