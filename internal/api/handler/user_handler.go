package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/madinti/madinti-api/internal/api/response"
	"github.com/madinti/madinti-api/internal/core/domain"
	"github.com/madinti/madinti-api/internal/core/ports"
)

// UserHandler serves the staff account administration routes.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type setStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

// GetUser returns a full account record.
//
// @Summary      Get a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  response.Envelope{data=userResponse}
// @Failure      401  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /admin/users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userService.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "", userResponse{User: user})
}

// SetStatus activates or deactivates an account. Staff cannot deactivate
// themselves or change an account of a higher tier than their own.
//
// @Summary      Change account status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "User id"
// @Param        body  body      setStatusRequest  true  "New status"
// @Success      200   {object}  response.Envelope{data=userResponse}
// @Failure      400   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Failure      403   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Router       /admin/users/{id}/status [patch]
func (h *UserHandler) SetStatus(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req setStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	id := c.Param("id")
	if id == claims.UserID && !*req.IsActive {
		return domain.ErrForbidden
	}

	target, err := h.userService.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if target.Role.Outranks(claims.Role) {
		return domain.ErrForbidden
	}

	user, err := h.userService.SetActive(c.Request().Context(), id, *req.IsActive)
	if err != nil {
		return err
	}

	msg := "Account deactivated"
	if user.IsActive {
		msg = "Account activated"
	}
	return response.Success(c, http.StatusOK, msg, userResponse{User: user})
}
