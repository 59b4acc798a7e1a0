package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/assetintel/asset-intelligence/internal/core/ports"
)

// AdminHandler exposes identity administration to privileged roles.
type AdminHandler struct {
	authService ports.AuthService
}

func NewAdminHandler(authService ports.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

// Identities lists demo and registered identities without secrets.
//
// @Summary      List identities
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  identitiesResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/v1/admin/identities [get]
func (h *AdminHandler) Identities(c echo.Context) error {
	ids, err := h.authService.Identities(c.Request().Context())
	if err != nil {
		return err
	}

	out := identitiesResponse{Identities: make([]userResponse, 0, len(ids)), Total: len(ids)}
	for i := range ids {
		out.Identities = append(out.Identities, *toUserResponse(&ids[i]))
	}
	return c.JSON(http.StatusOK, out)
}
