package httpserver

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sickfits/internal/domain"
	"github.com/Skotchmaster/sickfits/internal/mutation"
	"github.com/Skotchmaster/sickfits/internal/transport"
)

type CartHTTP struct {
	Gateway *mutation.Gateway
}

func (h *CartHTTP) Get(c echo.Context) error {
	rows, err := h.Gateway.Cart.Cart(c.Request().Context(), callerFrom(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *CartHTTP) Add(c echo.Context) error {
	var req transport.AddToCartRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return fmt.Errorf("%w: invalid itemId", domain.ErrValidation)
	}

	row, err := h.Gateway.AddToCart(c.Request().Context(), callerFrom(c), itemID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, row)
}
