package httpserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sickfits/internal/domain"
	"github.com/Skotchmaster/sickfits/internal/models"
	"github.com/Skotchmaster/sickfits/internal/mutation"
	"github.com/Skotchmaster/sickfits/internal/repo"
	"github.com/Skotchmaster/sickfits/internal/search"
	"github.com/Skotchmaster/sickfits/internal/transport"
	"github.com/Skotchmaster/sickfits/pkg/util"
)

type ItemsHTTP struct {
	Gateway *mutation.Gateway
	Repo    *repo.GormRepo
	Index   search.Index
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid id %q", domain.ErrValidation, c.Param("id"))
	}
	return id, nil
}

func (h *ItemsHTTP) List(c echo.Context) error {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Repo.ListItems(c.Request().Context(), offset, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, struct {
		Items []models.Item `json:"items"`
		Meta  util.Meta     `json:"meta"`
	}{Items: items, Meta: util.NewMeta(page, offset, limit, total)})
}

func (h *ItemsHTTP) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	item, err := h.Repo.ItemByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ItemsHTTP) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return fmt.Errorf("%w: query is required", domain.ErrValidation)
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	res, err := h.Index.Search(c.Request().Context(), q, from, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ItemsHTTP) Create(c echo.Context) error {
	var req transport.CreateItemRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	item, err := h.Gateway.CreateItem(c.Request().Context(), callerFrom(c), mutation.ItemFields{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		LargeImage:  req.LargeImage,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *ItemsHTTP) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req transport.UpdateItemRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	item, err := h.Gateway.UpdateItem(c.Request().Context(), callerFrom(c), id, mutation.ItemPatch{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		LargeImage:  req.LargeImage,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ItemsHTTP) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	item, err := h.Gateway.DeleteItem(c.Request().Context(), callerFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}
