package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storefront.GO/api"
	"storefront.GO/catalog"
	"storefront.GO/config"
	"storefront.GO/core/validate"
	"storefront.GO/search"
	catalogService "storefront.GO/service/catalog"
)

func init() {
	api.RegisterModule(RegisterProductRoutes)
}

// ProductsQuery are the query parameters of GET /api/catalog/products.
type ProductsQuery struct {
	Sort  string `query:"sort" validate:"max=64"`
	Q     string `query:"q" validate:"max=256"`
	After string `query:"after" validate:"max=1024"`
	First int    `query:"first" validate:"omitempty,min=1,max=250"`
	Store uint16 `query:"store"`
}

type ProductsResponse struct {
	Products    []search.Product `json:"products"`
	EndCursor   string           `json:"end_cursor"`
	HasNextPage bool             `json:"has_next_page"`
	SortKey     string           `json:"sort_key"`
	Reverse     bool             `json:"reverse"`
}

func sortTable() search.SortTable {
	if config.AppConfig == nil {
		return search.DefaultSortTable()
	}
	t, err := config.AppConfig.SortTable()
	if err != nil {
		slog.Warn("sort table unavailable, using built-in options", "err", err)
		return search.DefaultSortTable()
	}
	return t
}

func mediaURL() string {
	if config.AppConfig == nil {
		return ""
	}
	return config.AppConfig.MediaUrl
}

func RegisterProductRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/catalog")
	table := sortTable()
	media := mediaURL()

	// GET /api/catalog/products?sort=price-asc&q=shoe&after=...&first=20
	g.GET("/products", func(c echo.Context) error {
		start := time.Now()

		var q ProductsQuery
		if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := c.Validate(&q); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": validate.Message(err)})
		}

		params := search.ResolveParams(q.Sort, q.Q, table)
		res, err := catalogService.GetSearchService(db).Search(c.Request().Context(), catalogService.Query{
			StoreID: q.Store,
			SortKey: params.SortKey,
			Reverse: params.Reverse,
			Text:    params.Query,
			After:   q.After,
			First:   q.First,
		})
		if errors.Is(err, catalogService.ErrInvalidCursor) || errors.Is(err, catalogService.ErrUnknownSortKey) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}

		out := ProductsResponse{
			Products:    make([]search.Product, len(res.Products)),
			EndCursor:   res.EndCursor,
			HasNextPage: res.HasNextPage,
			SortKey:     params.SortKey,
			Reverse:     params.Reverse,
		}
		for i, p := range res.Products {
			out.Products[i] = catalog.FromEntity(p, media)
		}

		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(time.Since(start).Milliseconds(), 10))
		return c.JSON(http.StatusOK, out)
	})
}
