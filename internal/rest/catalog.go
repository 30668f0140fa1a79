package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shopsim/domain"
	"shopsim/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type CatalogService interface {
	Products() []*domain.Product
	Get(asin string) (*domain.Product, error)
	Len() int
}

type SearchService interface {
	Search(ctx context.Context, keywords []string, topN int) ([]string, error)
}

type GoalService interface {
	Goals() []domain.Goal
	Get(idx int) (domain.Goal, error)
	Len() int
}

type CatalogHandler struct {
	catalogService CatalogService
	searchService  SearchService
	goalService    GoalService
	timeout        time.Duration
}

func NewCatalogHandler(catalogService CatalogService, searchService SearchService, goalService GoalService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		searchService:  searchService,
		goalService:    goalService,
		timeout:        10 * time.Second,
	}
}

func (h *CatalogHandler) GetAllProducts(c echo.Context) error {
	limit := 50
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "limit must be a positive integer"})
		}
		limit = parsed
	}

	products := h.catalogService.Products()
	if len(products) > limit {
		products = products[:limit]
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"total":    h.catalogService.Len(),
		"products": products,
	}))
}

func (h *CatalogHandler) GetProductByAsin(c echo.Context) error {
	asin := c.Param("asin")

	product, err := h.catalogService.Get(asin)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to get product", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(product))
}

func (h *CatalogHandler) SearchProducts(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "missing query parameter q"})
	}

	topN := 50
	if topNStr := c.QueryParam("top_n"); topNStr != "" {
		parsed, err := strconv.Atoi(topNStr)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "top_n must be a positive integer"})
		}
		topN = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	asins, err := h.searchService.Search(ctx, strings.Fields(query), topN)
	if err != nil {
		logger.Error("Failed to search products", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"query": query,
		"asins": asins,
	}))
}

func (h *CatalogHandler) GetGoalByIndex(c echo.Context) error {
	idxStr := c.Param("idx")

	idx, err := strconv.Atoi(idxStr)
	if err != nil {
		logger.Error("Invalid goal index", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	goal, err := h.goalService.Get(idx)
	if err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to get goal", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(goal))
}

func (h *CatalogHandler) GetGoalStats(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"total_goals": h.goalService.Len(),
	}))
}
