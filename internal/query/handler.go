package query

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wbdata/pkg/models"
)

type Handler struct {
	Service *Service
	Logger  *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Service: svc, Logger: logger}
}

func (h *Handler) RegisterRoutes(rg gin.IRouter) {
	rg.GET("/", h.home)
	rg.GET("/countries", h.listCountries)
	rg.GET("/indicators", h.listIndicators)
	rg.GET("/data/indicator/:indicator", h.indicatorSeries) // static segment beats :country_code
	rg.GET("/data/:country_code", h.countrySeries)
}

func (h *Handler) home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the World Bank Data API"})
}

func (h *Handler) listCountries(c *gin.Context) {
	items, err := h.Service.ListCountries(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CountriesResponse{Countries: items})
}

func (h *Handler) listIndicators(c *gin.Context) {
	items, err := h.Service.ListIndicators(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.IndicatorsResponse{Indicators: items})
}

func (h *Handler) countrySeries(c *gin.Context) {
	code := c.Param("country_code")
	year, ok := yearParam(c)
	if !ok {
		return
	}

	data, err := h.Service.GetCountrySeries(c.Request.Context(), code, strings.TrimSpace(c.Query("indicator")), year)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CountryDataResponse{CountryCode: code, Data: data})
}

func (h *Handler) indicatorSeries(c *gin.Context) {
	indicator := c.Param("indicator")
	year, ok := yearParam(c)
	if !ok {
		return
	}

	desc, data, err := h.Service.GetIndicatorSeries(c.Request.Context(), indicator, year)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.IndicatorDataResponse{
		Indicator:            indicator,
		IndicatorDescription: desc,
		Data:                 data,
	})
}

// yearParam reads the optional year filter. An empty value means no filter;
// anything else that is not an integer is answered with 400.
func yearParam(c *gin.Context) (*int, bool) {
	s := strings.TrimSpace(c.Query("year"))
	if s == "" {
		return nil, true
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid year %q", s)})
		return nil, false
	}
	return &y, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnknownCountry):
		c.JSON(http.StatusNotFound, gin.H{
			"error": fmt.Sprintf("Country code '%s' not found in database", c.Param("country_code")),
		})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No data found"})
	default:
		h.Logger.Error("query failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
	}
}
