package analytics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// Handler serves the collect and stats endpoints.
type Handler struct {
	store          *Store
	collectLimiter *rateLimiter
}

// NewHandler creates an analytics handler. The collect endpoint is limited
// to 60 requests per IP per minute.
func NewHandler(store *Store) *Handler {
	return &Handler{
		store:          store,
		collectLimiter: newRateLimiter(60, time.Minute),
	}
}

// CollectRequest is the beacon body sent by the client.
type CollectRequest struct {
	Path     string `json:"path"`
	Referrer string `json:"referrer"`
}

const (
	maxPathLen     = 2048
	maxReferrerLen = 2048
)

// Collect records one page view. It always answers 204: the beacon caller
// can do nothing useful with a failure.
func (h *Handler) Collect(c echo.Context) error {
	if !h.collectLimiter.allow(c.RealIP()) {
		return c.NoContent(http.StatusTooManyRequests)
	}
	if c.Request().Header.Get("DNT") == "1" {
		return c.NoContent(http.StatusNoContent)
	}

	var req CollectRequest
	if err := c.Bind(&req); err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	if req.Path == "" || len(req.Path) > maxPathLen || len(req.Referrer) > maxReferrerLen {
		return c.NoContent(http.StatusBadRequest)
	}

	userAgent := c.Request().UserAgent()
	if IsBot(userAgent) {
		return c.NoContent(http.StatusNoContent)
	}

	browser, os, device := ParseUserAgent(userAgent)
	visit := &Visit{
		VisitorID: VisitorID(c.RealIP(), userAgent),
		Browser:   browser,
		OS:        os,
		Device:    device,
		Path:      req.Path,
		Referrer:  CleanReferrer(req.Referrer),
		Timestamp: time.Now().UTC(),
	}
	if err := h.store.SaveVisit(visit); err != nil {
		c.Logger().Errorf("save visit: %v", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats returns aggregates for the last ?days=N days (default 30, max 365).
func (h *Handler) Stats(c echo.Context) error {
	days := 30
	if v := c.QueryParam("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "days must be between 1 and 365"})
		}
		days = n
	}
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)

	stats, err := h.store.GetStats(from, to)
	if err != nil {
		c.Logger().Errorf("get stats: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load stats"})
	}
	return c.JSON(http.StatusOK, stats)
}
