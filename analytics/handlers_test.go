package analytics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

const desktopChromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func doCollect(h *Handler, body, userAgent string, headers map[string]string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/analytics/collect", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = h.Collect(c)
	return rec
}

func TestCollectStoresVisit(t *testing.T) {
	s := setupTestStore(t)
	h := NewHandler(s)

	rec := doCollect(h, `{"path":"/blog/my-post","referrer":"https://www.google.com/search"}`, desktopChromeUA, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM visits`).Scan(&n); err != nil {
		t.Fatalf("count visits: %v", err)
	}
	if n != 1 {
		t.Fatalf("stored visits = %d, want 1", n)
	}

	var path, referrer, browser string
	err := s.db.QueryRow(`SELECT path, referrer, browser FROM visits`).Scan(&path, &referrer, &browser)
	if err != nil {
		t.Fatalf("read visit: %v", err)
	}
	if path != "/blog/my-post" {
		t.Errorf("path = %q", path)
	}
	if referrer != "Google" {
		t.Errorf("referrer = %q, want cleaned %q", referrer, "Google")
	}
	if browser != "Chrome" {
		t.Errorf("browser = %q, want %q", browser, "Chrome")
	}
}

func TestCollectHonorsDNT(t *testing.T) {
	s := setupTestStore(t)
	h := NewHandler(s)

	rec := doCollect(h, `{"path":"/"}`, desktopChromeUA, map[string]string{"DNT": "1"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	var n int
	s.db.QueryRow(`SELECT COUNT(*) FROM visits`).Scan(&n)
	if n != 0 {
		t.Errorf("stored visits = %d, want 0 with DNT set", n)
	}
}

func TestCollectIgnoresBots(t *testing.T) {
	s := setupTestStore(t)
	h := NewHandler(s)

	rec := doCollect(h, `{"path":"/"}`, "Mozilla/5.0 (compatible; Googlebot/2.1)", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	var n int
	s.db.QueryRow(`SELECT COUNT(*) FROM visits`).Scan(&n)
	if n != 0 {
		t.Errorf("stored visits = %d, want 0 for bot traffic", n)
	}
}

func TestCollectRejectsBadBeacon(t *testing.T) {
	s := setupTestStore(t)
	h := NewHandler(s)

	longPath := `{"path":"/` + strings.Repeat("x", maxPathLen) + `"}`
	for _, body := range []string{`{}`, longPath} {
		rec := doCollect(h, body, desktopChromeUA, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %.20s...: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestStatsEndpoint(t *testing.T) {
	s := setupTestStore(t)
	h := NewHandler(s)

	doCollect(h, `{"path":"/"}`, desktopChromeUA, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/analytics/stats?days=7", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Stats(c); err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"total_views":1`) {
		t.Errorf("body = %q, want one recorded view", rec.Body.String())
	}
}

func TestStatsRejectsBadDays(t *testing.T) {
	s := setupTestStore(t)
	h := NewHandler(s)

	e := echo.New()
	for _, q := range []string{"days=0", "days=366", "days=abc", "days=-1"} {
		req := httptest.NewRequest(http.MethodGet, "/api/analytics/stats?"+q, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if err := h.Stats(c); err != nil {
			t.Fatalf("Stats failed: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}
