// Package portfolio is the backend for a single-page portfolio site.
// It relays contact-form submissions over SMTP, proxies chat messages to the
// Gemini API and streams replies back as server-sent events, and serves a
// flat-file blog store (one JSON document per post). Feed, sitemap, image
// uploads, and privacy-first analytics come along for the ride.
package portfolio

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/anubhav-qt/portfolio/analytics"
)

// App is the central application. It wires together config, the Echo
// instance, the blog store, the chat relay, the mailer, and analytics.
type App struct {
	Config Config
	Echo   *echo.Echo
	Store  *BlogStore
	Chat   *ChatService
	Mailer Mailer

	contactLimiter *RateLimiter
	chatLimiter    *RateLimiter
	analyticsStore *analytics.Store
	customRoutes   []func(*App)
	staticDir      string
}

// New creates an App with the given configuration.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "client/build",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start validates configuration, wires dependencies and routes, and runs the
// server until it shuts down.
func (a *App) Start() error {
	if err := a.init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// init performs everything Start does short of listening. Split out so tests
// can drive the full router without binding a port.
func (a *App) init() error {
	// Misconfiguration is fatal here, before any request is served.
	// A missing credential must never surface as a confusing 500 later.
	if a.Config.GeminiAPIKey == "" {
		return fmt.Errorf("portfolio: GeminiAPIKey is required")
	}
	if a.Config.SMTPUser == "" || a.Config.SMTPPassword == "" {
		return fmt.Errorf("portfolio: SMTP credentials are required")
	}

	store, err := NewBlogStore(a.Config.BlogsDir)
	if err != nil {
		return fmt.Errorf("portfolio: init blog store: %w", err)
	}
	a.Store = store

	if a.Chat == nil {
		a.Chat = NewChatService(a.Config.GeminiAPIKey, a.Config.GeminiModel)
	}
	if a.Mailer == nil {
		a.Mailer = NewSMTPMailer(a.Config.SMTPHost, a.Config.SMTPPort, a.Config.SMTPUser, a.Config.SMTPPassword)
	}

	a.contactLimiter = NewRateLimiter(5, time.Minute)
	a.chatLimiter = NewRateLimiter(10, time.Minute)

	if a.Config.AnalyticsEnabled {
		as, err := analytics.NewStore(a.Config.AnalyticsDatabasePath)
		if err != nil {
			return fmt.Errorf("portfolio: init analytics: %w", err)
		}
		a.analyticsStore = as
		if err := analytics.InitSalt(as); err != nil {
			return fmt.Errorf("portfolio: init analytics salt: %w", err)
		}
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/api/test", a.handleTest)
	e.POST("/api/chat", a.handleChat)
	e.POST("/api/contact", a.handleContact)

	e.GET("/api/blogs", a.handleListBlogs)
	e.GET("/api/blogs/:slug", a.handleGetBlog)
	e.POST("/api/blogs", a.handleCreateBlog, a.devOnly)

	// Image endpoints live outside /api/blogs/ so they can never shadow a slug.
	e.GET("/api/images", a.handleImageList, a.devOnly)
	e.POST("/api/images", a.handleImageUpload, a.devOnly)

	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	if a.analyticsStore != nil {
		h := analytics.NewHandler(a.analyticsStore)
		e.POST("/api/analytics/collect", h.Collect)
		e.GET("/api/analytics/stats", h.Stats, a.devOnly)
	}

	// In production the server also hosts the built client; any non-API path
	// falls back to index.html for client-side routing.
	if a.Config.Production() {
		e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
			Root:  a.staticDir,
			HTML5: true,
			Skipper: func(c echo.Context) bool {
				return strings.HasPrefix(c.Request().URL.Path, "/api/")
			},
		}))
	}
}

// Close cleans up background resources. Call when the app is shutting down.
func (a *App) Close() error {
	if a.contactLimiter != nil {
		a.contactLimiter.Stop()
	}
	if a.chatLimiter != nil {
		a.chatLimiter.Stop()
	}
	if a.analyticsStore != nil {
		return a.analyticsStore.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("portfolio: required environment variable %s is not set", key)
	}
	return v
}
