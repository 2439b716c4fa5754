package portfolio

// Config holds all configuration for the portfolio server.
type Config struct {
	Name        string // Site name for the feed and sitemap (default "Portfolio")
	URL         string // Canonical URL (default "http://localhost:5000")
	Description string // Site description for the RSS channel
	Env         string // "development" or "production" (default "development")
	Addr        string // Listen address (default ":5000")

	BlogsDir string // Directory holding one <slug>.json per post (default "data/blogs")

	GeminiAPIKey string // Required: credential for the generative-language API
	GeminiModel  string // Model name (default "gemini-2.0-flash")

	SMTPHost     string // SMTP relay host (default "smtp.gmail.com")
	SMTPPort     string // SMTP relay port (default "587")
	SMTPUser     string // Required: SMTP account, also the From address
	SMTPPassword string // Required: SMTP app password
	ContactTo    string // Contact form recipient (default SMTPUser)

	AnalyticsEnabled      bool   // Enable page-view analytics (default true via cmd)
	AnalyticsDatabasePath string // Analytics SQLite path (default "data/analytics.db")
}

func (c *Config) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:5000"
	}
	if c.Env == "" {
		c.Env = "development"
	}
	if c.Addr == "" {
		c.Addr = ":5000"
	}
	if c.BlogsDir == "" {
		c.BlogsDir = "data/blogs"
	}
	if c.GeminiModel == "" {
		c.GeminiModel = "gemini-2.0-flash"
	}
	if c.SMTPHost == "" {
		c.SMTPHost = "smtp.gmail.com"
	}
	if c.SMTPPort == "" {
		c.SMTPPort = "587"
	}
	if c.ContactTo == "" {
		c.ContactTo = c.SMTPUser
	}
	if c.AnalyticsDatabasePath == "" {
		c.AnalyticsDatabasePath = "data/analytics.db"
	}
}

// Production reports whether the deployment runs in production mode.
// Production serves the built client and disables the authoring endpoints.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are set up.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory holding the built client (default "client/build").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
