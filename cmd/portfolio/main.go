package main

import (
	"log"
	"strings"

	"github.com/joho/godotenv"

	"github.com/anubhav-qt/portfolio"
)

func main() {
	_ = godotenv.Load()

	cfg := portfolio.Config{
		Name:        portfolio.EnvOr("SITE_NAME", "Portfolio"),
		URL:         strings.TrimSuffix(portfolio.EnvOr("SITE_URL", "http://localhost:5000"), "/"),
		Description: portfolio.EnvOr("SITE_DESCRIPTION", ""),
		Env:         strings.ToLower(portfolio.EnvOr("APP_ENV", "development")),
		Addr:        ":" + portfolio.EnvOr("PORT", "5000"),
		BlogsDir:    portfolio.EnvOr("BLOGS_DIR", "data/blogs"),

		GeminiAPIKey: portfolio.MustEnv("GEMINI_API_KEY"),
		GeminiModel:  portfolio.EnvOr("GEMINI_MODEL", "gemini-2.0-flash"),

		SMTPHost:     portfolio.EnvOr("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     portfolio.EnvOr("SMTP_PORT", "587"),
		SMTPUser:     portfolio.MustEnv("SMTP_USER"),
		SMTPPassword: portfolio.MustEnv("SMTP_PASSWORD"),
		ContactTo:    portfolio.EnvOr("CONTACT_TO", ""),

		AnalyticsEnabled:      !strings.EqualFold(portfolio.EnvOr("ANALYTICS_ENABLED", "true"), "false"),
		AnalyticsDatabasePath: portfolio.EnvOr("ANALYTICS_DATABASE_PATH", "data/analytics.db"),
	}

	app := portfolio.New(cfg,
		portfolio.WithStaticDir(portfolio.EnvOr("STATIC_DIR", "client/build")),
	)
	defer app.Close()

	log.Printf("portfolio server starting on %s (%s mode)", cfg.Addr, cfg.Env)
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
