package middleware

import (
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS admits the exact origins listed in CORS_ORIGINS. A "*" entry is only
// honoured in development; other environments drop it and log a warning.
func CORS(cfg *config.Config) fiber.Handler {
	allowed := allowedOrigins(cfg)
	return cors.New(cors.Config{
		AllowOriginsFunc: allowed.match,
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowMethods:     "GET, POST, PUT, DELETE, PATCH, OPTIONS",
		ExposeHeaders:    "X-Request-ID",
		AllowCredentials: false,
		MaxAge:           600,
	})
}

type originSet struct {
	any   bool
	exact map[string]bool
}

func allowedOrigins(cfg *config.Config) originSet {
	set := originSet{exact: make(map[string]bool)}
	for _, origin := range parseCSV(cfg.CORSOrigins) {
		if origin == "*" {
			if cfg.AppEnv == "development" {
				set.any = true
			} else {
				slog.Warn("ignoring wildcard CORS origin outside development", "env", cfg.AppEnv)
			}
			continue
		}
		set.exact[normalizeOrigin(origin)] = true
	}
	return set
}

func (s originSet) match(origin string) bool {
	return s.any || s.exact[normalizeOrigin(origin)]
}

func normalizeOrigin(origin string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(origin), "/"))
}
