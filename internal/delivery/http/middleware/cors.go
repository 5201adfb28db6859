package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS - middleware для настройки Cross-Origin Resource Sharing.
// origins - список через запятую.
func CORS(origins string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Content-Type,Accept,Accept-Language,Authorization,X-Nostr-Pubkey,X-Request-ID",
		ExposeHeaders: "X-Request-ID",
		// fiber запрещает credentials вместе с "*"
		AllowCredentials: !strings.Contains(origins, "*"),
	})
}
