// middleware/scorer.go
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const scorerLocalKey = "scorer_id"

// ScorerContext copies the scorer identity header into the request locals
// so recorded points and events can be attributed. The header is optional.
func ScorerContext(header string) fiber.Handler {
	if header == "" {
		header = "X-Scorer-ID"
	}
	return func(c *fiber.Ctx) error {
		scorerID := strings.TrimSpace(c.Get(header))
		if len(scorerID) > 64 {
			log.Printf("⚠️ [SCORER_CTX] %s header too long (%d bytes) on %s, ignoring", header, len(scorerID), c.Path())
			scorerID = ""
		}
		// Header values are only valid for the lifetime of the request.
		c.Locals(scorerLocalKey, strings.Clone(scorerID))
		return c.Next()
	}
}

// ScorerID returns the scorer attached by ScorerContext, or "".
func ScorerID(c *fiber.Ctx) string {
	id, _ := c.Locals(scorerLocalKey).(string)
	return id
}
