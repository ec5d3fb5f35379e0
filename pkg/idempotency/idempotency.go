package idempotency

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const (
	Header = "Idempotency-Key"
	// MaxLength matches the orders.idempotency_key column.
	MaxLength = 100
)

// Key returns the trimmed Idempotency-Key header of the request, or fallback
// when the header is absent. The header value is copied out of fiber's buffer.
func Key(c *fiber.Ctx, fallback string) string {
	if k := strings.TrimSpace(c.Get(Header)); k != "" {
		return utils.CopyString(k)
	}
	return strings.TrimSpace(fallback)
}
