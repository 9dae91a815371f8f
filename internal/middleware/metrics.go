package middleware

import (
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/metrics"
	"github.com/gofiber/fiber/v2"
)

// Metrics records request count and latency per route pattern.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		m.IncrementInFlight()
		defer m.DecrementInFlight()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if route == "" || route == "/" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(c.Method(), route, strconv.Itoa(status), time.Since(start))
		return err
	}
}
