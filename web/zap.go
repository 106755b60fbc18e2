package web

import (
	fiberzap "github.com/gofiber/contrib/v3/zap"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ZapMiddleware logs every request through the shared zap logger. Health
// probes are skipped, they would drown out the traffic that matters.
type ZapMiddleware struct {
	logger *zap.Logger
}

func NewZapMiddleware(logger *zap.Logger) *ZapMiddleware {
	return &ZapMiddleware{
		logger: logger,
	}
}

func (h *ZapMiddleware) Handle(r fiber.Router) {
	r.Use(fiberzap.New(fiberzap.Config{
		Logger: h.logger,
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
}
