package web

import (
	"context"
	"fmt"
	"time"

	"github.com/beneficios/backoffice/meta"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Config struct {
	Name string `mapstructure:"name"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (c Config) withDefaults() Config {
	if c.Port == 0 {
		c.Port = 8080
	}
	return c
}

func NewFiberApp(config Config) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      buildAppName(config.Name),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	})
}

func buildAppName(name string) string {
	if name == "" {
		name = meta.Name
	}
	return fmt.Sprintf("%s (%s %s %s)", name, meta.Version, meta.Commit, meta.BuildDate)
}

func RegisterFiberApp(lc fx.Lifecycle, app *fiber.App, logger *zap.Logger, config Config) {
	config = config.withDefaults()
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				err := app.Listen(fmt.Sprintf("%s:%d", config.Host, config.Port))
				if err != nil {
					logger.Error("failed to start fiber app", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}
