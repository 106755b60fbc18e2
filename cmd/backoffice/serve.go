package main

import (
	"github.com/beneficios/backoffice/auth"
	"github.com/beneficios/backoffice/caching/rd"
	"github.com/beneficios/backoffice/config"
	"github.com/beneficios/backoffice/guard"
	"github.com/beneficios/backoffice/log"
	"github.com/beneficios/backoffice/session"
	"github.com/beneficios/backoffice/web"
	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the back-office server",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			app := fx.New(
				fx.Supply(cfg.Log, cfg.Web, cfg.Session, cfg.Guard, cfg.Auth, cfg.Redis),
				fx.Provide(
					log.NewZapLogger,
					web.NewFiberApp,
					web.NewZapMiddleware,
					web.NewHealthHandler,
					web.NewDashboardHandler,
					session.NewValidator,
					rd.NewClient,
					rd.NewSessionRevocationCache,
					newRevocationStore,
					auth.NewClient,
					newAuthHandler,
				),
				fx.WithLogger(log.NewEventLogger),
				fx.Invoke(
					registerRoutes,
					web.RegisterFiberApp,
					watchConfig(configPath),
				),
			)
			app.Run()
			return nil
		},
	}
}

// watchConfig applies config file rewrites to the running process. The log
// level is the one knob that takes effect live; everything else needs a
// restart.
func watchConfig(path string) func(*zap.Logger, zap.AtomicLevel) error {
	return func(logger *zap.Logger, level zap.AtomicLevel) error {
		return config.Watch(path, logger, func(next config.Config) {
			level.SetLevel(log.ParseLevel(next.Log.Level))
		})
	}
}

func newRevocationStore(cache session.RevocationCache) session.RevocationStore {
	if cache == nil {
		return nil
	}
	return session.NewRevocationStore(cache, "")
}

func newAuthHandler(client *auth.Client, revoked session.RevocationStore, logger *zap.Logger, cfg auth.Config) *auth.Handler {
	return auth.NewHandler(client, revoked, logger, cfg)
}

func registerRoutes(
	app *fiber.App,
	zapMiddleware *web.ZapMiddleware,
	health *web.HealthHandler,
	dashboard *web.DashboardHandler,
	authHandler *auth.Handler,
	guardCfg guard.Config,
	validator *session.Validator,
	revoked session.RevocationStore,
	logger *zap.Logger,
) {
	zapMiddleware.Handle(app)
	health.Handle(app)
	authHandler.Register(app)
	app.Use(guard.New(guardCfg, validator, revoked, logger))
	dashboard.Handle(app)
}
