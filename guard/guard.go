// Package guard gates navigation to protected areas. It runs once per
// request, shares no memory with the in-page session state, and re-derives
// token validity from the cookie mirror alone using the same decode rules as
// the session package. Presence of the cookie is not enough: malformed,
// expired, and revoked tokens are all turned away here.
package guard

import (
	"strings"

	"github.com/beneficios/backoffice/session"
	"github.com/gofiber/fiber/v3"
	fiberextractors "github.com/gofiber/fiber/v3/extractors"
	"go.uber.org/zap"
)

type Config struct {
	Prefixes   []string `mapstructure:"prefixes"`
	CookieName string   `mapstructure:"cookie_name"`
	LoginPath  string   `mapstructure:"login_path"`
}

func (c Config) withDefaults() Config {
	if len(c.Prefixes) == 0 {
		c.Prefixes = []string{"/dashboard"}
	}
	if c.CookieName == "" {
		c.CookieName = session.CookieName
	}
	if c.LoginPath == "" {
		c.LoginPath = "/"
	}
	return c
}

func New(cfg Config, validator *session.Validator, revoked session.RevocationStore, logger *zap.Logger) fiber.Handler {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	extractor := fiberextractors.FromCookie(cfg.CookieName)
	expiredTarget := cfg.LoginPath + "?" + session.ExpiredQueryMarker

	return func(c fiber.Ctx) error {
		if !protected(cfg.Prefixes, c.Path()) {
			return c.Next()
		}

		tokenValue, err := extractor.Extract(c)
		if err != nil || tokenValue == "" {
			return c.Redirect().To(cfg.LoginPath)
		}

		verdict := validator.Validate(tokenValue)
		if !verdict.Valid {
			logger.Debug("rejected malformed token cookie", zap.String("path", c.Path()))
			return c.Redirect().To(cfg.LoginPath)
		}
		if verdict.Expired {
			return c.Redirect().To(expiredTarget)
		}

		if revoked != nil {
			isRevoked, err := session.TokenRevoked(c.Context(), revoked, tokenValue)
			if err != nil {
				// The revocation backend being down must not grant access.
				logger.Warn("revocation check failed", zap.Error(err))
				return c.Redirect().To(cfg.LoginPath)
			}
			if isRevoked {
				return c.Redirect().To(cfg.LoginPath)
			}
		}

		return c.Next()
	}
}

func protected(prefixes []string, path string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
