package auth

import (
	"context"
	"time"

	"github.com/beneficios/backoffice/session"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	fiberextractors "github.com/gofiber/fiber/v3/extractors"
	"go.uber.org/zap"
)

// LoginService is what the handler needs from the remote boundary; *Client
// satisfies it, tests substitute their own.
type LoginService interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
}

// Handler owns the /auth routes. It is the one place the session cookie is
// written with HTTP-only and Secure attributes; the in-page mirror write
// cannot set those, so this boundary is where they are enforced.
type Handler struct {
	login    LoginService
	revoked  session.RevocationStore
	codec    session.Codec
	validate *validator.Validate
	logger   *zap.Logger
	secure   bool
	now      func() time.Time
}

func NewHandler(login LoginService, revoked session.RevocationStore, logger *zap.Logger, cfg Config) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		login:    login,
		revoked:  revoked,
		validate: validator.New(),
		logger:   logger,
		secure:   cfg.SecureCookies,
		now:      time.Now,
	}
}

func (h *Handler) Register(r fiber.Router) {
	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)
}

type loginRequest struct {
	Email    string `json:"correo" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":      false,
			"message": "cuerpo de la petición inválido",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":      false,
			"message": "correo y password son obligatorios",
		})
	}

	result, err := h.login.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("login upstream call failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"ok":      false,
			"message": "servicio de autenticación no disponible",
		})
	}
	if !result.OK {
		h.logger.Info("login rejected", zap.String("correo", req.Email))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"ok":      false,
			"message": result.Message,
		})
	}

	h.setSessionCookie(c, result.Token)
	return c.JSON(fiber.Map{
		"ok":    true,
		"token": result.Token,
		"user":  result.Identity,
	})
}

func (h *Handler) Logout(c fiber.Ctx) error {
	tokenValue, err := fiberextractors.FromCookie(session.CookieName).Extract(c)
	if err == nil && tokenValue != "" && h.revoked != nil {
		if err := session.RevokeToken(c.Context(), h.revoked, tokenValue); err != nil {
			// Not fatal: the cookie is expired below either way, the token
			// just keeps its natural validity window upstream.
			h.logger.Warn("token revocation failed on logout", zap.Error(err))
		}
	}

	h.clearSessionCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) setSessionCookie(c fiber.Ctx, tokenValue string) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    tokenValue,
		Path:     "/",
		MaxAge:   h.cookieMaxAge(tokenValue),
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(c fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// cookieMaxAge matches the cookie lifetime to the token's real remaining
// validity, same fallback rule as the in-page mirror.
func (h *Handler) cookieMaxAge(tokenValue string) int {
	claims, err := h.codec.Decode(tokenValue)
	if err != nil {
		return session.DefaultCookieMaxAge
	}
	remaining, ok := claims.RemainingSeconds(h.now())
	if !ok || remaining <= 0 {
		return session.DefaultCookieMaxAge
	}
	return int(remaining)
}
