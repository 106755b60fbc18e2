package web

import (
	"github.com/beneficios/backoffice/session"
	"github.com/gofiber/fiber/v3"
	fiberextractors "github.com/gofiber/fiber/v3/extractors"
)

// DashboardHandler serves the protected shell endpoints behind the
// navigation gate. The guard has already vetted the token by the time these
// run; the handler only re-reads it for identity.
type DashboardHandler struct {
	validator *session.Validator
}

func NewDashboardHandler(validator *session.Validator) *DashboardHandler {
	return &DashboardHandler{validator: validator}
}

func (h *DashboardHandler) Handle(r fiber.Router) {
	r.Get("/dashboard/me", h.Me)
}

func (h *DashboardHandler) Me(c fiber.Ctx) error {
	tokenValue, err := fiberextractors.FromCookie(session.CookieName).Extract(c)
	if err != nil || tokenValue == "" {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	verdict := h.validator.Validate(tokenValue)
	if !verdict.Valid || verdict.Expired {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	// Tokens without an expiry have no countdown; leaving the field out keeps
	// "no deadline" distinct from "expiring this instant".
	response := fiber.Map{"user": verdict.Identity}
	if verdict.HasRemaining {
		response["remainingSeconds"] = verdict.RemainingSeconds
	}
	return c.JSON(response)
}
