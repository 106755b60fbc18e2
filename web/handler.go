package web

import "github.com/gofiber/fiber/v3"

// Handler mounts a group of routes or middleware on the router.
type Handler interface {
	Handle(r fiber.Router)
}
