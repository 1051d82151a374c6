package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/colearnhub/colearnhub/internal/config"
)

// Service is the interface of an api handler: it registers its routes on router.
type Service[T any] interface {
	Init(router fiber.Router, cfg *config.Config, svc T)
}
