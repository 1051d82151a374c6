package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/colearnhub/colearnhub/internal/gateway"
	"github.com/colearnhub/colearnhub/internal/membership"
	"github.com/colearnhub/colearnhub/internal/study"
)

// Response is the envelope of every api response. Code is 0 on success and
// the http status otherwise.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Success sends 200 with data.
func Success(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(Response{Code: 0, Message: MsgOK, Data: data})
}

// Created sends 201 with data.
func Created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Response{Code: 0, Message: MsgCreated, Data: data})
}

// BadRequest sends 400 with msg.
func BadRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(Response{Code: fiber.StatusBadRequest, Message: msg})
}

// Error sends the status matching err with its message.
func Error(c *fiber.Ctx, err error) error {
	status := StatusFor(err)

	return c.Status(status).JSON(Response{Code: status, Message: err.Error()})
}

// Degraded sends the status matching err together with fallback data, for
// read endpoints that answer with an empty result when the store fails.
func Degraded(c *fiber.Ctx, err error, fallback any) error {
	status := StatusFor(err)

	return c.Status(status).JSON(Response{Code: status, Message: err.Error(), Data: fallback})
}

// StatusFor maps domain and gateway errors to http status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, membership.ErrInvalidGroup),
		errors.Is(err, membership.ErrInvalidArgument),
		errors.Is(err, study.ErrInvalidScore),
		errors.Is(err, study.ErrInvalidArgument):
		return fiber.StatusBadRequest
	case errors.Is(err, membership.ErrGroupNotFound):
		return fiber.StatusNotFound
	}

	switch gateway.KindOf(err) {
	case gateway.ErrNotFound:
		return fiber.StatusNotFound
	case gateway.ErrConflict:
		return fiber.StatusConflict
	case gateway.ErrPermissionDenied:
		return fiber.StatusForbidden
	case gateway.ErrInvalidRequest:
		return fiber.StatusBadRequest
	case gateway.ErrTransient:
		return fiber.StatusServiceUnavailable
	}

	if errors.Is(err, membership.ErrPersistence) || errors.Is(err, study.ErrPersistence) {
		return fiber.StatusBadGateway
	}

	return fiber.StatusInternalServerError
}
