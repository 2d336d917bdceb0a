package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) CreatePayment(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input, err := parsePaymentInput(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	mutation, err := handler.paymentService.CreatePayment(c.Context(), user.ID, input)
	if err != nil {
		return respondPaymentError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(mutationJSON(mutation))
}

func (handler *Handler) UpdatePayment(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input, err := parsePaymentInput(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	mutation, err := handler.paymentService.UpdatePayment(c.Context(), user.ID, c.Params("id"), input)
	if err != nil {
		return respondPaymentError(c, err)
	}
	return c.JSON(mutationJSON(mutation))
}

func (handler *Handler) DeletePayment(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	mutation, err := handler.paymentService.DeletePayment(c.Context(), user.ID, c.Params("id"))
	if err != nil {
		return respondPaymentError(c, err)
	}

	response := fiber.Map{"ok": true}
	if mutation.SyncWarning != nil {
		response["warning"] = mutation.SyncWarning.Error()
	}
	return c.JSON(response)
}

func (handler *Handler) MarkPaymentPaid(c *fiber.Ctx) error {
	return handler.setPaymentPaid(c, true)
}

func (handler *Handler) MarkPaymentUnpaid(c *fiber.Ctx) error {
	return handler.setPaymentPaid(c, false)
}

func (handler *Handler) setPaymentPaid(c *fiber.Ctx, paid bool) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	mutation, err := handler.paymentService.SetPaid(c.Context(), user.ID, c.Params("id"), paid)
	if err != nil {
		return respondPaymentError(c, err)
	}
	return c.JSON(mutationJSON(mutation))
}
