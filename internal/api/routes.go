package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Get("/setup-status", handler.SetupStatus)
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/guest", handler.GuestSession)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)

	payments := api.Group("/payments", handler.AuthRequired)
	payments.Get("", handler.ListPayments)
	payments.Post("", handler.WriteAccessRequired, handler.CreatePayment)
	payments.Get("/:id", handler.GetPayment)
	payments.Put("/:id", handler.WriteAccessRequired, handler.UpdatePayment)
	payments.Delete("/:id", handler.WriteAccessRequired, handler.DeletePayment)
	payments.Post("/:id/paid", handler.WriteAccessRequired, handler.MarkPaymentPaid)
	payments.Post("/:id/unpaid", handler.WriteAccessRequired, handler.MarkPaymentUnpaid)
	payments.Get("/:id/reminders", handler.ListPaymentReminders)
	payments.Get("/:id/occurrences", handler.PaymentOccurrences)

	api.Get("/categories", handler.AuthRequired, handler.Categories)
	api.Get("/summary", handler.AuthRequired, handler.Summary)
}
