package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "salonka/internal/log"
	"salonka/internal/services"
	"salonka/internal/validate"
)

type RevenueHandler struct {
	Revenue *services.RevenueService
}

func (h *RevenueHandler) List(c *fiber.Ctx) error {
	list, err := h.Revenue.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(list)
}

func (h *RevenueHandler) Summary(c *fiber.Ctx) error {
	sum, err := h.Revenue.Summarize()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(sum)
}

func (h *RevenueHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad transaction id"})
	}
	if err := h.Revenue.Delete(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Audit(c, "revenue.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"ok": true})
}

type payPayload struct {
	ClientID   string  `json:"clientId"`
	ClientName string  `json:"clientName"`
	Amount     float64 `json:"amount"`
	Method     string  `json:"method"`
	Items      string  `json:"items"`
}

// PayVisit records a payment for a visit.
func (h *RevenueHandler) PayVisit(c *fiber.Ctx) error {
	visitID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad visit id"})
	}
	var pl payPayload
	if err := c.BodyParser(&pl); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad payload"})
	}
	method, ok := validate.Method(pl.Method)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "neznámá platební metoda"})
	}
	t, err := h.Revenue.PayVisit(pl.ClientID, pl.ClientName, visitID, pl.Amount, method, pl.Items)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Audit(c, "revenue.pay_visit", map[string]any{"visit": visitID, "tx": t.ID})
	return c.Status(fiber.StatusCreated).JSON(t)
}

type salePayload struct {
	Lines  []services.SaleLine `json:"lines"`
	Method string              `json:"method"`
}

// CounterSale sells retail goods at the till: sale movements plus one
// payment record with no visit.
func (h *RevenueHandler) CounterSale(c *fiber.Ctx) error {
	var pl salePayload
	if err := c.BodyParser(&pl); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad payload"})
	}
	method, ok := validate.Method(pl.Method)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "neznámá platební metoda"})
	}
	t, err := h.Revenue.CounterSale(pl.Lines, method)
	switch {
	case errors.Is(err, services.ErrEmptySale), errors.Is(err, services.ErrZeroAmount):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Audit(c, "revenue.counter_sale", map[string]any{"tx": t.ID, "amount": t.Amount})
	return c.Status(fiber.StatusCreated).JSON(t)
}
