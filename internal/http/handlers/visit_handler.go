package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"salonka/internal/domain"
	applog "salonka/internal/log"
	"salonka/internal/repos"
	"salonka/internal/services"
	"salonka/internal/validate"
)

type VisitHandler struct {
	Visits   *services.VisitService
	Products *repos.ProductRepo
	Revenue  *services.RevenueService
}

type savePayload struct {
	ClientID    string               `json:"clientId"`
	Date        string               `json:"date"`
	Blocks      []domain.RecipeBlock `json:"blocks"`
	GlobalNotes string               `json:"globalNotes"`
}

// Save commits a composed visit: validation, flatten, recipe text, stock
// deductions and the visit row in one transaction.
func (h *VisitHandler) Save(c *fiber.Ctx) error {
	var body savePayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad payload"})
	}
	if _, ok := validate.ID(body.ClientID); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad clientId"})
	}
	date, ok := validate.Date(body.Date)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad date"})
	}

	v, err := h.Visits.Save(body.ClientID, date, body.Blocks, body.GlobalNotes)
	switch {
	case errors.Is(err, services.ErrNoBlocks):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Návštěva musí obsahovat alespoň jeden úkon (např. Barvení nebo Střih)."})
	case errors.Is(err, services.ErrEmptyBlock):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Máte tam prázdný úkon. Vyplňte název úkonu nebo přidejte produkty."})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Audit(c, "visit.save", map[string]any{"id": v.ID, "client": v.ClientID})
	return c.Status(fiber.StatusCreated).JSON(v)
}

// Delete removes a visit and returns its consumption to stock.
func (h *VisitHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad visit id"})
	}
	err := h.Visits.Delete(id)
	if errors.Is(err, sql.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "visit not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Audit(c, "visit.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"ok": true})
}

// Duplicate returns a fresh block list usable as the starting state of a new
// visit for the same recipe.
func (h *VisitHandler) Duplicate(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad visit id"})
	}
	blocks, globalNotes, err := h.Visits.Duplicate(id)
	if errors.Is(err, sql.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "visit not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"blocks": blocks, "globalNotes": globalNotes})
}

type visitView struct {
	domain.Visit
	Paid bool `json:"paid"`
}

// ByClient lists a client's visits, newest first, with their payment state.
func (h *VisitHandler) ByClient(c *fiber.Ctx) error {
	clientID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad client id"})
	}
	visits, err := h.Visits.ListByClient(clientID, c.Query("q"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	out := make([]visitView, 0, len(visits))
	for _, v := range visits {
		paid, err := h.Revenue.IsPaid(v.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		out = append(out, visitView{Visit: v, Paid: paid})
	}
	return c.JSON(out)
}

type composePayload struct {
	Blocks    []domain.RecipeBlock `json:"blocks"`
	BlockID   string               `json:"blockId"`
	ProductID string               `json:"productId"`
	Amount    float64              `json:"amount"`
}

// VirtualStock previews remaining availability of a product against an
// uncommitted block list.
func (h *VisitHandler) VirtualStock(c *fiber.Ctx) error {
	var body composePayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad payload"})
	}
	products, err := h.Products.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(services.CalcVirtualStock(products, body.Blocks, body.ProductID))
}

// AddItem allocates a product into a block of the submitted composition and
// returns the updated blocks. Over-allocation is refused with 422.
func (h *VisitHandler) AddItem(c *fiber.Ctx) error {
	return h.composeEdit(c, false)
}

// UpdateItem changes an existing allocation, giving the item's own amount
// back before the availability check.
func (h *VisitHandler) UpdateItem(c *fiber.Ctx) error {
	return h.composeEdit(c, true)
}

func (h *VisitHandler) composeEdit(c *fiber.Ctx, update bool) error {
	var body composePayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad payload"})
	}
	products, err := h.Products.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	comp := services.NewComposer(products, body.Blocks)
	var warning string
	if update {
		err = comp.UpdateItemAmount(body.BlockID, body.ProductID, body.Amount)
	} else {
		warning, err = comp.AddItem(body.BlockID, body.ProductID, body.Amount)
	}
	switch {
	case errors.Is(err, services.ErrInsufficientStock):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrBlockNotFound), errors.Is(err, services.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	resp := fiber.Map{"blocks": comp.Blocks}
	if warning != "" {
		resp["warning"] = warning
	}
	return c.JSON(resp)
}
